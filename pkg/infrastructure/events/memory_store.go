package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps every stream in memory. Subscribers are notified
// asynchronously; Flush waits for outstanding notifications.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	pending     sync.WaitGroup
	logger      *zap.Logger
}

// NewInMemoryEventStore creates an empty store. A nil logger discards handler errors.
func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)

	handlers := make([]EventHandler, 0, len(s.subscribers[versioned.EventType]))
	for _, h := range s.subscribers[versioned.EventType] {
		if h.CanHandle(versioned.EventType) {
			handlers = append(handlers, h)
		}
	}
	s.pending.Add(len(handlers))
	s.mutex.Unlock()

	for _, handler := range handlers {
		go s.notify(handler, versioned)
	}
	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}

	out := make([]Event, len(events)-fromVersion+1)
	copy(out, events[fromVersion-1:])
	return out, nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-fromPosition)
	copy(out, s.allEvents[fromPosition:])
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}

// Flush blocks until every notification started so far has been handled
func (s *InMemoryEventStore) Flush() {
	s.pending.Wait()
}

func (s *InMemoryEventStore) notify(handler EventHandler, event Event) {
	defer s.pending.Done()
	if err := handler.Handle(event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", event.Type()),
			zap.String("stream_id", event.StreamID()),
			zap.Error(err))
	}
}
