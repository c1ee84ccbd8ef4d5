package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/infrastructure/events"
)

// EventDrivenSearcher runs searches and records their lifecycle on the session's stream
type EventDrivenSearcher struct {
	searcher   *Searcher
	eventStore events.EventStore
	logger     *zap.Logger
}

func NewEventDrivenSearcher(searcher *Searcher, eventStore events.EventStore, logger *zap.Logger) *EventDrivenSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDrivenSearcher{
		searcher:   searcher,
		eventStore: eventStore,
		logger:     logger,
	}
}

func (s *EventDrivenSearcher) Search(ctx context.Context, req Request, history History) (*Result, error) {
	if history.SessionID() == "" {
		history = NewHistory()
	}
	sessionID := history.SessionID()

	target := 0
	if req.Shipment != nil {
		target = req.Shipment.TargetBoxes
	}
	s.publish(events.NewSearchStartedEvent(sessionID, req.AdjustableKeys, target, history.Len()))

	result, err := s.searcher.Search(ctx, req, history)
	if err != nil {
		s.publish(events.NewSearchFailedEvent(sessionID, err))
		return nil, err
	}

	if result.HistoryReset {
		s.publish(events.NewSearchHistoryResetEvent(sessionID, history.Len()))
	}
	s.publish(events.NewSolutionAppliedEvent(
		sessionID,
		result.Best,
		len(result.Solutions),
		result.Stats.Enumerated,
	))

	return result, nil
}

func (s *EventDrivenSearcher) publish(event events.Event) {
	if err := s.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Warn("failed to publish search event",
			zap.String("event_type", event.Type()),
			zap.Error(err))
	}
}
