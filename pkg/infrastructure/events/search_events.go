package events

import (
	"github.com/vsinha/boxopt/pkg/domain/entities"
)

const (
	SearchStartedEvent      = "search.started"
	SearchHistoryResetEvent = "search.history_reset"
	SolutionAppliedEvent    = "search.solution_applied"
	SearchFailedEvent       = "search.failed"
)

type SearchStarted struct {
	AdjustableKeys []entities.LineKey `json:"adjustable_keys"`
	TargetBoxes    int                `json:"target_boxes"`
	SeenBefore     int                `json:"seen_before"`
}

type SearchHistoryReset struct {
	Dropped int `json:"dropped"`
}

type SolutionApplied struct {
	SolutionID   string                `json:"solution_id"`
	Distribution entities.Distribution `json:"distribution"`
	Metrics      entities.Metrics      `json:"metrics"`
	Archived     int                   `json:"archived"`
	Enumerated   int                   `json:"enumerated"`
}

type SearchFailed struct {
	Reason string `json:"reason"`
}

func NewSearchStartedEvent(sessionID string, keys []entities.LineKey, targetBoxes, seenBefore int) Event {
	return NewEvent(SearchStartedEvent, sessionID, SearchStarted{
		AdjustableKeys: keys,
		TargetBoxes:    targetBoxes,
		SeenBefore:     seenBefore,
	})
}

func NewSearchHistoryResetEvent(sessionID string, dropped int) Event {
	return NewEvent(SearchHistoryResetEvent, sessionID, SearchHistoryReset{Dropped: dropped})
}

func NewSolutionAppliedEvent(sessionID string, solution *entities.Solution, archived, enumerated int) Event {
	return NewEvent(SolutionAppliedEvent, sessionID, SolutionApplied{
		SolutionID:   solution.ID,
		Distribution: solution.Distribution,
		Metrics:      solution.Metrics,
		Archived:     archived,
		Enumerated:   enumerated,
	})
}

func NewSearchFailedEvent(sessionID string, err error) Event {
	return NewEvent(SearchFailedEvent, sessionID, SearchFailed{Reason: err.Error()})
}
