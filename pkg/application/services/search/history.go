package search

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vsinha/boxopt/pkg/domain/entities"
)

// History is the session-scoped record of distributions already produced by earlier
// searches. It is passed into Search and a new History is returned; a History value is
// never modified after creation, so callers decide when to keep or drop one.
type History struct {
	sessionID   string
	fingerprint string
	seen        map[string]struct{}
	solutions   []*entities.Solution
}

// NewHistory starts an empty history for a new session
func NewHistory() History {
	return History{sessionID: uuid.NewString()}
}

// SessionID identifies the session this history belongs to
func (h History) SessionID() string {
	return h.sessionID
}

// Seen reports whether a distribution was produced by an earlier search
func (h History) Seen(d entities.Distribution) bool {
	_, ok := h.seen[d.Key()]
	return ok
}

// Len returns the number of distributions recorded
func (h History) Len() int {
	return len(h.seen)
}

// Solutions returns every solution produced in this session, oldest search first
func (h History) Solutions() []*entities.Solution {
	solutions := make([]*entities.Solution, len(h.solutions))
	copy(solutions, h.solutions)
	return solutions
}

// Reset returns an empty history for the same session
func (h History) Reset() History {
	return History{sessionID: h.sessionID}
}

// scopedTo returns the history to use for a search with the given parameter fingerprint.
// A history recorded under different adjustable lines or ranges would suppress valid
// candidates, so it is replaced by an empty one.
func (h History) scopedTo(fingerprint string) (History, bool) {
	if h.sessionID == "" {
		h.sessionID = uuid.NewString()
	}
	if h.fingerprint == "" || h.fingerprint == fingerprint {
		h.fingerprint = fingerprint
		return h, false
	}
	reset := h.Reset()
	reset.fingerprint = fingerprint
	return reset, len(h.seen) > 0
}

// merge returns a new history that also records the given solutions
func (h History) merge(solutions []*entities.Solution) History {
	merged := History{
		sessionID:   h.sessionID,
		fingerprint: h.fingerprint,
		seen:        make(map[string]struct{}, len(h.seen)+len(solutions)),
		solutions:   make([]*entities.Solution, 0, len(h.solutions)+len(solutions)),
	}
	for key := range h.seen {
		merged.seen[key] = struct{}{}
	}
	merged.solutions = append(merged.solutions, h.solutions...)
	for _, solution := range solutions {
		merged.seen[solution.Distribution.Key()] = struct{}{}
		merged.solutions = append(merged.solutions, solution)
	}
	return merged
}

// parameterFingerprint identifies the adjustable lines and ranges a history was built for.
// Ranges of lines that are not adjustable do not take part.
func parameterFingerprint(
	keys []entities.LineKey,
	ranges map[entities.LineKey]entities.AdjustmentRange,
) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s%s", key, ranges[key])
	}
	return strings.Join(parts, "|")
}
