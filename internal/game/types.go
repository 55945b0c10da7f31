package game

import (
	"time"

	"github.com/mkirsch/shipgraph/internal/graph"
)

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusWon        Status = "Won"
	StatusLost       Status = "Lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Outcome classifies a single guess.
type Outcome string

const (
	// OutcomeRevealed means the guess added a person to the revealed
	// subgraph. Costs an attempt.
	OutcomeRevealed Outcome = "Revealed"
	// OutcomeNotFound means the name does not exist anywhere in the
	// network. Costs an attempt.
	OutcomeNotFound Outcome = "NotFound"
	// OutcomeAlreadyRevealed means the person is already known. Free.
	OutcomeAlreadyRevealed Outcome = "AlreadyRevealed"
	// OutcomeNoLinkToRevealed means the person exists but has no edge
	// into the revealed region. Costs an attempt.
	OutcomeNoLinkToRevealed Outcome = "NoLinkToRevealed"
)

// Settings configures one game session.
type Settings struct {
	MaxAttempts int `json:"maxAttempts"`
	MinPathLen  int `json:"minPathLen"`
	MaxPathLen  int `json:"maxPathLen"`
	MaxSamples  int `json:"maxSamples"`
}

const (
	DefaultMaxAttempts = 10
	DefaultMinPathLen  = 3
	DefaultMaxPathLen  = 6
	DefaultMaxSamples  = 100
)

func (s Settings) withDefaults() Settings {
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = DefaultMaxAttempts
	}
	if s.MinPathLen <= 0 {
		s.MinPathLen = DefaultMinPathLen
	}
	if s.MaxPathLen <= 0 {
		s.MaxPathLen = DefaultMaxPathLen
	}
	if s.MaxSamples <= 0 {
		s.MaxSamples = DefaultMaxSamples
	}
	return s
}

// GuessResult is everything a single guess produced; no outcome is
// ever swallowed.
type GuessResult struct {
	Outcome      Outcome      `json:"outcome"`
	Person       string       `json:"person,omitempty"` // canonical casing when known
	NewEdges     []graph.Edge `json:"newEdges,omitempty"`
	Attempts     int          `json:"attempts"`
	AttemptsLeft int          `json:"attemptsLeft"`
	Status       Status       `json:"status"`
	Score        int          `json:"score,omitempty"` // set on win
}

// GuessRecord is one entry in the session's guess history.
type GuessRecord struct {
	Name    string    `json:"name"`
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

// Snapshot is a read-only copy of session state for transports.
type Snapshot struct {
	Code        string       `json:"sessionCode"`
	Status      Status       `json:"status"`
	Start       string       `json:"start"`
	Target      string       `json:"target"`
	Revealed    []string     `json:"revealedPeople"`
	Edges       []graph.Edge `json:"revealedConnections"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"maxAttempts"`
	ElapsedMs   int64        `json:"elapsedMs"`
	Score       int          `json:"score"`
}
