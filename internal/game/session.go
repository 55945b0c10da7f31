package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkirsch/shipgraph/internal/graph"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotStarted      = errors.New("game not started")
	ErrGameOver        = errors.New("game already finished")
	ErrNoHint          = errors.New("no hint available")
)

// Session is one run of the guessing game: connect the start person to
// the target person by revealing bridging names. The graph snapshot it
// was created with stays fixed for the whole session.
type Session struct {
	Code        string
	PlayerToken string
	CreatedAt   time.Time
	Settings    Settings

	mu    sync.Mutex
	graph *graph.Graph
	gen   *Generator
	now   func() time.Time

	status     Status
	start      string
	target     string
	revealed   map[string]bool // canonical names
	order      []string        // reveal order, start and target first
	edges      graph.EdgeSet
	attempts   int
	startedAt  time.Time
	finishedAt time.Time
	score      int
	guesses    []GuessRecord
}

// Manager owns the current graph snapshot and all live sessions,
// keyed by short join codes.
type Manager struct {
	mu       sync.RWMutex
	graph    *graph.Graph
	sessions map[string]*Session
	active   string // most recently created session code
}

func NewManager(g *graph.Graph) *Manager {
	return &Manager{graph: g, sessions: make(map[string]*Session)}
}

// SetGraph swaps in a freshly built graph. Running sessions keep the
// snapshot they started with; new sessions get the new one.
func (m *Manager) SetGraph(g *graph.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graph = g
}

func (m *Manager) Graph() *graph.Graph {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.graph
}

// CreateSession registers a new session against the current graph
// snapshot and returns its join code and player token. The session is
// NotStarted until Start is called.
func (m *Manager) CreateSession(s Settings) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := randomCode(5)
	for m.sessions[code] != nil {
		code = randomCode(5)
	}
	sess := &Session{
		Code:        code,
		PlayerToken: uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Settings:    s.withDefaults(),
		graph:       m.graph,
		gen:         NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:         time.Now,
		status:      StatusNotStarted,
	}
	m.sessions[code] = sess
	m.active = code
	return sess, nil
}

func (m *Manager) Get(code string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.sessions[code]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Active returns the most recently created session, if any.
func (m *Manager) Active() (string, *Session) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return "", nil
	}
	return m.active, m.sessions[m.active]
}

// Start generates a puzzle and moves the session to InProgress. It is
// valid from any state and replaces prior game state wholesale.
func (s *Session) Start() (Puzzle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	puzzle, err := s.gen.Generate(s.graph, s.Settings)
	if err != nil {
		return Puzzle{}, err
	}

	s.status = StatusInProgress
	s.start = puzzle.Start
	s.target = puzzle.Target
	s.revealed = map[string]bool{puzzle.Start: true, puzzle.Target: true}
	s.order = []string{puzzle.Start, puzzle.Target}
	s.edges = graph.NewEdgeSet()
	s.attempts = 0
	s.startedAt = s.now()
	s.finishedAt = time.Time{}
	s.score = 0
	s.guesses = nil
	return puzzle, nil
}

// Guess processes one guessed name. It validates the name against the
// full graph, grows the revealed subgraph on success, and rechecks
// start/target connectivity over revealed edges only.
func (s *Session) Guess(name string) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusNotStarted:
		return GuessResult{}, ErrNotStarted
	case StatusWon, StatusLost:
		return GuessResult{}, ErrGameOver
	}

	person, known := s.graph.Resolve(name)
	if !known {
		s.attempts++
		s.record(name, OutcomeNotFound)
		s.checkLoss()
		return s.result(OutcomeNotFound, "", nil), nil
	}
	if s.revealed[person] {
		// Re-guessing a known person is a no-op, not a spent attempt.
		s.record(person, OutcomeAlreadyRevealed)
		return s.result(OutcomeAlreadyRevealed, person, nil), nil
	}

	var newEdges []graph.Edge
	for _, nb := range s.graph.Neighbors(person) {
		if s.revealed[nb] {
			newEdges = append(newEdges, graph.Edge{A: person, B: nb})
		}
	}
	if len(newEdges) == 0 {
		s.attempts++
		s.record(person, OutcomeNoLinkToRevealed)
		s.checkLoss()
		return s.result(OutcomeNoLinkToRevealed, person, nil), nil
	}

	s.revealed[person] = true
	s.order = append(s.order, person)
	for _, e := range newEdges {
		s.edges.Add(e.A, e.B)
	}
	s.attempts++
	s.record(person, OutcomeRevealed)

	if graph.Connected(s.edges, s.start, s.target) {
		s.status = StatusWon
		s.finishedAt = s.now()
		s.score = ComputeScore(s.finishedAt.Sub(s.startedAt), s.attempts, s.Settings.MaxAttempts)
	} else {
		s.checkLoss()
	}
	return s.result(OutcomeRevealed, person, newEdges), nil
}

// Hint returns a not-yet-revealed person lying on a shortest path
// between start and target in the full graph.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return "", ErrGameOver
	}
	if s.status != StatusInProgress {
		return "", ErrNotStarted
	}
	path := s.graph.ShortestPath(s.start, s.target)
	for _, person := range path {
		if !s.revealed[person] {
			return person, nil
		}
	}
	return "", ErrNoHint
}

// Forfeit ends an in-progress game as Lost.
func (s *Session) Forfeit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return ErrGameOver
	}
	if s.status != StatusInProgress {
		return ErrNotStarted
	}
	s.status = StatusLost
	s.finishedAt = s.now()
	return nil
}

// checkLoss flips the session to Lost when the guess budget is spent.
// Callers hold the lock and have already ruled out a win.
func (s *Session) checkLoss() {
	if s.attempts >= s.Settings.MaxAttempts {
		s.status = StatusLost
		s.finishedAt = s.now()
	}
}

func (s *Session) record(name string, o Outcome) {
	s.guesses = append(s.guesses, GuessRecord{Name: name, Outcome: o, At: s.now()})
}

func (s *Session) result(o Outcome, person string, newEdges []graph.Edge) GuessResult {
	return GuessResult{
		Outcome:      o,
		Person:       person,
		NewEdges:     newEdges,
		Attempts:     s.attempts,
		AttemptsLeft: s.Settings.MaxAttempts - s.attempts,
		Status:       s.status,
		Score:        s.score,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// StartTarget returns the puzzle endpoints, empty before Start.
func (s *Session) StartTarget() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start, s.target
}

// Revealed returns the revealed people in reveal order.
func (s *Session) Revealed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RevealedEdges returns the edges discovered so far.
func (s *Session) RevealedEdges() []graph.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edges == nil {
		return nil
	}
	return s.edges.Edges()
}

func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Elapsed is the time since Start, frozen once the game ends.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	if !s.finishedAt.IsZero() {
		return s.finishedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Guesses returns the full guess history.
func (s *Session) Guesses() []GuessRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GuessRecord, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// State returns a consistent snapshot for transports to broadcast.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Code:        s.Code,
		Status:      s.status,
		Start:       s.start,
		Target:      s.target,
		Attempts:    s.attempts,
		MaxAttempts: s.Settings.MaxAttempts,
		ElapsedMs:   s.elapsedLocked().Milliseconds(),
		Score:       s.score,
	}
	snap.Revealed = make([]string, len(s.order))
	copy(snap.Revealed, s.order)
	if s.edges != nil {
		snap.Edges = s.edges.Edges()
	}
	return snap
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
