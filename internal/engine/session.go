// Package engine implements the session state machine shared by every
// mini-game: lifecycle (load, play, end), the countdown timer, scoring
// and wrong-attempt accounting, and terminal-condition detection. Each
// game variant wraps a Session and supplies only input translation and
// a grading function.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wordquest/internal/models"
)

// Phase is the lifecycle state of a session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// EndReason records why a session reached the Ended phase
type EndReason int

const (
	EndNone EndReason = iota
	EndCompleted
	EndTimeout
	EndMaxAttempts
	EndInsufficientContent
)

func (r EndReason) String() string {
	switch r {
	case EndCompleted:
		return "completed"
	case EndTimeout:
		return "timeout"
	case EndMaxAttempts:
		return "max_attempts"
	case EndInsufficientContent:
		return "insufficient_content"
	}
	return "none"
}

// Verdict is the outcome of grading one attempt
type Verdict int

const (
	// VerdictPending means no grading occurred: the input was accepted
	// but does not yet form a complete attempt (first memory flip,
	// spelling-bee buffer below full length).
	VerdictPending Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	}
	return "pending"
}

// Attempt is one submitted candidate answer or placement. SlotID is
// the explicit target the user interacted with (match-up slot, second
// memory card); the engine never guesses a target.
type Attempt struct {
	Value  string
	SlotID string
}

// Graded is the result of a variant's grading function. UnitID names
// the question/slot/pair the verdict applies to so the engine can
// track completion without double-crediting a unit.
type Graded struct {
	Verdict Verdict
	UnitID  string
}

// GradeFunc grades an attempt against the variant's current state.
// It must be pure over the attempt and the adapter's state and must
// not call back into the Session.
type GradeFunc func(Attempt) Graded

// FetchFunc loads the question batch for a session
type FetchFunc func(ctx context.Context) ([]models.Question, error)

// Result is the terminal snapshot handed once to the result sink
type Result struct {
	Score          int
	WrongAttempts  int
	ElapsedSeconds int
	EndReason      EndReason
}

// Hooks are the callbacks a session emits. They are invoked after the
// session lock is released and never after Exit.
type Hooks struct {
	OnPhase func(Phase)
	OnTick  func(remaining int)
	OnEnded func(Result)
}

// Config parameterizes a session for one game variant
type Config struct {
	GameType   models.GameType
	Difficulty models.Difficulty
	TopicID    int64

	// RequestCount questions are requested from the source; fewer than
	// MinimumViable ends the session with EndInsufficientContent.
	// MinimumViable defaults to RequestCount.
	RequestCount  int
	MinimumViable int

	InitialSeconds int
	ScoreIncrement int

	// AttemptsCap ends the session with EndMaxAttempts when wrong
	// attempts reach it. Zero means no cap.
	AttemptsCap int

	// IgnoreWrongAttempts keeps incorrect verdicts from incrementing
	// the wrong-attempt counter (memory counts turns instead).
	IgnoreWrongAttempts bool

	// TickInterval drives the internal countdown. Zero disables it so
	// callers (and tests) can drive Tick themselves.
	TickInterval time.Duration

	Grade GradeFunc
}

var (
	// ErrNotEnoughContent is returned by Load when the source produced
	// fewer questions than the session needs.
	ErrNotEnoughContent = errors.New("not enough questions for this game")

	// ErrNotActive is returned for attempts outside the active phase
	ErrNotActive = errors.New("session is not active")

	// ErrWrongPhase is returned when an operation is invalid for the
	// session's current phase.
	ErrWrongPhase = errors.New("operation not valid in current phase")
)

// Session owns all mutable state for one play-through. It is created
// fresh per game and discarded on exit; timer ticks and input events
// are serialized on its mutex and checked against the current phase.
type Session struct {
	mu   sync.Mutex
	cfg  Config
	hook Hooks

	phase         Phase
	questions     []models.Question
	solved        map[string]bool
	score         int
	wrongAttempts int
	timeRemaining int
	endReason     EndReason
	result        *Result

	clock   *Countdown
	pending []func()
}

// New creates a session in the Idle phase
func New(cfg Config, hooks Hooks) *Session {
	if cfg.MinimumViable <= 0 {
		cfg.MinimumViable = cfg.RequestCount
	}
	if cfg.ScoreIncrement <= 0 {
		cfg.ScoreIncrement = 10
	}
	return &Session{
		cfg:           cfg,
		hook:          hooks,
		phase:         PhaseIdle,
		solved:        make(map[string]bool),
		timeRemaining: cfg.InitialSeconds,
	}
}

// Config returns the session's configuration
func (s *Session) Config() Config {
	return s.cfg
}

// Load requests the question batch and, on success, enters the Active
// phase and starts the countdown. A fetch failure leaves the session
// in Loading so the caller can retry. Too few questions ends the
// session immediately with EndInsufficientContent.
func (s *Session) Load(ctx context.Context, fetch FetchFunc) error {
	s.mu.Lock()
	if s.phase != PhaseIdle && s.phase != PhaseLoading {
		s.mu.Unlock()
		return fmt.Errorf("load: %w", ErrWrongPhase)
	}
	s.setPhase(PhaseLoading)
	s.fire()

	// Fetch without holding the lock; Exit may end the session while
	// the request is in flight.
	questions, err := fetch(ctx)

	s.mu.Lock()
	defer s.fire()
	if s.phase != PhaseLoading {
		return fmt.Errorf("load: %w", ErrWrongPhase)
	}
	if err != nil {
		// Stay in Loading: the caller may retry.
		return fmt.Errorf("fetch questions: %w", err)
	}
	if len(questions) > s.cfg.RequestCount && s.cfg.RequestCount > 0 {
		questions = questions[:s.cfg.RequestCount]
	}
	if len(questions) < s.cfg.MinimumViable {
		s.questions = questions
		s.end(EndInsufficientContent)
		return ErrNotEnoughContent
	}

	s.questions = questions
	s.setPhase(PhaseActive)
	if s.cfg.TickInterval > 0 {
		s.clock = NewCountdown(s.cfg.TickInterval, s.Tick)
	}
	return nil
}

// Submit grades one attempt. Outside the Active phase it mutates
// nothing and returns ErrNotActive.
func (s *Session) Submit(att Attempt) (Verdict, error) {
	s.mu.Lock()
	defer s.fire()
	if s.phase != PhaseActive {
		return VerdictPending, ErrNotActive
	}

	graded := s.cfg.Grade(att)
	switch graded.Verdict {
	case VerdictCorrect:
		if !s.solved[graded.UnitID] {
			s.solved[graded.UnitID] = true
			s.score += s.cfg.ScoreIncrement
		}
		if len(s.solved) >= len(s.questions) {
			s.end(EndCompleted)
		}
	case VerdictIncorrect:
		if !s.cfg.IgnoreWrongAttempts {
			s.wrongAttempts++
			if s.cfg.AttemptsCap > 0 && s.wrongAttempts >= s.cfg.AttemptsCap {
				s.end(EndMaxAttempts)
			}
		}
	}
	return graded.Verdict, nil
}

// Unsolve revokes credit for a solved unit: it leaves the solved set
// and the score drops by the increment. Variants call it when the
// player vacates a correct placement, so completion is judged against
// the board as it stands.
func (s *Session) Unsolve(unitID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive || !s.solved[unitID] {
		return
	}
	delete(s.solved, unitID)
	s.score -= s.cfg.ScoreIncrement
}

// Tick consumes one countdown second. Ticks delivered after the
// session leaves Active are ignored; the timeout transition fires
// exactly once.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.fire()
	if s.phase != PhaseActive {
		return
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.hook.OnTick != nil {
		remaining := s.timeRemaining
		s.notify(func() { s.hook.OnTick(remaining) })
	}
	if s.timeRemaining <= 0 {
		s.end(EndTimeout)
	}
}

// Exit synchronously stops the timer and discards the session. No
// result is emitted; an already-ended session is left untouched.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.fire()
	if s.phase == PhaseEnded {
		return
	}
	s.stopClock()
	s.setPhase(PhaseEnded)
}

// end performs the single terminal transition. Caller holds the lock.
func (s *Session) end(reason EndReason) {
	s.stopClock()
	s.endReason = reason
	res := Result{
		Score:          s.score,
		WrongAttempts:  s.wrongAttempts,
		ElapsedSeconds: s.cfg.InitialSeconds - s.timeRemaining,
		EndReason:      reason,
	}
	s.result = &res
	s.setPhase(PhaseEnded)
	if s.hook.OnEnded != nil {
		s.notify(func() { s.hook.OnEnded(res) })
	}
}

func (s *Session) stopClock() {
	if s.clock != nil {
		s.clock.Stop()
		s.clock = nil
	}
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	if s.hook.OnPhase != nil {
		s.notify(func() { s.hook.OnPhase(p) })
	}
}

// notify queues a hook to run after the lock is released. Caller
// holds the lock.
func (s *Session) notify(fn func()) {
	s.pending = append(s.pending, fn)
}

// fire releases the lock and runs queued hooks. Must be deferred by
// every public method that acquired the lock.
func (s *Session) fire() {
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Score returns the current score
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// WrongAttempts returns the confirmed-incorrect attempt count
func (s *Session) WrongAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrongAttempts
}

// TimeRemaining returns the countdown seconds left
func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

// EndReason returns why the session ended, or EndNone
func (s *Session) EndReason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endReason
}

// Questions returns a copy of the loaded question batch
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Solved reports whether a unit has been answered correctly
func (s *Session) Solved(unitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solved[unitID]
}

// SolvedCount returns how many units have been answered correctly
func (s *Session) SolvedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.solved)
}

// Result returns the terminal snapshot once the session has ended via
// a terminal condition. A session discarded by Exit has no result.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
