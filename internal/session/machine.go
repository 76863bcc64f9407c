package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/rewards"
)

// DefaultAdvanceDelay is how long an answered question stays on screen.
const DefaultAdvanceDelay = 1500 * time.Millisecond

// Options configures a Machine.
type Options struct {
	Catalog *catalog.Catalog
	Awarder Awarder

	// Gate rejects locked nodes. Nil allows every known node.
	Gate Gate

	Scheduler    Scheduler
	AdvanceDelay time.Duration
	Logger       *logger.Logger
}

// session is the runtime state of one attempt.
type session struct {
	id         string
	node       catalog.Node
	questions  []catalog.Question
	index      int
	score      int
	status     AnswerStatus
	phase      Phase
	showResult bool
}

// Machine owns at most one session. It is safe for concurrent use; the
// delayed advance runs on the scheduler's goroutine.
type Machine struct {
	mu      sync.Mutex
	cat     *catalog.Catalog
	awarder Awarder
	gate    Gate
	sched   Scheduler
	delay   time.Duration
	log     *logger.Logger

	cur     *session
	gen     uint64
	pending Timer
}

// NewMachine creates a Machine.
func NewMachine(opts Options) *Machine {
	m := &Machine{
		cat:     opts.Catalog,
		awarder: opts.Awarder,
		gate:    opts.Gate,
		sched:   opts.Scheduler,
		delay:   opts.AdvanceDelay,
		log:     opts.Logger,
	}
	if m.sched == nil {
		m.sched = WallClock{}
	}
	if m.delay <= 0 {
		m.delay = DefaultAdvanceDelay
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	return m
}

// AdvanceDelay returns the configured advance delay.
func (m *Machine) AdvanceDelay() time.Duration {
	return m.delay
}

// Start begins a session on nodeID, discarding any previous session and its
// pending advance.
func (m *Machine) Start(nodeID string) (Snapshot, error) {
	node, ok := m.cat.Node(nodeID)
	if !ok {
		return Snapshot{}, ErrUnknownNode
	}
	if m.gate != nil && !m.gate.IsUnlocked(nodeID) {
		return Snapshot{}, ErrLocked
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.discard()
	s := &session{
		id:        uuid.NewString(),
		node:      node,
		questions: node.SessionQuestions(),
		phase:     PhasePresenting,
	}
	if len(s.questions) == 0 {
		s.phase = PhaseShowingText
	}
	m.cur = s
	m.log.Debug("session started", "session", s.id, "node", nodeID, "questions", len(s.questions))
	return m.snapshot(), nil
}

// Answer records whether the current question was answered correctly and
// schedules the advance. A second answer before the advance is rejected.
func (m *Machine) Answer(ctx context.Context, correct bool) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAnswerable(); err != nil {
		return Snapshot{}, err
	}
	m.answer(ctx, correct)
	return m.snapshot(), nil
}

// AnswerOption answers with the option id of the current question.
func (m *Machine) AnswerOption(ctx context.Context, optionID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAnswerable(); err != nil {
		return Snapshot{}, err
	}
	opt, ok := m.cur.questions[m.cur.index].Option(optionID)
	if !ok {
		return Snapshot{}, ErrUnknownOption
	}
	m.answer(ctx, opt.Correct)
	return m.snapshot(), nil
}

func (m *Machine) checkAnswerable() error {
	s := m.cur
	if s == nil {
		return ErrNoSession
	}
	if s.phase == PhaseAnswered || s.status != StatusNone {
		return ErrAlreadyAnswered
	}
	if s.phase != PhasePresenting {
		return ErrNotPresenting
	}
	return nil
}

func (m *Machine) answer(ctx context.Context, correct bool) {
	s := m.cur
	if correct {
		s.status = StatusCorrect
		s.score++
		m.awarder.AwardPoints(ctx, rewards.PointsCorrect, rewards.MsgCorrect)
	} else {
		s.status = StatusIncorrect
		m.awarder.AwardPoints(ctx, rewards.PointsWrong, rewards.MsgWrong)
	}
	s.phase = PhaseAnswered
	m.log.Debug("question answered", "session", s.id, "index", s.index, "correct", correct)

	gen, idx := m.gen, s.index
	// The advance outlives the request that triggered it.
	actx := context.WithoutCancel(ctx)
	m.pending = m.sched.AfterFunc(m.delay, func() {
		m.advance(actx, gen, idx)
	})
}

// advance moves past question idx of generation gen. Calls from a session
// that has since been replaced or exited are ignored.
func (m *Machine) advance(ctx context.Context, gen uint64, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.cur
	if s == nil || gen != m.gen || s.index != idx || s.phase != PhaseAnswered {
		m.log.Debug("stale advance ignored", "generation", gen, "index", idx)
		return
	}
	m.pending = nil

	if idx+1 < len(s.questions) {
		s.index++
		s.status = StatusNone
		s.phase = PhasePresenting
		return
	}
	m.complete(ctx)
}

// AcknowledgeLesson completes a text-only lesson.
func (m *Machine) AcknowledgeLesson(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil {
		return Snapshot{}, ErrNoSession
	}
	if m.cur.phase != PhaseShowingText {
		return Snapshot{}, ErrNotTextLesson
	}
	m.complete(ctx)
	return m.snapshot(), nil
}

func (m *Machine) complete(ctx context.Context) {
	s := m.cur
	s.phase = PhaseCompleted
	s.showResult = true
	first := m.awarder.CompleteNode(ctx, s.node.ID)
	m.log.Info("node completed", "session", s.id, "node", s.node.ID,
		"score", s.score, "total", len(s.questions), "first_time", first)
}

// Exit discards the active session and cancels a pending advance. It
// reports whether a session was active.
func (m *Machine) Exit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.cur != nil
	m.discard()
	return had
}

func (m *Machine) discard() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	m.gen++
	m.cur = nil
}

// Current returns a snapshot of the active session.
func (m *Machine) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return Snapshot{}, false
	}
	return m.snapshot(), true
}

func (m *Machine) snapshot() Snapshot {
	s := m.cur
	snap := Snapshot{
		ID:         s.id,
		NodeID:     s.node.ID,
		NodeTitle:  s.node.Title,
		Kind:       s.node.Kind,
		Phase:      s.phase,
		Index:      s.index,
		Total:      len(s.questions),
		Score:      s.score,
		Status:     s.status,
		Texts:      s.node.Texts(),
		ShowResult: s.showResult,
	}
	if (s.phase == PhasePresenting || s.phase == PhaseAnswered) && s.index < len(s.questions) {
		q := s.questions[s.index]
		q.Options = append([]catalog.Option(nil), q.Options...)
		snap.Question = &q
	}
	return snap
}
