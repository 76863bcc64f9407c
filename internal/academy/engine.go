// Package academy wires the course catalog, progress bookkeeping, session
// machine and side features into one engine shared by the TUI, the HTTP API
// and the CLI.
package academy

import (
	"context"
	"errors"
	"time"

	"github.com/agrovision/academy/internal/calibration"
	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/leaderboard"
	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/missions"
	"github.com/agrovision/academy/internal/progress"
	"github.com/agrovision/academy/internal/rewards"
	"github.com/agrovision/academy/internal/scans"
	"github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/store"
	"github.com/agrovision/academy/internal/unlock"
)

// Options configures an Engine.
type Options struct {
	// KV persists progress and missions. Required.
	KV store.KV

	// Events stores the reward history. Defaults to an in-memory log.
	Events store.EventRepo

	Translations catalog.Translations
	Logger       *logger.Logger
	AdvanceDelay time.Duration
	Scheduler    session.Scheduler

	// Sinks receive reward events in addition to the built-in ones.
	Sinks []rewards.Sink
}

// Engine is the academy facade.
type Engine struct {
	cat      *catalog.Catalog
	progress *progress.Store
	acct     *rewards.Accountant
	machine  *session.Machine
	missions *missions.Board
	calib    *calibration.Service
	trans    catalog.Translations
	scans    *scans.Flow
	recorder *rewards.Recorder
	events   store.EventRepo
	log      *logger.Logger
}

// New builds an Engine and loads the saved progress.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.KV == nil {
		return nil, errors.New("academy: KV is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	events := opts.Events
	if events == nil {
		events = store.NewMemoryEventRepo()
	}

	e := &Engine{
		cat:      catalog.Default(opts.Translations),
		progress: progress.NewStore(opts.KV, log),
		recorder: rewards.NewRecorder(),
		events:   events,
		trans:    opts.Translations,
		log:      log,
	}

	sinks := []rewards.Sink{e.recorder, rewards.NewEventLogSink(events, log), rewards.NewLogSink(log)}
	sinks = append(sinks, opts.Sinks...)
	e.acct = rewards.New(ctx, e.progress, rewards.Options{Sinks: sinks, Logger: log})

	e.machine = session.NewMachine(session.Options{
		Catalog:      e.cat,
		Awarder:      e.acct,
		Gate:         e,
		Scheduler:    opts.Scheduler,
		AdvanceDelay: opts.AdvanceDelay,
		Logger:       log,
	})
	e.missions = missions.Load(ctx, opts.KV, e.acct, opts.Translations, log)
	e.scans = scans.NewFlow(e.acct)
	e.calib = calibration.Load(ctx, opts.KV, e.acct, log)

	st := e.acct.State()
	log.Debug("academy loaded", "completed", len(st.CompletedNodes), "points", st.Points, "level", st.Level)
	return e, nil
}

// Catalog returns the course.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// State returns a copy of the learner's progress.
func (e *Engine) State() progress.State { return e.acct.State() }

// Tiers returns the reward tiers.
func (e *Engine) Tiers() []rewards.Tier { return e.acct.Tiers() }

// IsUnlocked reports whether nodeID may be started.
func (e *Engine) IsUnlocked(nodeID string) bool {
	return unlock.IsUnlocked(e.cat, e.acct.State().CompletedSet(), nodeID)
}

// Path returns every node with its lock and completion status.
func (e *Engine) Path() []unlock.NodeStatus {
	return unlock.Path(e.cat, e.acct.State().CompletedSet())
}

// Next returns the first open, unfinished node.
func (e *Engine) Next() (catalog.Node, bool) {
	return unlock.Next(e.cat, e.acct.State().CompletedSet())
}

// Start begins a session on nodeID.
func (e *Engine) Start(nodeID string) (session.Snapshot, error) {
	return e.machine.Start(nodeID)
}

// Answer answers the current question by correctness.
func (e *Engine) Answer(ctx context.Context, correct bool) (session.Snapshot, error) {
	return e.machine.Answer(ctx, correct)
}

// AnswerOption answers the current question by option id.
func (e *Engine) AnswerOption(ctx context.Context, optionID string) (session.Snapshot, error) {
	return e.machine.AnswerOption(ctx, optionID)
}

// AcknowledgeLesson completes a text-only lesson.
func (e *Engine) AcknowledgeLesson(ctx context.Context) (session.Snapshot, error) {
	return e.machine.AcknowledgeLesson(ctx)
}

// ExitSession discards the active session.
func (e *Engine) ExitSession() bool { return e.machine.Exit() }

// Session returns the active session.
func (e *Engine) Session() (session.Snapshot, bool) { return e.machine.Current() }

// AdvanceDelay is the pause between an answer and the next question.
func (e *Engine) AdvanceDelay() time.Duration { return e.machine.AdvanceDelay() }

// Reset clears completed nodes. Callers confirm with the learner first.
func (e *Engine) Reset(ctx context.Context) {
	e.acct.ResetCompletedNodes(ctx)
}

// SetStreak stores the streak counter.
func (e *Engine) SetStreak(ctx context.Context, n int) { e.acct.SetStreak(ctx, n) }

// ApplyScan awards a scan form step.
func (e *Engine) ApplyScan(ctx context.Context, step scans.Step) (scans.Result, error) {
	return e.scans.Apply(ctx, step)
}

// Missions returns the daily missions.
func (e *Engine) Missions() []missions.Mission { return e.missions.List() }

// ClaimMission claims a daily mission.
func (e *Engine) ClaimMission(ctx context.Context, id string) (missions.Mission, error) {
	return e.missions.Claim(ctx, id)
}

// CalibrationQuestions returns the farm profile prompts.
func (e *Engine) CalibrationQuestions() []calibration.Question {
	return calibration.Questions(e.trans)
}

// Calibration returns the saved farm profile.
func (e *Engine) Calibration() (calibration.Profile, bool) { return e.calib.Profile() }

// Calibrate saves the farm profile. The first calibration earns a bonus.
func (e *Engine) Calibrate(ctx context.Context, a calibration.Answers) (calibration.Result, error) {
	return e.calib.Submit(ctx, a)
}

// Leaderboard ranks the learner against the village.
func (e *Engine) Leaderboard() []leaderboard.Entry {
	return leaderboard.Build(leaderboard.Seed(), e.acct.State().Points)
}

// History returns persisted reward events, newest first.
func (e *Engine) History(ctx context.Context, opts store.QueryOpts) ([]store.RewardEventRecord, error) {
	return e.events.QueryRewardEvents(ctx, opts)
}

// EventCounts returns the number of persisted reward events per kind.
func (e *Engine) EventCounts(ctx context.Context) (map[string]int, error) {
	return e.events.CountByKind(ctx)
}

// Drain returns reward events emitted since the last drain.
func (e *Engine) Drain() []rewards.Event { return e.recorder.Drain() }
