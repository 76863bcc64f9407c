package rewards

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/progress"
)

// Options configures an Accountant.
type Options struct {
	// Tiers overrides DefaultTiers when non-nil.
	Tiers []Tier

	// Sinks receive every emitted event, in order.
	Sinks []Sink

	Logger *logger.Logger

	// Now overrides the event clock. Used in tests.
	Now func() time.Time
}

// Accountant owns the in-memory progress state. Every mutation updates
// memory first, then persists; a persistence failure is logged and the
// in-memory state stays authoritative.
type Accountant struct {
	mu    sync.Mutex
	store *progress.Store
	state progress.State
	tiers []Tier
	sinks []Sink
	log   *logger.Logger
	now   func() time.Time
}

// New loads the persisted state and returns an Accountant over it.
func New(ctx context.Context, ps *progress.Store, opts Options) *Accountant {
	a := &Accountant{
		store: ps,
		state: ps.Load(ctx),
		tiers: opts.Tiers,
		sinks: opts.Sinks,
		log:   opts.Logger,
		now:   opts.Now,
	}
	if a.tiers == nil {
		a.tiers = DefaultTiers()
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	// Older data may carry a negative total.
	if a.state.Points < 0 {
		a.state.Points = 0
	}
	// The stored level is a cache of the points; a missing or stale key
	// must not trigger a level-up on the next award.
	a.state.Level = max(a.state.Level, LevelFor(a.state.Points), 1)
	return a
}

// State returns a copy of the current progress.
func (a *Accountant) State() progress.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// Tiers returns the configured reward tiers.
func (a *Accountant) Tiers() []Tier {
	return slices.Clone(a.tiers)
}

// AwardPoints adds delta to the point total and returns the new total.
// Points are floored at 0. A level rise emits a level-up event; otherwise a
// non-empty message emits a points event.
func (a *Accountant) AwardPoints(ctx context.Context, delta int, message string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.awardPoints(ctx, delta, message)
	return a.state.Points
}

func (a *Accountant) awardPoints(ctx context.Context, delta int, message string) {
	points := a.state.Points + delta
	if points < 0 {
		points = 0
	}
	a.state.Points = points

	level := LevelFor(points)
	if level > a.state.Level {
		a.state.Level = level
		a.persist("level", a.store.SaveLevel(ctx, level))
		a.emit(ctx, Event{
			Kind:    KindLevelUp,
			Message: fmt.Sprintf("🎉 Level %d Unlocked!", level),
			Delta:   delta,
		})
	} else if message != "" {
		a.emit(ctx, Event{Kind: KindPoints, Message: message, Delta: delta})
	}
	a.persist("points", a.store.SavePoints(ctx, points))
}

// CompleteNode marks node id completed. It returns false and does nothing
// when id is already completed.
func (a *Accountant) CompleteNode(ctx context.Context, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.IsCompleted(id) {
		return false
	}
	before := slices.Clone(a.state.CompletedNodes)
	a.state.CompletedNodes = append(a.state.CompletedNodes, id)
	a.persist("completed nodes", a.store.SaveCompletedNodes(ctx, a.state.CompletedNodes))

	a.awardPoints(ctx, PointsNodeComplete, MsgNodeComplete)
	if len(a.state.CompletedNodes)%ScholarEvery == 0 {
		a.awardBadge(ctx, BadgeScholar.ID, BadgeScholar.Name, true)
	}

	for _, t := range a.tiers {
		if t.Reached(a.state.CompletedNodes) && !t.Reached(before) {
			a.emit(ctx, Event{
				Kind:     KindReward,
				Message:  fmt.Sprintf("🎁 %s complete: %d%% discount unlocked!", t.Name, t.Discount),
				TierID:   t.ID,
				Discount: t.Discount,
			})
		}
	}
	return true
}

// CheckAndAwardBadge awards badge id when cond holds and the badge is not
// yet held. It reports whether the badge was awarded.
func (a *Accountant) CheckAndAwardBadge(ctx context.Context, id, name string, cond bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.awardBadge(ctx, id, name, cond)
}

func (a *Accountant) awardBadge(ctx context.Context, id, name string, cond bool) bool {
	if !cond || a.state.HasBadge(id) {
		return false
	}
	a.state.Badges = append(a.state.Badges, id)
	a.persist("badges", a.store.SaveBadges(ctx, a.state.Badges))
	a.emit(ctx, Event{
		Kind:    KindBadge,
		Message: fmt.Sprintf("🏆 Badge Earned: %s!", name),
		BadgeID: id,
	})
	a.awardPoints(ctx, PointsBadge, "")
	return true
}

// RecordScan counts a completed crop scan and awards the scan-count badges.
// It returns the new scan total.
func (a *Accountant) RecordScan(ctx context.Context) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.TotalScans++
	n := a.state.TotalScans
	a.persist("total scans", a.store.SaveTotalScans(ctx, n))

	a.awardBadge(ctx, BadgeFirstScan.ID, BadgeFirstScan.Name, n == 1)
	a.awardBadge(ctx, BadgeExperienced.ID, BadgeExperienced.Name, n == 5)
	a.awardBadge(ctx, BadgeExpert.ID, BadgeExpert.Name, n == 10)
	return n
}

// SetStreak stores the streak counter. The streak is maintained by the
// caller; the Accountant only keeps and persists it.
func (a *Accountant) SetStreak(ctx context.Context, n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 0 {
		n = 0
	}
	a.state.Streak = n
	a.persist("streak", a.store.SaveStreak(ctx, n))
}

// ResetCompletedNodes clears completed nodes only. Points, level, badges,
// scans and streak are kept.
func (a *Accountant) ResetCompletedNodes(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.CompletedNodes = []string{}
	a.persist("completed nodes", a.store.ResetCompletedNodes(ctx))
	a.log.Info("completed nodes reset")
}

func (a *Accountant) emit(ctx context.Context, ev Event) {
	ev.Points = a.state.Points
	ev.Level = a.state.Level
	ev.Time = a.now()
	for _, s := range a.sinks {
		s.Emit(ctx, ev)
	}
}

func (a *Accountant) persist(what string, err error) {
	if err != nil {
		a.log.Warn("persist progress failed", "field", what, "error", err)
	}
}
