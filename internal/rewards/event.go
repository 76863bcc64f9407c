package rewards

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/store"
)

// EventKind classifies reward events.
type EventKind string

const (
	KindPoints  EventKind = "points"
	KindLevelUp EventKind = "level_up"
	KindBadge   EventKind = "badge"
	KindReward  EventKind = "reward"
)

// Event is a notification produced by the Accountant. Events carry no state
// of their own; the progress state is authoritative.
type Event struct {
	Kind     EventKind `json:"kind"`
	Message  string    `json:"message"`
	Delta    int       `json:"delta,omitempty"`
	Points   int       `json:"points"`
	Level    int       `json:"level"`
	BadgeID  string    `json:"badge_id,omitempty"`
	TierID   string    `json:"tier_id,omitempty"`
	Discount int       `json:"discount,omitempty"`
	Time     time.Time `json:"time"`
}

// Sink receives events synchronously. A Sink must not call back into the
// Accountant.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event)

func (f SinkFunc) Emit(ctx context.Context, ev Event) { f(ctx, ev) }

// DefaultRecorderLimit bounds an undrained Recorder.
const DefaultRecorderLimit = 100

// Recorder buffers events until drained. Front ends drain it after each
// action to show notifications. Once the buffer is full the oldest events
// are dropped.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

func NewRecorder() *Recorder {
	return NewBoundedRecorder(DefaultRecorderLimit)
}

// NewBoundedRecorder keeps at most limit events. A limit below 1 means
// DefaultRecorderLimit.
func NewBoundedRecorder(limit int) *Recorder {
	if limit < 1 {
		limit = DefaultRecorderLimit
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Emit(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if over := len(r.events) - r.limit; over > 0 {
		r.events = slices.Delete(r.events, 0, over)
	}
}

// Drain returns the buffered events and clears the buffer.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// EventLogSink appends every event to the persistent reward log.
type EventLogSink struct {
	repo store.EventRepo
	log  *logger.Logger
}

func NewEventLogSink(repo store.EventRepo, log *logger.Logger) *EventLogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &EventLogSink{repo: repo, log: log}
}

func (s *EventLogSink) Emit(ctx context.Context, ev Event) {
	err := s.repo.AppendRewardEvent(ctx, store.RewardEventData{
		Kind:     string(ev.Kind),
		Message:  ev.Message,
		Delta:    ev.Delta,
		Points:   ev.Points,
		Level:    ev.Level,
		BadgeID:  ev.BadgeID,
		TierID:   ev.TierID,
		Discount: ev.Discount,
	})
	if err != nil {
		s.log.Warn("append reward event failed", "kind", ev.Kind, "error", err)
	}
}

// LogSink writes one structured log line per event.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(_ context.Context, ev Event) {
	kv := []interface{}{"kind", ev.Kind, "points", ev.Points, "level", ev.Level}
	if ev.Delta != 0 {
		kv = append(kv, "delta", ev.Delta)
	}
	if ev.BadgeID != "" {
		kv = append(kv, "badge", ev.BadgeID)
	}
	if ev.TierID != "" {
		kv = append(kv, "tier", ev.TierID, "discount", ev.Discount)
	}
	s.log.Info(ev.Message, kv...)
}
