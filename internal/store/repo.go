package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Kind   string    // exact kind match when non-empty
}

// RewardEventData captures one gamification event (points, level up,
// badge, reward tier).
type RewardEventData struct {
	Kind     string
	Message  string
	Delta    int
	Points   int
	Level    int
	BadgeID  string
	TierID   string
	Discount int
}

// RewardEventRecord is a persisted reward event.
type RewardEventRecord struct {
	RewardEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to the reward event log.
type EventRepo interface {
	// AppendRewardEvent records a reward event.
	AppendRewardEvent(ctx context.Context, data RewardEventData) error

	// QueryRewardEvents returns events newest first.
	QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error)

	// CountByKind returns the number of events per kind.
	CountByKind(ctx context.Context) (map[string]int, error)
}
