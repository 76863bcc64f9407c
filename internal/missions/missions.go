// Package missions tracks the daily missions a learner can claim for bonus
// XP.
package missions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/store"
)

// StorageKey holds the JSON mission list.
const StorageKey = "myMissions"

// MsgClaimed is the award message for a claimed mission.
const MsgClaimed = "Mission Completed!"

var (
	ErrUnknownMission = errors.New("unknown mission")
	ErrAlreadyClaimed = errors.New("mission already claimed")
)

// Mission is one daily task.
type Mission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	XP        int    `json:"xp"`
	Completed bool   `json:"completed"`
}

// Defaults returns the unclaimed daily missions.
func Defaults(t catalog.Translations) []Mission {
	return []Mission{
		{ID: "m1", Title: t.Lookup("mission1", "Complete 1 Sustainable Farming Lesson"), XP: 10},
		{ID: "m2", Title: t.Lookup("mission2", "Upload photo proof: Using compost"), XP: 50},
		{ID: "m3", Title: t.Lookup("mission3", "Answer 3 mixed-cropping flashcards"), XP: 15},
	}
}

// Awarder credits claimed XP.
type Awarder interface {
	AwardPoints(ctx context.Context, delta int, message string) int
}

// Board holds the learner's missions.
type Board struct {
	mu       sync.Mutex
	kv       store.KV
	awarder  Awarder
	log      *logger.Logger
	missions []Mission
}

// Load reads the saved missions. Missing or malformed data yields the
// defaults.
func Load(ctx context.Context, kv store.KV, awarder Awarder, t catalog.Translations, log *logger.Logger) *Board {
	if log == nil {
		log = logger.Nop()
	}
	b := &Board{kv: kv, awarder: awarder, log: log}
	b.missions = b.load(ctx, t)
	return b
}

func (b *Board) load(ctx context.Context, t catalog.Translations) []Mission {
	raw, ok, err := b.kv.Get(ctx, StorageKey)
	if err != nil {
		b.log.Warn("read missions failed", "error", err)
		return Defaults(t)
	}
	if !ok {
		return Defaults(t)
	}
	var saved []Mission
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		b.log.Warn("malformed missions, using defaults", "error", err)
		return Defaults(t)
	}
	if len(saved) == 0 {
		return Defaults(t)
	}
	return saved
}

// List returns a copy of the missions.
func (b *Board) List() []Mission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Mission(nil), b.missions...)
}

// Claim marks mission id completed and awards its XP.
func (b *Board) Claim(ctx context.Context, id string) (Mission, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return Mission{}, fmt.Errorf("%w: %s", ErrUnknownMission, id)
	}
	if b.missions[i].Completed {
		return b.missions[i], ErrAlreadyClaimed
	}
	b.missions[i].Completed = true
	if err := b.save(ctx); err != nil {
		b.log.Warn("persist missions failed", "error", err)
	}
	b.awarder.AwardPoints(ctx, b.missions[i].XP, MsgClaimed)
	return b.missions[i], nil
}

func (b *Board) index(id string) int {
	for i, m := range b.missions {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) save(ctx context.Context) error {
	data, err := json.Marshal(b.missions)
	if err != nil {
		return fmt.Errorf("encode missions: %w", err)
	}
	return b.kv.Set(ctx, StorageKey, string(data))
}
