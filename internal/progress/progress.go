// Package progress persists learner progress in a string key/value store
// under the key names the web client already uses.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/store"
)

// Storage keys.
const (
	KeyCompletedNodes = "completedNodes"
	KeyPoints         = "userPoints"
	KeyLevel          = "userLevel"
	KeyTotalScans     = "totalScans"
	KeyStreak         = "streak"
	KeyBadges         = "badges"
)

// State is the learner's persisted progress.
type State struct {
	CompletedNodes []string `json:"completed_nodes"`
	Points         int      `json:"points"`
	Level          int      `json:"level"`
	TotalScans     int      `json:"total_scans"`
	Streak         int      `json:"streak"`
	Badges         []string `json:"badges"`
}

// DefaultState is the state of a fresh learner.
func DefaultState() State {
	return State{
		CompletedNodes: []string{},
		Level:          1,
		Badges:         []string{},
	}
}

// IsCompleted reports whether node id is in the completed list.
func (s State) IsCompleted(id string) bool {
	return slices.Contains(s.CompletedNodes, id)
}

// HasBadge reports whether badge id has been earned.
func (s State) HasBadge(id string) bool {
	return slices.Contains(s.Badges, id)
}

// CompletedSet returns the completed node ids as a set.
func (s State) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(s.CompletedNodes))
	for _, id := range s.CompletedNodes {
		set[id] = true
	}
	return set
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.CompletedNodes = slices.Clone(s.CompletedNodes)
	c.Badges = slices.Clone(s.Badges)
	if c.CompletedNodes == nil {
		c.CompletedNodes = []string{}
	}
	if c.Badges == nil {
		c.Badges = []string{}
	}
	return c
}

// Store reads and writes State fields over a KV.
type Store struct {
	kv  store.KV
	log *logger.Logger
}

// NewStore creates a Store. A nil logger discards output.
func NewStore(kv store.KV, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: kv, log: log}
}

// Load reads every field independently. A missing, unreadable or malformed
// value yields that field's default; failures are logged, never returned.
func (s *Store) Load(ctx context.Context) State {
	st := DefaultState()
	st.CompletedNodes = s.loadList(ctx, KeyCompletedNodes)
	st.Points = s.loadInt(ctx, KeyPoints, 0)
	st.Level = s.loadInt(ctx, KeyLevel, 1)
	st.TotalScans = s.loadInt(ctx, KeyTotalScans, 0)
	st.Streak = s.loadInt(ctx, KeyStreak, 0)
	st.Badges = s.loadList(ctx, KeyBadges)
	return st
}

func (s *Store) loadInt(ctx context.Context, key string, def int) int {
	raw, ok := s.get(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.log.Warn("malformed progress value", "key", key, "value", raw, "error", err)
		return def
	}
	return n
}

func (s *Store) loadList(ctx context.Context, key string) []string {
	raw, ok := s.get(ctx, key)
	if !ok {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.log.Warn("malformed progress value", "key", key, "error", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("read progress failed", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// SaveCompletedNodes persists the completed node list.
func (s *Store) SaveCompletedNodes(ctx context.Context, ids []string) error {
	return s.setList(ctx, KeyCompletedNodes, ids)
}

// SavePoints persists the point total.
func (s *Store) SavePoints(ctx context.Context, points int) error {
	return s.setInt(ctx, KeyPoints, points)
}

// SaveLevel persists the level.
func (s *Store) SaveLevel(ctx context.Context, level int) error {
	return s.setInt(ctx, KeyLevel, level)
}

// SaveTotalScans persists the scan counter.
func (s *Store) SaveTotalScans(ctx context.Context, n int) error {
	return s.setInt(ctx, KeyTotalScans, n)
}

// SaveStreak persists the streak counter.
func (s *Store) SaveStreak(ctx context.Context, n int) error {
	return s.setInt(ctx, KeyStreak, n)
}

// SaveBadges persists the earned badge list.
func (s *Store) SaveBadges(ctx context.Context, ids []string) error {
	return s.setList(ctx, KeyBadges, ids)
}

// ResetCompletedNodes persists an empty completed list. Other fields are
// left alone.
func (s *Store) ResetCompletedNodes(ctx context.Context) error {
	return s.setList(ctx, KeyCompletedNodes, []string{})
}

// KV exposes the underlying store for features that keep their own keys.
func (s *Store) KV() store.KV {
	return s.kv
}

func (s *Store) setInt(ctx context.Context, key string, n int) error {
	if err := s.kv.Set(ctx, key, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) setList(ctx context.Context, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
