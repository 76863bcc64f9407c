package store

import (
	"context"
	"sync"
	"time"
)

// MemoryEventRepo is an in-process EventRepo for the memory backend and
// tests.
type MemoryEventRepo struct {
	mu      sync.RWMutex
	records []RewardEventRecord
	next    int64
}

// NewMemoryEventRepo creates an empty MemoryEventRepo.
func NewMemoryEventRepo() *MemoryEventRepo {
	return &MemoryEventRepo{next: 1}
}

func (m *MemoryEventRepo) AppendRewardEvent(_ context.Context, data RewardEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, RewardEventRecord{
		RewardEventData: data,
		Sequence:        m.next,
		Timestamp:       time.Now().UTC(),
	})
	m.next++
	return nil
}

func (m *MemoryEventRepo) QueryRewardEvents(_ context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return newestFirst(m.records, opts), nil
}

// newestFirst walks records, which are in append order, from the end and
// keeps those matching opts.
func newestFirst(records []RewardEventRecord, opts QueryOpts) []RewardEventRecord {
	var out []RewardEventRecord
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if opts.After > 0 && rec.Sequence <= opts.After {
			continue
		}
		if opts.Before > 0 && rec.Sequence >= opts.Before {
			continue
		}
		if !opts.From.IsZero() && rec.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && rec.Timestamp.After(opts.To) {
			continue
		}
		if opts.Kind != "" && rec.Kind != opts.Kind {
			continue
		}
		out = append(out, rec)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}

func (m *MemoryEventRepo) CountByKind(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, rec := range m.records {
		counts[rec.Kind]++
	}
	return counts, nil
}
