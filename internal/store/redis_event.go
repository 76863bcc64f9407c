package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEventRepo keeps the reward log in a Redis list of JSON records. A
// counter key assigns sequences and a hash keeps per-kind totals.
type RedisEventRepo struct {
	client *redis.Client
	list   string
	seq    string
	kinds  string
}

// EventRepo returns the reward log stored under the same prefix as the KV.
func (r *RedisKV) EventRepo() *RedisEventRepo {
	return &RedisEventRepo{
		client: r.client,
		list:   r.key("rewardEvents"),
		seq:    r.key("rewardEvents:seq"),
		kinds:  r.key("rewardEvents:kinds"),
	}
}

type redisEventRecord struct {
	Sequence  int64     `json:"seq"`
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Delta     int       `json:"delta,omitempty"`
	Points    int       `json:"points"`
	Level     int       `json:"level"`
	BadgeID   string    `json:"badge_id,omitempty"`
	TierID    string    `json:"tier_id,omitempty"`
	Discount  int       `json:"discount,omitempty"`
}

func encodeRedisEvent(rec RewardEventRecord) (string, error) {
	data, err := json.Marshal(redisEventRecord{
		Sequence:  rec.Sequence,
		Timestamp: rec.Timestamp,
		Kind:      rec.Kind,
		Message:   rec.Message,
		Delta:     rec.Delta,
		Points:    rec.Points,
		Level:     rec.Level,
		BadgeID:   rec.BadgeID,
		TierID:    rec.TierID,
		Discount:  rec.Discount,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRedisEvent(raw string) (RewardEventRecord, error) {
	var r redisEventRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return RewardEventRecord{}, err
	}
	return RewardEventRecord{
		RewardEventData: RewardEventData{
			Kind:     r.Kind,
			Message:  r.Message,
			Delta:    r.Delta,
			Points:   r.Points,
			Level:    r.Level,
			BadgeID:  r.BadgeID,
			TierID:   r.TierID,
			Discount: r.Discount,
		},
		Sequence:  r.Sequence,
		Timestamp: r.Timestamp,
	}, nil
}

func (r *RedisEventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	seq, err := r.client.Incr(ctx, r.seq).Result()
	if err != nil {
		return fmt.Errorf("next reward sequence: %w", err)
	}
	raw, err := encodeRedisEvent(RewardEventRecord{
		RewardEventData: data,
		Sequence:        seq,
		Timestamp:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode reward event: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.list, raw)
		pipe.HIncrBy(ctx, r.kinds, data.Kind, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append reward event: %w", err)
	}
	return nil
}

// QueryRewardEvents reads only the list tail when opts is a plain limit.
func (r *RedisEventRepo) QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	plain := opts == QueryOpts{Limit: opts.Limit}
	start := int64(0)
	if plain && opts.Limit > 0 {
		start = -int64(opts.Limit)
	}

	raws, err := r.client.LRange(ctx, r.list, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read reward events: %w", err)
	}
	records := make([]RewardEventRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := decodeRedisEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("decode reward event: %w", err)
		}
		records = append(records, rec)
	}
	return newestFirst(records, opts), nil
}

func (r *RedisEventRepo) CountByKind(ctx context.Context) (map[string]int, error) {
	raw, err := r.client.HGetAll(ctx, r.kinds).Result()
	if err != nil {
		return nil, fmt.Errorf("count reward events: %w", err)
	}
	counts := make(map[string]int, len(raw))
	for kind, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("count for %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}
