package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store and locker write.
const DefaultPrefix = "busybeaver:"

// Store implements ports.ResultStore using Redis.
//
// Each run is a HASH of index -> JSON record, paired with a ZSET scored by
// index for ordered listing. A second ZSET lists the runs themselves, scored by
// their expiry time.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for runs. It is refreshed on every Save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) recordsKey(runID string) string {
	return s.prefix + "run:" + runID
}

func (s *Store) orderKey(runID string) string {
	return s.prefix + "run:" + runID + ":order"
}

func (s *Store) runsKey() string {
	return s.prefix + "runs"
}

// Save persists one record and refreshes the run's expiry.
func (s *Store) Save(ctx context.Context, runID string, rec domain.Record) error {
	data, err := json.Marshal(dto.FromRecord(rec))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	field := strconv.FormatUint(rec.Index, 10)

	pipe := s.client.TxPipeline()

	pipe.HSet(ctx, s.recordsKey(runID), field, data)
	pipe.ZAdd(ctx, s.orderKey(runID), backend.Z{
		Score:  float64(rec.Index),
		Member: field,
	})

	// Score = Now + TTL. If TTL = 0, Score = +Inf (approx).
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	} else {
		pipe.Expire(ctx, s.recordsKey(runID), s.ttl)
		pipe.Expire(ctx, s.orderKey(runID), s.ttl)
	}
	pipe.ZAdd(ctx, s.runsKey(), backend.Z{
		Score:  score,
		Member: runID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves one record.
func (s *Store) Load(ctx context.Context, runID string, index uint64) (domain.Record, error) {
	val, err := s.client.HGet(ctx, s.recordsKey(runID), strconv.FormatUint(index, 10)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Record{}, domain.ErrResultNotFound
		}
		return domain.Record{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return decode(val)
}

// List returns the records of a run ordered by index.
func (s *Store) List(ctx context.Context, runID string) ([]domain.Record, error) {
	fields, err := s.client.ZRange(ctx, s.orderKey(runID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(fields) == 0 {
		return []domain.Record{}, nil
	}

	vals, err := s.client.HMGet(ctx, s.recordsKey(runID), fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	recs := make([]domain.Record, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Expired between the two reads.
			continue
		}
		rec, err := decode(str)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	// Scores are float64; re-sort on the exact index for very large ones.
	slices.SortStableFunc(recs, func(a, b domain.Record) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return recs, nil
}

// Runs returns the stored run IDs, pruning expired ones from the index.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.runsKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.runsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	slices.Sort(runs)
	return runs, nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.TxPipeline()

	pipe.Del(ctx, s.recordsKey(runID), s.orderKey(runID))
	pipe.ZRem(ctx, s.runsKey(), runID)

	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decode(val string) (domain.Record, error) {
	var rec dto.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return domain.Record{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return rec.ToDomain()
}
