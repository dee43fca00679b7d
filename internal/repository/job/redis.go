package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
)

var keyPrefix = domain.KeyPrefix + "export_job:"

// recordStore is the consumer interface for the Redis job store (ISP).
type recordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Create(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Replace(ctx context.Context, key string, value []byte) error
}

// RedisStore keeps jobs as JSON values that expire ttl after creation.
// Updates are read-modify-write; each job has a single writer (its worker).
type RedisStore struct {
	store recordStore
	ttl   time.Duration
	now   func() time.Time
}

// NewRedisStore creates a Redis-backed job store.
func NewRedisStore(s recordStore, ttl time.Duration) *RedisStore {
	return &RedisStore{store: s, ttl: ttl, now: time.Now}
}

// Create stores a new job. Reusing an id is an error.
func (s *RedisStore) Create(ctx context.Context, j domjob.Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", j.ID, err)
	}
	if err := s.store.Create(ctx, keyPrefix+j.ID, data, s.ttl); err != nil {
		return fmt.Errorf("create job %s: %w", j.ID, err)
	}
	return nil
}

// Update applies a patch and returns the updated job.
func (s *RedisStore) Update(ctx context.Context, id string, p domjob.Patch) (domjob.Job, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return domjob.Job{}, err
	}
	j = j.Apply(p, s.now())

	data, err := json.Marshal(j)
	if err != nil {
		return domjob.Job{}, fmt.Errorf("encode job %s: %w", id, err)
	}
	if err := s.store.Replace(ctx, keyPrefix+id, data); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domjob.Job{}, domain.ErrJobNotFound
		}
		return domjob.Job{}, fmt.Errorf("save job %s: %w", id, err)
	}
	return j, nil
}

// Get loads a job.
func (s *RedisStore) Get(ctx context.Context, id string) (domjob.Job, error) {
	data, err := s.store.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domjob.Job{}, domain.ErrJobNotFound
		}
		return domjob.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	var j domjob.Job
	if err := json.Unmarshal(data, &j); err != nil {
		return domjob.Job{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return j, nil
}
