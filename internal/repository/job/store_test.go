package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
)

// mockRecordStore is an in-memory recordStore.
type mockRecordStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockRecordStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockRecordStore) Create(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.data[key]; ok {
		return db.ErrKeyExists
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockRecordStore) Replace(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.data[key]; !ok {
		return db.ErrKeyNotFound
	}
	m.data[key] = value
	return nil
}

// expire drops a key as if its TTL ran out.
func (m *mockRecordStore) expire(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

type store interface {
	Create(ctx context.Context, j domjob.Job) error
	Update(ctx context.Context, id string, p domjob.Patch) (domjob.Job, error)
	Get(ctx context.Context, id string) (domjob.Job, error)
}

func stores() map[string]store {
	return map[string]store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(newMockRecordStore(), time.Hour),
	}
}

func TestStores_Lifecycle(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			j := domjob.New("j1", "f.csv", "/tmp/f.csv", time.Now())
			if err := s.Create(ctx, j); err != nil {
				t.Fatalf("Create: %v", err)
			}

			total := int64(10)
			if _, err := s.Update(ctx, "j1", domjob.Patch{Total: &total}); err != nil {
				t.Fatalf("Update total: %v", err)
			}
			got, err := s.Update(ctx, "j1", domjob.Progress(5))
			if err != nil {
				t.Fatalf("Update progress: %v", err)
			}
			if got.Progress != 50 {
				t.Errorf("Progress = %d, want 50", got.Progress)
			}

			if _, err := s.Update(ctx, "j1", domjob.Done(10)); err != nil {
				t.Fatalf("Update done: %v", err)
			}
			got, err = s.Get(ctx, "j1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Status != domjob.StatusDone || got.Processed != 10 || got.Filename != "f.csv" {
				t.Errorf("job = %+v", got)
			}
		})
	}
}

func TestStores_NotFound(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrJobNotFound) {
				t.Errorf("Get: expected ErrJobNotFound, got %v", err)
			}
			if _, err := s.Update(context.Background(), "nope", domjob.Progress(1)); !errors.Is(err, domain.ErrJobNotFound) {
				t.Errorf("Update: expected ErrJobNotFound, got %v", err)
			}
		})
	}
}

func TestStores_DuplicateID(t *testing.T) {
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			j := domjob.New("dup", "f.csv", "/tmp/f.csv", time.Now())
			if err := s.Create(ctx, j); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if err := s.Create(ctx, j); err == nil {
				t.Fatal("expected error for duplicate id")
			}
		})
	}
}

func TestRedisStore_ExpiredJobIsNotRecreated(t *testing.T) {
	kv := newMockRecordStore()
	s := NewRedisStore(kv, time.Hour)
	ctx := context.Background()
	if err := s.Create(ctx, domjob.New("old", "f", "p", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	kv.expire("leadex:export_job:old")

	if _, err := s.Update(ctx, "old", domjob.Progress(1)); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("Update: expected ErrJobNotFound, got %v", err)
	}
	if _, ok := kv.data["leadex:export_job:old"]; ok {
		t.Error("expired job was written back")
	}
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	kv := newMockRecordStore()
	s := NewRedisStore(kv, 72*time.Hour)
	if err := s.Create(context.Background(), domjob.New("abc", "f", "p", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ttl := kv.ttls["leadex:export_job:abc"]; ttl != 72*time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestRedisStore_BackendError(t *testing.T) {
	kv := newMockRecordStore()
	kv.err = &db.Error{Op: db.OpGet, Err: errors.New("conn reset")}
	s := NewRedisStore(kv, time.Hour)

	_, err := s.Get(context.Background(), "x")
	if err == nil || errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Create(ctx, domjob.New("j", "f", "p", time.Now()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, "j", domjob.Progress(int64(i)))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx, "j")
		}()
	}
	wg.Wait()
}
