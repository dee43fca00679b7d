package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err error
	fn  func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.fn != nil {
		return m.fn(ctx)
	}
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[Elasticsearch] != CheckOK {
		t.Errorf("expected elasticsearch %q, got %q", CheckOK, r.Checks[Elasticsearch])
	}
	if r.Checks[Redis] != CheckOK {
		t.Errorf("expected redis %q, got %q", CheckOK, r.Checks[Redis])
	}
}

func TestCheck_EngineError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[Elasticsearch] != CheckError {
		t.Errorf("expected elasticsearch %q, got %q", CheckError, r.Checks[Elasticsearch])
	}
	if r.Checks[Redis] != CheckOK {
		t.Errorf("expected redis %q, got %q", CheckOK, r.Checks[Redis])
	}
}

func TestCheck_RedisError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[Redis] != CheckError {
		t.Errorf("expected redis %q, got %q", CheckError, r.Checks[Redis])
	}
}

func TestCheck_BothFail(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("es down")}, &mockPinger{err: errors.New("redis down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoRedis(t *testing.T) {
	svc := New(&mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[Redis]; ok {
		t.Error("redis check should be absent when redis is nil")
	}
}

func TestCheck_NoRedis_EngineError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("fail")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_PingTimeout(t *testing.T) {
	slow := &mockPinger{fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	svc := New(slow, nil).WithTimeout(10 * time.Millisecond)
	r := svc.Check(context.Background())

	if r.Checks[Elasticsearch] != CheckError {
		t.Errorf("expected elasticsearch %q, got %q", CheckError, r.Checks[Elasticsearch])
	}
}
