package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/newslens/internal/db"
)

type mockKV struct {
	data      map[string][]byte
	incrCalls int
	expires   []bool
	incrErr   error
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) IncrBy(_ context.Context, _ string, val int64) (int64, error) {
	m.incrCalls++
	return val, m.incrErr
}

func (m *mockKV) Expire(_ context.Context, _ string, _ time.Duration, nx bool) error {
	m.expires = append(m.expires, nx)
	return nil
}

func TestStore_IncrBySetsExpiryNX(t *testing.T) {
	kv := &mockKV{}
	s := New(kv, 48*time.Hour)

	if err := s.IncrBy(context.Background(), "newslens:quota:gnews:daily:2025-03-04", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.incrCalls != 1 {
		t.Errorf("expected 1 INCRBY, got %d", kv.incrCalls)
	}
	if len(kv.expires) != 1 || !kv.expires[0] {
		t.Errorf("expected one EXPIRE NX, got %v", kv.expires)
	}
}

func TestStore_IncrByError(t *testing.T) {
	kv := &mockKV{incrErr: errors.New("readonly")}
	if err := New(kv, time.Hour).IncrBy(context.Background(), "k", 1); err == nil {
		t.Fatal("expected error")
	}
	if len(kv.expires) != 0 {
		t.Error("EXPIRE must not run after a failed INCRBY")
	}
}

func TestStore_Get(t *testing.T) {
	kv := &mockKV{data: map[string][]byte{"k": []byte("42"), "bad": []byte("x")}}
	s := New(kv, time.Hour)

	if v, err := s.Get(context.Background(), "k"); err != nil || v != 42 {
		t.Errorf("expected 42, got %d (%v)", v, err)
	}
	if v, err := s.Get(context.Background(), "missing"); err != nil || v != 0 {
		t.Errorf("expected 0 for missing key, got %d (%v)", v, err)
	}
	if _, err := s.Get(context.Background(), "bad"); err == nil {
		t.Error("expected parse error")
	}
}
