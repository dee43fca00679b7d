package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/leadex/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Create stores value under a new key (SET NX). A non-positive ttl stores
// the record without expiry.
func (s *Store) Create(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var cmd rueidis.Completed
	if secs := int64(ttl / time.Second); secs > 0 {
		cmd = s.b().Set().Key(key).Value(string(value)).Nx().ExSeconds(secs).Build()
	} else {
		cmd = s.b().Set().Key(key).Value(string(value)).Nx().Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyExists
		}
		return &db.Error{Op: db.OpCreate, Err: err}
	}
	return nil
}

// Replace overwrites an existing key and keeps its TTL (SET XX KEEPTTL).
// An expired record is not resurrected.
func (s *Store) Replace(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Xx().Keepttl().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return db.ErrKeyNotFound
		}
		return &db.Error{Op: db.OpReplace, Err: err}
	}
	return nil
}
