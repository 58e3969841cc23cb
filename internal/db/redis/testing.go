package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest wraps a provided rueidis client (test-only). Readiness polling is fast.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c, pollInterval: time.Millisecond}
}
