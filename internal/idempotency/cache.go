// Package idempotency replays previously returned create-order responses for
// reused client keys. The cache is bounded by capacity and TTL, and each entry
// is bound to a hash of the request payload so a reused key with a different
// body is rejected instead of silently answered with the stale result.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
)

// Record is one cached outcome: the exact bytes previously returned, bound to
// the payload that produced them.
type Record struct {
	PayloadHash string
	Response    []byte
}

type Cache struct {
	entries *lru.LRU[string, Record]
}

func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{entries: lru.NewLRU[string, Record](capacity, nil, ttl)}
}

// HashPayload fingerprints a request body for key-reuse detection.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the stored response for key when the payload matches the one
// originally cached. A key reused with a different payload yields
// domain.ErrIdempotencyConflict.
func (c *Cache) Lookup(key, payloadHash string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	rec, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if rec.PayloadHash != payloadHash {
		return nil, false, domain.ErrIdempotencyConflict
	}
	return rec.Response, true, nil
}

// Store caches the final response bytes for key. A missing key is a no-op.
func (c *Cache) Store(key, payloadHash string, response []byte) {
	if key == "" {
		return
	}
	c.entries.Add(key, Record{PayloadHash: payloadHash, Response: response})
}
