// Package cache stores model responses so repeat invocations over the
// same input skip the network round trip.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResponseKey derives the cache key for one generation call. The prompt
// embeds style, mode, keep terms, and facts, so hashing provider, model,
// and prompt covers everything that can change the output.
func ResponseKey(provider, modelName, prompt string) string {
	h := sha256.Sum256([]byte(provider + "\x00" + modelName + "\x00" + prompt))
	return "shred:v1:" + hex.EncodeToString(h[:])
}
