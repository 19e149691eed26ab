// Package cache stores LLM completions keyed by their prompt so that
// re-running an interrupted extraction does not re-bill pages that
// already completed.
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

// Key generates a cache key for one completion request. The model is part
// of the key so switching models invalidates cached payloads.
func Key(model, prompt string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "gleaner:v1:" + hex.EncodeToString(hash[:])
}
