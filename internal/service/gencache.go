package service

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// GenCache memoizes generated captions and vibes by content fingerprint so
// identical (title, tags) combinations never hit the generator twice.
// Entries survive for the process lifetime only; the store remains the single
// source of truth for what a meme actually shipped with.
type GenCache struct {
	entries *lru.Cache[string, string]
}

// NewGenCache creates a generation cache with the given capacity.
// Parameters:
//   - capacity: maximum number of cached entries; least recently used entries
//     are evicted beyond it.
// Returns:
//   - *GenCache: initialized cache.
//   - error: non-nil if the capacity is invalid.
func NewGenCache(capacity int) (*GenCache, error) {
	entries, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &GenCache{entries: entries}, nil
}

// CaptionKey computes the caption fingerprint for a title and tag set.
// Parameters:
//   - title: meme title.
//   - tags: meme tags, order-sensitive.
// Returns:
//   - string: cache key.
func CaptionKey(title string, tags []string) string {
	return title + strings.Join(tags, ",")
}

// VibeKey computes the vibe fingerprint for a tag set.
// Parameters:
//   - tags: meme tags, order-sensitive.
// Returns:
//   - string: cache key.
func VibeKey(tags []string) string {
	return "vibe_" + strings.Join(tags, ",")
}

// Get looks up previously generated text by fingerprint.
// Parameters:
//   - key: fingerprint computed by CaptionKey or VibeKey.
// Returns:
//   - string: cached text if present.
//   - bool: true on a cache hit.
func (c *GenCache) Get(key string) (string, bool) {
	return c.entries.Get(key)
}

// Set stores freshly generated text under its fingerprint.
// Parameters:
//   - key: fingerprint computed by CaptionKey or VibeKey.
//   - text: generated text to cache.
// Returns: none.
func (c *GenCache) Set(key, text string) {
	c.entries.Add(key, text)
}

// Len returns the number of cached entries.
// Parameters: none.
// Returns:
//   - int: current entry count.
func (c *GenCache) Len() int {
	return c.entries.Len()
}
