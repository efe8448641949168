package scheduler

import (
	"time"

	"github.com/roombox/roombox/internal/cache"
)

// dedupeWindow suppresses repeat sends for the same key inside a rolling
// window. Each key carries its own window, so minute-cycle guests are not
// silenced for the hours a monthly reminder is.
type dedupeWindow struct {
	seen *cache.TTLCache[string, time.Time]
}

func newDedupeWindow() *dedupeWindow {
	return &dedupeWindow{seen: cache.NewTTLCache[string, time.Time]()}
}

func (d *dedupeWindow) Allow(key string, now time.Time, window time.Duration) bool {
	if key == "" {
		return false
	}
	if _, ok := d.seen.Get(key, now); ok {
		return false
	}
	d.seen.Set(key, now, window, now)
	return true
}
