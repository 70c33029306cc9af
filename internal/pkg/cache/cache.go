package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/yigit/examprep/internal/app/models"
)

// QuestionCache keeps per-subject question lists in process memory.
// A non-positive TTL disables caching.
type QuestionCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewQuestionCache creates a cache whose entries expire after ttl
func NewQuestionCache(ttl time.Duration) *QuestionCache {
	if ttl <= 0 {
		return &QuestionCache{}
	}
	return &QuestionCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// FetchOrLoad returns the cached list for key or calls load and caches its
// result. The boolean reports a cache hit.
func (c *QuestionCache) FetchOrLoad(key string, load func() ([]models.Question, error)) ([]models.Question, bool, error) {
	if c.store != nil {
		if cached, found := c.store.Get(key); found {
			return cached.([]models.Question), true, nil
		}
	}

	result, err := load()
	if err != nil {
		return nil, false, err
	}

	if c.store != nil {
		c.store.Set(key, result, c.ttl)
	}
	return result, false, nil
}
