package cache

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/ports"
)

const (
	DefaultMaxSize = 100
	DefaultTTL     = time.Hour
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

type entry struct {
	result    domain.QueryResult
	createdAt time.Time
	hits      int
}

// ResultCache memoizes pipeline results keyed by normalized question
// and interview type. Expiry is lazy on read; when full, the entry
// with the oldest creation time is evicted.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*entry

	maxSize int
	ttl     time.Duration
	clock   ports.Clock
}

type Option func(*ResultCache)

func WithMaxSize(n int) Option {
	return func(c *ResultCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

func WithTTL(d time.Duration) Option {
	return func(c *ResultCache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func New(clock ports.Clock, opts ...Option) *ResultCache {
	c := &ResultCache{
		entries: make(map[string]*entry),
		maxSize: DefaultMaxSize,
		ttl:     DefaultTTL,
		clock:   clock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ResultCache) Get(question string, interviewType domain.InterviewType) (domain.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question, interviewType)
	e, ok := c.entries[key]
	if !ok {
		return domain.QueryResult{}, false
	}
	if c.clock.Now().Sub(e.createdAt) > c.ttl {
		delete(c.entries, key)
		return domain.QueryResult{}, false
	}
	e.hits++
	return e.result, true
}

func (c *ResultCache) Set(question string, interviewType domain.InterviewType, result domain.QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(question, interviewType)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = &entry{
		result:    result,
		createdAt: c.clock.Now(),
	}
}

func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

func (c *ResultCache) Info() domain.CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := domain.CacheInfo{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
	}
	for _, e := range c.entries {
		info.Hits += e.hits
	}
	if c.maxSize > 0 {
		info.Utilization = float64(len(c.entries)) / float64(c.maxSize)
	}
	return info
}

// evictOldest drops the entry with the earliest creation time.
// Callers must hold the lock.
func (c *ResultCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.createdAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func cacheKey(question string, interviewType domain.InterviewType) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	normalized = nonWordPattern.ReplaceAllString(normalized, "")
	normalized = strings.Join(strings.Fields(normalized), " ")
	return string(interviewType) + "|" + normalized
}
