package brain

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache maps normalized prompt text to a previously generated response.
// Capacity is fixed; the least recently used entry is evicted when full.
type Cache struct {
	lru *lru.Cache[string, string]
}

func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

func (c *Cache) Get(prompt string) (string, bool) {
	return c.lru.Get(NormalizePrompt(prompt))
}

func (c *Cache) Put(prompt, response string) {
	c.lru.Add(NormalizePrompt(prompt), response)
}

func (c *Cache) Len() int { return c.lru.Len() }

// NormalizePrompt folds case, collapses whitespace runs and strips
// trailing sentence punctuation, so "What time is it?" and
// "what  time is it" share one entry.
func NormalizePrompt(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".!?")
}
