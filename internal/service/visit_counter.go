package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

const (
	visitCountKey    = "visitCount"
	visitedKeyPrefix = "visited:"
)

// KVStore is the durable key/value port behind the visit counter.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// VisitCounter counts each visitor once.
type VisitCounter struct {
	mu    sync.Mutex
	store KVStore
}

func NewVisitCounter(store KVStore) *VisitCounter {
	return &VisitCounter{store: store}
}

// RecordVisit increments the counter the first time visitorID is seen and
// returns the current count. It reports whether this visit was counted.
func (c *VisitCounter) RecordVisit(ctx context.Context, visitorID string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.count(ctx)
	if err != nil {
		return 0, false, err
	}

	_, visited, err := c.store.Get(ctx, visitedKeyPrefix+visitorID)
	if err != nil {
		return 0, false, fmt.Errorf("read visited marker: %w", err)
	}
	if visited {
		return count, false, nil
	}

	count++
	if err := c.store.Set(ctx, visitCountKey, strconv.Itoa(count)); err != nil {
		return 0, false, fmt.Errorf("store visit count: %w", err)
	}
	if err := c.store.Set(ctx, visitedKeyPrefix+visitorID, "true"); err != nil {
		return 0, false, fmt.Errorf("store visited marker: %w", err)
	}
	return count, true, nil
}

// Count returns the number of distinct visitors seen so far.
func (c *VisitCounter) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count(ctx)
}

func (c *VisitCounter) count(ctx context.Context) (int, error) {
	raw, found, err := c.store.Get(ctx, visitCountKey)
	if err != nil {
		return 0, fmt.Errorf("read visit count: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse visit count %q: %w", raw, err)
	}
	return n, nil
}
