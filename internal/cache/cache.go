package cache

import (
	"context"
	"errors"

	"github.com/anandology/stringart.in/internal/domain"
)

// OrderCache is a read cache in front of the order store. It is never
// authoritative.
type OrderCache interface {
	Get(ctx context.Context, number int64) (*domain.Order, error)
	Set(ctx context.Context, order *domain.Order) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache always misses. Used when no redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, int64) (*domain.Order, error) { return nil, ErrCacheMiss }

func (NopCache) Set(context.Context, *domain.Order) error { return nil }
