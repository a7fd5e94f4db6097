package repository

import (
	"errors"

	"sector-rotation/config"
	"sector-rotation/pkg/cache"
	"sector-rotation/pkg/logger"
)

// ErrNoData marks a per-symbol fetch that produced no usable quote this
// cycle. Callers treat it the same as any transport failure: the symbol
// degrades to unknown until the next scheduled cycle.
var ErrNoData = errors.New("no quote data available")

type Repository struct {
	QuoteRepo QuoteRepository
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) *Repository {
	return &Repository{
		QuoteRepo: NewMetaSyncRepository(cfg, inmemoryCache, log),
	}
}
