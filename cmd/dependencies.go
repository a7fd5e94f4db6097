package cmd

import (
	"sector-rotation/config"
	"sector-rotation/pkg/cache"
	"sector-rotation/pkg/logger"
)

type AppDependency struct {
	cfg   *config.Config
	log   *logger.Logger
	cache cache.Cache
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	return &AppDependency{
		cfg:   cfg,
		log:   log,
		cache: cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	return d.log.Sync()
}
