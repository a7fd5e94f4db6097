package service

import (
	"sector-rotation/config"
	"sector-rotation/internal/dashboard"
	"sector-rotation/internal/repository"
	"sector-rotation/pkg/logger"
)

type Service struct {
	Watcher WatcherService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	board *dashboard.Board,
	presenter Presenter,
) *Service {
	return &Service{
		Watcher: NewWatcherService(cfg, log, repo.QuoteRepo, board, presenter),
	}
}
