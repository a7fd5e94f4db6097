package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sector-rotation/internal/dashboard"
	"sector-rotation/internal/delivery/console"
	"sector-rotation/internal/repository"
	"sector-rotation/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll sector quotes and render the rotation dashboard",
	Run:   Watch,
}

func Watch(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo := repository.NewRepository(appDep.cfg, appDep.cache, appDep.log)
	board := dashboard.NewBoardFromConfig(appDep.cfg)
	renderer := console.NewRenderer(os.Stdout, appDep.cfg)

	services := service.NewService(appDep.cfg, appDep.log, repo, board, renderer)

	// Close before exiting on a run error so the logger still flushes.
	runErr := services.Watcher.Run(ctx)

	if err := appDep.Close(); err != nil {
		log.Printf("Failed to close app dependency: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Watcher stopped with error: %v", runErr)
	}
}
