package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chunkcache/internal/bake"
	"chunkcache/internal/watch"
)

// watchCmd keeps a document's cache current while it is being edited
var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Re-bake a document whenever its source changes",
	Long: `Bakes the document once, then watches the source file and re-bakes on
every change (debounced). Runs until interrupted.

Example:
  chunkcache watch 03-quality-control.md`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	docPath, err := bookLocator().Resolve(args[0])
	if err != nil {
		return err
	}

	baker := bake.New(logger)
	rebake := func(ctx context.Context, path string) error {
		bakeCtx, cancel := context.WithTimeout(ctx, cfg.BakeTimeout())
		defer cancel()
		_, err := baker.Run(bakeCtx, path)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial bake so the cache is current before the first edit.
	if err := rebake(ctx, docPath); err != nil {
		return fmt.Errorf("initial bake failed: %w", err)
	}

	w, err := watch.New(docPath, rebake, logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Stop()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", docPath)
	<-ctx.Done()
	logger.Info("watch interrupted, shutting down", zap.String("document", docPath))
	return nil
}
