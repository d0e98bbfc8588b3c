package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chunkcache/internal/bake"
)

// bakeCmd executes a document and populates its execution cache
var bakeCmd = &cobra.Command{
	Use:   "bake [document]",
	Short: "Execute a document's chunks and persist their variables",
	Long: `Runs every referenceable chunk of a document, in document order, inside a
sandboxed interpreter session and writes the variables each chunk assigns to
the document's chunk cache. The cache is replaced atomically; a failing bake
leaves the previous cache intact.

Example:
  chunkcache bake 03-quality-control.md`,
	Args: cobra.ExactArgs(1),
	RunE: runBake,
}

func runBake(cmd *cobra.Command, args []string) error {
	docPath, err := bookLocator().Resolve(args[0])
	if err != nil {
		return err
	}
	logger.Info("baking document", zap.String("document", docPath))

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(baseCtx, cfg.BakeTimeout())
	defer cancel()

	sum, err := bake.New(logger).Run(ctx, docPath)
	if err != nil {
		return fmt.Errorf("bake failed: %w", err)
	}

	fmt.Printf("Baked %s: %d chunks, %d cached objects (run %s)\n",
		docPath, sum.Run.Chunks, sum.Run.Objects, sum.Run.ID)
	return nil
}
