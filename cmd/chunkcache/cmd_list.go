package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chunkcache/internal/chunk"
)

// listCmd shows the referenceable chunks of one or more documents
var listCmd = &cobra.Command{
	Use:   "list [document...]",
	Short: "List referenceable chunks and the variables they assign",
	Long: `Parses each document and prints its referenceable chunks in document order,
with the variables each chunk's body assigns. Useful for picking extraction
targets and spotting chunks that shadow an earlier variable.

Example:
  chunkcache list quality-control normalization`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

type docListing struct {
	id     string
	path   string
	chunks []*chunk.Chunk
}

func runList(cmd *cobra.Command, args []string) error {
	loc := bookLocator()

	var (
		mu       sync.Mutex
		listings []docListing
	)
	var g errgroup.Group
	for _, id := range args {
		id := id
		g.Go(func() error {
			path, err := loc.Resolve(id)
			if err != nil {
				return err
			}
			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			store, err := chunk.Parse(string(text))
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}

			chunks := make([]*chunk.Chunk, 0, store.Len())
			for _, name := range store.Names() {
				c, _ := store.Get(name)
				chunks = append(chunks, c)
			}
			mu.Lock()
			listings = append(listings, docListing{id: id, path: path, chunks: chunks})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Parsing ran concurrently; report in the order documents were asked for.
	order := make(map[string]int, len(args))
	for i, id := range args {
		order[id] = i
	}
	sort.Slice(listings, func(i, j int) bool {
		return order[listings[i].id] < order[listings[j].id]
	})

	for _, l := range listings {
		fmt.Printf("%s (%s): %d chunk(s)\n", l.id, l.path, len(l.chunks))
		for _, c := range l.chunks {
			assigns := strings.Join(c.Assignments(), ", ")
			if assigns == "" {
				assigns = "-"
			}
			fmt.Printf("  %2d. %-24s assigns: %s\n", c.Position+1, c.Name, assigns)
		}
		fmt.Println()
	}
	return nil
}
