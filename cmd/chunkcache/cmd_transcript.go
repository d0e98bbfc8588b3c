package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"chunkcache/internal/chunk"
	"chunkcache/internal/transcript"
)

var (
	transcriptChunk   string
	transcriptPreview bool
)

// transcriptCmd renders the replayed-code transcript for a target chunk
var transcriptCmd = &cobra.Command{
	Use:   "transcript [document]",
	Short: "Render the transcript of chunks up to a target",
	Long: `Prints the collapsible transcript block for the chunk prefix ending at
--chunk, exactly as an extraction would embed it in a rendered chapter.
With --preview the markdown is rendered for the terminal instead.

Example:
  chunkcache transcript quality-control --chunk filtering --preview`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscript,
}

func init() {
	transcriptCmd.Flags().StringVar(&transcriptChunk, "chunk", "", "target chunk bounding the transcript (required)")
	transcriptCmd.Flags().BoolVar(&transcriptPreview, "preview", false, "render the markdown for the terminal")
	_ = transcriptCmd.MarkFlagRequired("chunk")
}

func runTranscript(cmd *cobra.Command, args []string) error {
	docPath, err := bookLocator().Resolve(args[0])
	if err != nil {
		return err
	}

	text, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", docPath, err)
	}
	store, err := chunk.Parse(string(text))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", docPath, err)
	}
	prefix, err := store.Prefix(transcriptChunk)
	if err != nil {
		return err
	}

	out := transcript.Render(prefix)
	if !transcriptPreview {
		fmt.Println(out)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to plain text when the terminal profile is unusable.
		fmt.Println(out)
		return nil
	}
	rendered, err := renderer.Render(out)
	if err != nil {
		fmt.Println(out)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
