package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "lecnotes.yaml"

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "lecnotes",
		Short:        "Turn lecture videos into transcripts, summaries, notes, flashcards and quizzes",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", defaultConfigPath, "Path to YAML config")

	root.AddCommand(
		newProcessCmd(),
		newWatchCmd(),
		newShowCmd(),
		newExportCmd(),
		newDeleteCmd(),
	)
	return root
}
