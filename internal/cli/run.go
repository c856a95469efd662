package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/lecnotes/internal/config"
	"github.com/forPelevin/lecnotes/internal/logger"
	"github.com/forPelevin/lecnotes/internal/pipeline"
	"github.com/forPelevin/lecnotes/internal/store"
	"github.com/forPelevin/lecnotes/internal/types"
	"github.com/forPelevin/lecnotes/internal/watcher"
)

func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Process one lecture video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if docx, _ := cmd.Flags().GetBool("docx"); docx {
				cfg.Export.Docx = true
			}
			absIn, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Paths.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
			defer cancel()

			rec, err := pipeline.New(cfg, logger.New(cfg.Logging.Level), st).Process(ctx, absIn)
			if err != nil {
				return err
			}
			printSummary(cmd, rec)
			return nil
		},
	}
	cmd.Flags().Bool("docx", false, "Also write a .docx study sheet")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Process every new video dropped into a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.Paths.Uploads
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", dir, err)
			}

			st, err := store.Open(cfg.Paths.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			log := logger.New(cfg.Logging.Level)
			p := pipeline.New(cfg, log, st)
			w, err := watcher.New(dir, func(ctx context.Context, path string) error {
				rec, err := p.Process(ctx, path)
				if err != nil {
					return err
				}
				printSummary(cmd, rec)
				return nil
			}, log, watcher.DefaultSettle)
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <video>",
		Short: "Print the stored record of a processed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				rec, err := st.Get(filepath.Base(args[0]))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "    ")
				return enc.Encode(rec)
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write all records to a JSON file (default <data>/db.json)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.Data, "db.json")
			if len(args) == 1 {
				path = args[0]
			}
			st, err := store.Open(cfg.Paths.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.ExportJSON(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported: %s\n", path)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <video>",
		Short: "Remove the stored record of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(st *store.Store) error {
				return st.Delete(filepath.Base(args[0]))
			})
		},
	}
}

// loadConfig reads --config. The default path may be absent; an explicit one
// must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Paths.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func printSummary(cmd *cobra.Command, rec types.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "video:       %s\n", rec.Video)
	fmt.Fprintf(out, "transcript:  %s\n", rec.TranscriptPath)
	fmt.Fprintf(out, "summary:     %s\n", rec.SummaryPath)
	fmt.Fprintf(out, "flashcards:  %d\n", len(rec.Flashcards))
	fmt.Fprintf(out, "quiz:        %d\n", len(rec.Quiz))
}
