package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NamanBalaji/debridget/internal/engine"
	"github.com/NamanBalaji/debridget/internal/logger"
	"github.com/NamanBalaji/debridget/internal/progress"
	"github.com/NamanBalaji/debridget/internal/status"
	"github.com/NamanBalaji/debridget/internal/task"
	"github.com/NamanBalaji/debridget/internal/tui"
	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

// NewGetCmd creates the get command.
func NewGetCmd() *cobra.Command {
	var (
		dir      string
		name     string
		category string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "get URL...",
		Short: "Download one or more links",
		Long:  "Download the given links in parallel and watch them in the terminal UI, or as plain progress lines with --plain.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name can only be used with a single URL")
			}

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			if dir == "" {
				dir = cfg.CategoryDir(category)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng := engine.New(engineConfig(cfg))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()

				if err := eng.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Engine shutdown: %v", err)
				}
			}()

			ids, err := launch(eng, args, name, dir)
			if err != nil {
				return err
			}

			if plain {
				return watch(ctx, cmd.OutOrStdout(), eng, ids, 500*time.Millisecond)
			}

			return tui.Run(ctx, eng, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Target directory (default from config)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "File name to save as (single URL only)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category whose directory to use (movies, series)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of opening the terminal UI")

	return cmd
}

func launch(eng *engine.Engine, urls []string, name, dir string) ([]string, error) {
	ids := make([]string, 0, len(urls))

	for _, url := range urls {
		filename := name
		if filename == "" {
			filename = httpPkg.FilenameFromURL(url)
		}

		id := uuid.NewString()
		if err := eng.StartDownload(url, filename, id, dir); err != nil {
			return ids, fmt.Errorf("failed to start %s: %w", url, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// watch prints a progress line per task until every task is terminal or ctx is done.
// It returns an error when any task did not complete.
func watch(ctx context.Context, out io.Writer, eng *engine.Engine, ids []string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tasks := lookup(eng, ids)
		printProgress(out, tasks)

		if allTerminal(tasks) {
			return summarize(tasks)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func lookup(eng *engine.Engine, ids []string) []task.Task {
	tasks := make([]task.Task, 0, len(ids))

	for _, id := range ids {
		t, err := eng.GetTask(id)
		if err != nil {
			continue
		}

		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Filename < tasks[j].Filename })

	return tasks
}

func allTerminal(tasks []task.Task) bool {
	for _, t := range tasks {
		if !t.Status.IsTerminal() {
			return false
		}
	}

	return true
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func printProgress(out io.Writer, tasks []task.Task) {
	for _, t := range tasks {
		fmt.Fprintf(out, "%-12s %s %3d%% %10s %8s  %s\n",
			t.Status,
			progressBar(t.Progress, 30),
			t.Progress,
			t.Speed,
			t.ETA,
			t.Filename)
	}
}

func summarize(tasks []task.Task) error {
	var failed []string

	for _, t := range tasks {
		switch t.Status {
		case status.Error:
			failed = append(failed, fmt.Sprintf("%s: %s", t.Filename, t.Error))
		case status.Cancelled:
			failed = append(failed, t.Filename+": cancelled")
		case status.Completed:
			logger.Infof("Downloaded %s (%s)", t.Filename, progress.FormatSize(t.Downloaded))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d download(s) did not complete:\n  %s", len(failed), strings.Join(failed, "\n  "))
	}

	return nil
}
