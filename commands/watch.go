package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chronoface/internal/analyzer"
	"github.com/penwyp/go-chronoface/internal/data/scanner"
	"github.com/penwyp/go-chronoface/internal/data/watcher"
	"github.com/penwyp/go-chronoface/internal/util"
)

var (
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [input]",
	Short: "Re-run the analysis whenever item files change",
	Long: `Prints the analysis once, then watches the input for changes to .json and
.jsonl files and prints it again after the changes settle. Rewrites that leave
a file's content unchanged are ignored. Stops on interrupt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "summary",
		"Output format (table, json, csv, summary)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"Quiet period before re-running")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	acfg := newAnalyzerConfig(cfg, resolveInput(args))
	acfg.OutputFormat = watchOutput
	a, err := analyzer.New(acfg)
	if err != nil {
		return err
	}
	a.SetOutput(cmd.OutOrStdout())

	return watchInput(ctx, cmd, a, acfg.Input, watchDebounce)
}

// watchInput runs a once and then after every settled change until ctx is
// done.
func watchInput(ctx context.Context, cmd *cobra.Command, a *analyzer.Analyzer, input string, debounce time.Duration) error {
	fw, err := watcher.NewFileWatcher(input)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", input, err)
	}
	defer fw.Close()

	tracker := watcher.NewTracker()
	if files, err := scanner.NewFileScanner(input).Scan(); err == nil {
		tracker.Seed(files)
	}

	refresh := func() error {
		tp := util.GetTimeProvider()
		fmt.Fprintf(cmd.OutOrStdout(), "\nRefreshed at %s\n", tp.Format(tp.Now(), "2006-01-02 15:04:05"))
		return a.Run()
	}
	if err := refresh(); err != nil {
		util.LogErrorf("Initial analysis failed: %v", err)
	}

	util.LogInfof("Watching %s for changes", input)
	return watcher.Loop(ctx, fw.Events(), tracker, debounce, refresh)
}
