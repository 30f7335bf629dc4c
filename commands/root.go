package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chronoface/internal/analyzer"
	"github.com/penwyp/go-chronoface/internal/config"
	"github.com/penwyp/go-chronoface/internal/core/render"
	"github.com/penwyp/go-chronoface/internal/data/cache"
	"github.com/penwyp/go-chronoface/internal/util"
)

var (
	// Logging related
	debug bool

	// Input and config
	cfgFile   string
	inputPath string
	runID     string

	// Output related
	outputFormat string

	// Selection
	selects        []string
	resetSelection bool

	rootCmd = &cobra.Command{
		Use:   "go-chronoface [input] [flags]",
		Short: "Calendar coverage and collage layout for face collections",
		Long: `go-chronoface groups accepted face records into calendar buckets, reports which
periods are covered and plans a printable collage grid with one face per tile.

Input is a JSON array or JSON-lines file of {id, timestamp, score} records, or a
directory scanned recursively for .json and .jsonl files.

Examples:
  go-chronoface faces.jsonl                              # Monthly coverage table
  go-chronoface ./export -g week -o summary              # Weekly summary report
  go-chronoface faces.jsonl --select 2024-03=face-812    # Pick the March face by hand
  go-chronoface faces.jsonl -g year -o json              # Yearly buckets as JSON
  go-chronoface plan faces.jsonl --paper A3              # Render request for an A3 page
  go-chronoface watch ./export                           # Re-run on every change`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()

	// Input data configuration
	pf.StringVar(&cfgFile, "config", "",
		"Config file (default ./config.yaml or "+config.DefaultHome+"/config.yaml)")
	pf.StringVarP(&inputPath, "input", "i", ".",
		"Item file or directory of .json/.jsonl files")
	pf.StringVar(&runID, "run-id", "",
		"Run id that manual selections are recorded under (default derived from the input path)")

	// Bucketing and layout
	pf.String("timezone", "Local", "Timezone for bucketing (e.g., Asia/Shanghai, UTC)")
	pf.StringP("granularity", "g", "month", "Bucket granularity (day, week, month, year, all)")
	pf.String("paper", "A4", "Paper size (A5, A4, A3)")
	pf.String("face-selection", "accepted_and_unreviewed", "Faces to include (accepted_only, accepted_and_unreviewed)")
	pf.String("cache-dir", "~/.go-chronoface/selections", "Directory for recorded selections")
	pf.Int("concurrency", runtime.NumCPU(), "Number of files parsed in parallel")

	// Renderer and display
	pf.String("render-url", "http://127.0.0.1:8000", "Collage renderer base URL")
	pf.Duration("render-timeout", 60*time.Second, "Collage renderer request timeout")
	pf.String("background", "white", "Collage background color")
	pf.String("sort", "by_time", "Face order (by_time, by_cluster, random)")
	pf.Int("max-faces", 300, fmt.Sprintf("Maximum faces per collage (1-%d)", render.MaxFaces))
	pf.Bool("rounded", false, "Round tile corners")
	pf.Bool("show-labels", true, "Print period labels under tiles")
	pf.String("label-format", "", "Label period (day, week, month, year, all; default the granularity)")
	pf.String("title", "", "Collage title")
	pf.Bool("preview", false, "Ask the renderer for a low-resolution preview")

	// System and debugging
	pf.String("log-file", "~/.go-chronoface/logs/app.log", "Log file path (empty disables file logging)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.BoolVar(&debug, "debug", false, "Enable debug mode")

	// Output and selection
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringArrayVar(&selects, "select", nil,
		"Record a manual pick as bucket=item (repeatable)")
	rootCmd.Flags().BoolVar(&resetSelection, "reset-selection", false,
		"Forget manual picks for this run and granularity")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	picks, err := analyzer.ParseSelects(selects)
	if err != nil {
		return err
	}

	acfg := newAnalyzerConfig(cfg, resolveInput(args))
	acfg.OutputFormat = outputFormat
	acfg.Selects = picks
	acfg.ResetSelection = resetSelection

	a, err := analyzer.New(acfg)
	if err != nil {
		return err
	}
	a.SetOutput(cmd.OutOrStdout())
	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// loadSettings resolves the configuration and initializes logging and the
// time provider.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logOpts := cfg.LoggerOptions(debug)
	if logOpts.File != "" {
		if err := ensureDir(filepath.Dir(logOpts.File)); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(logOpts); err != nil {
		return nil, err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return nil, err
	}
	if err := ensureDir(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return cfg, nil
}

func resolveInput(args []string) string {
	if len(args) > 0 {
		return config.ExpandPath(args[0])
	}
	return config.ExpandPath(inputPath)
}

func newAnalyzerConfig(cfg *config.Config, input string) *analyzer.Config {
	id := runID
	if id == "" {
		id = cache.RunIDFor(input)
	}
	return &analyzer.Config{
		Input:         input,
		CacheDir:      cfg.CacheDir,
		Timezone:      cfg.Timezone,
		Granularity:   cfg.GranularityValue(),
		Paper:         cfg.PaperValue(),
		FaceSelection: cfg.FaceSelectionValue(),
		Concurrency:   cfg.Concurrency,
		RunID:         id,
		Display:       cfg.DisplayOptions(id),
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
