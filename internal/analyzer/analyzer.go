package analyzer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/bucket"
	"github.com/penwyp/go-chronoface/internal/core/layout"
	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/core/render"
	"github.com/penwyp/go-chronoface/internal/data/cache"
	"github.com/penwyp/go-chronoface/internal/data/parser"
	"github.com/penwyp/go-chronoface/internal/data/scanner"
	"github.com/penwyp/go-chronoface/internal/presentation/formatter"
	"github.com/penwyp/go-chronoface/internal/util"
)

var (
	ErrNoItemFiles   = errors.New("no item files found")
	ErrUnknownBucket = errors.New("unknown bucket")
)

// AllBuckets requests a collage of every bucket's representative.
const AllBuckets = "all"

type Config struct {
	Input         string
	CacheDir      string
	OutputFormat  string
	Timezone      string
	Granularity   model.Granularity
	Paper         model.PaperSize
	FaceSelection model.FaceSelection
	Concurrency   int
	RunID         string
	// Selects are manual picks, bucket key -> item id, recorded for RunID.
	Selects        map[string]string
	ResetSelection bool
	// Bucket is the render target: AllBuckets or a single bucket key.
	Bucket  string
	Display render.DisplayOptions
}

type Analyzer struct {
	config  *Config
	loc     *time.Location
	store   cache.Store
	scanner *scanner.FileScanner
	parser  *parser.Parser
	out     io.Writer
}

// Result is one pass over the input.
type Result struct {
	RunID     string
	Load      *parser.LoadResult
	Buckets   []bucket.Bucket
	Selection bucket.Selection
	Coverage  bucket.CoverageSummary
	Units     []model.TimestampedItem
	Plan      layout.Plan
}

func New(config *Config) (*Analyzer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.Granularity == "" {
		config.Granularity = model.GranularityMonth
	}
	if config.Paper == "" {
		config.Paper = model.PaperA4
	}
	if config.FaceSelection == "" {
		config.FaceSelection = model.SelectAcceptedAndUnreviewed
	}
	if config.Display.Background == "" {
		config.Display = render.DefaultDisplayOptions()
	}
	if config.Bucket == "" {
		config.Bucket = AllBuckets
	}

	tp, err := util.NewTimeProvider(config.Timezone)
	if err != nil {
		return nil, err
	}

	if config.RunID == "" {
		config.RunID = cache.NewRunID()
		util.LogDebugf("Generated run id %s", config.RunID)
	}
	if err := cache.ValidateRunID(config.RunID); err != nil {
		return nil, err
	}

	store, err := cache.NewFileStore(config.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open selection store: %w", err)
	}

	return &Analyzer{
		config:  config,
		loc:     tp.Location(),
		store:   store,
		scanner: scanner.NewFileScanner(config.Input),
		parser:  parser.NewParser(config.Concurrency),
		out:     os.Stdout,
	}, nil
}

// SetOutput redirects formatted output, os.Stdout by default.
func (a *Analyzer) SetOutput(w io.Writer) {
	a.out = w
}

func (a *Analyzer) RunID() string {
	return a.config.RunID
}

// Run analyzes the input and writes the report in the configured format.
func (a *Analyzer) Run() error {
	res, err := a.Analyze()
	if err != nil {
		return err
	}

	outputStart := time.Now()
	err = a.formatAndOutput(a.Report(res))
	util.LogDebugf("Formatting and output duration: %v", time.Since(outputStart))
	return err
}

// Analyze scans, parses and buckets the input, applies recorded and new
// selections, and solves the layout for the resulting units.
func (a *Analyzer) Analyze() (*Result, error) {
	startTime := time.Now()
	g := a.config.Granularity
	util.LogInfof("Starting %s analysis of %s", g, a.config.Input)

	// Phase 1: Scan files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan input: %w", err)
	}
	scanDuration := time.Since(scanStart)
	util.LogDebugf("Phase 1 - File scan duration: %v, found %d files", scanDuration, len(files))

	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoItemFiles, a.config.Input)
	}

	// Phase 2: Parse and merge
	parseStart := time.Now()
	loaded, err := a.parser.Load(files, a.loc, a.config.FaceSelection)
	if err != nil {
		return nil, err
	}
	parseDuration := time.Since(parseStart)
	util.LogDebugf("Phase 2 - Parse duration: %v, items: %d", parseDuration, len(loaded.Items))

	// Phase 3: Selection snapshot
	selectStart := time.Now()
	snap := a.loadSnapshot()
	sel := snap.Selection(g)
	if a.config.ResetSelection {
		util.LogInfof("Resetting %d %s selections for run %s", sel.Len(), g, a.config.RunID)
		sel = bucket.Selection{}
	}
	for key, id := range a.validSelects(loaded.Items, g) {
		sel = sel.With(key, id)
	}
	selectDuration := time.Since(selectStart)
	util.LogDebugf("Phase 3 - Selection load duration: %v, picks: %d", selectDuration, sel.Len())

	// Phase 4: Group
	groupStart := time.Now()
	buckets := bucket.Group(loaded.Items, g, sel)
	groupDuration := time.Since(groupStart)
	review := bucket.Review(buckets)
	util.LogDebugf("Phase 4 - Grouping duration: %v, buckets: %d (%d pending review, %d resolved)",
		groupDuration, len(buckets), len(review.Pending), len(review.Resolved))

	if err := a.saveSelection(snap, sel, buckets); err != nil {
		util.LogWarnf("Failed to save selections for run %s: %v", a.config.RunID, err)
	}

	// Phase 5: Coverage and layout
	solveStart := time.Now()
	allUnits := bucket.Units(loaded.Items, buckets, g)
	coverage := bucket.Report(buckets, g, len(allUnits))
	units := a.capUnits(allUnits)
	plan, err := layout.SolveForPaper(len(units), a.config.Paper)
	if err != nil {
		return nil, err
	}
	solveDuration := time.Since(solveStart)
	util.LogDebugf("Phase 5 - Coverage and layout duration: %v, plan: %s", solveDuration, plan)

	logLoadStats(loaded)

	util.LogDebugf("Total duration: %v (scan:%v parse:%v select:%v group:%v solve:%v)",
		time.Since(startTime), scanDuration, parseDuration, selectDuration, groupDuration, solveDuration)

	return &Result{
		RunID:     a.config.RunID,
		Load:      loaded,
		Buckets:   buckets,
		Selection: sel.Prune(buckets),
		Coverage:  coverage,
		Units:     units,
		Plan:      plan,
	}, nil
}

func (a *Analyzer) loadSnapshot() *cache.Snapshot {
	res := a.store.Get(a.config.RunID)
	if res.Found {
		return res.Snapshot
	}
	util.LogDebugf("No selection snapshot for run %s (%s)", a.config.RunID, res.MissReason)
	return cache.NewSnapshot(a.config.RunID)
}

// validSelects keeps the requested picks whose item falls in the named
// bucket.
func (a *Analyzer) validSelects(items []model.TimestampedItem, g model.Granularity) map[string]string {
	if len(a.config.Selects) == 0 {
		return nil
	}
	if g == model.GranularityAll {
		util.LogWarnf("Selections are ignored for granularity %s", g)
		return nil
	}

	keyOf := make(map[string]string, len(items))
	for _, item := range items {
		if key, ok := bucket.Key(item.Timestamp, g); ok {
			keyOf[item.ID] = key
		}
	}

	valid := make(map[string]string, len(a.config.Selects))
	for key, id := range a.config.Selects {
		if keyOf[id] != key {
			util.LogWarnf("Item %s is not in %s bucket %s; selection ignored", id, g, key)
			continue
		}
		valid[key] = id
	}
	return valid
}

// saveSelection persists explicit changes only, dropping picks that no
// longer match a bucket member.
func (a *Analyzer) saveSelection(snap *cache.Snapshot, sel bucket.Selection, buckets []bucket.Bucket) error {
	if len(a.config.Selects) == 0 && !a.config.ResetSelection {
		return nil
	}
	if a.config.Granularity == model.GranularityAll {
		return nil
	}
	snap.SetSelection(a.config.Granularity, sel.Prune(buckets))
	return a.store.Set(snap)
}

func (a *Analyzer) capUnits(units []model.TimestampedItem) []model.TimestampedItem {
	limit := a.config.Display.MaxFaces
	if limit > 0 && len(units) > limit {
		util.LogWarnf("Rendering the first %d of %d faces (max faces)", limit, len(units))
		return units[:limit]
	}
	return units
}

// BuildRequest assembles the render request for the configured bucket.
// The request is clamped to the renderer's limits and validated.
func (a *Analyzer) BuildRequest(res *Result) (render.RenderRequest, error) {
	target := a.config.Bucket
	units := res.Units
	plan := res.Plan

	if target != AllBuckets {
		b, ok := findBucket(res.Buckets, target)
		if !ok {
			return render.RenderRequest{}, fmt.Errorf("%w %q for granularity %s", ErrUnknownBucket, target, a.config.Granularity)
		}
		units = a.capUnits(b.Items)
		var err error
		if plan, err = layout.SolveForPaper(len(units), a.config.Paper); err != nil {
			return render.RenderRequest{}, err
		}
	}

	opts := a.config.Display
	opts.RunID = res.RunID
	opts.FaceSelection = a.config.FaceSelection
	ordered := render.Order(units, opts.Sort, render.Seed(res.RunID, target, opts.Sort))

	req := render.Build(plan, a.config.Paper, render.Selection{
		Bucket:  target,
		FaceIDs: render.FaceIDs(ordered),
	}, opts)
	if changed := req.Clamp(); len(changed) > 0 {
		util.LogWarnf("Clamped %s to the renderer's limits", strings.Join(changed, ", "))
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// Plan analyzes the input and builds the render request.
func (a *Analyzer) Plan() (*Result, render.RenderRequest, error) {
	res, err := a.Analyze()
	if err != nil {
		return nil, render.RenderRequest{}, err
	}
	req, err := a.BuildRequest(res)
	return res, req, err
}

func (a *Analyzer) formatAndOutput(report *formatter.Report) error {
	return formatter.New(a.config.OutputFormat).Format(a.out, report)
}

func findBucket(buckets []bucket.Bucket, key string) (bucket.Bucket, bool) {
	for _, b := range buckets {
		if b.Key == key {
			return b, true
		}
	}
	return bucket.Bucket{}, false
}
