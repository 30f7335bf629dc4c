package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/penwyp/go-chronoface/internal/core/bucket"
	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/util"
)

var ErrInvalidRunID = errors.New("invalid run id")

const snapshotExt = ".json"

type MissReason int

const (
	MissReasonNone MissReason = iota
	MissReasonNotFound
	MissReasonError
)

func (r MissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonNotFound:
		return "not_found"
	case MissReasonError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot holds the manual representative picks of one run, per
// granularity. Bucket keys only make sense for the granularity that
// produced them.
type Snapshot struct {
	RunID     string                                  `json:"run_id"`
	Picks     map[model.Granularity]map[string]string `json:"picks"`
	UpdatedAt time.Time                               `json:"updated_at"`
}

// NewSnapshot returns an empty snapshot for runID.
func NewSnapshot(runID string) *Snapshot {
	return &Snapshot{
		RunID: runID,
		Picks: make(map[model.Granularity]map[string]string),
	}
}

// Selection returns the picks recorded for g.
func (s *Snapshot) Selection(g model.Granularity) bucket.Selection {
	if s == nil {
		return bucket.Selection{}
	}
	return bucket.NewSelection(s.Picks[g])
}

// SetSelection replaces the picks for g. An empty selection removes g.
func (s *Snapshot) SetSelection(g model.Granularity, sel bucket.Selection) {
	if s.Picks == nil {
		s.Picks = make(map[model.Granularity]map[string]string)
	}
	if sel.Len() == 0 {
		delete(s.Picks, g)
		return
	}
	s.Picks[g] = sel.Map()
}

func (s *Snapshot) clone() *Snapshot {
	out := &Snapshot{
		RunID:     s.RunID,
		Picks:     make(map[model.Granularity]map[string]string, len(s.Picks)),
		UpdatedAt: s.UpdatedAt,
	}
	for g, picks := range s.Picks {
		out.Picks[g] = bucket.NewSelection(picks).Map()
	}
	return out
}

type Result struct {
	Snapshot   *Snapshot
	Found      bool
	MissReason MissReason
}

// Store persists selection snapshots by run id.
type Store interface {
	Get(runID string) Result
	Set(snapshot *Snapshot) error
	Delete(runID string) error
	Clear() error
	List() ([]string, error)
}

// FileStore keeps one JSON file per run under baseDir with an in-memory
// layer in front. Returned snapshots are copies.
type FileStore struct {
	baseDir     string
	now         func() time.Time
	mu          sync.RWMutex
	memoryCache map[string]*Snapshot
}

func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{
		baseDir:     baseDir,
		now:         time.Now,
		memoryCache: make(map[string]*Snapshot),
	}, nil
}

// NewRunID returns a fresh random run id.
func NewRunID() string {
	return uuid.NewString()
}

// RunIDFor derives a stable run id from an input path, so repeated runs
// over the same input share their selections.
func RunIDFor(input string) string {
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(input))).String()
}

// ValidateRunID rejects ids that cannot be used as a file name.
func ValidateRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." ||
		strings.ContainsAny(runID, `/\`) || strings.ContainsRune(runID, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

func (c *FileStore) path(runID string) string {
	return filepath.Join(c.baseDir, runID+snapshotExt)
}

func (c *FileStore) Get(runID string) Result {
	if err := ValidateRunID(runID); err != nil {
		return Result{MissReason: MissReasonError}
	}

	c.mu.RLock()
	if snap, ok := c.memoryCache[runID]; ok {
		c.mu.RUnlock()
		return Result{Snapshot: snap.clone(), Found: true}
	}
	c.mu.RUnlock()

	return c.getFromFile(runID)
}

func (c *FileStore) getFromFile(runID string) Result {
	data, err := os.ReadFile(c.path(runID))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			util.LogDebugf("Failed to read selection snapshot %s: %v", runID, err)
			return Result{MissReason: MissReasonError}
		}
		return Result{MissReason: MissReasonNotFound}
	}

	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		util.LogWarnf("Ignoring corrupt selection snapshot %s: %v", c.path(runID), err)
		return Result{MissReason: MissReasonError}
	}
	if snap.RunID == "" {
		snap.RunID = runID
	}
	if snap.Picks == nil {
		snap.Picks = make(map[model.Granularity]map[string]string)
	}

	c.mu.Lock()
	c.memoryCache[runID] = &snap
	c.mu.Unlock()

	return Result{Snapshot: snap.clone(), Found: true}
}

// Set writes snapshot atomically and stamps UpdatedAt.
func (c *FileStore) Set(snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New("nil snapshot")
	}
	if err := ValidateRunID(snapshot.RunID); err != nil {
		return err
	}

	stored := snapshot.clone()
	stored.UpdatedAt = c.now().UTC()

	data, err := sonic.ConfigStd.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", stored.RunID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.baseDir, stored.RunID+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path(stored.RunID)); err != nil {
		return err
	}

	c.memoryCache[stored.RunID] = stored
	snapshot.UpdatedAt = stored.UpdatedAt
	util.LogDebugf("Saved selection snapshot %s (%d granularities)", stored.RunID, len(stored.Picks))
	return nil
}

func (c *FileStore) Delete(runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.memoryCache, runID)
	if err := os.Remove(c.path(runID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Snapshot)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == snapshotExt {
			if err := os.Remove(filepath.Join(c.baseDir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns the stored run ids, sorted.
func (c *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == snapshotExt {
			ids = append(ids, strings.TrimSuffix(e.Name(), snapshotExt))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Stats reports how many snapshots are held in memory and on disk.
func (c *FileStore) Stats() (memoryCount, fileCount int) {
	c.mu.RLock()
	memoryCount = len(c.memoryCache)
	c.mu.RUnlock()

	ids, _ := c.List()
	return memoryCount, len(ids)
}
