package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/util"
)

const maxLineSize = 10 * 1024 * 1024

// Parser decodes item files. Files are either a JSON array of items or one
// item object per line. Parsed files are cached until their size, mtime or
// inode changes.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cachedFile
}

type cachedFile struct {
	info    util.FileInfo
	items   []model.RawItem
	invalid int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File    string
	Items   []model.RawItem
	Invalid int // lines that were not valid item JSON
	Cached  bool
	Error   error
}

func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedFile),
	}
}

// ParseFile decodes the file at path.
func (p *Parser) ParseFile(path string) ([]model.RawItem, int, error) {
	items, invalid, _, err := p.parseFile(path)
	return items, invalid, err
}

func (p *Parser) parseFile(path string) ([]model.RawItem, int, bool, error) {
	info, infoErr := util.GetFileInfo(path)
	if infoErr == nil {
		p.mu.Lock()
		cached, ok := p.cache[path]
		p.mu.Unlock()
		if ok && !cached.info.Changed(*info) {
			util.LogDebugf("Using cached parse of %s (%d items)", path, len(cached.items))
			return cached.items, cached.invalid, true, nil
		}
	}

	util.LogDebugf("Start parsing file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		util.LogDebugf("Failed to open file: %s - %v", path, err)
		return nil, 0, false, err
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	first, err := firstByte(reader)
	if err == io.EOF {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("read %s: %w", path, err)
	}

	var items []model.RawItem
	invalid := 0
	if first == '[' {
		items, err = decodeArray(reader)
		if err != nil {
			return nil, 0, false, fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		items, invalid, err = decodeLines(path, reader)
		if err != nil {
			return nil, 0, false, err
		}
	}

	if infoErr == nil {
		p.mu.Lock()
		p.cache[path] = cachedFile{info: *info, items: items, invalid: invalid}
		p.mu.Unlock()
	}

	return items, invalid, false, nil
}

// ParseFiles parses files concurrently and returns a channel of results.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			items, invalid, cached, err := p.parseFile(f)
			if err != nil {
				util.LogDebugf("File parsing failed: %s, duration %v - %v", f, time.Since(fileStart), err)
			}

			results <- ParseResult{
				File:    f,
				Items:   items,
				Invalid: invalid,
				Cached:  cached,
				Error:   err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	}()

	return results
}

// Forget drops the cached parse of path.
func (p *Parser) Forget(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, path)
}

// LoadResult is the merged outcome of loading a set of files.
type LoadResult struct {
	Items      []model.TimestampedItem
	Files      int
	Cached     int // files served from the parse cache
	Total      int // raw records decoded
	Invalid    int // undecodable lines
	Duplicates int // records whose id was already seen
	Filtered   int // excluded by face selection
	Undated    int // kept items without a usable timestamp
}

// Load parses files, converts timestamps into loc and keeps the items that
// pass selection. Results are merged in file order so the output does not
// depend on parse scheduling. The first record with a given id wins. A file
// that fails to parse fails the whole load.
func (p *Parser) Load(files []string, loc *time.Location, selection model.FaceSelection) (*LoadResult, error) {
	byFile := make(map[string]ParseResult, len(files))
	for r := range p.ParseFiles(files) {
		byFile[r.File] = r
	}

	ordered := append([]string(nil), files...)
	sort.Strings(ordered)

	res := &LoadResult{Files: len(files)}
	seen := make(map[string]struct{})
	for _, f := range ordered {
		r := byFile[f]
		if r.Error != nil {
			return nil, fmt.Errorf("parse %s: %w", f, r.Error)
		}
		if r.Cached {
			res.Cached++
		}
		res.Invalid += r.Invalid
		for _, raw := range r.Items {
			res.Total++
			if raw.ID == "" {
				res.Invalid++
				continue
			}
			if _, dup := seen[raw.ID]; dup {
				res.Duplicates++
				continue
			}
			seen[raw.ID] = struct{}{}

			item := raw.ToItem(loc)
			if !selection.Includes(item) {
				res.Filtered++
				continue
			}
			if !item.HasTimestamp() {
				res.Undated++
			}
			res.Items = append(res.Items, item)
		}
	}

	util.LogDebugf("Loaded %d items from %d files (invalid=%d duplicates=%d filtered=%d undated=%d)",
		len(res.Items), res.Files, res.Invalid, res.Duplicates, res.Filtered, res.Undated)
	return res, nil
}

func firstByte(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case 0xEF:
			// UTF-8 byte order mark
			if _, err := r.Discard(2); err != nil {
				return 0, err
			}
			continue
		}
		return b, r.UnreadByte()
	}
}

func decodeArray(r io.Reader) ([]model.RawItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var items []model.RawItem
	if err := sonic.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeLines(path string, r io.Reader) ([]model.RawItem, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var items []model.RawItem
	lineCount, invalid := 0, 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item model.RawItem
		if err := sonic.Unmarshal(line, &item); err != nil || item.ID == "" {
			util.LogDebugf("Skip invalid JSON line %s:%d - %v", path, lineCount, err)
			invalid++
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		util.LogDebugf("Error scanning file: %s - %v", path, err)
		return nil, 0, err
	}
	return items, invalid, nil
}
