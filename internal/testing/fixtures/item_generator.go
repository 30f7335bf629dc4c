package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-chronoface/internal/core/model"
)

// TestDataGenerator writes face item files for tests.
type TestDataGenerator struct {
	baseDir string
}

func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// Item builds a raw item with the timestamp in RFC 3339 form.
func Item(id string, ts time.Time, score float64) model.RawItem {
	return model.RawItem{
		ID:        id,
		Timestamp: ts.Format(time.RFC3339),
		Score:     score,
	}
}

// Accepted marks item as reviewed with the given decision.
func Accepted(item model.RawItem, accepted bool) model.RawItem {
	item.Accepted = &accepted
	return item
}

// GenerateDaily writes one item per day starting at start, with scores
// cycling downward from 0.99, to name as JSON lines.
func (g *TestDataGenerator) GenerateDaily(name string, start time.Time, days int) ([]model.RawItem, error) {
	items := make([]model.RawItem, 0, days)
	for i := 0; i < days; i++ {
		score := 0.99 - float64(i%10)*0.05
		items = append(items, Item(fmt.Sprintf("face-%04d", i), start.AddDate(0, 0, i), score))
	}
	return items, g.WriteJSONL(name, items)
}

// GenerateMonthlyGap writes two items in the first month and one in the
// third month, leaving the second month empty.
func (g *TestDataGenerator) GenerateMonthlyGap(name string, year int) ([]model.RawItem, error) {
	items := []model.RawItem{
		Item("jan-best", time.Date(year, 1, 5, 10, 0, 0, 0, time.UTC), 0.9),
		Item("jan-other", time.Date(year, 1, 20, 10, 0, 0, 0, time.UTC), 0.6),
		Item("mar-only", time.Date(year, 3, 2, 10, 0, 0, 0, time.UTC), 0.8),
	}
	return items, g.WriteJSONArray(name, items)
}

// WriteJSONL writes one item per line.
func (g *TestDataGenerator) WriteJSONL(name string, items []model.RawItem) error {
	path, err := g.prepare(name)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := sonic.ConfigStd.NewEncoder(file)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSONArray writes items as a single JSON array.
func (g *TestDataGenerator) WriteJSONArray(name string, items []model.RawItem) error {
	path, err := g.prepare(name)
	if err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteRaw writes content verbatim.
func (g *TestDataGenerator) WriteRaw(name, content string) error {
	path, err := g.prepare(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Path resolves name under the base directory.
func (g *TestDataGenerator) Path(name string) string {
	return filepath.Join(g.baseDir, name)
}

func (g *TestDataGenerator) prepare(name string) (string, error) {
	path := g.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, nil
}

func (g *TestDataGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}
