package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, model.GranularityMonth, cfg.GranularityValue())
	assert.Equal(t, model.PaperA4, cfg.PaperValue())
	assert.Equal(t, model.SelectAcceptedAndUnreviewed, cfg.FaceSelectionValue())
	assert.Equal(t, 60*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "white", cfg.Display.Background)
	assert.Equal(t, 300, cfg.Display.MaxFaces)
	assert.True(t, cfg.Display.ShowLabels)
	assert.True(t, filepath.IsAbs(cfg.CacheDir))
	assert.GreaterOrEqual(t, cfg.Concurrency, 1)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
granularity: week
paper: a3
timezone: Asia/Tokyo
render:
  url: http://renderer:9000
  timeout: 5s
display:
  sort: random
  rounded: true
  max_faces: 50
log:
  level: debug
  format: json
`)
	t.Setenv("CHRONOFACE_DISPLAY_BACKGROUND", "#101010")
	t.Setenv("CHRONOFACE_GRANULARITY", "day")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, model.GranularityDay, cfg.GranularityValue(), "env beats file")
	assert.Equal(t, model.PaperA3, cfg.PaperValue())
	assert.Equal(t, "http://renderer:9000", cfg.Render.URL)
	assert.Equal(t, 5*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "#101010", cfg.Display.Background)

	opts := cfg.DisplayOptions("run-7")
	assert.Equal(t, model.SortRandom, opts.Sort)
	assert.True(t, opts.Rounded)
	assert.Equal(t, 50, opts.MaxFaces)
	assert.Equal(t, "run-7", opts.RunID)
	assert.Equal(t, model.GranularityDay, opts.LabelFormat, "label format follows granularity")

	logOpts := cfg.LoggerOptions(false)
	assert.Equal(t, "debug", logOpts.Level)
	assert.False(t, logOpts.Console)
}

func TestLoadFlagsOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("granularity", "month", "")
	flags.String("paper", "A4", "")
	flags.Int("max-faces", 300, "")
	require.NoError(t, flags.Parse([]string{"--granularity", "year", "--max-faces", "12"}))

	t.Setenv("CHRONOFACE_GRANULARITY", "day")
	cfg, err := Load(writeConfig(t, "paper: A5\n"), flags)
	require.NoError(t, err)

	assert.Equal(t, model.GranularityYear, cfg.GranularityValue(), "changed flag beats env")
	assert.Equal(t, model.PaperA5, cfg.PaperValue(), "unchanged flag does not mask the file")
	assert.Equal(t, 12, cfg.Display.MaxFaces)
}

func TestLoadInvalid(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
granularity: hour
paper: Letter
timezone: Mars/Olympus
display:
  sort: sideways
  max_faces: 0
render:
  url: "ftp://example"
log:
  format: xml
`), nil)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	for _, want := range []string{"granularity", "paper size", "timezone", "sort mode", "max_faces", "render.url", "log format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoggerOptionsDebug(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "text", File: "/tmp/x.log"}}
	opts := cfg.LoggerOptions(true)
	assert.Equal(t, "debug", opts.Level)
	assert.True(t, opts.Console)
	assert.Equal(t, "/tmp/x.log", opts.File)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), ExpandPath("~/x"))
	assert.Empty(t, ExpandPath(""))
	assert.True(t, filepath.IsAbs(ExpandPath("rel")))
}
