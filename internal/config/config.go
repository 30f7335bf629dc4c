// Package config loads chronoface settings from defaults, a YAML file,
// CHRONOFACE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/core/render"
	"github.com/penwyp/go-chronoface/internal/util"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	EnvPrefix       = "CHRONOFACE"
	DefaultHome     = "~/.go-chronoface"
	defaultLogFile  = DefaultHome + "/logs/app.log"
	defaultCacheDir = DefaultHome + "/selections"
)

// Config is the complete chronoface configuration.
type Config struct {
	Timezone      string        `mapstructure:"timezone"`
	Granularity   string        `mapstructure:"granularity"`
	Paper         string        `mapstructure:"paper"`
	FaceSelection string        `mapstructure:"face_selection"`
	CacheDir      string        `mapstructure:"cache_dir"`
	Concurrency   int           `mapstructure:"concurrency"`
	Render        RenderConfig  `mapstructure:"render"`
	Display       DisplayConfig `mapstructure:"display"`
	Log           LogConfig     `mapstructure:"log"`
}

type RenderConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DisplayConfig struct {
	Background  string `mapstructure:"background"`
	Sort        string `mapstructure:"sort"`
	MaxFaces    int    `mapstructure:"max_faces"`
	Rounded     bool   `mapstructure:"rounded"`
	ShowLabels  bool   `mapstructure:"show_labels"`
	LabelFormat string `mapstructure:"label_format"`
	Title       string `mapstructure:"title"`
	Preview     bool   `mapstructure:"preview"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"timezone":       "timezone",
	"granularity":    "granularity",
	"paper":          "paper",
	"face-selection": "face_selection",
	"cache-dir":      "cache_dir",
	"concurrency":    "concurrency",
	"render-url":     "render.url",
	"render-timeout": "render.timeout",
	"background":     "display.background",
	"sort":           "display.sort",
	"max-faces":      "display.max_faces",
	"rounded":        "display.rounded",
	"show-labels":    "display.show_labels",
	"label-format":   "display.label_format",
	"title":          "display.title",
	"preview":        "display.preview",
	"log-file":       "log.file",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// Load resolves the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the current directory and DefaultHome; a
// missing file is not an error. Flags present in flags are bound by name
// through FlagKeys.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ExpandPath(DefaultHome))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		util.LogDebugf("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.CacheDir = ExpandPath(cfg.CacheDir)
	if cfg.Log.File != "" {
		cfg.Log.File = ExpandPath(cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Local")
	v.SetDefault("granularity", string(model.GranularityMonth))
	v.SetDefault("paper", string(model.PaperA4))
	v.SetDefault("face_selection", string(model.SelectAcceptedAndUnreviewed))
	v.SetDefault("cache_dir", defaultCacheDir)
	v.SetDefault("concurrency", runtime.NumCPU())

	v.SetDefault("render.url", "http://127.0.0.1:8000")
	v.SetDefault("render.timeout", 60*time.Second)

	d := render.DefaultDisplayOptions()
	v.SetDefault("display.background", d.Background)
	v.SetDefault("display.sort", string(d.Sort))
	v.SetDefault("display.max_faces", d.MaxFaces)
	v.SetDefault("display.rounded", false)
	v.SetDefault("display.show_labels", d.ShowLabels)
	v.SetDefault("display.label_format", "")
	v.SetDefault("display.title", "")
	v.SetDefault("display.preview", false)

	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(util.FormatText))
}

// Validate checks every enumerated and ranged setting. All problems are
// reported together.
func (c *Config) Validate() error {
	var problems []string
	check := func(err error) {
		if err != nil {
			problems = append(problems, err.Error())
		}
	}

	if _, err := util.NewTimeProvider(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone %q", c.Timezone))
	}
	_, err := model.ParseGranularity(c.Granularity)
	check(err)
	_, err = model.ParsePaperSize(c.Paper)
	check(err)
	_, err = model.ParseFaceSelection(c.FaceSelection)
	check(err)
	_, err = model.ParseSortMode(c.Display.Sort)
	check(err)
	if c.Display.LabelFormat != "" {
		_, err = model.ParseGranularity(c.Display.LabelFormat)
		check(err)
	}
	_, err = util.ParseLogLevel(c.Log.Level)
	check(err)

	if f := util.LogFormat(c.Log.Format); f != util.FormatText && f != util.FormatJSON {
		problems = append(problems, fmt.Sprintf("unknown log format %q (valid: text, json)", c.Log.Format))
	}
	if c.Display.MaxFaces < 1 || c.Display.MaxFaces > render.MaxFaces {
		problems = append(problems, fmt.Sprintf("display.max_faces must be between 1 and %d", render.MaxFaces))
	}
	if strings.TrimSpace(c.Display.Background) == "" {
		problems = append(problems, "display.background must not be empty")
	}
	if c.Render.Timeout < 0 {
		problems = append(problems, "render.timeout must not be negative")
	}
	if c.Render.URL != "" {
		u, err := url.Parse(c.Render.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("render.url %q must be an absolute http(s) URL", c.Render.URL))
		}
	}
	if c.Concurrency < 1 {
		problems = append(problems, "concurrency must be at least 1")
	}
	if c.CacheDir == "" {
		problems = append(problems, "cache_dir must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// GranularityValue returns the parsed granularity. Only valid after Validate.
func (c *Config) GranularityValue() model.Granularity {
	g, _ := model.ParseGranularity(c.Granularity)
	return g
}

func (c *Config) PaperValue() model.PaperSize {
	p, _ := model.ParsePaperSize(c.Paper)
	return p
}

func (c *Config) FaceSelectionValue() model.FaceSelection {
	f, _ := model.ParseFaceSelection(c.FaceSelection)
	return f
}

// DisplayOptions converts the display section for the request builder.
func (c *Config) DisplayOptions(runID string) render.DisplayOptions {
	sortMode, _ := model.ParseSortMode(c.Display.Sort)
	opts := render.DisplayOptions{
		Background:    c.Display.Background,
		Sort:          sortMode,
		MaxFaces:      c.Display.MaxFaces,
		FaceSelection: c.FaceSelectionValue(),
		Rounded:       c.Display.Rounded,
		ShowLabels:    c.Display.ShowLabels,
		Title:         c.Display.Title,
		Preview:       c.Display.Preview,
		RunID:         runID,
	}
	if c.Display.LabelFormat != "" {
		opts.LabelFormat, _ = model.ParseGranularity(c.Display.LabelFormat)
	} else {
		opts.LabelFormat = c.GranularityValue()
	}
	return opts
}

// LoggerOptions converts the log section. debug forces debug level with
// console output.
func (c *Config) LoggerOptions(debug bool) util.LoggerOptions {
	opts := util.LoggerOptions{
		Level:  c.Log.Level,
		Format: util.LogFormat(c.Log.Format),
		File:   c.Log.File,
	}
	if debug {
		opts.Level = "debug"
		opts.Console = true
	}
	return opts
}

// ExpandPath resolves a leading ~/ and makes path absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
