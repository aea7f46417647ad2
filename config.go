package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/fivemoreminix/onyxview/ui/buffer"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is read from a YAML file. Unset fields keep their defaults.
type Config struct {
	TabSize         int               `yaml:"tab_size"`
	LineNumbers     bool              `yaml:"line_numbers"`
	LogFile         string            `yaml:"log_file"`
	LogLevel        string            `yaml:"log_level"`
	DefaultLanguage string            `yaml:"default_language"`
	Watch           bool              `yaml:"watch"`       // Reload viewed files when they change
	Colorscheme     map[string]string `yaml:"colorscheme"` // category: "fg" or "fg:bg"
	Grammars        []string          `yaml:"grammars"`    // YAML descriptor files
}

func DefaultConfig() Config {
	return Config{
		TabSize:     4,
		LineNumbers: true,
		LogLevel:    "info",
	}
}

// DefaultConfigPath is where the config is looked for when no path is given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "onyxview", "config.yaml")
}

// LoadConfig reads the config at path. When path is empty the default path is
// tried, and a missing file there is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "opening config. path=%s", path)
	}
	defer f.Close()

	if err := decodeConfig(f, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "reading config. path=%s", path)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if cfg.TabSize < 1 {
		return errors.Errorf("tab_size must be positive, got %d", cfg.TabSize)
	}
	return nil
}

// DefaultColorscheme uses only the first 16 colors present in most colored terminals.
func DefaultColorscheme() buffer.Colorscheme {
	base := tcell.Style{}.Background(tcell.ColorBlack)
	return buffer.Colorscheme{
		grammar.Default: base.Foreground(tcell.ColorLightGray),
		grammar.Comment: base.Foreground(tcell.ColorGray),
		grammar.String:  base.Foreground(tcell.ColorOlive),
		grammar.Keyword: base.Foreground(tcell.ColorBlue),
		grammar.Literal: base.Foreground(tcell.ColorFuchsia),
		grammar.Type:    base.Foreground(tcell.ColorPurple),
		grammar.Number:  base.Foreground(tcell.ColorFuchsia),
		grammar.BuiltIn: base.Foreground(tcell.ColorTeal),
	}
}

// BuildColorscheme applies the configured overrides to DefaultColorscheme.
// Keys are category names, with "default" for unhighlighted text. The default
// entry is applied first and supplies the background of entries without one.
func (c Config) BuildColorscheme() (buffer.Colorscheme, error) {
	cs := DefaultColorscheme()
	if value, ok := c.Colorscheme["default"]; ok {
		style, err := parseStyle(value, cs.GetStyle(grammar.Default))
		if err != nil {
			return nil, errors.Wrap(err, "colorscheme default")
		}
		cs[grammar.Default] = style
	}

	for key, value := range c.Colorscheme {
		if key == "default" {
			continue
		}
		cat, err := grammar.ParseCategory(key)
		if err != nil || cat == grammar.Default {
			return nil, errors.Errorf("colorscheme: unknown category %q", key)
		}
		style, err := parseStyle(value, cs.GetStyle(grammar.Default))
		if err != nil {
			return nil, errors.Wrapf(err, "colorscheme %s", key)
		}
		cs[cat] = style
	}
	return cs, nil
}

// parseStyle reads "fg" or "fg:bg" tcell color names; a missing background
// is taken from base.
func parseStyle(value string, base tcell.Style) (tcell.Style, error) {
	fgName, bgName, hasBg := strings.Cut(value, ":")
	_, baseBg, _ := base.Decompose()

	fg, err := parseColor(fgName)
	if err != nil {
		return base, err
	}
	bg := baseBg
	if hasBg {
		if bg, err = parseColor(bgName); err != nil {
			return base, err
		}
	}
	return tcell.Style{}.Foreground(fg).Background(bg), nil
}

func parseColor(name string) (tcell.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	color := tcell.GetColor(name)
	if color == tcell.ColorDefault && name != "default" {
		return color, errors.Errorf("unknown color %q", name)
	}
	return color, nil
}

// NewLogger builds the process logger. The viewer owns the terminal, so
// without a log file its logs are discarded; other commands log to stderr.
func NewLogger(cfg Config, tui bool) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, errors.Wrap(err, "log_level")
	}
	log.SetLevel(level)

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening file. filename=%s", cfg.LogFile)
		}
		log.SetOutput(f)
		return log, f, nil
	case tui:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
