package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fivemoreminix/onyxview/grammar"
	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	cfg := DefaultConfig()
	err := decodeConfig(strings.NewReader(`
tab_size: 8
line_numbers: false
default_language: onyx
colorscheme:
  keyword: red
  default: white:navy
grammars: [toml.yaml]
`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.TabSize)
	assert.False(t, cfg.LineNumbers)
	assert.Equal(t, "info", cfg.LogLevel, "unset fields keep their defaults")
	assert.Equal(t, "onyx", cfg.DefaultLanguage)
	assert.Equal(t, []string{"toml.yaml"}, cfg.Grammars)

	cs, err := cfg.BuildColorscheme()
	require.NoError(t, err)
	assert.Equal(t, tcell.Style{}.Foreground(tcell.ColorRed).Background(tcell.ColorNavy), cs.GetStyle(grammar.Keyword), "background comes from the default entry")
	assert.Equal(t, tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy), cs.GetStyle(grammar.Default))
	assert.Equal(t, DefaultColorscheme()[grammar.Comment], cs.GetStyle(grammar.Comment))
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "tabsize: 2\n",
		"zero tab size": "tab_size: 0\n",
		"bad type":      "tab_size: wide\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, decodeConfig(strings.NewReader(input), &cfg))
		})
	}

	cfg := DefaultConfig()
	require.NoError(t, decodeConfig(strings.NewReader(""), &cfg), "an empty file is allowed")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestBuildColorschemeErrors(t *testing.T) {
	_, err := Config{Colorscheme: map[string]string{"operator": "red"}}.BuildColorscheme()
	assert.Error(t, err)

	_, err = Config{Colorscheme: map[string]string{"string": "reddish"}}.BuildColorscheme()
	assert.Error(t, err)

	_, err = Config{Colorscheme: map[string]string{"string": "red:bluish"}}.BuildColorscheme()
	assert.Error(t, err)

	_, err = Config{Colorscheme: map[string]string{"": "red"}}.BuildColorscheme()
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tab_size: 2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.TabSize)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.LogFile = filepath.Join(t.TempDir(), "onyxview.log")

	log, closer, err := NewLogger(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")

	cfg.LogLevel = "loud"
	_, _, err = NewLogger(cfg, false)
	assert.Error(t, err)
}

func TestClipboardInternal(t *testing.T) {
	defer func(m ClipMethod) { ClipCurrentMethod = m }(ClipCurrentMethod)
	ClipCurrentMethod = ClipInternal

	require.NoError(t, ClipWrite("use core"))
	assert.Equal(t, "use core", internalClipboard)
}
