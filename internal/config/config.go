// Package config loads toggle-term configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TOGGLE_TERM_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .toggle-term.yaml in current directory
//  2. ~/.config/toggle-term/config.yaml
//
// User values are deep-merged over defaults: the nested zoom record merges
// field-wise, scalar overrides replace.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zsh-sage/toggle-term/internal/model"
)

// Config holds all toggle-term configuration.
type Config struct {
	// Key binding
	Key  string `yaml:"key"`  // key name, e.g. "t"
	Mods string `yaml:"mods"` // modifiers, e.g. "ctrl", "ctrl|shift", "alt"

	// Split geometry
	Direction string     `yaml:"direction"` // up, down, left, right
	Size      SizeConfig `yaml:"size"`

	// Invoker capture policy
	ChangeInvokerIDEverytime bool `yaml:"change_invoker_id_everytime"`

	// Zoom policies
	Zoom ZoomConfig `yaml:"zoom"`

	// Paths (empty means package defaults)
	Socket      string `yaml:"socket"`
	SnapshotDir string `yaml:"snapshot_dir"`

	// Watch TUI refresh interval, Go duration string
	Refresh string `yaml:"refresh"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"`

	// Parsed values (not from YAML, set after loading)
	SplitDirection  model.Direction `yaml:"-"`
	RefreshDuration time.Duration   `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// SizeConfig is the terminal pane size as a percentage of the invoker pane.
type SizeConfig struct {
	Percent int `yaml:"percent"`
}

// ZoomConfig groups the zoom policies.
type ZoomConfig struct {
	// AutoZoomToggleTerminal zooms the terminal pane on create and show.
	AutoZoomToggleTerminal bool `yaml:"auto_zoom_toggle_terminal"`
	// AutoZoomInvokerPane zooms the invoker pane after hiding the terminal.
	AutoZoomInvokerPane bool `yaml:"auto_zoom_invoker_pane"`
	// RememberZoomed records the terminal pane's zoom state on hide and
	// restores it on the next show.
	RememberZoomed bool `yaml:"remember_zoomed"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Key:       "t",
		Mods:      "ctrl",
		Direction: "down",
		Size:      SizeConfig{Percent: 30},
		Refresh:   "2s",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.SplitDirection, err = model.ParseDirection(cfg.Direction)
	if err != nil {
		return nil, fmt.Errorf("invalid direction: %w", err)
	}
	if cfg.Size.Percent <= 0 || cfg.Size.Percent > 100 {
		return nil, fmt.Errorf("invalid size percent %d (must be 1-100)", cfg.Size.Percent)
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("key must not be empty")
	}
	cfg.RefreshDuration, err = time.ParseDuration(cfg.Refresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// Binding renders the configured key chord in tmux key syntax,
// e.g. key "t" with mods "ctrl" becomes "C-t".
func (c *Config) Binding() string {
	var prefix strings.Builder
	for _, mod := range strings.FieldsFunc(c.Mods, func(r rune) bool {
		return r == '|' || r == '+' || r == ','
	}) {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			prefix.WriteString("C-")
		case "alt", "meta", "opt":
			prefix.WriteString("M-")
		case "shift":
			prefix.WriteString("S-")
		}
	}
	return prefix.String() + c.Key
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".toggle-term.yaml"); err == nil {
		return ".toggle-term.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "toggle-term", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg. The zoom record merges
// field-wise so a file setting one zoom flag keeps the defaults of the rest.
func mergeFile(cfg *Config, file *Config) {
	if file.Key != "" {
		cfg.Key = file.Key
	}
	if file.Mods != "" {
		cfg.Mods = file.Mods
	}
	if file.Direction != "" {
		cfg.Direction = file.Direction
	}
	if file.Size.Percent > 0 {
		cfg.Size.Percent = file.Size.Percent
	}
	if file.ChangeInvokerIDEverytime {
		cfg.ChangeInvokerIDEverytime = true
	}
	if file.Zoom.AutoZoomToggleTerminal {
		cfg.Zoom.AutoZoomToggleTerminal = true
	}
	if file.Zoom.AutoZoomInvokerPane {
		cfg.Zoom.AutoZoomInvokerPane = true
	}
	if file.Zoom.RememberZoomed {
		cfg.Zoom.RememberZoomed = true
	}
	if file.Socket != "" {
		cfg.Socket = file.Socket
	}
	if file.SnapshotDir != "" {
		cfg.SnapshotDir = file.SnapshotDir
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TOGGLE_TERM_KEY"); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv("TOGGLE_TERM_MODS"); v != "" {
		cfg.Mods = v
	}
	if v := os.Getenv("TOGGLE_TERM_DIRECTION"); v != "" {
		cfg.Direction = v
	}
	if v := os.Getenv("TOGGLE_TERM_SIZE_PERCENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Size.Percent = n
		}
	}
	if isEnvTrue("TOGGLE_TERM_CHANGE_INVOKER_ID_EVERYTIME") {
		cfg.ChangeInvokerIDEverytime = true
	}
	if isEnvTrue("TOGGLE_TERM_AUTO_ZOOM_TOGGLE_TERMINAL") {
		cfg.Zoom.AutoZoomToggleTerminal = true
	}
	if isEnvTrue("TOGGLE_TERM_AUTO_ZOOM_INVOKER_PANE") {
		cfg.Zoom.AutoZoomInvokerPane = true
	}
	if isEnvTrue("TOGGLE_TERM_REMEMBER_ZOOMED") {
		cfg.Zoom.RememberZoomed = true
	}
	if v := os.Getenv("TOGGLE_TERM_SOCKET"); v != "" {
		cfg.Socket = v
	}
	if v := os.Getenv("TOGGLE_TERM_SNAPSHOT_DIR"); v != "" {
		cfg.SnapshotDir = v
	}
	if v := os.Getenv("TOGGLE_TERM_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

func isEnvTrue(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}
