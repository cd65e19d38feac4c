package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
//
// The search/label/role values were module-level constants in earlier
// iterations of the tooling; they are loaded once at startup and passed
// explicitly into the reconciliation and partitioning entry points.
type Config struct {
	// SearchPattern is the regular expression matched against full-log
	// behavior descriptions to locate the event being transplanted.
	// Matching anchors at the start of the description.
	SearchPattern string `json:"search_pattern"`

	// MarkLabel is the name given to the transplanted mark in the
	// destination log.
	MarkLabel string `json:"mark_label"`

	// EndMarkName is the mark name that records where a video segment ends.
	EndMarkName string `json:"end_mark_name"`

	// BehaviorsFile is the name of the file (inside the log directory)
	// listing aggressive/submissive behavior descriptions, one per line.
	// The first behavior matching any entry terminates the last segment.
	BehaviorsFile string `json:"behaviors_file"`

	// FilenamePattern is the full-string regular expression a filename must
	// match to participate in batch processing.
	FilenamePattern string `json:"filename_pattern"`

	// NamePrefix is prepended to filenames that lack it before core and
	// role comparisons, tolerating the optional naming convention variance.
	NamePrefix string `json:"name_prefix"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPattern:   "Lights On",
		MarkLabel:       "LIGHTS ON",
		EndMarkName:     "video end",
		BehaviorsFile:   "fm_behaviors.txt",
		FilenamePattern: `log[0-9]{6}_[0-9A-Z]+[0-9]{6}_[0-9A-Z]+_Dyad_[0-9A-Za-z]+.*`,
		NamePrefix:      "log",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.scorelog.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SearchPattern = stringOr(overlay.SearchPattern, base.SearchPattern)
	result.MarkLabel = stringOr(overlay.MarkLabel, base.MarkLabel)
	result.EndMarkName = stringOr(overlay.EndMarkName, base.EndMarkName)
	result.BehaviorsFile = stringOr(overlay.BehaviorsFile, base.BehaviorsFile)
	result.FilenamePattern = stringOr(overlay.FilenamePattern, base.FilenamePattern)
	result.NamePrefix = stringOr(overlay.NamePrefix, base.NamePrefix)

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// stringOr returns overlay if non-empty, else base.
func stringOr(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
