package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// SourceURL is the raw markdown document holding the event listing.
	SourceURL string `yaml:"source_url" json:"source_url"`

	// OutputDir is where the JSON and ICS artifacts are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// JSONFile / ICSFile are the artifact file names inside OutputDir.
	JSONFile string `yaml:"json_file" json:"json_file"`
	ICSFile  string `yaml:"ics_file" json:"ics_file"`

	// CalendarName is the display name (X-WR-CALNAME) of the feed.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// UIDDomain is the fixed domain suffix appended to every VEVENT UID.
	UIDDomain string `yaml:"uid_domain" json:"uid_domain"`

	// RefreshCron is a cron-style schedule string (e.g. "0 6 * * *")
	// used for periodic refresh when the tool runs in scheduled mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// ContextYear, if non-zero, is the year assumed for date phrases
	// that omit one. Zero means: detect from the document heading,
	// falling back to the current year.
	ContextYear int `yaml:"context_year" json:"context_year"`

	// MinEvents is the minimum number of resolved events required for
	// a run to be considered successful. A run below this threshold
	// writes nothing, so an upstream format change never publishes an
	// empty calendar over a good one.
	MinEvents int `yaml:"min_events" json:"min_events"`

	// CacheDir is the base directory for the HTTP fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		SourceURL:    "https://raw.githubusercontent.com/jonamarkin/open-source-events/main/README.md",
		OutputDir:    "./out",
		JSONFile:     "events.json",
		ICSFile:      "calendar.ics",
		CalendarName: "Open Source Events",
		UIDDomain:    "ose-calendar",
		RefreshCron:  "0 6 * * *",
		ContextYear:  0,
		MinEvents:    1,
		CacheDir:     "./var/fetch-cache",
		LogLevel:     "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so
// that partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.OutputDir == "" {
		c.OutputDir = "./out"
	}
	if c.JSONFile == "" {
		c.JSONFile = "events.json"
	}
	if c.ICSFile == "" {
		c.ICSFile = "calendar.ics"
	}
	if c.CalendarName == "" {
		c.CalendarName = "Open Source Events"
	}
	if c.UIDDomain == "" {
		c.UIDDomain = "ose-calendar"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 6 * * *"
	}
	if c.MinEvents <= 0 {
		c.MinEvents = 1
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/fetch-cache"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".osecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}
