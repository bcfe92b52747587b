package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Pointer booleans distinguish "unset" from false.
type FileConfig struct {
	WatchDir        string `toml:"watch_dir"`
	Printer         string `toml:"printer"`
	AdobePath       string `toml:"adobe_path"`
	SettingsFile    string `toml:"settings_file"`
	StagingDir      string `toml:"staging_dir"`
	Retention       string `toml:"retention"`
	PollInterval    string `toml:"poll_interval"`
	PrintTimeout    string `toml:"print_timeout"`
	StrictExit      *bool  `toml:"strict_exit"`
	IsolateFailures *bool  `toml:"isolate_failures"`
	Notify          *bool  `toml:"notify"`
	CountPages      *bool  `toml:"count_pages"`
	HistoryDB       string `toml:"history_db"`
	ErrorLog        string `toml:"error_log"`
	TUI             *bool  `toml:"tui"`
	Debug           *bool  `toml:"debug"`
	Prefix          string `toml:"prefix"`
	Suffix          string `toml:"suffix"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.printwatch/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".printwatch", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("watch-dir", fc.WatchDir, &cfg.WatchDir)
	s.setString("printer", fc.Printer, &cfg.Printer)
	s.setString("adobe-path", fc.AdobePath, &cfg.AdobePath)
	s.setString("settings-file", fc.SettingsFile, &cfg.SettingsFile)
	s.setString("staging-dir", fc.StagingDir, &cfg.StagingDir)
	s.setString("retention", fc.Retention, &cfg.Retention)
	s.setString("history-db", fc.HistoryDB, &cfg.HistoryDB)
	s.setString("error-log", fc.ErrorLog, &cfg.ErrorLog)
	s.setString("prefix", fc.Prefix, &cfg.Prefix)
	s.setString("suffix", fc.Suffix, &cfg.Suffix)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("print-timeout", fc.PrintTimeout, &cfg.PrintTimeout); err != nil {
		return err
	}

	s.setBool("strict-exit", fc.StrictExit, &cfg.StrictExit)
	s.setBool("isolate-failures", fc.IsolateFailures, &cfg.IsolateFailures)
	s.setBool("notify", fc.Notify, &cfg.Notify)
	s.setBool("count-pages", fc.CountPages, &cfg.CountPages)
	s.setBool("tui", fc.TUI, &cfg.TUI)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
