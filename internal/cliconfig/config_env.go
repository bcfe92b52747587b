package cliconfig

import "os"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PRINTWATCH_"

// ApplyEnvConfig applies configuration from environment variables (PRINTWATCH_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(key string) string { return os.Getenv(EnvPrefix + key) }

	s.setString("watch-dir", env("WATCH_DIR"), &cfg.WatchDir)
	s.setString("printer", env("PRINTER"), &cfg.Printer)
	s.setString("adobe-path", env("ADOBE_PATH"), &cfg.AdobePath)
	s.setString("settings-file", env("SETTINGS_FILE"), &cfg.SettingsFile)
	s.setString("staging-dir", env("STAGING_DIR"), &cfg.StagingDir)
	s.setString("retention", env("RETENTION"), &cfg.Retention)
	s.setString("history-db", env("HISTORY_DB"), &cfg.HistoryDB)
	s.setString("error-log", env("ERROR_LOG"), &cfg.ErrorLog)
	s.setString("prefix", env("PREFIX"), &cfg.Prefix)
	s.setString("suffix", env("SUFFIX"), &cfg.Suffix)

	if err := s.setDuration("poll", env("POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("print-timeout", env("PRINT_TIMEOUT"), &cfg.PrintTimeout); err != nil {
		return err
	}

	for _, b := range []struct {
		flag, key string
		dst       *bool
	}{
		{"strict-exit", "STRICT_EXIT", &cfg.StrictExit},
		{"isolate-failures", "ISOLATE_FAILURES", &cfg.IsolateFailures},
		{"notify", "NOTIFY", &cfg.Notify},
		{"count-pages", "COUNT_PAGES", &cfg.CountPages},
		{"tui", "TUI", &cfg.TUI},
		{"debug", "DEBUG", &cfg.Debug},
	} {
		if err := s.setBoolFromString(b.flag, env(b.key), b.dst); err != nil {
			return err
		}
	}

	return nil
}
