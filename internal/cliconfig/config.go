package cliconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bft-labs/printwatch/internal/domain"
)

// Defaults for the on-disk layout next to the working directory.
const (
	DefaultStagingDir   = "temp_etiquetas"
	DefaultSettingsFile = "settings.yaml"
	DefaultErrorLog     = "printwatch-errors.log"
	DefaultRetention    = "archive"
)

// Config holds CLI configuration for printwatch.
type Config struct {
	WatchDir     string `validate:"required"`
	Printer      string `validate:"required"`
	AdobePath    string
	SettingsFile string `validate:"required"`
	StagingDir   string `validate:"required"`
	Retention    string `validate:"oneof=archive ephemeral"`

	PollInterval time.Duration `validate:"gt=0"`
	PrintTimeout time.Duration `validate:"gte=0"`

	StrictExit      bool
	IsolateFailures bool
	Notify          bool
	CountPages      bool

	HistoryDB string
	ErrorLog  string
	TUI       bool
	Debug     bool

	Prefix string
	Suffix string `validate:"required"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SettingsFile: DefaultSettingsFile,
		StagingDir:   DefaultStagingDir,
		Retention:    DefaultRetention,
		PollInterval: 5 * time.Second,
		ErrorLog:     DefaultErrorLog,
		Prefix:       domain.DefaultPrefix,
		Suffix:       domain.DefaultSuffix,
	}
}

// flagNames maps struct fields to the flag an operator would use to fix them.
var flagNames = map[string]string{
	"WatchDir":     "watch-dir",
	"Printer":      "printer",
	"SettingsFile": "settings-file",
	"StagingDir":   "staging-dir",
	"Retention":    "retention",
	"PollInterval": "poll",
	"PrintTimeout": "print-timeout",
	"Suffix":       "suffix",
}

// Validate checks the configuration for errors and sets derived defaults.
// Failures wrap domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.StagingDir == "" {
		c.StagingDir = DefaultStagingDir
	}
	if c.SettingsFile == "" {
		c.SettingsFile = DefaultSettingsFile
	}
	c.Retention = strings.ToLower(strings.TrimSpace(c.Retention))
	if c.Retention == "" {
		c.Retention = DefaultRetention
	}

	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := flagNames[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "gt":
		return name + " must be positive"
	case "gte":
		return name + " must not be negative"
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses an environment value with strconv.ParseBool.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
