package fs

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/printwatch/internal/domain"
)

// DefaultSettingsFileName is the settings file name used next to the working directory.
const DefaultSettingsFileName = "settings.yaml"

// Settings is the operator's persisted key/value settings.
type Settings struct {
	// AdobePath is the print-capable executable.
	AdobePath string `yaml:"adobe_path"`
}

// SettingsFile reads and writes Settings as a flat YAML document.
type SettingsFile struct {
	path string
}

// NewSettingsFile creates a SettingsFile backed by path.
func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

// Path returns the full path to the settings file.
func (s *SettingsFile) Path() string {
	return s.path
}

// Load returns the stored settings.
// Returns empty settings and nil error if the file does not exist.
func (s *SettingsFile) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, domain.Wrap(domain.ErrConfiguration, "read "+s.path, err)
	}

	var st Settings
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Settings{}, domain.Wrap(domain.ErrConfiguration, "parse "+s.path, err)
	}
	return st, nil
}

// Save persists settings atomically (write to temp file, then rename).
func (s *SettingsFile) Save(st Settings) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.Wrap(domain.ErrConfiguration, "mkdir "+dir, err)
		}
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return domain.Wrap(domain.ErrConfiguration, "encode settings", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return domain.Wrap(domain.ErrConfiguration, "write "+tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return domain.Wrap(domain.ErrConfiguration, "rename "+tmp, err)
	}
	return nil
}

// ResolveExecutable returns the print executable to use.
//
// A non-empty override is checked and, when it exists, saved as the new
// adobe_path. Otherwise the stored adobe_path is used. A missing or
// non-existent path is a domain.ErrConfiguration.
func (s *SettingsFile) ResolveExecutable(override string) (string, error) {
	if override != "" {
		if err := checkExecutable(override); err != nil {
			return "", err
		}
		st, err := s.Load()
		if err != nil {
			return "", err
		}
		if st.AdobePath != override {
			st.AdobePath = override
			if err := s.Save(st); err != nil {
				return "", err
			}
		}
		return override, nil
	}

	st, err := s.Load()
	if err != nil {
		return "", err
	}
	if st.AdobePath == "" {
		return "", domain.Wrap(domain.ErrConfiguration, "adobe_path",
			errNotConfigured{file: s.path})
	}
	if err := checkExecutable(st.AdobePath); err != nil {
		return "", err
	}
	return st.AdobePath, nil
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Wrap(domain.ErrConfiguration, "print executable "+path, err)
	}
	if info.IsDir() {
		return domain.Wrap(domain.ErrConfiguration, "print executable "+path, errIsDirectory)
	}
	return nil
}
