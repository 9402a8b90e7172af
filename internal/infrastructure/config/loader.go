// Package config loads YAML configuration from ~/.hangwatch/config.yaml
// (overridable via HANGWATCH_CONFIG).
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/pkg/filesystem"
	"github.com/doeshing/hangwatch/internal/ports"
)

// FileLoader loads the YAML config file, writing defaults on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("HANGWATCH_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".hangwatch", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	retries := domain.DefaultRetryLimit
	return domain.Config{
		ConfigFormatVersion: "1",
		Execution: domain.ExecutionSettings{
			TimeoutSeconds:   int(domain.DefaultCommandTimeout.Seconds()),
			Shell:            string(domain.ShellAuto),
			RetryLimit:       &retries,
			InputWaitSeconds: int(domain.DecisionInputWait.Seconds()),
		},
		History: domain.HistorySettings{
			Backend:    "sqlite",
			MaxEntries: domain.DefaultHistoryCap,
		},
		Diagnostics: domain.DiagnosticSettings{
			ReportDir: filepath.Join(filesystem.UserHomeDir(), ".hangwatch", "reports"),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Execution.TimeoutSeconds <= 0 {
		cfg.Execution.TimeoutSeconds = int(domain.DefaultCommandTimeout.Seconds())
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = string(domain.ShellAuto)
	}
	if cfg.Execution.RetryLimit == nil {
		// An omitted key means the default cap. Explicit 0 stays uncapped.
		retries := domain.DefaultRetryLimit
		cfg.Execution.RetryLimit = &retries
	}
	if cfg.Execution.InputWaitSeconds <= 0 {
		cfg.Execution.InputWaitSeconds = int(domain.DecisionInputWait.Seconds())
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "sqlite"
	}
	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = domain.DefaultHistoryCap
	}
	if cfg.Diagnostics.ReportDir == "" {
		cfg.Diagnostics.ReportDir = filepath.Join(filesystem.UserHomeDir(), ".hangwatch", "reports")
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
