package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Fade contains the effect and preset selection applied to every queued file.
type Fade struct {
	EffectName     string  `toml:"effect_name"`
	FadeInPreset   string  `toml:"fade_in_preset"`
	FadeOutPreset  string  `toml:"fade_out_preset"`
	FadeInSeconds  float64 `toml:"fade_in_seconds"`
	FadeOutSeconds float64 `toml:"fade_out_seconds"`
}

// Queue contains the media queue filter.
type Queue struct {
	// Extensions is the allow-list of file extensions, without the leading dot.
	Extensions []string `toml:"extensions"`
}

// Effect declares an effect and its presets for the rehearsal host.
type Effect struct {
	Name    string   `toml:"name"`
	Presets []string `toml:"presets"`
}

// Host contains configuration for the rehearsal host adapter.
type Host struct {
	FFprobeBinary     string `toml:"ffprobe_binary"`
	DefaultSampleRate int    `toml:"default_sample_rate"`
	// OperationTimeoutSeconds bounds every host wait. Zero waits forever.
	OperationTimeoutSeconds int      `toml:"operation_timeout_seconds"`
	Effects                 []Effect `toml:"effects"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for fadebatch.
//
// Configuration sections by subsystem:
//   - Paths: state (queue database, run lock) and log directories
//   - Fade: effect name, preset selection, and fade durations
//   - Queue: extension allow-list
//   - Host: rehearsal host probing, effects, and wait timeout
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Fade    Fade    `toml:"fade"`
	Queue   Queue   `toml:"queue"`
	Host    Host    `toml:"host"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fadebatch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fadebatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// QueueDatabasePath returns the SQLite database holding the queue and run history.
func (c *Config) QueueDatabasePath() string {
	return filepath.Join(c.Paths.StateDir, queueDatabaseName)
}

// RunLockPath returns the lock file guarding against concurrent batch runs.
func (c *Config) RunLockPath() string {
	return filepath.Join(c.Paths.StateDir, runLockName)
}

// LogFilePath returns the log file path, or "" when file logging is disabled.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, logFileName)
}

// OperationTimeout returns the per-operation host wait bound (0 = unbounded).
func (c *Config) OperationTimeout() time.Duration {
	if c.Host.OperationTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Host.OperationTimeoutSeconds) * time.Second
}

// EffectPresets returns the rehearsal presets declared for an effect.
func (c *Config) EffectPresets(name string) ([]string, bool) {
	for _, effect := range c.Host.Effects {
		if strings.EqualFold(effect.Name, strings.TrimSpace(name)) {
			return append([]string(nil), effect.Presets...), true
		}
	}
	return nil, false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
