package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"fadebatch/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FADEBATCH_STATE_DIR", "")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "fadebatch")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.QueueDatabasePath() != filepath.Join(wantState, "queue.db") {
		t.Fatalf("unexpected queue db path: %q", cfg.QueueDatabasePath())
	}
	if cfg.Fade.EffectName != "Graphic Fade" {
		t.Fatalf("unexpected effect name: %q", cfg.Fade.EffectName)
	}
	if cfg.Fade.FadeInSeconds != 0.5 || cfg.Fade.FadeOutSeconds != 0.5 {
		t.Fatalf("unexpected fade defaults: %v/%v", cfg.Fade.FadeInSeconds, cfg.Fade.FadeOutSeconds)
	}
	if len(cfg.Queue.Extensions) != len(config.DefaultExtensions) {
		t.Fatalf("expected %d default extensions, got %d", len(config.DefaultExtensions), len(cfg.Queue.Extensions))
	}
	if cfg.OperationTimeout() != 0 {
		t.Fatalf("expected unbounded operation timeout, got %s", cfg.OperationTimeout())
	}
	presets, ok := cfg.EffectPresets("graphic fade")
	if !ok || len(presets) == 0 {
		t.Fatalf("expected default Graphic Fade presets, got %v %v", presets, ok)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "fadebatch.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Fade struct {
			FadeInPreset  string  `toml:"fade_in_preset"`
			FadeInSeconds float64 `toml:"fade_in_seconds"`
		} `toml:"fade"`
		Queue struct {
			Extensions []string `toml:"extensions"`
		} `toml:"queue"`
		Host struct {
			OperationTimeoutSeconds int `toml:"operation_timeout_seconds"`
		} `toml:"host"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Fade.FadeInPreset = "  Fade in "
	custom.Fade.FadeInSeconds = 2.25
	custom.Queue.Extensions = []string{".WAV", "mp3", "wav", " "}
	custom.Host.OperationTimeoutSeconds = 30
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Fade.FadeInPreset != "Fade in" {
		t.Fatalf("expected trimmed preset, got %q", cfg.Fade.FadeInPreset)
	}
	if cfg.Fade.FadeInSeconds != 2.25 {
		t.Fatalf("expected fade in 2.25, got %v", cfg.Fade.FadeInSeconds)
	}
	if got := strings.Join(cfg.Queue.Extensions, ","); got != "wav,mp3" {
		t.Fatalf("expected normalized extensions wav,mp3, got %q", got)
	}
	if cfg.OperationTimeout() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.OperationTimeout())
	}
}

func TestStateDirEnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	override := filepath.Join(tempDir, "override")
	t.Setenv("FADEBATCH_STATE_DIR", override)

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StateDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.StateDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative fade in", func(c *config.Config) { c.Fade.FadeInSeconds = -1 }, "fade.fade_in_seconds"},
		{"negative fade out", func(c *config.Config) { c.Fade.FadeOutSeconds = -0.1 }, "fade.fade_out_seconds"},
		{"missing effect", func(c *config.Config) { c.Fade.EffectName = "" }, "fade.effect_name"},
		{"no extensions", func(c *config.Config) { c.Queue.Extensions = nil }, "queue.extensions"},
		{"negative timeout", func(c *config.Config) { c.Host.OperationTimeoutSeconds = -5 }, "host.operation_timeout_seconds"},
		{"duplicate effect", func(c *config.Config) {
			c.Host.Effects = append(c.Host.Effects, config.Effect{Name: "graphic fade"})
		}, "duplicate effect"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.StateDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "fadebatch.toml")
	if err := os.WriteFile(configPath, []byte("[fade]\nfade_in_secs = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	target := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Fade.FadeInPreset != "Smooth fade in" {
		t.Fatalf("unexpected sample fade in preset %q", cfg.Fade.FadeInPreset)
	}
}
