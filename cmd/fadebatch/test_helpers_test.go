package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fadebatch/internal/config"
	"fadebatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	mediaDir   string
	baseDir    string
}

// setupCLITestEnv writes a config pointing at temp state and a stub ffprobe
// that knows the given durations. Media files are created under mediaDir.
func setupCLITestEnv(t *testing.T, durations map[string]float64) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithFFprobeStub(durations))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("FADEBATCH_STATE_DIR", "")

	mediaDir := filepath.Join(base, "media")
	for name := range durations {
		testsupport.WriteFile(t, filepath.Join(mediaDir, name), 64)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		mediaDir:   mediaDir,
		baseDir:    base,
	}
}

func (e *cliTestEnv) media(name string) string {
	return filepath.Join(e.mediaDir, name)
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[host]\nffprobe_binary = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Host.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, configPath, args...)
	if err != nil {
		t.Fatalf("fadebatch %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode json: %v\n%s", err, raw)
	}
	return v
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
