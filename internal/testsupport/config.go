package testsupport

import (
	"path/filepath"
	"testing"

	"fadebatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPresets sets the fade-in and fade-out preset selection.
func WithPresets(fadeIn, fadeOut string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fade.FadeInPreset = fadeIn
		b.cfg.Fade.FadeOutPreset = fadeOut
	}
}

// WithFadeSeconds sets the fade-in and fade-out durations.
func WithFadeSeconds(fadeIn, fadeOut float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fade.FadeInSeconds = fadeIn
		b.cfg.Fade.FadeOutSeconds = fadeOut
	}
}

// WithFFprobeStub points the rehearsal host at a stub ffprobe that reports
// the given durations, keyed by file base name. Unknown files fail to probe.
func WithFFprobeStub(durations map[string]float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Host.FFprobeBinary = WriteFFprobeStub(b.t, filepath.Join(b.baseDir, "bin"), durations)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
