package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFade()
	c.normalizeQueue()
	c.normalizeHost()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(stateDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFade() {
	c.Fade.EffectName = strings.TrimSpace(c.Fade.EffectName)
	c.Fade.FadeInPreset = strings.TrimSpace(c.Fade.FadeInPreset)
	c.Fade.FadeOutPreset = strings.TrimSpace(c.Fade.FadeOutPreset)
}

func (c *Config) normalizeQueue() {
	seen := make(map[string]struct{}, len(c.Queue.Extensions))
	cleaned := make([]string, 0, len(c.Queue.Extensions))
	for _, ext := range c.Queue.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		cleaned = append(cleaned, ext)
	}
	c.Queue.Extensions = cleaned
}

func (c *Config) normalizeHost() {
	c.Host.FFprobeBinary = strings.TrimSpace(c.Host.FFprobeBinary)
	if c.Host.FFprobeBinary == "" {
		c.Host.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Host.DefaultSampleRate == 0 {
		c.Host.DefaultSampleRate = defaultSampleRate
	}
	for i := range c.Host.Effects {
		c.Host.Effects[i].Name = strings.TrimSpace(c.Host.Effects[i].Name)
		presets := c.Host.Effects[i].Presets[:0]
		for _, preset := range c.Host.Effects[i].Presets {
			if preset = strings.TrimSpace(preset); preset != "" {
				presets = append(presets, preset)
			}
		}
		c.Host.Effects[i].Presets = presets
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
