package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFade(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateHost(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateFade() error {
	if c.Fade.EffectName == "" {
		return errors.New("fade.effect_name must be set")
	}
	if c.Fade.FadeInSeconds < 0 {
		return errors.New("fade.fade_in_seconds must be >= 0")
	}
	if c.Fade.FadeOutSeconds < 0 {
		return errors.New("fade.fade_out_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateQueue() error {
	if len(c.Queue.Extensions) == 0 {
		return errors.New("queue.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateHost() error {
	if c.Host.DefaultSampleRate < 0 {
		return errors.New("host.default_sample_rate must be positive")
	}
	if c.Host.OperationTimeoutSeconds < 0 {
		return errors.New("host.operation_timeout_seconds must be >= 0")
	}
	if c.Host.OperationTimeoutSeconds > maxOperationTimeoutHours*3600 {
		return fmt.Errorf("host.operation_timeout_seconds must be <= %d", maxOperationTimeoutHours*3600)
	}
	seen := make(map[string]struct{}, len(c.Host.Effects))
	for i, effect := range c.Host.Effects {
		if effect.Name == "" {
			return fmt.Errorf("host.effects[%d].name must be set", i)
		}
		key := strings.ToLower(effect.Name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("host.effects: duplicate effect %q", effect.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
