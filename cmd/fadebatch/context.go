package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fadebatch/internal/config"
	"fadebatch/internal/host/rehearsal"
	"fadebatch/internal/logging"
	"fadebatch/internal/queue"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *queue.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the logger from config, falling back to a no-op logger
// when the log file cannot be opened.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) ensureStore() (*queue.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = queue.Open(cfg)
	})
	return c.store, c.storeErr
}

// loadQueue reads the persisted queue filtered by the configured allow-list.
func (c *commandContext) loadQueue(cmd *cobra.Command) (*queue.Queue, *queue.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, nil, err
	}
	q, err := store.Load(cmd.Context(), queue.NewAllowList(cfg.Queue.Extensions))
	if err != nil {
		return nil, nil, err
	}
	return q, store, nil
}

// newHost builds the rehearsal host journaling into the queue store.
func (c *commandContext) newHost() (*rehearsal.Host, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	return rehearsal.New(cfg, store, c.ensureLogger()), nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
