package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/GriffinCanCode/LeoCore/internal/app"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/config"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
)

var errNoStore = errors.New("score store unavailable; check LEO_DB_ENGINE and its settings")

type commandContext struct {
	logLevel string
	devLogs  bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	appOptions []app.Option
	app        *app.App
}

func newCommandContext(opts ...app.Option) *commandContext {
	return &commandContext{appOptions: opts}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		if lvl := strings.TrimSpace(c.logLevel); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if c.devLogs {
			cfg.Logging.Development = true
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureApp wires the pipeline on first use.
func (c *commandContext) ensureApp(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	c.app = app.New(ctx, cfg, logger, c.appOptions...)
	return c.app, nil
}

func (c *commandContext) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
