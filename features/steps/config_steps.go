//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-frame-analyzer/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	savedEnv   map[string]*string
}

// SharedConfigContext is reset before each scenario
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.cfg = nil
		testCtx.loadErr = nil
		testCtx.savedEnv = make(map[string]*string)
		return c, nil
	})

	// Restore environment and remove temp files after each scenario
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		testCtx.restoreEnv()
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a configuration file with:$`, testCtx.aConfigurationFileWith)
	ctx.Step(`^no configuration file exists$`, testCtx.noConfigurationFileExists)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, testCtx.theEnvironmentVariableIs)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^I load the configuration with environment overrides$`, testCtx.iLoadTheConfigurationWithEnvironmentOverrides)
	ctx.Step(`^I attempt to load the configuration$`, testCtx.iAttemptToLoadTheConfiguration)
	ctx.Step(`^the video path should be "([^"]*)"$`, testCtx.theVideoPathShouldBe)
	ctx.Step(`^the video backend should be "([^"]*)"$`, testCtx.theVideoBackendShouldBe)
	ctx.Step(`^the OCR languages should be "([^"]*)"$`, testCtx.theOCRLanguagesShouldBe)
	ctx.Step(`^the model should be "([^"]*)"$`, testCtx.theModelShouldBe)
	ctx.Step(`^the server address should be "([^"]*)"$`, testCtx.theServerAddressShouldBe)
	ctx.Step(`^I should receive an error about missing configuration$`, testCtx.iShouldReceiveAnErrorAboutMissingConfiguration)
}

func (c *configContext) restoreEnv() {
	for key, value := range c.savedEnv {
		if value == nil {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, *value)
		}
	}
	c.savedEnv = nil
}

func (c *configContext) aConfigurationFileWith(doc *godog.DocString) error {
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func (c *configContext) noConfigurationFileExists() error {
	c.configPath = filepath.Join(c.tempDir, "missing.yaml")
	return nil
}

func (c *configContext) theEnvironmentVariableIs(key, value string) error {
	if _, saved := c.savedEnv[key]; !saved {
		if old, ok := os.LookupEnv(key); ok {
			c.savedEnv[key] = &old
		} else {
			c.savedEnv[key] = nil
		}
	}
	return os.Setenv(key, value)
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iLoadTheConfigurationWithEnvironmentOverrides() error {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) iAttemptToLoadTheConfiguration() error {
	cfg, err := config.Load(c.configPath)
	c.cfg = cfg
	c.loadErr = err
	return nil
}

func (c *configContext) loaded() (*config.Config, error) {
	if c.cfg == nil {
		return nil, fmt.Errorf("config was not loaded")
	}
	return c.cfg, nil
}

func (c *configContext) theVideoPathShouldBe(expected string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	if cfg.VideoPath() != expected {
		return fmt.Errorf("expected video path %q, got %q", expected, cfg.VideoPath())
	}
	return nil
}

func (c *configContext) theVideoBackendShouldBe(expected string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	if cfg.Video.Backend != expected {
		return fmt.Errorf("expected video backend %q, got %q", expected, cfg.Video.Backend)
	}
	return nil
}

func (c *configContext) theOCRLanguagesShouldBe(expected string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	if got := strings.Join(cfg.OCR.Languages, ","); got != expected {
		return fmt.Errorf("expected OCR languages %q, got %q", expected, got)
	}
	return nil
}

func (c *configContext) theModelShouldBe(expected string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	if cfg.Agent.Model != expected {
		return fmt.Errorf("expected model %q, got %q", expected, cfg.Agent.Model)
	}
	return nil
}

func (c *configContext) theServerAddressShouldBe(expected string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	if cfg.Server.Address != expected {
		return fmt.Errorf("expected server address %q, got %q", expected, cfg.Server.Address)
	}
	return nil
}

func (c *configContext) iShouldReceiveAnErrorAboutMissingConfiguration() error {
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	return nil
}
