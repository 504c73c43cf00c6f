//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-frame-analyzer/cmd"
	"video-frame-analyzer/infrastructure/config"

	"github.com/cucumber/godog"
)

type configCrudContext struct {
	tempDir    string
	configPath string
	config     *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigCrudContext = &configCrudContext{}

func InitializeConfigCrudScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigCrudContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "config-crud-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.config = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	// Background
	ctx.Step(`^a config file exists with initial data$`, testCtx.aConfigFileExistsWithInitialData)

	// Set steps
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^I run config set video "([^"]*)" in directory "([^"]*)"$`, testCtx.iRunConfigSetVideoInDirectory)

	// Language steps
	ctx.Step(`^I run config add language "([^"]*)"$`, testCtx.iRunConfigAddLanguage)
	ctx.Step(`^I run config list languages$`, testCtx.iRunConfigListLanguages)
	ctx.Step(`^I run config remove language "([^"]*)"$`, testCtx.iRunConfigRemoveLanguage)
	ctx.Step(`^the saved OCR languages should be "([^"]*)"$`, testCtx.theSavedOCRLanguagesShouldBe)

	// Saved values
	ctx.Step(`^the saved video path should be "([^"]*)"$`, testCtx.theSavedVideoPathShouldBe)
	ctx.Step(`^the saved video backend should be "([^"]*)"$`, testCtx.theSavedVideoBackendShouldBe)
	ctx.Step(`^the saved OCR backend should be "([^"]*)"$`, testCtx.theSavedOCRBackendShouldBe)
	ctx.Step(`^the saved model should be "([^"]*)"$`, testCtx.theSavedModelShouldBe)

	// Common assertions
	ctx.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
}

func (c *configCrudContext) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// --- Background ---

func (c *configCrudContext) aConfigFileExistsWithInitialData() error {
	c.config = config.Default()
	c.config.Video.BaseDirectory = "/videos"
	c.config.Video.FileName = "lecture.mp4"
	c.config.OCR.Languages = []string{"eng", "ron"}
	return config.Save(c.config, c.configPath)
}

// --- Set steps ---

func (c *configCrudContext) iRunConfigSet(key, value string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigSetWithDependencies(c.config, c.configPath, key, value, "", c.output)
	return nil
}

func (c *configCrudContext) iRunConfigSetVideoInDirectory(name, dir string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigSetWithDependencies(c.config, c.configPath, "video", name, dir, c.output)
	return nil
}

// --- Language steps ---

func (c *configCrudContext) iRunConfigAddLanguage(code string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigAddWithDependencies(c.config, c.configPath, "language", code, c.output)
	return nil
}

func (c *configCrudContext) iRunConfigListLanguages() error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigListWithDependencies(c.config, c.configPath, "languages", c.output)
	return nil
}

func (c *configCrudContext) iRunConfigRemoveLanguage(code string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigRemoveWithDependencies(c.config, c.configPath, "language", code, c.output)
	return nil
}

func (c *configCrudContext) theSavedOCRLanguagesShouldBe(expected string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if got := strings.Join(c.config.OCR.Languages, ","); got != expected {
		return fmt.Errorf("expected OCR languages %q, got %q", expected, got)
	}
	return nil
}

// --- Saved values ---

func (c *configCrudContext) theSavedVideoPathShouldBe(expected string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.VideoPath() != expected {
		return fmt.Errorf("expected video path %q, got %q", expected, c.config.VideoPath())
	}
	return nil
}

func (c *configCrudContext) theSavedVideoBackendShouldBe(expected string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Video.Backend != expected {
		return fmt.Errorf("expected video backend %q, got %q", expected, c.config.Video.Backend)
	}
	return nil
}

func (c *configCrudContext) theSavedOCRBackendShouldBe(expected string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.OCR.Backend != expected {
		return fmt.Errorf("expected OCR backend %q, got %q", expected, c.config.OCR.Backend)
	}
	return nil
}

func (c *configCrudContext) theSavedModelShouldBe(expected string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Agent.Model != expected {
		return fmt.Errorf("expected model %q, got %q", expected, c.config.Agent.Model)
	}
	return nil
}

// --- Common assertions ---

func (c *configCrudContext) theCommandShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected command to succeed, got error: %v", c.err)
	}
	return nil
}

func (c *configCrudContext) theCommandShouldFailWith(expected string) error {
	if c.err == nil {
		return fmt.Errorf("expected command to fail with %q, but it succeeded", expected)
	}
	if !strings.Contains(c.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, c.err.Error())
	}
	return nil
}

func (c *configCrudContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got %q", expected, c.output.String())
	}
	return nil
}
