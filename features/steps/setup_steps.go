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

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	selectResponses  []string
	inputIndex       int
	confirmIndex     int
	selectIndex      int
}

func NewMockPrompter(inputs []string, confirms []bool, selects []string) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
		selectResponses:  selects,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		return defaultValue, nil
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	if response == "<default>" {
		return defaultValue, nil
	}
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.selectIndex >= len(m.selectResponses) {
		return defaultValue, nil
	}
	response := m.selectResponses[m.selectIndex]
	m.selectIndex++
	for _, o := range options {
		if o == response {
			return response, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %v for message: %s", response, options, message)
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Cleanup temp directory
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I attempt the setup command with inputs:$`, testCtx.iAttemptTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)" and inputs:$`, testCtx.iRunTheSetupCommandWithConfirmationAndInputs)
	ctx.Step(`^the setup command should fail with "([^"]*)"$`, testCtx.theSetupCommandShouldFailWith)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have video path "([^"]*)"$`, testCtx.theConfigShouldHaveVideoPath)
	ctx.Step(`^the config should have video backend "([^"]*)"$`, testCtx.theConfigShouldHaveVideoBackend)
	ctx.Step(`^the config should have OCR backend "([^"]*)"$`, testCtx.theConfigShouldHaveOCRBackend)
	ctx.Step(`^the config should have OCR languages "([^"]*)"$`, testCtx.theConfigShouldHaveOCRLanguages)
	ctx.Step(`^the config should have model "([^"]*)"$`, testCtx.theConfigShouldHaveModel)
	ctx.Step(`^the config should have artifacts directory "([^"]*)"$`, testCtx.theConfigShouldHaveArtifactsDirectory)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	// Just ensure the config path directory exists but no config file
	configDir := filepath.Dir(s.configPath)
	return os.MkdirAll(configDir, 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	configDir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	content := `video:
  base_directory: "/original/videos"
  file_name: "original.mp4"
  backend: "ffmpeg"
ocr:
  backend: "tesseract"
  languages: ["eng"]
agent:
  model: "original-model"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func (s *setupContext) runSetup(prompter cmd.Prompter) error {
	s.output.Reset()
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	return s.err
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms, selects := parseInputTable(table)
	if err := s.runSetup(NewMockPrompter(inputs, confirms, selects)); err != nil {
		return fmt.Errorf("setup command failed: %w", err)
	}
	return nil
}

func (s *setupContext) iAttemptTheSetupCommandWithInputs(table *godog.Table) error {
	inputs, confirms, selects := parseInputTable(table)
	s.runSetup(NewMockPrompter(inputs, confirms, selects))
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	s.runSetup(NewMockPrompter(nil, []bool{confirm}, nil))
	if !confirm {
		s.setupCancelled = strings.Contains(s.output.String(), "Setup cancelled.")
	}
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmationAndInputs(confirmation string, table *godog.Table) error {
	confirm := strings.ToLower(confirmation) == "y"
	inputs, confirms, selects := parseInputTable(table)

	// Prepend the overwrite confirmation
	allConfirms := append([]bool{confirm}, confirms...)
	if err := s.runSetup(NewMockPrompter(inputs, allConfirms, selects)); err != nil {
		return fmt.Errorf("setup command failed: %w", err)
	}
	return nil
}

// parseInputTable splits a prompt/value table into input, confirm and
// select answers. Backend prompts are selects.
func parseInputTable(table *godog.Table) ([]string, []bool, []string) {
	var inputs []string
	var confirms []bool
	var selects []string

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		switch {
		case strings.HasSuffix(prompt, "backend"):
			selects = append(selects, value)
		case strings.HasPrefix(prompt, "overwrite"):
			confirms = append(confirms, strings.ToLower(value) == "y")
		default:
			inputs = append(inputs, value)
		}
	}

	return inputs, confirms, selects
}

func (s *setupContext) theSetupCommandShouldFailWith(expected string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail with %q, but it succeeded", expected)
	}
	if !strings.Contains(s.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, s.err.Error())
	}
	return nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) savedConfig() (*config.Config, error) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (s *setupContext) theConfigShouldHaveVideoPath(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if cfg.VideoPath() != expected {
		return fmt.Errorf("expected video path %q, got %q", expected, cfg.VideoPath())
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveVideoBackend(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if cfg.Video.Backend != expected {
		return fmt.Errorf("expected video backend %q, got %q", expected, cfg.Video.Backend)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOCRBackend(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if cfg.OCR.Backend != expected {
		return fmt.Errorf("expected OCR backend %q, got %q", expected, cfg.OCR.Backend)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOCRLanguages(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if got := strings.Join(cfg.OCR.Languages, ","); got != expected {
		return fmt.Errorf("expected OCR languages %q, got %q", expected, got)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveModel(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if cfg.Agent.Model != expected {
		return fmt.Errorf("expected model %q, got %q", expected, cfg.Agent.Model)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveArtifactsDirectory(expected string) error {
	cfg, err := s.savedConfig()
	if err != nil {
		return err
	}
	if cfg.Artifacts.Directory != expected {
		return fmt.Errorf("expected artifacts directory %q, got %q", expected, cfg.Artifacts.Directory)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
