package cmd

import (
	"fmt"
	"os"
	"strings"

	"video-frame-analyzer/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the video to analyze, the
decoding and OCR backends, the OCR languages, and the agent model.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to video-frame-analyzer setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	// Video section
	if err := promptVideo(prompter, cfg); err != nil {
		return err
	}

	// OCR section
	if err := promptOCR(prompter, cfg); err != nil {
		return err
	}

	// Agent section
	if err := promptAgent(prompter, cfg); err != nil {
		return err
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptVideo(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Directory containing the video?", cfg.Video.BaseDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if dir != "" {
		cfg.Video.BaseDirectory = dir
	}

	// May stay empty: VIDEO_FILE_NAME can supply it at run time
	name, err := prompter.Input("Video file name? (leave empty to use VIDEO_FILE_NAME)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Video.FileName = strings.TrimSpace(name)

	backend, err := prompter.Select("Video decoding backend?", config.VideoBackends, cfg.Video.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Video.Backend = backend

	return nil
}

func promptOCR(prompter Prompter, cfg *config.Config) error {
	backend, err := prompter.Select("OCR backend?", config.OCRBackends, cfg.OCR.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.OCR.Backend = backend

	langs, err := prompter.Input("OCR languages (comma separated tesseract codes)?", strings.Join(cfg.OCR.Languages, ","))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	parsed := splitList(langs)
	if len(parsed) == 0 {
		return fmt.Errorf("at least one OCR language is required")
	}
	cfg.OCR.Languages = parsed

	return nil
}

func promptAgent(prompter Prompter, cfg *config.Config) error {
	model, err := prompter.Input("Model name for the agent?", cfg.Agent.Model)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if model == "" {
		model = config.DefaultModel
	}
	cfg.Agent.Model = model

	artifacts, err := prompter.Input("Directory for extracted frames? (leave empty for the system temp dir)", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Artifacts.Directory = strings.TrimSpace(artifacts)

	return nil
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
