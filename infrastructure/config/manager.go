package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors for config management
var (
	ErrLanguageNotFound = errors.New("language not found")
	ErrDuplicateKey     = errors.New("key already exists")
	ErrInvalidBackend   = errors.New("invalid backend")
	ErrInvalidLanguage  = errors.New("invalid language code")
)

// Accepted backend names
var (
	VideoBackends = []string{"ffmpeg", "opencv"}
	OCRBackends   = []string{"tesseract", "gosseract"}
)

// ConfigManager provides edit operations for config entries that persist on every change
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Config returns the managed configuration
func (m *ConfigManager) Config() *Config {
	return m.config
}

// --- Video ---

// SetVideo sets the video file name and, when non-empty, the base directory
func (m *ConfigManager) SetVideo(fileName, baseDir string) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return fmt.Errorf("video file name is required")
	}

	m.config.Video.FileName = fileName
	if baseDir = strings.TrimSpace(baseDir); baseDir != "" {
		m.config.Video.BaseDirectory = baseDir
	}
	return Save(m.config, m.configPath)
}

// SetVideoBackend selects the video decoder
func (m *ConfigManager) SetVideoBackend(backend string) error {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if !contains(VideoBackends, backend) {
		return fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidBackend, backend, strings.Join(VideoBackends, ", "))
	}

	m.config.Video.Backend = backend
	return Save(m.config, m.configPath)
}

// --- OCR ---

// SetOCRBackend selects the OCR engine
func (m *ConfigManager) SetOCRBackend(backend string) error {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if !contains(OCRBackends, backend) {
		return fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidBackend, backend, strings.Join(OCRBackends, ", "))
	}

	m.config.OCR.Backend = backend
	return Save(m.config, m.configPath)
}

// AddLanguage appends a tesseract language code
func (m *ConfigManager) AddLanguage(code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !isValidLanguage(code) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	if contains(m.config.OCR.Languages, code) {
		return fmt.Errorf("%w: language %q", ErrDuplicateKey, code)
	}

	m.config.OCR.Languages = append(m.config.OCR.Languages, code)
	return Save(m.config, m.configPath)
}

// ListLanguages returns the configured language codes in recognition order
func (m *ConfigManager) ListLanguages() []string {
	result := make([]string, len(m.config.OCR.Languages))
	copy(result, m.config.OCR.Languages)
	return result
}

// RemoveLanguage removes a language code. The last language cannot be removed.
func (m *ConfigManager) RemoveLanguage(code string) error {
	code = strings.ToLower(strings.TrimSpace(code))

	idx := -1
	for i, l := range m.config.OCR.Languages {
		if l == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrLanguageNotFound, code)
	}
	if len(m.config.OCR.Languages) == 1 {
		return fmt.Errorf("cannot remove the last OCR language %q", code)
	}

	m.config.OCR.Languages = append(m.config.OCR.Languages[:idx], m.config.OCR.Languages[idx+1:]...)
	return Save(m.config, m.configPath)
}

// --- Agent ---

// SetModel sets the model name reported in the agent manifest
func (m *ConfigManager) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("model name is required")
	}

	m.config.Agent.Model = model
	return Save(m.config, m.configPath)
}

// isValidLanguage accepts tesseract codes such as eng, ron, chi_sim
func isValidLanguage(code string) bool {
	if len(code) < 3 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
