package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Video     VideoConfig     `yaml:"video"`
	OCR       OCRConfig       `yaml:"ocr"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Agent     AgentConfig     `yaml:"agent"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// VideoConfig locates the video under analysis and selects the decoder
type VideoConfig struct {
	BaseDirectory string `yaml:"base_directory" env:"VIDEO_BASE_DIR"`
	FileName      string `yaml:"file_name" env:"VIDEO_FILE_NAME"`
	Backend       string `yaml:"backend" env:"VIDEO_BACKEND"`
	FFmpegPath    string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	FFprobePath   string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`
}

// OCRConfig selects the OCR engine and its languages
type OCRConfig struct {
	Backend       string   `yaml:"backend" env:"OCR_BACKEND"`
	Languages     []string `yaml:"languages" env:"OCR_LANGUAGES" envSeparator:","`
	TesseractPath string   `yaml:"tesseract_path" env:"TESSERACT_PATH"`
}

// ArtifactsConfig contains where extracted frames are written
type ArtifactsConfig struct {
	Directory string `yaml:"directory" env:"ARTIFACT_DIR"`
}

// AgentConfig describes the agent exposed to the host framework
type AgentConfig struct {
	Name  string `yaml:"name" env:"AGENT_NAME"`
	Model string `yaml:"model" env:"MODEL_NAME"`
}

// ServerConfig contains HTTP tool server settings
type ServerConfig struct {
	Address string `yaml:"address" env:"SERVER_ADDRESS"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// TracingConfig contains the OTLP/HTTP collector endpoint; empty disables export
type TracingConfig struct {
	Endpoint string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Backend and agent defaults
const (
	DefaultVideoBackend = "ffmpeg"
	DefaultOCRBackend   = "tesseract"
	DefaultAgentName    = "video_frame_analyzer"
	DefaultModel        = "gemini-2.0-flash"
	DefaultAddress      = ":8080"
	DefaultLogLevel     = "info"
)

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			BaseDirectory: ".",
			Backend:       DefaultVideoBackend,
			FFmpegPath:    "ffmpeg",
			FFprobePath:   "ffprobe",
		},
		OCR: OCRConfig{
			Backend:       DefaultOCRBackend,
			Languages:     []string{"eng", "ron"},
			TesseractPath: "tesseract",
		},
		Agent: AgentConfig{
			Name:  DefaultAgentName,
			Model: DefaultModel,
		},
		Server:  ServerConfig{Address: DefaultAddress},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists, falls back to defaults when it does
// not, then applies .env and environment overrides
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config fields from environment variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// VideoPath joins the base directory and file name. It is empty when no
// file name is configured.
func (c *Config) VideoPath() string {
	if c.Video.FileName == "" {
		return ""
	}
	return filepath.Join(c.Video.BaseDirectory, c.Video.FileName)
}
