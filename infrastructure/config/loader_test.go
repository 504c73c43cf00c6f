package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
video:
  file_name: lecture.mp4
  base_directory: /data/videos
ocr:
  languages: [eng]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Video.FileName != "lecture.mp4" {
		t.Errorf("FileName = %q", cfg.Video.FileName)
	}
	if cfg.Video.Backend != DefaultVideoBackend {
		t.Errorf("Backend = %q, want default %q", cfg.Video.Backend, DefaultVideoBackend)
	}
	if !reflect.DeepEqual(cfg.OCR.Languages, []string{"eng"}) {
		t.Errorf("Languages = %v, want [eng]", cfg.OCR.Languages)
	}
	if cfg.Agent.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Agent.Model, DefaultModel)
	}
	if got := cfg.VideoPath(); got != filepath.Join("/data/videos", "lecture.mp4") {
		t.Errorf("VideoPath() = %q", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "video: [unclosed")

	if _, err := Load(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault("config/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Video.BaseDirectory != "." {
		t.Errorf("BaseDirectory = %q, want .", cfg.Video.BaseDirectory)
	}
	if cfg.VideoPath() != "" {
		t.Errorf("VideoPath() = %q, want empty", cfg.VideoPath())
	}
}

func TestLoadOrDefault_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIDEO_FILE_NAME", "clip.mp4")
	t.Setenv("MODEL_NAME", "gemini-2.5-pro")
	t.Setenv("OCR_LANGUAGES", "eng,deu,fra")
	t.Setenv("ARTIFACT_DIR", "/tmp/frames")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "video:\n  file_name: from-file.mp4\n")

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Video.FileName != "clip.mp4" {
		t.Errorf("FileName = %q, want env value", cfg.Video.FileName)
	}
	if cfg.Agent.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Agent.Model)
	}
	if !reflect.DeepEqual(cfg.OCR.Languages, []string{"eng", "deu", "fra"}) {
		t.Errorf("Languages = %v", cfg.OCR.Languages)
	}
	if cfg.Artifacts.Directory != "/tmp/frames" {
		t.Errorf("Artifacts.Directory = %q", cfg.Artifacts.Directory)
	}
}

func TestLoadOrDefault_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ".env"), "VIDEO_FILE_NAME=dotenv.mp4\nLOG_LEVEL=debug\n")
	t.Setenv("LOG_LEVEL", "warn")
	// registers cleanup for the variable gotenv is about to set
	t.Setenv("VIDEO_FILE_NAME", "")
	os.Unsetenv("VIDEO_FILE_NAME")

	cfg, err := LoadOrDefault("missing.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Video.FileName != "dotenv.mp4" {
		t.Errorf("FileName = %q, want value from .env", cfg.Video.FileName)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, existing environment should win", cfg.Logging.Level)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Video.FileName = "saved.mp4"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Video.FileName != "saved.mp4" {
		t.Errorf("FileName = %q", loaded.Video.FileName)
	}
}
