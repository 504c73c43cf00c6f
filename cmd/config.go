package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"video-frame-analyzer/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration entries",
	Long: `Show and edit the configuration file. Edits are saved immediately.
Environment overrides are not written to the file.

Examples:
  video-frame-analyzer config show
  video-frame-analyzer config set video lecture.mp4 --dir /data/videos
  video-frame-analyzer config set ocr-backend gosseract
  video-frame-analyzer config add language deu
  video-frame-analyzer config list languages`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
}

// loadFileConfig reads the config file without environment overrides,
// starting from defaults when it does not exist yet
func loadFileConfig(path string) (*config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return c, nil
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, including environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, DefaultOutput)
	},
}

// RunConfigShowWithDependencies prints cfg as YAML
func RunConfigShowWithDependencies(cfg *config.Config, out OutputWriter) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// --- SET command ---

var setDir string

var configSetCmd = &cobra.Command{
	Use:   "set [video|video-backend|ocr-backend|model] VALUE",
	Short: "Set a config value",
	Long: `Set the video file, a backend, or the agent model.

Examples:
  video-frame-analyzer config set video lecture.mp4 --dir /data/videos
  video-frame-analyzer config set video-backend opencv
  video-frame-analyzer config set ocr-backend tesseract
  video-frame-analyzer config set model gemini-2.5-flash`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configSetCmd.Flags().StringVar(&setDir, "dir", "", "Base directory of the video (video only)")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cfgFile)
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(fileCfg, cfgFile, args[0], args[1], setDir, DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value, dir string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	switch key {
	case "video":
		if err := mgr.SetVideo(value, dir); err != nil {
			return err
		}
		fmt.Fprintf(out, "Video set to %s\n", cfg.VideoPath())

	case "video-backend":
		if err := mgr.SetVideoBackend(value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Video backend set to %s\n", cfg.Video.Backend)

	case "ocr-backend":
		if err := mgr.SetOCRBackend(value); err != nil {
			return err
		}
		fmt.Fprintf(out, "OCR backend set to %s\n", cfg.OCR.Backend)

	case "model":
		if err := mgr.SetModel(value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Model set to %s\n", cfg.Agent.Model)

	default:
		return fmt.Errorf("unknown key %q. Use video, video-backend, ocr-backend, or model", key)
	}

	return nil
}

// --- ADD command ---

var configAddCmd = &cobra.Command{
	Use:   "add language CODE",
	Short: "Add an OCR language",
	Long: `Add a tesseract language code to the OCR language list.

Example:
  video-frame-analyzer config add language deu`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadFileConfig(cfgFile)
		if err != nil {
			return err
		}
		return RunConfigAddWithDependencies(fileCfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	if entityType != "language" {
		return fmt.Errorf("unknown entity type %q. Use language", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.AddLanguage(value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added OCR language %q\n", value)
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list languages",
	Short: "List OCR languages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadFileConfig(cfgFile)
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(fileCfg, cfgFile, args[0], DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	if entityType != "languages" {
		return fmt.Errorf("unknown entity type %q. Use languages", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	languages := mgr.ListLanguages()
	if len(languages) == 0 {
		fmt.Fprintln(out, "No OCR languages configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCODE")
	for i, code := range languages {
		fmt.Fprintf(w, "%d\t%s\n", i+1, code)
	}
	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove language CODE",
	Short: "Remove an OCR language",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadFileConfig(cfgFile)
		if err != nil {
			return err
		}
		return RunConfigRemoveWithDependencies(fileCfg, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, value string, out OutputWriter) error {
	if entityType != "language" {
		return fmt.Errorf("unknown entity type %q. Use language", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.RemoveLanguage(value); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed OCR language %q\n", value)
	return nil
}
