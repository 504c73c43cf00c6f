package cmd

import (
	"fmt"

	"video-frame-analyzer/application/agent"
	"video-frame-analyzer/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var agentJSON bool

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Print the agent manifest",
	Long: `Print the agent definition: name, model, description, instruction and
the tool descriptors with their input schemas.

The model comes from MODEL_NAME or agent.model (default gemini-2.0-flash).

Examples:
  video-frame-analyzer agent
  MODEL_NAME=gemini-2.5-pro video-frame-analyzer agent --json`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.Flags().BoolVar(&agentJSON, "json", false, "Print the manifest as JSON instead of YAML")
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	registry, closeFn, err := newRegistry(cfg, GetLogger())
	if err != nil {
		return err
	}
	defer closeFn()

	return RunAgentWithDependencies(cfg.Agent, registry, agentJSON, DefaultOutput)
}

// RunAgentWithDependencies prints the manifest for the given registry (for testing)
func RunAgentWithDependencies(agentCfg config.AgentConfig, registry *agent.Registry, jsonOut bool, out OutputWriter) error {
	manifest := agent.NewManifest(agentCfg.Name, agentCfg.Model, registry)
	if jsonOut {
		return writeJSON(out, manifest)
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	_, err = out.Write(data)
	return err
}
