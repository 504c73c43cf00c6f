package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"video-frame-analyzer/application/agent"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and call agent tools",
	Long: `Inspect the tool registry and call tools the way the agent host does.

Examples:
  video-frame-analyzer tools list
  video-frame-analyzer tools call extract_frame '{"frame_number": 42}'
  video-frame-analyzer tools call detect_text '{"image_path": "/tmp/frame_42.png"}'`,
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tools",
	Args:  cobra.NoArgs,
	RunE:  runToolsList,
}

var toolsCallCmd = &cobra.Command{
	Use:   "call NAME [ARGS_JSON]",
	Short: "Call a tool with JSON arguments and print the result mapping",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runToolsCall,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)
}

func runToolsList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	registry, closeFn, err := newRegistry(cfg, GetLogger())
	if err != nil {
		return err
	}
	defer closeFn()

	return RunToolsListWithDependencies(registry, DefaultOutput)
}

// RunToolsListWithDependencies prints every registered tool (for testing)
func RunToolsListWithDependencies(registry *agent.Registry, out OutputWriter) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, d := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Description)
	}
	return w.Flush()
}

func runToolsCall(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	registry, closeFn, err := newRegistry(cfg, GetLogger())
	if err != nil {
		return err
	}
	defer closeFn()

	raw := "{}"
	if len(args) == 2 {
		raw = args[1]
	}
	return RunToolsCallWithDependencies(cmd.Context(), registry, args[0], raw, DefaultOutput)
}

// RunToolsCallWithDependencies executes one tool and prints its result mapping (for testing)
func RunToolsCallWithDependencies(ctx context.Context, registry *agent.Registry, name, rawArgs string, out OutputWriter) error {
	return writeResult(out, registry.Execute(ctx, name, json.RawMessage(rawArgs)), true)
}
