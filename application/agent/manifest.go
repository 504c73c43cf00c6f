package agent

// Agent defaults
const (
	DefaultName  = "video_frame_analyzer"
	DefaultModel = "gemini-2.0-flash"

	Description = "Agent to extract frames from video and analyze them for text content."

	Instruction = "You are a helpful agent who can extract frames from video files using either frame numbers or timestamps, and analyze them for text content with high confidence score(>85%)."
)

// Manifest describes the agent to its host framework
type Manifest struct {
	Name        string           `json:"name" yaml:"name"`
	Model       string           `json:"model" yaml:"model"`
	Description string           `json:"description" yaml:"description"`
	Instruction string           `json:"instruction" yaml:"instruction"`
	Tools       []ToolDescriptor `json:"tools" yaml:"tools"`
}

// NewManifest builds the manifest for the tools in r.
// Empty name or model fall back to the defaults.
func NewManifest(name, model string, r *Registry) Manifest {
	if name == "" {
		name = DefaultName
	}
	if model == "" {
		model = DefaultModel
	}

	return Manifest{
		Name:        name,
		Model:       model,
		Description: Description,
		Instruction: Instruction,
		Tools:       r.List(),
	}
}
