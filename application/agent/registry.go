package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"video-frame-analyzer/domain/tool"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Errors returned by Register
var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrInvalidSchema = errors.New("invalid input schema")
)

// ToolDescriptor describes a tool to the agent host
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// MarshalYAML renders the input schema as a nested document instead of raw bytes
func (d ToolDescriptor) MarshalYAML() (interface{}, error) {
	var schema interface{}
	if len(d.InputSchema) > 0 {
		if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
			return nil, fmt.Errorf("invalid input schema for tool %s: %w", d.Name, err)
		}
	}
	return struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		InputSchema interface{} `yaml:"input_schema,omitempty"`
	}{d.Name, d.Description, schema}, nil
}

// Handler runs a tool with schema-valid arguments
type Handler func(ctx context.Context, args json.RawMessage) tool.Result

// Recorder observes finished tool calls
type Recorder interface {
	ObserveToolCall(name string, result tool.Result, elapsed time.Duration)
}

type registeredTool struct {
	descriptor ToolDescriptor
	schema     *gojsonschema.Schema
	handler    Handler
}

// Registry maps tool names to descriptors and handlers.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]*registeredTool
	order    []string
	recorder Recorder
	logger   *zap.Logger
}

// RegistryOption is a functional option for configuring Registry
type RegistryOption func(*Registry)

// WithRecorder sets the recorder notified after every call
func WithRecorder(recorder Recorder) RegistryOption {
	return func(r *Registry) {
		r.recorder = recorder
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:  make(map[string]*registeredTool),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register compiles the descriptor's input schema and adds the tool
func (r *Registry) Register(descriptor ToolDescriptor, handler Handler) error {
	if strings.TrimSpace(descriptor.Name) == "" {
		return fmt.Errorf("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool %s has no handler", descriptor.Name)
	}

	schemaJSON := string(descriptor.InputSchema)
	if schemaJSON == "" {
		schemaJSON = `{"type": "object"}`
		descriptor.InputSchema = json.RawMessage(schemaJSON)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return fmt.Errorf("%w for tool %s: %v", ErrInvalidSchema, descriptor.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[descriptor.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, descriptor.Name)
	}

	r.tools[descriptor.Name] = &registeredTool{
		descriptor: descriptor,
		schema:     schema,
		handler:    handler,
	}
	r.order = append(r.order, descriptor.Name)
	return nil
}

// Get retrieves a tool descriptor by name
func (r *Registry) Get(name string) (ToolDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return ToolDescriptor{}, false
	}
	return t.descriptor, true
}

// List returns all descriptors in registration order
func (r *Registry) List() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name].descriptor)
	}
	return result
}

// Execute validates args against the tool's schema and runs it.
// Unknown tools and invalid arguments become UnknownError results.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) tool.Result {
	tracer := otel.Tracer("application/agent")
	ctx, span := tracer.Start(ctx, "Registry.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("tool.name", name))

	started := time.Now()
	result := r.execute(ctx, name, args)
	elapsed := time.Since(started)

	if r.recorder != nil {
		r.recorder.ObserveToolCall(name, result, elapsed)
	}

	fields := []zap.Field{
		zap.String("tool", name),
		zap.String("status", string(result.Status)),
		zap.Duration("duration", elapsed),
	}
	if !result.OK() {
		span.SetStatus(codes.Error, result.ErrorMessage)
		span.SetAttributes(attribute.String("error.kind", string(result.Kind)))
		r.logger.Warn("tool call failed", append(fields,
			zap.String("kind", string(result.Kind)),
			zap.String("error", result.ErrorMessage),
		)...)
		return result
	}

	r.logger.Info("tool call succeeded", fields...)
	return result
}

func (r *Registry) execute(ctx context.Context, name string, args json.RawMessage) tool.Result {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return tool.Failure(fmt.Errorf("unknown tool %q", name), "Error calling tool")
	}

	if len(strings.TrimSpace(string(args))) == 0 {
		args = json.RawMessage(`{}`)
	}

	if err := validateArgs(t.schema, args); err != nil {
		return tool.Failure(err, "Error calling "+name)
	}

	return t.handler(ctx, args)
}

// validateArgs checks args against a compiled schema
func validateArgs(schema *gojsonschema.Schema, args json.RawMessage) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(errs, "; "))
	}

	return nil
}
