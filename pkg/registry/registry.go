// Package registry holds node-type definitions: the ports a type exposes,
// its default parameters, and the JSON schema its parameter bag must satisfy.
// The graph core never calls into the registry; callers consult it before
// constructing nodes and validate parameter bags at this boundary.
package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/weftlabs/weft/pkg/models"
)

// NodeType describes one node-type definition.
type NodeType struct {
	Type        string            `json:"type"`
	Label       string            `json:"label"`
	Description string            `json:"description,omitempty"`
	Inputs      []string          `json:"inputs"`
	Outputs     []string          `json:"outputs"`
	Defaults    models.Parameters `json:"defaults,omitempty"`
	// ParameterSchema is a JSON Schema document validated against the
	// node's parameter bag.
	ParameterSchema map[string]any `json:"parameter_schema,omitempty"`
}

type Registry struct {
	logger *slog.Logger
	types  map[string]*NodeType
}

func NewRegistry(logger *slog.Logger) *Registry {
	registry := &Registry{
		logger: logger,
		types:  make(map[string]*NodeType),
	}

	registry.registerBuiltins()

	return registry
}

func (r *Registry) Register(nodeType *NodeType) {
	r.types[nodeType.Type] = nodeType
	r.logger.Debug("Registered node type", "type", nodeType.Type)
}

func (r *Registry) Get(typeName string) (*NodeType, bool) {
	nodeType, ok := r.types[typeName]

	return nodeType, ok
}

// Types returns every registered type name.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	return names
}

// DefaultParameters returns a copy of the type's default parameter bag,
// ready to be patched by a caller before addNode.
func (r *Registry) DefaultParameters(typeName string) (models.Parameters, error) {
	nodeType, ok := r.types[typeName]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", typeName)
	}

	return nodeType.Defaults.Clone(), nil
}

// ValidateParameters checks a parameter bag against the type's declared
// schema. Types without a schema accept any bag.
func (r *Registry) ValidateParameters(typeName string, params models.Parameters) error {
	nodeType, ok := r.types[typeName]
	if !ok {
		return fmt.Errorf("node type '%s' not registered", typeName)
	}

	if nodeType.ParameterSchema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(nodeType.ParameterSchema)
	documentLoader := gojsonschema.NewGoLoader(params.AsAny())

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate parameters for '%s': %w", typeName, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			messages = append(messages, resultError.String())
		}

		return fmt.Errorf("invalid parameters for '%s': %s", typeName, strings.Join(messages, "; "))
	}

	return nil
}

// registerBuiltins installs the structural node types every workflow editor
// understands regardless of the installed node catalog.
func (r *Registry) registerBuiltins() {
	r.Register(&NodeType{
		Type:    models.NodeTypeGroup,
		Label:   "Group",
		Inputs:  []string{},
		Outputs: []string{},
	})

	r.Register(&NodeType{
		Type:    models.NodeTypeAnnotation,
		Label:   "Annotation",
		Inputs:  []string{},
		Outputs: []string{},
		Defaults: models.Parameters{
			models.AnnotationContentParameter: models.StringValue(""),
		},
		ParameterSchema: map[string]any{
			"type":     "object",
			"required": []any{models.AnnotationContentParameter},
			"properties": map[string]any{
				models.AnnotationContentParameter: map[string]any{"type": "string"},
			},
		},
	})
}
