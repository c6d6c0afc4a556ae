package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ArgDefault replaces any declared argument the model left out or sent in a
// shape that cannot be read as a string.
const ArgDefault = "default"

type ArgType string

const ArgTypeString ArgType = "string"

// Argument declares one named tool argument.
type Argument struct {
	Name        string
	Type        ArgType
	Description string
	Required    bool
}

type ToolDefinition interface {
	Name() string
	Description() string
	RequestSchema() *jsonschema.Schema
	Arguments() []Argument
	Extract(in map[string]any) map[string]string
	process(ctx context.Context, args map[string]string) (string, error)
}

// ToolSpec is the immutable declaration of a tool offered to the model.
type ToolSpec struct {
	name        string
	description string
	args        []Argument
}

func NewToolSpec(name, description string, args ...Argument) *ToolSpec {
	return &ToolSpec{
		name:        name,
		description: description,
		args:        append([]Argument(nil), args...),
	}
}

func (s *ToolSpec) Name() string {
	return s.name
}

func (s *ToolSpec) Description() string {
	return s.description
}

func (s *ToolSpec) Arguments() []Argument {
	return append([]Argument(nil), s.args...)
}

// RequestSchema renders the arguments as a JSON schema object, properties in
// declaration order.
func (s *ToolSpec) RequestSchema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for _, a := range s.args {
		props.Set(a.Name, &jsonschema.Schema{
			Type:        string(a.Type),
			Description: a.Description,
		})
		if a.Required {
			required = append(required, a.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// Extract reads every declared argument from the tool input. It never fails:
// scalar values are formatted and anything else becomes ArgDefault.
func (s *ToolSpec) Extract(in map[string]any) map[string]string {
	out := make(map[string]string, len(s.args))
	for _, a := range s.args {
		v, ok := coerceString(in[a.Name])
		if !ok {
			v = ArgDefault
		}
		out[a.Name] = v
	}
	return out
}

func coerceString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

type toolDefinition struct {
	*ToolSpec
	proc func(ctx context.Context, args map[string]string) (string, error)
}

func (d *toolDefinition) process(ctx context.Context, args map[string]string) (string, error) {
	return d.proc(ctx, args)
}

// ToolError is a failure of the tool itself. It is reported back to the
// model instead of aborting the conversation.
type ToolError struct {
	err error
}

func NewToolError(err error) *ToolError {
	return &ToolError{err}
}

func (e *ToolError) Error() string {
	return e.err.Error()
}

func (e *ToolError) Unwrap() error {
	return e.err
}

// ToolMismatchError means the model asked for a tool that was never offered.
type ToolMismatchError struct {
	Name     string
	Declared []string
}

func (e *ToolMismatchError) Error() string {
	return fmt.Sprintf("model requested unknown tool %q (declared: %v)", e.Name, e.Declared)
}
