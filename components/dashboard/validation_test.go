package dashboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

func namedSchemaDefinition() WidgetDefinition {
	return WidgetDefinition{
		Code: "demo.widget.string_required",
		Schema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name":  map[string]any{"type": "string", "minLength": 1},
				"limit": map[string]any{"type": "integer", "maximum": 10},
			},
		},
	}
}

func TestJSONSchemaValidatorRejectsInvalidPayload(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := namedSchemaDefinition()
	if err := validator.Validate(def, map[string]any{"name": "Dashboard", "limit": 3}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	err := validator.Validate(def, map[string]any{})
	if err == nil {
		t.Fatalf("expected validation error for missing name")
	}
	if !errors.Is(err, gamification.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestJSONSchemaValidatorListsEveryProblem(t *testing.T) {
	validator := NewJSONSchemaValidator()
	err := validator.Validate(namedSchemaDefinition(), map[string]any{"name": "", "limit": 50})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T %v", err, err)
	}
	if cfgErr.Widget != "demo.widget.string_required" {
		t.Fatalf("unexpected widget %q", cfgErr.Widget)
	}
	if len(cfgErr.Problems) != 2 {
		t.Fatalf("expected two problems, got %v", cfgErr.Problems)
	}
	if !strings.HasPrefix(cfgErr.Problems[0], "/limit") || !strings.HasPrefix(cfgErr.Problems[1], "/name") {
		t.Fatalf("expected problems located by field, got %v", cfgErr.Problems)
	}
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code:   "demo.widget.cache",
		Schema: map[string]any{"type": "object"},
	}
	if err := validator.Validate(def, nil); err != nil {
		t.Fatalf("unexpected error validating config: %v", err)
	}
	if err := validator.Validate(def, map[string]any{}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to hold 1 entry, got %d", len(validator.compiled))
	}
}

func TestJSONSchemaValidatorRecompilesReplacedSchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{Code: "demo.widget.swap", Schema: map[string]any{"type": "object"}}
	if err := validator.Validate(def, map[string]any{"x": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def.Schema = map[string]any{"type": "object", "additionalProperties": false}
	if err := validator.Validate(def, map[string]any{"x": 1}); err == nil {
		t.Fatalf("expected replaced schema to reject extra property")
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected stale schema to be dropped, got %d entries", len(validator.compiled))
	}
}

func TestJSONSchemaValidatorCompile(t *testing.T) {
	validator := NewJSONSchemaValidator()
	if err := validator.Compile(WidgetDefinition{Code: "demo.widget.none"}); err != nil {
		t.Fatalf("schemaless definition should compile, got %v", err)
	}
	if err := validator.Compile(WidgetDefinition{Code: "demo.widget.ok", Schema: map[string]any{"type": "object"}}); err != nil {
		t.Fatalf("expected schema to compile, got %v", err)
	}
	if err := validator.Compile(WidgetDefinition{Code: "demo.widget.bad", Schema: map[string]any{"type": "bogus"}}); err == nil {
		t.Fatalf("expected compile error for unknown type")
	}
}
