package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// ConfigValidator checks a widget configuration before it is stored.
type ConfigValidator interface {
	Validate(def WidgetDefinition, config map[string]any) error
}

// ConfigError lists every schema violation found in one configuration. It
// matches gamification.ErrInvalidArgument under errors.Is.
type ConfigError struct {
	Widget   string
	Problems []string
	cause    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dashboard: invalid configuration for %s: %s", e.Widget, strings.Join(e.Problems, "; "))
}

func (e *ConfigError) Unwrap() []error {
	return []error{gamification.ErrInvalidArgument, e.cause}
}

// JSONSchemaValidator validates configurations against WidgetDefinition.Schema.
// Compiled schemas are kept per code and schema content, so a manifest that
// replaces a definition gets its new schema.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{compiled: map[string]*jsonschema.Schema{}}
}

// Validate passes when the definition has no schema.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	doc, err := jsonDocument(config)
	if err != nil {
		return fmt.Errorf("dashboard: configuration for %s: %w", def.Code, err)
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	cfgErr := &ConfigError{Widget: def.Code, cause: err}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		cfgErr.Problems = violations(verr)
	}
	if len(cfgErr.Problems) == 0 {
		cfgErr.Problems = []string{err.Error()}
	}
	return cfgErr
}

// Compile checks that the definition's schema compiles. widgetctl uses it to
// vet manifests.
func (v *JSONSchemaValidator) Compile(def WidgetDefinition) error {
	if len(def.Schema) == 0 {
		return nil
	}
	_, err := v.schemaFor(def)
	return err
}

func (v *JSONSchemaValidator) schemaFor(def WidgetDefinition) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: encode schema for %s: %w", def.Code, err)
	}
	key := def.Code + "@" + digest(raw)

	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	url := "mem://widgets/" + def.Code + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema for %s: %w", def.Code, err)
	}
	schema, err = compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema for %s: %w", def.Code, err)
	}

	v.mu.Lock()
	for k := range v.compiled {
		if strings.HasPrefix(k, def.Code+"@") {
			delete(v.compiled, k)
		}
	}
	v.compiled[key] = schema
	v.mu.Unlock()
	return schema, nil
}

// jsonDocument round-trips config through encoding/json so typed slices and
// ints arrive in the shapes the schema library expects.
func jsonDocument(config map[string]any) (any, error) {
	if config == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// violations flattens the error tree into "location: message" lines.
func violations(err *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(err)
	sort.Strings(out)
	return out
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(WidgetDefinition, map[string]any) error { return nil }
