package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// fieldToPointer converts gojsonschema's dotted field notation
// ("(root)", "age", "a.b") into a JSON-Pointer-style suffix ("", "/age",
// "/a/b"), matching spec.md §4.B's "path = spec + instance_pointer".
func fieldToPointer(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}

// Registry maps resource type to a compiled JSON Schema. Registration
// is an idempotent overwrite keyed by resource type; the map is
// frozen in the sense that every read takes a snapshot under a
// read lock, but nothing in this package prevents registering new
// types after startup — SPEC_FULL.md's "frozen after startup" is an
// operational discipline callers (the dispatcher's owner) observe, not
// a constraint this type enforces.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*gojsonschema.Schema)}
}

// Register compiles raw (a JSON Schema document) and stores it under
// resourceType, overwriting any existing schema for that type.
func (r *Registry) Register(resourceType string, raw json.RawMessage) error {
	loader := gojsonschema.NewBytesLoader(raw)
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return fmt.Errorf("%s", err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[resourceType] = compiled
	return nil
}

// RegisterType derives a JSON Schema from T's Go struct shape (field
// names, json tags, nested types) via reflection and registers it
// under resourceType, exactly like Register but sourcing the schema
// document from a statically described host-language type instead of
// a hand-written JSON value (spec.md §4.B's "or derive a schema from a
// type descriptor" form). Callers that already have a JSON Schema
// document on hand should use Register directly.
func RegisterType[T any](r *Registry, resourceType string) error {
	derived, err := jsonschema.For[T](nil)
	if err != nil {
		return fmt.Errorf("failed to derive schema for resource type %q: %w", resourceType, err)
	}
	raw, err := json.Marshal(derived)
	if err != nil {
		return fmt.Errorf("failed to encode derived schema for resource type %q: %w", resourceType, err)
	}
	return r.Register(resourceType, raw)
}

// Lookup returns the compiled schema for resourceType, if any.
func (r *Registry) Lookup(resourceType string) (*gojsonschema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[resourceType]
	return s, ok
}

// Validator returns a Validator backed by this registry.
func (r *Registry) Validator() Validator {
	return &SchemaValidator{registry: r}
}

// SchemaValidator applies a Registry's compiled schemas to a
// Resource's spec, selected by address.resource_type.
type SchemaValidator struct {
	registry *Registry
}

// NewSchemaValidator returns a Validator backed by registry.
func NewSchemaValidator(registry *Registry) *SchemaValidator {
	return &SchemaValidator{registry: registry}
}

// Validate implements Validator. A resource type with no registered
// schema yields a ValidationResult whose sole error carries
// CodeSchemaNotFound; per spec.md §4.D step 4, the dispatcher (not
// this validator) treats that as pass-through.
func (v *SchemaValidator) Validate(resource sdk.Resource) ValidationResult {
	compiled, ok := v.registry.Lookup(resource.Address.ResourceType)
	if !ok {
		return Invalid(ValidationError{
			Path:    "spec",
			Message: fmt.Sprintf("no schema registered for resource type %q", resource.Address.ResourceType),
			Code:    CodeSchemaNotFound,
		})
	}

	specJSON, err := json.Marshal(resource.Spec)
	if err != nil {
		return Invalid(ValidationError{
			Path:    "spec",
			Message: fmt.Sprintf("failed to encode spec for validation: %v", err),
			Code:    CodeInvalidSchemaDef,
		})
	}

	result, err := compiled.Validate(gojsonschema.NewBytesLoader(specJSON))
	if err != nil {
		return Invalid(ValidationError{
			Path:    "spec",
			Message: fmt.Sprintf("schema evaluation failed: %v", err),
			Code:    CodeInvalidSchemaDef,
		})
	}

	if result.Valid() {
		return Valid()
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, ValidationError{
			Path:    "spec" + fieldToPointer(re.Field()),
			Message: re.Description(),
			Code:    CodeSchemaValidationError,
		})
	}
	return Invalid(errs...)
}
