/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// gtsURLLoader implements jsonschema.URLLoader for GTS ID reference resolution
type gtsURLLoader struct {
	store *GtsStore
}

// Load resolves GTS ID references to their schema content
func (l *gtsURLLoader) Load(url string) (any, error) {
	// Check if this is a GTS ID reference
	if IsValidGtsID(url) {
		entity := l.store.Get(url)
		if entity == nil {
			return nil, fmt.Errorf("unresolvable GTS reference: %s", url)
		}
		if !entity.IsSchema {
			return nil, fmt.Errorf("GTS reference is not a schema: %s", url)
		}
		return entity.Content, nil
	}
	// For non-GTS URLs, return error to let default handling occur
	return nil, fmt.Errorf("unsupported URL: %s", url)
}

// Validation failure kinds.
const (
	ValidationParseError      = "ParseError"
	ValidationNotFound        = "NotFound"
	ValidationNoSchema        = "NoSchema"
	ValidationSchemaMissing   = "SchemaMissing"
	ValidationSchemaInvalid   = "SchemaInvalid"
	ValidationInstanceInvalid = "InstanceInvalid"
)

// ValidationResult represents the result of validating an instance. Kind
// names the failure class when OK is false.
type ValidationResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error"`
}

func validationFailure(gtsID, kind, msg string) *ValidationResult {
	return &ValidationResult{ID: gtsID, OK: false, Kind: kind, Error: msg}
}

// ValidateInstance validates an object instance against its schema
// Returns ValidationResult with ok=true if validation succeeds
func (s *GtsStore) ValidateInstance(gtsID string) *ValidationResult {
	// Parse and validate GTS ID
	gid, err := NewGtsID(gtsID)
	if err != nil {
		return validationFailure(gtsID, ValidationParseError, fmt.Sprintf("Invalid GTS ID: %v", err))
	}

	// Get the instance from store
	obj := s.Get(gid.ID)
	if obj == nil {
		return validationFailure(gtsID, ValidationNotFound, (&StoreGtsObjectNotFoundError{EntityID: gtsID}).Error())
	}

	// Check if instance has a schema ID
	if obj.SchemaID == "" {
		return validationFailure(gtsID, ValidationNoSchema, (&StoreGtsSchemaForInstanceNotFoundError{EntityID: gid.ID}).Error())
	}

	// Get the schema from store
	schemaEntity := s.Get(obj.SchemaID)
	if schemaEntity == nil {
		return validationFailure(gtsID, ValidationSchemaMissing, (&StoreGtsSchemaNotFoundError{EntityID: obj.SchemaID}).Error())
	}

	if !schemaEntity.IsSchema {
		return validationFailure(gtsID, ValidationSchemaInvalid, fmt.Sprintf("entity '%s' is not a schema", obj.SchemaID))
	}

	// Validate the instance against the schema
	kind, err := s.validateWithSchema(obj.Content, schemaEntity.Content)
	if err != nil {
		return validationFailure(gtsID, kind, err.Error())
	}

	return &ValidationResult{
		ID:    gtsID,
		OK:    true,
		Error: "",
	}
}

// validateWithSchema performs the actual JSON Schema validation. The
// returned kind distinguishes a schema that fails to compile from an
// instance the compiled schema rejects.
func (s *GtsStore) validateWithSchema(instance map[string]any, schema map[string]any) (string, error) {
	// Create a custom compiler with GTS reference resolution
	compiler := jsonschema.NewCompiler()

	// Format assertions are not validated; only recognized as known vocabulary.
	lenientValidator := func(v any) error { return nil }
	formats := []string{
		"uuid", "date-time", "date", "time", "email", "hostname",
		"ipv4", "ipv6", "uri", "uri-reference", "iri", "iri-reference",
		"uri-template", "json-pointer", "relative-json-pointer", "regex",
	}
	for _, fmt := range formats {
		compiler.RegisterFormat(&jsonschema.Format{
			Name:     fmt,
			Validate: lenientValidator,
		})
	}

	// Set up custom loader for GTS ID references
	compiler.UseLoader(&gtsURLLoader{store: s})

	// Get schema ID for compilation
	schemaID, ok := schema["$id"].(string)
	if !ok || schemaID == "" {
		return ValidationSchemaInvalid, fmt.Errorf("schema must have a valid $id field")
	}

	// Add the main schema to the compiler
	if err := compiler.AddResource(schemaID, schema); err != nil {
		return ValidationSchemaInvalid, fmt.Errorf("add schema resource: %v", err)
	}

	// Pre-load all schemas from the store so cross-schema $ref resolution never blocks on I/O
	for id, entity := range s.byID {
		if entity.IsSchema && id != schemaID {
			if err := compiler.AddResource(id, entity.Content); err != nil {
				// Ignore errors - gtsURLLoader will handle dynamic resolution
				continue
			}
		}
	}

	// Compile the schema
	compiledSchema, err := compiler.Compile(schemaID)
	if err != nil {
		return ValidationSchemaInvalid, fmt.Errorf("compile schema: %v", err)
	}

	// Validate the instance
	if err := compiledSchema.Validate(instance); err != nil {
		return ValidationInstanceInvalid, fmt.Errorf("validation error: %v", err)
	}

	return "", nil
}
