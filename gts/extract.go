/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"strings"
)

// JsonEntity is the document store's unit of storage:
// a parsed JSON document together with the entity and schema identifiers
// extracted from it at ingest time.
type JsonEntity struct {
	GtsID    *GtsID
	SchemaID string
	IsSchema bool
	Content  map[string]any
	GtsRefs  []*GtsReference

	// SourcePath identifies where this entity was read from (a file path,
	// possibly with a "[N]" array-index suffix). Empty for entities built
	// directly from in-memory content.
	SourcePath string

	// SelectedEntityField and SelectedSchemaIDField record which configured
	// field supplied each identifier, useful for diagnostics.
	SelectedEntityField   string
	SelectedSchemaIDField string

	// ExtractError is set when no configured entity-id field supplied a
	// usable identifier and at least one of them held a `gts.`-prefixed
	// value that failed to parse, or a pattern. Ingest surfaces these as
	// per-document findings rather than aborting the pass.
	ExtractError string
}

// getRootField reads a string-valued field directly off a JSON document's root.
func getRootField(content map[string]any, field string) string {
	val, ok := content[field]
	if !ok {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if field == "$id" {
		s = strings.TrimPrefix(s, GtsURIPrefix)
	}
	return s
}

// firstMatchingIdentifierField returns the first field in order whose root
// value parses as a non-pattern GTS identifier. When no field matches,
// firstErr describes the first field whose value was `gts.`-prefixed but
// malformed, or was a pattern.
func firstMatchingIdentifierField(content map[string]any, fields []string) (field string, id *GtsID, firstErr string) {
	for _, f := range fields {
		val := getRootField(content, f)
		if val == "" {
			continue
		}
		parsed, err := NewGtsID(val)
		if err != nil {
			if firstErr == "" && strings.HasPrefix(val, GtsPrefix) {
				firstErr = fmt.Sprintf("field '%s': %s", f, err.Error())
			}
			continue
		}
		if parsed.IsPattern() {
			if firstErr == "" {
				firstErr = fmt.Sprintf("field '%s': pattern identifiers cannot name a document", f)
			}
			continue
		}
		return f, parsed, ""
	}
	return "", nil, firstErr
}

// NewJsonEntity builds a JsonEntity from a raw JSON object using the
// configured field lists. GtsID is nil (the document is skipped by Ingest)
// if no configured entity_id_fields value parses as a non-pattern
// identifier. Classification as schema vs instance follows purely from the
// resolved entity identifier's own shape, never from the presence of a
// particular field; a schema-version pin (type marker with a pinned minor)
// still stores a schema document.
func NewJsonEntity(content map[string]any, cfg *GtsConfig) *JsonEntity {
	if cfg == nil {
		cfg = DefaultGtsConfig()
	}

	entity := &JsonEntity{Content: content}

	entity.SelectedEntityField, entity.GtsID, entity.ExtractError = firstMatchingIdentifierField(content, cfg.EntityIDFields)
	if entity.GtsID != nil {
		entity.IsSchema = entity.GtsID.IsType()
	}

	var schemaID *GtsID
	entity.SelectedSchemaIDField, schemaID, _ = firstMatchingIdentifierField(content, cfg.SchemaIDFields)
	if schemaID != nil {
		entity.SchemaID = schemaID.ID
	}

	entity.GtsRefs = extractGtsReferences(content)

	return entity
}

// ExtractIDResult reports the outcome of extracting identifiers from a raw
// document, for callers (CLI, HTTP API) that want the result without
// constructing a full JsonEntity.
type ExtractIDResult struct {
	ID                    *string `json:"id,omitempty"`
	SchemaID              *string `json:"schema_id,omitempty"`
	SelectedEntityField   *string `json:"selected_entity_field,omitempty"`
	SelectedSchemaIDField *string `json:"selected_schema_id_field,omitempty"`
	IsSchema              bool    `json:"is_schema"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ExtractID extracts entity/schema identifiers from a raw document using the
// configured field lists.
func ExtractID(content map[string]any, cfg *GtsConfig) *ExtractIDResult {
	entity := NewJsonEntity(content, cfg)

	result := &ExtractIDResult{IsSchema: entity.IsSchema}
	if entity.GtsID != nil {
		result.ID = strPtr(entity.GtsID.ID)
	}
	result.SchemaID = strPtr(entity.SchemaID)
	result.SelectedEntityField = strPtr(entity.SelectedEntityField)
	result.SelectedSchemaIDField = strPtr(entity.SelectedSchemaIDField)

	return result
}
