/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// CastResult represents the result of casting an instance to a new schema
// version. It extends the compatibility verdict for the two schema versions
// with the casted entity and any uncasteable findings.
type CastResult struct {
	*CompatibilityResult
	CastedEntity map[string]any `json:"casted_entity,omitempty"`
	CastErrors   []Reason       `json:"cast_errors,omitempty"`
}

// OK reports whether the cast produced a usable entity.
func (r *CastResult) OK() bool {
	return r != nil && r.CastedEntity != nil && len(r.CastErrors) == 0
}

// Cast rewrites an instance to conform to a target schema differing from
// the instance's current schema in minor version only. Properties added by
// the target with a default are inserted; properties the target no longer
// admits are dropped; anything else is an uncasteable finding. Casting to
// a newer minor requires backward compatibility of the target (it must
// accept the existing instance shape); casting to an older minor requires
// forward compatibility.
func (s *GtsStore) Cast(instanceID, toSchemaID string) (*CastResult, error) {
	instanceEntity := s.Get(instanceID)
	if instanceEntity == nil {
		return nil, &StoreGtsObjectNotFoundError{EntityID: instanceID}
	}
	if instanceEntity.GtsID != nil && instanceEntity.GtsID.IsType() {
		return nil, &StoreGtsCastFromSchemaNotAllowedError{FromID: instanceID}
	}

	toSchema := s.Get(toSchemaID)
	if toSchema == nil {
		return nil, &StoreGtsSchemaNotFoundError{EntityID: toSchemaID}
	}

	fromSchemaID := instanceEntity.SchemaID
	if fromSchemaID == "" {
		return nil, &StoreGtsSchemaForInstanceNotFoundError{EntityID: instanceID}
	}
	fromSchema := s.Get(fromSchemaID)
	if fromSchema == nil {
		return nil, &StoreGtsSchemaNotFoundError{EntityID: fromSchemaID}
	}

	if err := checkMinorOnlyVersionStep(fromSchemaID, toSchemaID); err != nil {
		return nil, err
	}

	return s.castInstance(instanceID, fromSchemaID, toSchemaID,
		instanceEntity.Content, fromSchema.Content, toSchema.Content), nil
}

// checkMinorOnlyVersionStep enforces the cast precondition: source and
// target schema identifiers agree on every name segment and on the major
// version, differing at most in minor version.
func checkMinorOnlyVersionStep(fromSchemaID, toSchemaID string) error {
	fromID, err := NewGtsID(fromSchemaID)
	if err != nil {
		return err
	}
	toID, err := NewGtsID(toSchemaID)
	if err != nil {
		return err
	}

	fromSeg := fromID.Segments[len(fromID.Segments)-1]
	toSeg := toID.Segments[len(toID.Segments)-1]

	if fromSeg.Vendor != toSeg.Vendor || fromSeg.Package != toSeg.Package ||
		fromSeg.Namespace != toSeg.Namespace || fromSeg.Type != toSeg.Type {
		return fmt.Errorf("cannot cast between unrelated schemas '%s' and '%s'", fromSchemaID, toSchemaID)
	}
	if fromSeg.VerMajor != toSeg.VerMajor {
		return fmt.Errorf("cannot cast across major versions: '%s' -> '%s'", fromSchemaID, toSchemaID)
	}
	return nil
}

// castInstance performs the actual casting logic.
func (s *GtsStore) castInstance(
	fromInstanceID, fromSchemaID, toSchemaID string,
	instanceContent, fromSchemaContent, toSchemaContent map[string]any,
) *CastResult {
	compat := buildCompatibilityResult(fromSchemaID, toSchemaID,
		s.diffSchemas(fromSchemaContent, toSchemaContent, "", map[string]bool{}))
	compat.Direction = inferDirection(fromSchemaID, toSchemaID)

	result := &CastResult{CompatibilityResult: compat}

	// Newer minor must accept the old instance shape; older minor must
	// accept the newer shape.
	switch compat.Direction {
	case "up":
		if !compat.IsBackwardCompatible {
			result.CastErrors = append(result.CastErrors, Reason{
				Kind:    ReasonUncasteable,
				Message: fmt.Sprintf("target schema '%s' is not backward compatible with '%s'", toSchemaID, fromSchemaID),
			})
			return result
		}
	case "down":
		if !compat.IsForwardCompatible {
			result.CastErrors = append(result.CastErrors, Reason{
				Kind:    ReasonUncasteable,
				Message: fmt.Sprintf("target schema '%s' is not forward compatible with '%s'", toSchemaID, fromSchemaID),
			})
			return result
		}
	}

	casted, castErrors := castInstanceToSchema(copyMap(instanceContent), flattenSchema(toSchemaContent), "")
	result.CastErrors = append(result.CastErrors, castErrors...)
	if len(result.CastErrors) > 0 {
		return result
	}

	// The rewritten instance must validate against the full target schema,
	// tolerating const pins that hold GTS identifiers (the cast updates
	// those itself).
	if err := validateWithGtsIDTolerance(casted, toSchemaContent, s); err != nil {
		result.CastErrors = append(result.CastErrors, Reason{
			Kind:    ReasonUncasteable,
			Message: err.Error(),
		})
		return result
	}

	result.CastedEntity = casted
	return result
}

// castInstanceToSchema transforms instance to conform to target schema.
// Returns the rewritten instance and any uncasteable findings with the
// offending JSON pointer.
func castInstanceToSchema(
	instance map[string]any,
	schema map[string]any,
	basePath string,
) (map[string]any, []Reason) {
	var errs []Reason

	if instance == nil {
		return nil, []Reason{{
			Kind:    ReasonUncasteable,
			Pointer: basePath,
			Message: "instance must be an object for casting",
		}}
	}

	targetProps := getPropertiesMap(schema)
	required := getRequiredSet(schema)
	additional := getAdditionalProperties(schema)

	// Start from current values
	result := copyMap(instance)

	// 1) Ensure required properties exist (fill defaults if provided)
	for reqProp := range required {
		if _, exists := result[reqProp]; !exists {
			propSchema := getMap(targetProps, reqProp)
			if propSchema != nil {
				if defaultVal, hasDefault := propSchema["default"]; hasDefault {
					result[reqProp] = copyValue(defaultVal)
				} else {
					errs = append(errs, Reason{
						Kind:    ReasonUncasteable,
						Pointer: buildPointer(basePath, reqProp),
						Message: "missing required property and no default is defined",
					})
				}
			}
		}
	}

	// 2) For optional properties with defaults, set if missing
	for prop, propSchemaAny := range targetProps {
		if required[prop] {
			continue
		}
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		if _, exists := result[prop]; !exists {
			if defaultVal, hasDefault := propSchema["default"]; hasDefault {
				result[prop] = copyValue(defaultVal)
			}
		}
	}

	// 2.5) Update const values to match target schema (for GTS ID fields)
	for prop, propSchemaAny := range targetProps {
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		if constVal, hasConst := propSchema["const"]; hasConst {
			if existingVal, exists := result[prop]; exists {
				constStr, constIsStr := constVal.(string)
				existingStr, existingIsStr := existingVal.(string)
				if constIsStr && existingIsStr {
					// Only update if both are GTS IDs and they differ
					if IsValidGtsID(constStr) && IsValidGtsID(existingStr) {
						if existingStr != constStr {
							result[prop] = constStr
						}
					}
				}
			}
		}
	}

	// 3) Remove properties not in target schema when additionalProperties is false
	if !additional {
		for prop := range result {
			if _, inTarget := targetProps[prop]; !inTarget {
				delete(result, prop)
			}
		}
	}

	// 4) Recurse into nested object properties
	for prop, propSchemaAny := range targetProps {
		val, exists := result[prop]
		if !exists {
			continue
		}
		propSchema, ok := propSchemaAny.(map[string]any)
		if !ok {
			continue
		}
		propType := getString(propSchema, "type")

		// Handle nested objects
		if propType == "object" {
			if valMap, isMap := val.(map[string]any); isMap {
				nestedSchema := effectiveObjectSchema(propSchema)
				newObj, subErrs := castInstanceToSchema(valMap, nestedSchema, buildPointer(basePath, prop))
				result[prop] = newObj
				errs = append(errs, subErrs...)
			}
		}

		// Handle arrays of objects
		if propType == "array" {
			if valArray, isArray := val.([]any); isArray {
				itemsSchema := getMap(propSchema, "items")
				if itemsSchema != nil && getString(itemsSchema, "type") == "object" {
					nestedSchema := effectiveObjectSchema(itemsSchema)
					newList := []any{}
					for idx, item := range valArray {
						if itemMap, isMap := item.(map[string]any); isMap {
							itemPath := fmt.Sprintf("%s/%d", buildPointer(basePath, prop), idx)
							newItem, subErrs := castInstanceToSchema(itemMap, nestedSchema, itemPath)
							newList = append(newList, newItem)
							errs = append(errs, subErrs...)
						} else {
							newList = append(newList, item)
						}
					}
					result[prop] = newList
				}
			}
		}
	}

	return result, errs
}

// effectiveObjectSchema extracts the object schema from allOf if needed
func effectiveObjectSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return make(map[string]any)
	}

	// If it has properties or required directly, use it
	if _, hasProps := schema["properties"]; hasProps {
		return schema
	}
	if _, hasReq := schema["required"]; hasReq {
		return schema
	}

	// Check allOf for object schemas
	if allOfVal, ok := schema["allOf"]; ok {
		if allOfList, ok := allOfVal.([]any); ok {
			for _, partAny := range allOfList {
				if part, ok := partAny.(map[string]any); ok {
					if _, hasProps := part["properties"]; hasProps {
						return part
					}
					if _, hasReq := part["required"]; hasReq {
						return part
					}
				}
			}
		}
	}

	return schema
}

// validateWithGtsIDTolerance validates instance against schema, allowing GTS ID const differences
func validateWithGtsIDTolerance(instance, schema map[string]any, store *GtsStore) error {
	// Create modified schema that removes const constraints for GTS IDs
	modifiedSchema := removeGtsConstConstraints(schema)

	// Compile and validate
	compiler := jsonschema.NewCompiler()

	// Set up custom loader for GTS ID references
	compiler.UseLoader(&gtsURLLoader{store: store})

	// Pre-load all schemas from the store
	for id, entity := range store.byID {
		if entity.IsSchema {
			compiler.AddResource(id, entity.Content)
		}
	}

	// Add the modified schema as a resource
	schemaID := "_cast_validation"
	compiler.AddResource(schemaID, modifiedSchema)

	// Compile the modified schema
	schemaObj, err := compiler.Compile(schemaID)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	// Validate instance
	err = schemaObj.Validate(instance)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// removeGtsConstConstraints recursively removes const constraints where value is a GTS ID
func removeGtsConstConstraints(schema any) any {
	switch v := schema.(type) {
	case map[string]any:
		result := make(map[string]any)
		for key, value := range v {
			if key == "const" {
				if strVal, ok := value.(string); ok && IsValidGtsID(strVal) {
					// Replace const with type constraint instead
					result["type"] = "string"
					continue
				}
			}
			result[key] = removeGtsConstConstraints(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = removeGtsConstConstraints(item)
		}
		return result
	default:
		return v
	}
}

// Helper functions

// getAdditionalProperties safely extracts additionalProperties (defaults to true)
func getAdditionalProperties(schema map[string]any) bool {
	if val, ok := schema["additionalProperties"]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return true // Default is true if not specified
}

// buildPointer appends a property step to a JSON pointer.
func buildPointer(base, prop string) string {
	return base + "/" + prop
}

// copyMap creates a deep copy of a map
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any)
	for k, v := range m {
		result[k] = copyValue(v)
	}
	return result
}

// copyValue creates a deep copy of any value
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = copyValue(item)
		}
		return result
	default:
		return v
	}
}
