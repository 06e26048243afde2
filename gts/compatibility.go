/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"sort"
	"strings"
)

// Reason kinds emitted by the compatibility engine. The boolean verdicts
// (backward/forward/full) are derived predicates over the reason set.
const (
	ReasonRequiredAdded       = "required-added"
	ReasonRequiredRemoved     = "required-removed"
	ReasonPropertyRemoved     = "property-removed"
	ReasonTypeNarrowed        = "type-narrowed"
	ReasonTypeWidened         = "type-widened"
	ReasonEnumShrunk          = "enum-shrunk"
	ReasonEnumGrown           = "enum-grown"
	ReasonConstraintTightened = "constraint-tightened"
	ReasonConstraintRelaxed   = "constraint-relaxed"
	ReasonUnresolvedRef       = "unresolved-ref"
	ReasonUnhandledKeyword    = "unhandled-keyword"
	ReasonUncasteable         = "uncasteable"
)

// Reason is a single structured compatibility (or cast) finding: the kind
// of change, the JSON pointer of the offending location, and a
// human-readable message.
type Reason struct {
	Kind    string `json:"kind"`
	Pointer string `json:"pointer,omitempty"`
	Message string `json:"message"`
}

func (r Reason) String() string {
	if r.Pointer != "" {
		return fmt.Sprintf("%s at %s: %s", r.Kind, r.Pointer, r.Message)
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// breaksBackward reports whether this reason prevents the new schema from
// accepting old instances.
func (r Reason) breaksBackward() bool {
	switch r.Kind {
	case ReasonRequiredAdded, ReasonPropertyRemoved, ReasonTypeNarrowed,
		ReasonEnumShrunk, ReasonConstraintTightened,
		ReasonUnresolvedRef, ReasonUnhandledKeyword:
		return true
	}
	return false
}

// breaksForward reports whether this reason prevents the old schema from
// accepting new instances.
func (r Reason) breaksForward() bool {
	switch r.Kind {
	case ReasonRequiredRemoved, ReasonTypeWidened, ReasonEnumGrown,
		ReasonConstraintRelaxed, ReasonUnresolvedRef, ReasonUnhandledKeyword:
		return true
	}
	return false
}

// Compatibility verdicts.
const (
	VerdictFull         = "full"
	VerdictBackward     = "backward"
	VerdictForward      = "forward"
	VerdictIncompatible = "incompatible"
)

// CompatibilityResult represents the result of schema compatibility checking
type CompatibilityResult struct {
	OldID                string   `json:"old"`
	NewID                string   `json:"new"`
	Direction            string   `json:"direction"`
	Verdict              string   `json:"verdict"`
	IsBackwardCompatible bool     `json:"is_backward_compatible"`
	IsForwardCompatible  bool     `json:"is_forward_compatible"`
	IsFullyCompatible    bool     `json:"is_fully_compatible"`
	Reasons              []Reason `json:"reasons"`
	Error                string   `json:"error,omitempty"`
}

func compatibilityError(oldID, newID, msg string) *CompatibilityResult {
	return &CompatibilityResult{
		OldID:     oldID,
		NewID:     newID,
		Direction: "unknown",
		Verdict:   VerdictIncompatible,
		Reasons:   []Reason{},
		Error:     msg,
	}
}

// CheckCompatibility compares two schema documents sharing
// vendor/package/namespace/type and returns a compatibility verdict with
// structured reasons. Backward means the new schema accepts old instances;
// forward means the old schema accepts new instances; full is both.
func (s *GtsStore) CheckCompatibility(oldSchemaID, newSchemaID string) *CompatibilityResult {
	oldGtsID, err := NewGtsID(oldSchemaID)
	if err != nil {
		return compatibilityError(oldSchemaID, newSchemaID, err.Error())
	}
	newGtsID, err := NewGtsID(newSchemaID)
	if err != nil {
		return compatibilityError(oldSchemaID, newSchemaID, err.Error())
	}

	if !oldGtsID.IsType() || !newGtsID.IsType() {
		return compatibilityError(oldSchemaID, newSchemaID, "both identifiers must be schemas (ending with '~')")
	}
	oldLast := oldGtsID.Segments[len(oldGtsID.Segments)-1]
	newLast := newGtsID.Segments[len(newGtsID.Segments)-1]
	if oldLast.Vendor != newLast.Vendor || oldLast.Package != newLast.Package ||
		oldLast.Namespace != newLast.Namespace || oldLast.Type != newLast.Type {
		return compatibilityError(oldSchemaID, newSchemaID, "schemas must share vendor/package/namespace/type")
	}

	oldEntity := s.Get(oldSchemaID)
	if oldEntity == nil || oldEntity.Content == nil {
		return compatibilityError(oldSchemaID, newSchemaID, (&StoreGtsSchemaNotFoundError{EntityID: oldSchemaID}).Error())
	}
	newEntity := s.Get(newSchemaID)
	if newEntity == nil || newEntity.Content == nil {
		return compatibilityError(oldSchemaID, newSchemaID, (&StoreGtsSchemaNotFoundError{EntityID: newSchemaID}).Error())
	}

	reasons := s.diffSchemas(oldEntity.Content, newEntity.Content, "", map[string]bool{})

	return buildCompatibilityResult(oldSchemaID, newSchemaID, reasons)
}

func buildCompatibilityResult(oldSchemaID, newSchemaID string, reasons []Reason) *CompatibilityResult {
	result := &CompatibilityResult{
		OldID:                oldSchemaID,
		NewID:                newSchemaID,
		Direction:            inferDirection(oldSchemaID, newSchemaID),
		Reasons:              reasons,
		IsBackwardCompatible: true,
		IsForwardCompatible:  true,
	}
	for _, r := range reasons {
		if r.breaksBackward() {
			result.IsBackwardCompatible = false
		}
		if r.breaksForward() {
			result.IsForwardCompatible = false
		}
	}
	result.IsFullyCompatible = result.IsBackwardCompatible && result.IsForwardCompatible
	switch {
	case result.IsFullyCompatible:
		result.Verdict = VerdictFull
	case result.IsBackwardCompatible:
		result.Verdict = VerdictBackward
	case result.IsForwardCompatible:
		result.Verdict = VerdictForward
	default:
		result.Verdict = VerdictIncompatible
	}
	return result
}

// inferDirection determines if going up/down based on minor version
func inferDirection(fromID, toID string) string {
	fromGtsID, err1 := NewGtsID(fromID)
	toGtsID, err2 := NewGtsID(toID)

	if err1 != nil || err2 != nil {
		return "unknown"
	}

	if len(fromGtsID.Segments) == 0 || len(toGtsID.Segments) == 0 {
		return "unknown"
	}

	fromSeg := fromGtsID.Segments[len(fromGtsID.Segments)-1]
	toSeg := toGtsID.Segments[len(toGtsID.Segments)-1]

	if fromSeg.VerMinor != nil && toSeg.VerMinor != nil {
		if *toSeg.VerMinor > *fromSeg.VerMinor {
			return "up"
		}
		if *toSeg.VerMinor < *fromSeg.VerMinor {
			return "down"
		}
		return "none"
	}

	return "unknown"
}

// Schema keywords the engine interprets, and annotations it deliberately
// ignores. Any other keyword present on a compared schema node yields an
// unhandled-keyword reason rather than being silently accepted.
var handledSchemaKeywords = map[string]bool{
	"type": true, "required": true, "properties": true, "enum": true,
	"default": true, "anyOf": true, "allOf": true, "items": true,
	"additionalProperties": true, "$ref": true, "const": true,
	"minimum": true, "maximum": true, "minLength": true, "maxLength": true,
	"minItems": true, "maxItems": true,
}

var annotationKeywords = map[string]bool{
	"$id": true, "$schema": true, "title": true, "description": true,
	"examples": true, "format": true, "deprecated": true, "readOnly": true,
	"writeOnly": true, "$comment": true, "$defs": true, "definitions": true,
}

func isHandledKeyword(k string) bool {
	return handledSchemaKeywords[k] || annotationKeywords[k] || strings.HasPrefix(k, "x-")
}

// diffSchemas is a pure structural diff of two JSON Schema values,
// returning the set of structured reasons the verdict predicates are
// derived from. pointer is the JSON pointer of the node being compared;
// seen guards against $ref cycles.
func (s *GtsStore) diffSchemas(oldSchema, newSchema map[string]any, pointer string, seen map[string]bool) []Reason {
	var reasons []Reason

	oldRef := getString(oldSchema, "$ref")
	newRef := getString(newSchema, "$ref")
	if oldRef != "" || newRef != "" {
		// Identical refs need no resolution: the referent is shared.
		if oldRef == newRef {
			return nil
		}
		key := oldRef + "|" + newRef
		if seen[key] {
			return nil
		}
		seen[key] = true

		if oldRef != "" {
			resolved, ok := s.resolveSchemaRef(oldRef)
			if !ok {
				return append(reasons, Reason{
					Kind:    ReasonUnresolvedRef,
					Pointer: pointer + "/$ref",
					Message: "cannot resolve $ref '" + oldRef + "' in the store",
				})
			}
			oldSchema = resolved
		}
		if newRef != "" {
			resolved, ok := s.resolveSchemaRef(newRef)
			if !ok {
				return append(reasons, Reason{
					Kind:    ReasonUnresolvedRef,
					Pointer: pointer + "/$ref",
					Message: "cannot resolve $ref '" + newRef + "' in the store",
				})
			}
			newSchema = resolved
		}
	}

	reasons = append(reasons, unhandledKeywordReasons(oldSchema, newSchema, pointer)...)
	reasons = append(reasons, diffTypes(oldSchema, newSchema, pointer)...)
	reasons = append(reasons, diffEnums(oldSchema, newSchema, pointer)...)
	reasons = append(reasons, diffConst(oldSchema, newSchema, pointer)...)
	reasons = append(reasons, diffConstraints(oldSchema, newSchema, pointer)...)
	reasons = append(reasons, s.diffObjectMembers(oldSchema, newSchema, pointer, seen)...)

	oldItems := getMap(oldSchema, "items")
	newItems := getMap(newSchema, "items")
	if oldItems != nil && newItems != nil {
		reasons = append(reasons, s.diffSchemas(oldItems, newItems, pointer+"/items", seen)...)
	}

	return reasons
}

// resolveSchemaRef resolves a $ref value against the store. Only GTS
// identifiers (bare or gts://-prefixed) are resolvable; local pointers and
// URLs are beyond the engine's reach by design.
func (s *GtsStore) resolveSchemaRef(ref string) (map[string]any, bool) {
	id := strings.TrimPrefix(ref, GtsURIPrefix)
	if !IsValidGtsID(id) {
		return nil, false
	}
	entity := s.Get(id)
	if entity == nil || entity.Content == nil {
		return nil, false
	}
	return entity.Content, true
}

func unhandledKeywordReasons(oldSchema, newSchema map[string]any, pointer string) []Reason {
	found := map[string]bool{}
	for k := range oldSchema {
		if !isHandledKeyword(k) {
			found[k] = true
		}
	}
	for k := range newSchema {
		if !isHandledKeyword(k) {
			found[k] = true
		}
	}

	var reasons []Reason
	for _, k := range sortedKeys(found) {
		reasons = append(reasons, Reason{
			Kind:    ReasonUnhandledKeyword,
			Pointer: pointer + "/" + k,
			Message: "keyword '" + k + "' is outside the compared schema surface",
		})
	}
	return reasons
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typeSet collects the primitive type names a schema node admits, from
// 'type' (string or array) and from 'anyOf' entries carrying a 'type'.
// Unions are compared as sets.
func typeSet(schema map[string]any) map[string]bool {
	set := make(map[string]bool)
	switch t := schema["type"].(type) {
	case string:
		set[t] = true
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok {
				set[str] = true
			}
		}
	}
	if anyOf, ok := schema["anyOf"].([]any); ok {
		for _, sub := range anyOf {
			if subSchema, ok := sub.(map[string]any); ok {
				for k := range typeSet(subSchema) {
					set[k] = true
				}
			}
		}
	}
	return set
}

func diffTypes(oldSchema, newSchema map[string]any, pointer string) []Reason {
	oldTypes := typeSet(oldSchema)
	newTypes := typeSet(newSchema)
	if len(oldTypes) == 0 || len(newTypes) == 0 {
		return nil
	}

	var reasons []Reason
	if narrowed := setDifference(oldTypes, newTypes); len(narrowed) > 0 {
		reasons = append(reasons, Reason{
			Kind:    ReasonTypeNarrowed,
			Pointer: pointer + "/type",
			Message: "type no longer admits: " + joinStrings(narrowed),
		})
	}
	if widened := setDifference(newTypes, oldTypes); len(widened) > 0 {
		reasons = append(reasons, Reason{
			Kind:    ReasonTypeWidened,
			Pointer: pointer + "/type",
			Message: "type additionally admits: " + joinStrings(widened),
		})
	}
	return reasons
}

// enumValueSet stringifies enum members for set comparison; enum values may
// be any JSON scalar.
func enumValueSet(schema map[string]any) (map[string]bool, bool) {
	raw, ok := schema["enum"].([]any)
	if !ok {
		return nil, false
	}
	set := make(map[string]bool, len(raw))
	for _, v := range raw {
		set[stringifyValue(v)] = true
	}
	return set, true
}

func diffEnums(oldSchema, newSchema map[string]any, pointer string) []Reason {
	oldEnum, oldHas := enumValueSet(oldSchema)
	newEnum, newHas := enumValueSet(newSchema)

	var reasons []Reason
	switch {
	case oldHas && newHas:
		if shrunk := setDifference(oldEnum, newEnum); len(shrunk) > 0 {
			reasons = append(reasons, Reason{
				Kind:    ReasonEnumShrunk,
				Pointer: pointer + "/enum",
				Message: "enum values removed: " + joinStrings(shrunk),
			})
		}
		if grown := setDifference(newEnum, oldEnum); len(grown) > 0 {
			reasons = append(reasons, Reason{
				Kind:    ReasonEnumGrown,
				Pointer: pointer + "/enum",
				Message: "enum values added: " + joinStrings(grown),
			})
		}
	case oldHas && !newHas:
		reasons = append(reasons, Reason{
			Kind:    ReasonConstraintRelaxed,
			Pointer: pointer + "/enum",
			Message: "enum constraint removed",
		})
	case !oldHas && newHas:
		reasons = append(reasons, Reason{
			Kind:    ReasonConstraintTightened,
			Pointer: pointer + "/enum",
			Message: "enum constraint added",
		})
	}
	return reasons
}

// diffConst tolerates const changes between GTS identifiers (schema-version
// pin fields are rewritten by the caster); any other const change changes
// the accepted value set.
func diffConst(oldSchema, newSchema map[string]any, pointer string) []Reason {
	oldConst, oldHas := oldSchema["const"]
	newConst, newHas := newSchema["const"]
	if !oldHas && !newHas {
		return nil
	}

	if oldHas && newHas {
		oldStr, oldIsStr := oldConst.(string)
		newStr, newIsStr := newConst.(string)
		if oldIsStr && newIsStr && IsValidGtsID(oldStr) && IsValidGtsID(newStr) {
			return nil
		}
		if jsonValueEqual(oldConst, newConst) {
			return nil
		}
		return []Reason{{
			Kind:    ReasonConstraintTightened,
			Pointer: pointer + "/const",
			Message: fmt.Sprintf("const changed from %v to %v", oldConst, newConst),
		}}
	}
	if newHas {
		return []Reason{{
			Kind:    ReasonConstraintTightened,
			Pointer: pointer + "/const",
			Message: "const constraint added",
		}}
	}
	return []Reason{{
		Kind:    ReasonConstraintRelaxed,
		Pointer: pointer + "/const",
		Message: "const constraint removed",
	}}
}

// diffConstraints compares the min/max facet pairs for numbers, strings,
// and arrays. Tightening breaks backward, relaxing breaks forward.
func diffConstraints(oldSchema, newSchema map[string]any, pointer string) []Reason {
	var reasons []Reason
	for _, pair := range [][2]string{
		{"minimum", "maximum"},
		{"minLength", "maxLength"},
		{"minItems", "maxItems"},
	} {
		minKey, maxKey := pair[0], pair[1]

		oldMin := getNumber(oldSchema, minKey)
		newMin := getNumber(newSchema, minKey)
		switch {
		case oldMin != nil && newMin != nil && *newMin > *oldMin:
			reasons = append(reasons, constraintReason(ReasonConstraintTightened, pointer, minKey,
				fmt.Sprintf("%s raised from %s to %s", minKey, floatToString(*oldMin), floatToString(*newMin))))
		case oldMin != nil && newMin != nil && *newMin < *oldMin:
			reasons = append(reasons, constraintReason(ReasonConstraintRelaxed, pointer, minKey,
				fmt.Sprintf("%s lowered from %s to %s", minKey, floatToString(*oldMin), floatToString(*newMin))))
		case oldMin == nil && newMin != nil:
			reasons = append(reasons, constraintReason(ReasonConstraintTightened, pointer, minKey,
				minKey+" constraint added: "+floatToString(*newMin)))
		case oldMin != nil && newMin == nil:
			reasons = append(reasons, constraintReason(ReasonConstraintRelaxed, pointer, minKey,
				minKey+" constraint removed"))
		}

		oldMax := getNumber(oldSchema, maxKey)
		newMax := getNumber(newSchema, maxKey)
		switch {
		case oldMax != nil && newMax != nil && *newMax < *oldMax:
			reasons = append(reasons, constraintReason(ReasonConstraintTightened, pointer, maxKey,
				fmt.Sprintf("%s lowered from %s to %s", maxKey, floatToString(*oldMax), floatToString(*newMax))))
		case oldMax != nil && newMax != nil && *newMax > *oldMax:
			reasons = append(reasons, constraintReason(ReasonConstraintRelaxed, pointer, maxKey,
				fmt.Sprintf("%s raised from %s to %s", maxKey, floatToString(*oldMax), floatToString(*newMax))))
		case oldMax == nil && newMax != nil:
			reasons = append(reasons, constraintReason(ReasonConstraintTightened, pointer, maxKey,
				maxKey+" constraint added: "+floatToString(*newMax)))
		case oldMax != nil && newMax == nil:
			reasons = append(reasons, constraintReason(ReasonConstraintRelaxed, pointer, maxKey,
				maxKey+" constraint removed"))
		}
	}
	return reasons
}

func constraintReason(kind, pointer, key, msg string) Reason {
	return Reason{Kind: kind, Pointer: pointer + "/" + key, Message: msg}
}

// diffObjectMembers diffs required sets and property maps after flattening
// allOf composition on both sides, then recurses into properties common to
// both schemas.
func (s *GtsStore) diffObjectMembers(oldSchema, newSchema map[string]any, pointer string, seen map[string]bool) []Reason {
	oldFlat := flattenSchema(oldSchema)
	newFlat := flattenSchema(newSchema)

	oldProps := getPropertiesMap(oldFlat)
	newProps := getPropertiesMap(newFlat)
	if len(oldProps) == 0 && len(newProps) == 0 {
		return nil
	}
	oldRequired := getRequiredSet(oldFlat)
	newRequired := getRequiredSet(newFlat)

	var reasons []Reason

	// A property newly required by the new schema rejects old instances
	// unless the new schema supplies a default for it.
	for _, prop := range setDifference(newRequired, oldRequired) {
		if schemaHasDefault(getMap(newProps, prop)) {
			continue
		}
		reasons = append(reasons, Reason{
			Kind:    ReasonRequiredAdded,
			Pointer: pointer + "/properties/" + prop,
			Message: "property '" + prop + "' became required without a default",
		})
	}

	// A property no longer required by the new schema may be absent from
	// new instances, which the old schema rejects unless it has a default.
	for _, prop := range setDifference(oldRequired, newRequired) {
		if schemaHasDefault(getMap(oldProps, prop)) {
			continue
		}
		reasons = append(reasons, Reason{
			Kind:    ReasonRequiredRemoved,
			Pointer: pointer + "/properties/" + prop,
			Message: "property '" + prop + "' is no longer required and has no default",
		})
	}

	// Removing a property old instances were required to carry.
	for _, prop := range setDifference(getKeys(oldProps), getKeys(newProps)) {
		if !oldRequired[prop] {
			continue
		}
		reasons = append(reasons, Reason{
			Kind:    ReasonPropertyRemoved,
			Pointer: pointer + "/properties/" + prop,
			Message: "required property '" + prop + "' was removed",
		})
	}

	for _, prop := range setIntersection(getKeys(oldProps), getKeys(newProps)) {
		oldPropSchema := getMap(oldProps, prop)
		newPropSchema := getMap(newProps, prop)
		if oldPropSchema == nil || newPropSchema == nil {
			continue
		}
		reasons = append(reasons, s.diffSchemas(oldPropSchema, newPropSchema, pointer+"/properties/"+prop, seen)...)
	}

	return reasons
}

func schemaHasDefault(schema map[string]any) bool {
	if schema == nil {
		return false
	}
	_, ok := schema["default"]
	return ok
}

// flattenSchema merges allOf schemas into a single schema
func flattenSchema(schema map[string]any) map[string]any {
	result := map[string]any{
		"properties": make(map[string]any),
		"required":   []any{},
	}

	// Merge allOf schemas
	if allOfVal, ok := schema["allOf"]; ok {
		if allOfList, ok := allOfVal.([]any); ok {
			for _, subSchemaAny := range allOfList {
				if subSchema, ok := subSchemaAny.(map[string]any); ok {
					flattened := flattenSchema(subSchema)

					// Merge properties
					if props, ok := flattened["properties"].(map[string]any); ok {
						if resultProps, ok := result["properties"].(map[string]any); ok {
							for k, v := range props {
								resultProps[k] = v
							}
						}
					}

					// Merge required
					if req, ok := flattened["required"].([]any); ok {
						if resultReq, ok := result["required"].([]any); ok {
							result["required"] = append(resultReq, req...)
						}
					}

					// Preserve additionalProperties (last one wins)
					if addProps, ok := flattened["additionalProperties"]; ok {
						result["additionalProperties"] = addProps
					}
				}
			}
		}
	}

	// Add direct properties
	if props, ok := schema["properties"].(map[string]any); ok {
		if resultProps, ok := result["properties"].(map[string]any); ok {
			for k, v := range props {
				resultProps[k] = v
			}
		}
	}

	// Add direct required
	if req, ok := schema["required"].([]any); ok {
		if resultReq, ok := result["required"].([]any); ok {
			result["required"] = append(resultReq, req...)
		}
	}

	// Top level additionalProperties overrides
	if addProps, ok := schema["additionalProperties"]; ok {
		result["additionalProperties"] = addProps
	}

	return result
}
