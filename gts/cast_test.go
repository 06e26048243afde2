/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"testing"
)

func TestCast_MinorVersionUpcast(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.cast.sample.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
		},
	})

	// v1.1 adds an optional field with a default
	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.cast.sample.v1.1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"a"},
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "number", "default": float64(0)},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.cast.sample.v1.0",
		"$schema": "gts.x.core.cast.sample.v1.0~",
		"a":       "x",
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast("gts.x.core.cast.sample.v1.0", "gts.x.core.cast.sample.v1.1~")
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	if !result.OK() {
		t.Fatalf("Expected cast to succeed, errors: %v", result.CastErrors)
	}
	if result.Direction != "up" {
		t.Errorf("Expected direction up, got: %s", result.Direction)
	}
	if got := result.CastedEntity["a"]; got != "x" {
		t.Errorf("Expected a to stay 'x', got: %v", got)
	}
	if got := result.CastedEntity["b"]; got != float64(0) {
		t.Errorf("Expected b to default to 0, got: %v", got)
	}
}

func TestCast_ChainedEventUpcast(t *testing.T) {
	store := NewGtsStore(nil)

	// Base event schema referenced by both minor versions
	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.events.type.v1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id", "type", "tenantId", "occurredAt"},
		"properties": map[string]any{
			"gtsId":      map[string]any{"type": "string"},
			"type":       map[string]any{"type": "string"},
			"id":         map[string]any{"type": "string", "format": "uuid"},
			"tenantId":   map[string]any{"type": "string", "format": "uuid"},
			"occurredAt": map[string]any{"type": "string", "format": "date-time"},
			"payload":    map[string]any{"type": "object"},
		},
	})

	registerSchemaDoc(t, store, map[string]any{
		"$id":     "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.0~",
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"allOf": []any{
			map[string]any{"$ref": "gts.x.core.events.type.v1~"},
			map[string]any{
				"type":     "object",
				"required": []any{"type", "payload"},
				"properties": map[string]any{
					"type": map[string]any{
						"const": "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.0~",
					},
					"payload": map[string]any{
						"type":     "object",
						"required": []any{"orderId", "totalAmount"},
						"properties": map[string]any{
							"orderId":     map[string]any{"type": "string", "format": "uuid"},
							"totalAmount": map[string]any{"type": "number"},
						},
					},
				},
			},
		},
	})

	registerSchemaDoc(t, store, map[string]any{
		"$id":     "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.1~",
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"allOf": []any{
			map[string]any{"$ref": "gts.x.core.events.type.v1~"},
			map[string]any{
				"type":     "object",
				"required": []any{"type", "payload"},
				"properties": map[string]any{
					"type": map[string]any{
						"const": "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.1~",
					},
					"payload": map[string]any{
						"type":     "object",
						"required": []any{"orderId", "totalAmount"},
						"properties": map[string]any{
							"orderId":     map[string]any{"type": "string", "format": "uuid"},
							"totalAmount": map[string]any{"type": "number"},
							"new_field_in_v1_1": map[string]any{
								"type":    "string",
								"default": "some_value",
							},
						},
					},
				},
			},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":      "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.0",
		"type":       "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.0~",
		"id":         "af0e3c1b-8f1e-4a27-9a9b-b7b9b70c1f01",
		"tenantId":   "11111111-2222-3333-4444-555555555555",
		"occurredAt": "2025-09-20T18:35:00Z",
		"payload": map[string]any{
			"orderId":     "af0e3c1b-8f1e-4a27-9a9b-b7b9b70c1f01",
			"totalAmount": 149.99,
		},
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast(
		"gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.0",
		"gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.1~",
	)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected cast to succeed, errors: %v", result.CastErrors)
	}

	payload, ok := result.CastedEntity["payload"].(map[string]any)
	if !ok {
		t.Fatal("Expected payload to be a map")
	}
	if newField := payload["new_field_in_v1_1"]; newField != "some_value" {
		t.Errorf("Expected new_field_in_v1_1 to be 'some_value', got: %v", newField)
	}

	// The const-pinned type field follows the target schema version
	expected := "gts.x.core.events.type.v1~x.commerce.orders.order_placed.v1.1~"
	if typeField := result.CastedEntity["type"]; typeField != expected {
		t.Errorf("Expected type to be updated to %s, got: %v", expected, typeField)
	}
}

func TestCast_MinorVersionDowncast(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.test9.cast.event.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"payload"},
		"properties": map[string]any{
			"gtsId":   map[string]any{"type": "string"},
			"$schema": map[string]any{"type": "string"},
			"payload": map[string]any{
				"type":                 "object",
				"required":             []any{"field1"},
				"additionalProperties": false,
				"properties": map[string]any{
					"field1": map[string]any{"type": "string"},
				},
			},
		},
	})

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.test9.cast.event.v1.1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"payload"},
		"properties": map[string]any{
			"gtsId":   map[string]any{"type": "string"},
			"$schema": map[string]any{"type": "string"},
			"payload": map[string]any{
				"type":                 "object",
				"required":             []any{"field1"},
				"additionalProperties": false,
				"properties": map[string]any{
					"field1": map[string]any{"type": "string"},
					"field2": map[string]any{
						"type":    "string",
						"default": "default_value",
					},
				},
			},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.test9.cast.event.v1.1",
		"$schema": "gts.x.test9.cast.event.v1.1~",
		"payload": map[string]any{
			"field1": "value1",
			"field2": "value2",
		},
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast("gts.x.test9.cast.event.v1.1", "gts.x.test9.cast.event.v1.0~")
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected cast to succeed, errors: %v", result.CastErrors)
	}
	if result.Direction != "down" {
		t.Errorf("Expected direction down, got: %s", result.Direction)
	}

	payload, ok := result.CastedEntity["payload"].(map[string]any)
	if !ok {
		t.Fatal("Expected payload to be a map")
	}
	if _, hasField2 := payload["field2"]; hasField2 {
		t.Error("Expected field2 to be removed during downcast")
	}
	if field1 := payload["field1"]; field1 != "value1" {
		t.Errorf("Expected field1 to be 'value1', got: %v", field1)
	}
}

func TestCast_NestedObjects(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.nested.type.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id", "details"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
			"details": map[string]any{
				"type":     "object",
				"required": []any{"name"},
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
			},
		},
	})

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.nested.type.v1.1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id", "details"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
			"details": map[string]any{
				"type":     "object",
				"required": []any{"name"},
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"age": map[string]any{
						"type":    "number",
						"default": 0,
					},
				},
			},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.nested.type.v1.0",
		"$schema": "gts.x.core.nested.type.v1.0~",
		"id":      "test-123",
		"details": map[string]any{
			"name": "John",
		},
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast("gts.x.core.nested.type.v1.0", "gts.x.core.nested.type.v1.1~")
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected cast to succeed, errors: %v", result.CastErrors)
	}

	details, ok := result.CastedEntity["details"].(map[string]any)
	if !ok {
		t.Fatal("Expected details to be a map")
	}

	// Check nested default was added
	if age, ok := details["age"]; !ok {
		t.Error("Expected age field to be added")
	} else {
		// Could be int or float64 depending on how the value was set
		switch v := age.(type) {
		case float64:
			if v != 0 {
				t.Errorf("Expected age to be 0, got: %v", age)
			}
		case int:
			if v != 0 {
				t.Errorf("Expected age to be 0, got: %v", age)
			}
		default:
			t.Errorf("Expected age to be numeric, got: %T", age)
		}
	}
}

func TestCast_ArrayOfObjects(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.array.type.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"items"},
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id"},
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
					},
				},
			},
		},
	})

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.array.type.v1.1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"items"},
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"id"},
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
						"status": map[string]any{
							"type":    "string",
							"default": "active",
						},
					},
				},
			},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.array.type.v1.0",
		"$schema": "gts.x.core.array.type.v1.0~",
		"items": []any{
			map[string]any{"id": "item1"},
			map[string]any{"id": "item2"},
		},
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast("gts.x.core.array.type.v1.0", "gts.x.core.array.type.v1.1~")
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if !result.OK() {
		t.Fatalf("Expected cast to succeed, errors: %v", result.CastErrors)
	}

	items, ok := result.CastedEntity["items"].([]any)
	if !ok {
		t.Fatal("Expected items to be an array")
	}

	// Check each item has the default status
	for i, item := range items {
		itemMap, ok := item.(map[string]any)
		if !ok {
			t.Errorf("Expected item %d to be a map", i)
			continue
		}
		if status, ok := itemMap["status"]; !ok {
			t.Errorf("Expected item %d to have status field", i)
		} else if status != "active" {
			t.Errorf("Expected item %d status to be 'active', got: %v", i, status)
		}
	}
}

func TestCast_InstanceNotFound(t *testing.T) {
	store := NewGtsStore(nil)

	_, err := store.Cast("gts.x.nonexistent.instance.entry.v1.0", "gts.x.nonexistent.instance.entry.v1.1~")

	if err == nil {
		t.Error("Expected error for non-existent instance")
	}
}

func TestCast_TargetSchemaNotFound(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.test.type.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.test.type.v1.0",
		"$schema": "gts.x.core.test.type.v1.0~",
		"id":      "test-123",
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	_, err := store.Cast("gts.x.core.test.type.v1.0", "gts.x.core.test.type.v1.9~")

	if err == nil {
		t.Error("Expected error for non-existent target schema")
	}
}

func TestCast_FromSchemaNotAllowed(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.noschema.type.v1.0~",
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	})

	_, err := store.Cast("gts.x.core.noschema.type.v1.0~", "gts.x.core.noschema.type.v1.1~")

	if err == nil {
		t.Error("Expected error when casting from a schema identifier")
	}
}

func TestCast_CrossMajorRejected(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":  "gts.x.core.major.type.v1.0~",
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	})
	registerSchemaDoc(t, store, map[string]any{
		"$id":  "gts.x.core.major.type.v2.0~",
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.major.type.v1.0",
		"$schema": "gts.x.core.major.type.v1.0~",
		"id":      "test-1",
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	_, err := store.Cast("gts.x.core.major.type.v1.0", "gts.x.core.major.type.v2.0~")

	if err == nil {
		t.Error("Expected error for cross-major cast")
	}
}

func TestCast_MissingRequiredFieldNoDefault(t *testing.T) {
	store := NewGtsStore(nil)

	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.required.type.v1.0~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id"},
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
		},
	})

	// v1.1 adds a required field without a default
	registerSchemaDoc(t, store, map[string]any{
		"$id":      "gts.x.core.required.type.v1.1~",
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"id", "newRequired"},
		"properties": map[string]any{
			"id":          map[string]any{"type": "string"},
			"newRequired": map[string]any{"type": "string"},
		},
	})

	instance := NewJsonEntity(map[string]any{
		"gtsId":   "gts.x.core.required.type.v1.0",
		"$schema": "gts.x.core.required.type.v1.0~",
		"id":      "test-123",
	}, DefaultGtsConfig())
	if err := store.Register(instance); err != nil {
		t.Fatalf("Failed to register instance: %v", err)
	}

	result, err := store.Cast("gts.x.core.required.type.v1.0", "gts.x.core.required.type.v1.1~")

	if err != nil {
		t.Fatalf("Cast should not error at top level: %v", err)
	}
	if result.OK() {
		t.Error("Expected cast to fail for missing required field")
	}
	if !hasReasonKind(result.CastErrors, ReasonUncasteable) {
		t.Errorf("Expected an %s finding, got: %v", ReasonUncasteable, result.CastErrors)
	}
}
