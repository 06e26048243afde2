/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

// GtsConfig is an explicit configuration value consulted by NewJsonEntity
// (and so by the document readers a store ingests from) to extract an
// entity_id and a schema_id from each document's root fields. There is no
// ambient/global configuration; callers pass this to the reader they build
// the store from.
type GtsConfig struct {
	// EntityIDFields is consulted in order; the first field whose value
	// parses as a non-pattern GTS identifier becomes the entity_id.
	EntityIDFields []string
	// SchemaIDFields is consulted in order; the first field whose value
	// parses as a non-pattern GTS identifier becomes the schema_id.
	SchemaIDFields []string
}

// DefaultGtsConfig returns the default field-name lists.
func DefaultGtsConfig() *GtsConfig {
	return &GtsConfig{
		EntityIDFields: []string{
			"$id",
			"gtsId",
			"gtsIid",
			"gtsOid",
			"gtsI",
			"gts_id",
			"gts_oid",
			"gts_iid",
			"id",
		},
		SchemaIDFields: []string{
			"$schema",
			"gtsTid",
			"gtsType",
			"gtsT",
			"gts_t",
			"gts_tid",
			"gts_type",
			"type",
			"schema",
		},
	}
}
