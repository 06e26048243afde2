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

// StoreGtsObjectNotFoundError is returned when a GTS entity is not found in the store
type StoreGtsObjectNotFoundError struct {
	EntityID string
}

func (e *StoreGtsObjectNotFoundError) Error() string {
	return fmt.Sprintf("JSON object with GTS ID '%s' not found in store", e.EntityID)
}

// StoreGtsSchemaNotFoundError is returned when a GTS schema is not found in the store
type StoreGtsSchemaNotFoundError struct {
	EntityID string
}

func (e *StoreGtsSchemaNotFoundError) Error() string {
	return fmt.Sprintf("JSON schema with GTS ID '%s' not found in store", e.EntityID)
}

// StoreGtsSchemaForInstanceNotFoundError is returned when a schema ID cannot be determined for an instance
type StoreGtsSchemaForInstanceNotFoundError struct {
	EntityID string
}

func (e *StoreGtsSchemaForInstanceNotFoundError) Error() string {
	return fmt.Sprintf("Can't determine JSON schema ID for instance with GTS ID '%s'", e.EntityID)
}

// StoreGtsCastFromSchemaNotAllowedError is returned when attempting to cast from a schema ID
type StoreGtsCastFromSchemaNotAllowedError struct {
	FromID string
}

func (e *StoreGtsCastFromSchemaNotAllowedError) Error() string {
	return fmt.Sprintf("Cannot cast from schema ID '%s'. The from_id must be an instance (not ending with '~').", e.FromID)
}

// DuplicateEntityError is returned when an ingest pass encounters two
// documents that both resolve to the same entity identifier. It
// names both source paths so the caller can locate the conflict.
type DuplicateEntityError struct {
	EntityID     string
	FirstSource  string
	SecondSource string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("duplicate entity id '%s': already ingested from '%s', also found at '%s'",
		e.EntityID, e.FirstSource, e.SecondSource)
}

// RegistryConfig configures the GtsStore behavior
type RegistryConfig struct {
	// ValidateGtsReferences enables validation of GTS references on entity registration
	ValidateGtsReferences bool
}

// DefaultRegistryConfig returns the default registry configuration
func DefaultRegistryConfig() *RegistryConfig {
	return &RegistryConfig{
		ValidateGtsReferences: false,
	}
}

// IngestError is a per-document finding from an ingest pass: a document
// whose configured entity-id fields held a malformed identifier. These do
// not abort the pass; only a duplicate entity id does.
type IngestError struct {
	SourcePath string `json:"source_path"`
	Message    string `json:"message"`
}

// GtsStore indexes JSON entities and schemas by GTS identifier. The store
// never logs: parser-level and reference-integrity findings are ordinary
// return values, not side effects.
type GtsStore struct {
	byID         map[string]*JsonEntity
	ingestErrors []IngestError
	reader       GtsReader
	config       *RegistryConfig
}

// NewGtsStore creates a new GtsStore, optionally populating it from a reader.
func NewGtsStore(reader GtsReader) *GtsStore {
	return NewGtsStoreWithConfig(reader, DefaultRegistryConfig())
}

// NewGtsStoreWithConfig creates a new GtsStore with custom configuration. If
// a reader is supplied, its full sequence is ingested atomically: a
// duplicate entity id aborts the ingest and leaves the store empty, exactly
// as a failed Ingest call would.
func NewGtsStoreWithConfig(reader GtsReader, config *RegistryConfig) *GtsStore {
	if config == nil {
		config = DefaultRegistryConfig()
	}

	store := &GtsStore{
		byID:   make(map[string]*JsonEntity),
		reader: reader,
		config: config,
	}

	if reader != nil {
		_ = store.Ingest(reader)
	}

	return store
}

// Ingest atomically (re)builds the store's index from a reader's full
// sequence of entities. The new index is assembled in a
// temporary map; on success it replaces the store's index in one step. On
// a duplicate entity id, ingest aborts and the store is left exactly as it
// was before the call. Documents with no resolvable entity identifier are
// skipped silently, matching the per-document ingest semantics.
func (s *GtsStore) Ingest(reader GtsReader) error {
	next := make(map[string]*JsonEntity)
	var findings []IngestError

	for {
		entity := reader.Next()
		if entity == nil {
			break
		}
		if entity.GtsID == nil || entity.GtsID.ID == "" {
			if entity.ExtractError != "" {
				findings = append(findings, IngestError{
					SourcePath: entity.SourcePath,
					Message:    entity.ExtractError,
				})
			}
			continue
		}

		id := entity.GtsID.ID
		if existing, ok := next[id]; ok {
			return &DuplicateEntityError{
				EntityID:     id,
				FirstSource:  existing.SourcePath,
				SecondSource: entity.SourcePath,
			}
		}

		if s.config.ValidateGtsReferences {
			if err := s.validateEntityGtsReferencesAgainst(entity, next); err != nil {
				return fmt.Errorf("GTS reference validation failed for entity %s: %w", id, err)
			}
		}

		next[id] = entity
	}

	s.byID = next
	s.ingestErrors = findings
	return nil
}

// IngestErrors returns the per-document findings of the last successful
// ingest pass. An aborted ingest leaves the previous findings in place,
// matching the untouched index.
func (s *GtsStore) IngestErrors() []IngestError {
	return s.ingestErrors
}

// Register adds a single JsonEntity to the store with optional GTS
// reference validation. Unlike Ingest, Register is an incremental
// single-document operation used by callers building a store entity by
// entity (the CLI, the HTTP API, tests); it still rejects a duplicate
// entity id.
func (s *GtsStore) Register(entity *JsonEntity) error {
	if entity.GtsID == nil || entity.GtsID.ID == "" {
		return fmt.Errorf("entity must have a valid gts_id")
	}

	if existing, ok := s.byID[entity.GtsID.ID]; ok {
		return &DuplicateEntityError{
			EntityID:     entity.GtsID.ID,
			FirstSource:  existing.SourcePath,
			SecondSource: entity.SourcePath,
		}
	}

	if s.config.ValidateGtsReferences {
		if err := s.validateEntityGtsReferences(entity); err != nil {
			return fmt.Errorf("GTS reference validation failed for entity %s: %w", entity.GtsID.ID, err)
		}
	}

	s.byID[entity.GtsID.ID] = entity
	return nil
}

// RegisterSchema registers a schema with the given type ID, without
// requiring a prior JsonEntity extraction pass. Legacy convenience for
// callers holding raw schema content.
func (s *GtsStore) RegisterSchema(typeID string, schema map[string]any) error {
	if typeID == "" || typeID[len(typeID)-1] != '~' {
		return fmt.Errorf("schema type_id must end with '~'")
	}

	gtsID, err := NewGtsID(typeID)
	if err != nil {
		return err
	}

	entity := &JsonEntity{
		GtsID:    gtsID,
		Content:  schema,
		IsSchema: true,
	}

	s.byID[typeID] = entity
	return nil
}

// Get retrieves a JsonEntity by its ID. If not found in the index, falls
// back to the reader's random-access lookup (most readers don't support
// this and return nil).
func (s *GtsStore) Get(entityID string) *JsonEntity {
	if entity, ok := s.byID[entityID]; ok {
		return entity
	}

	if s.reader != nil {
		if entity := s.reader.ReadByID(entityID); entity != nil {
			s.byID[entityID] = entity
			return entity
		}
	}

	return nil
}

// Count returns the number of entities in the store.
func (s *GtsStore) Count() int {
	return len(s.byID)
}

// EntityInfo represents basic information about an entity
type EntityInfo struct {
	ID       string `json:"id"`
	SchemaID string `json:"schema_id"`
	IsSchema bool   `json:"is_schema"`
}

// ListResult represents the result of listing entities
type ListResult struct {
	Entities []EntityInfo `json:"entities"`
	Count    int          `json:"count"`
	Total    int          `json:"total"`
}

// sortedIDs returns the store's entity identifiers in ascending canonical
// order, so enumeration is stable across repeated ingests of the same set.
func (s *GtsStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns entities in ascending canonical identifier order, up to the
// specified limit (0 or negative means unlimited).
func (s *GtsStore) List(limit int) *ListResult {
	ids := s.sortedIDs()
	total := len(ids)
	entities := []EntityInfo{}

	for _, id := range ids {
		if limit > 0 && len(entities) >= limit {
			break
		}
		entity := s.byID[id]
		entities = append(entities, EntityInfo{
			ID:       id,
			SchemaID: entity.SchemaID,
			IsSchema: entity.IsSchema,
		})
	}

	return &ListResult{
		Entities: entities,
		Count:    len(entities),
		Total:    total,
	}
}

// InstancesOf returns, in canonical sort order, the identifiers of every
// registered instance whose schema_id is schemaID.
func (s *GtsStore) InstancesOf(schemaID string) []string {
	var result []string
	for _, id := range s.sortedIDs() {
		entity := s.byID[id]
		if !entity.IsSchema && entity.SchemaID == schemaID {
			result = append(result, id)
		}
	}
	return result
}

// BrokenReference pairs an instance with a schema_id it names that cannot
// be resolved in the store.
type BrokenReference struct {
	InstanceID      string `json:"instance_id"`
	MissingSchemaID string `json:"missing_schema_id"`
}

// BrokenReferences reports every instance whose schema_id is not present
// as an entity_id in the store. A chained schema_id (one with more
// than one link) is broken only if its head link is also unresolvable;
// trailing links of an already-resolved chain are not required to exist
// independently.
func (s *GtsStore) BrokenReferences() []BrokenReference {
	var broken []BrokenReference
	for _, id := range s.sortedIDs() {
		entity := s.byID[id]
		if entity.IsSchema || entity.SchemaID == "" {
			continue
		}
		if isJSONSchemaURL(entity.SchemaID) {
			continue
		}
		if _, ok := s.byID[entity.SchemaID]; ok {
			continue
		}
		if s.chainHeadResolves(entity.SchemaID) {
			continue
		}
		broken = append(broken, BrokenReference{InstanceID: id, MissingSchemaID: entity.SchemaID})
	}
	return broken
}

// chainHeadResolves reports whether the head link of a chained identifier
// is present in the store, exempting chained schema references whose head
// is known even though the full chain was never ingested verbatim.
func (s *GtsStore) chainHeadResolves(schemaID string) bool {
	gid, err := NewGtsID(schemaID)
	if err != nil {
		return false
	}
	links := gid.ChainLinks()
	if len(links) <= 1 {
		return false
	}
	head := GtsPrefix + renderLink(links[0])
	return s.Get(head) != nil
}

// validateEntityGtsReferences validates all GTS references in an entity
// against the store's current index.
func (s *GtsStore) validateEntityGtsReferences(entity *JsonEntity) error {
	return s.validateEntityGtsReferencesAgainst(entity, s.byID)
}

// validateEntityGtsReferencesAgainst validates references against an
// arbitrary id->entity map, so Ingest can validate against the
// in-progress index it is building rather than the store's old one.
func (s *GtsStore) validateEntityGtsReferencesAgainst(entity *JsonEntity, against map[string]*JsonEntity) error {
	if entity == nil || len(entity.GtsRefs) == 0 {
		return nil
	}

	var errs []string

	for _, ref := range entity.GtsRefs {
		if entity.GtsID != nil && ref.ID == entity.GtsID.ID {
			continue
		}
		if isJSONSchemaURL(ref.ID) {
			continue
		}

		referencedEntity, ok := against[ref.ID]
		if !ok {
			errs = append(errs, fmt.Sprintf("referenced entity not found: %s (at %s)", ref.ID, ref.SourcePath))
			continue
		}

		if entity.IsSchema && strings.Contains(ref.SourcePath, "$ref") {
			if !referencedEntity.IsSchema {
				errs = append(errs, fmt.Sprintf("schema reference points to non-schema entity: %s (at %s)", ref.ID, ref.SourcePath))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("GTS reference validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ValidateSchema validates a schema including JSON Schema meta-schema and GTS reference validation
func (s *GtsStore) ValidateSchema(gtsID string) error {
	if !strings.HasSuffix(gtsID, "~") {
		return fmt.Errorf("ID '%s' is not a schema (must end with '~')", gtsID)
	}

	entity := s.Get(gtsID)
	if entity == nil {
		return &StoreGtsSchemaNotFoundError{EntityID: gtsID}
	}

	if !entity.IsSchema {
		return fmt.Errorf("entity '%s' is not a schema", gtsID)
	}

	if entity.Content == nil {
		return fmt.Errorf("schema content is nil")
	}

	if err := s.validateEntityGtsReferences(entity); err != nil {
		return fmt.Errorf("schema GTS reference validation failed: %w", err)
	}

	xrefValidator := NewXGtsRefValidator(s)
	if xrefErrors := xrefValidator.ValidateSchema(entity.Content, "", nil); len(xrefErrors) > 0 {
		msgs := make([]string, 0, len(xrefErrors))
		for _, e := range xrefErrors {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("schema x-gts-ref validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}
