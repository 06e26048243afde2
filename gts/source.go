/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExcludeList contains directory names skipped during directory scanning.
var ExcludeList = []string{"node_modules", "dist", "build"}

// MemoryReader is a GtsReader backed by an in-memory slice of already-parsed
// JSON documents, useful for tests and for callers that already have
// documents in hand.
type MemoryReader struct {
	cfg      *GtsConfig
	docs     []map[string]any
	index    int
	byID     map[string]*JsonEntity
	entities []*JsonEntity
}

// NewMemoryReader builds a MemoryReader over an ordered list of raw JSON
// objects, extracting identifiers eagerly with the given configuration.
func NewMemoryReader(docs []map[string]any, cfg *GtsConfig) *MemoryReader {
	if cfg == nil {
		cfg = DefaultGtsConfig()
	}
	r := &MemoryReader{cfg: cfg, docs: docs, byID: make(map[string]*JsonEntity)}
	for _, doc := range docs {
		entity := NewJsonEntity(doc, cfg)
		r.entities = append(r.entities, entity)
		if entity.GtsID != nil {
			r.byID[entity.GtsID.ID] = entity
		}
	}
	return r
}

func (r *MemoryReader) Next() *JsonEntity {
	if r.index >= len(r.entities) {
		return nil
	}
	entity := r.entities[r.index]
	r.index++
	return entity
}

func (r *MemoryReader) ReadByID(entityID string) *JsonEntity {
	return r.byID[entityID]
}

func (r *MemoryReader) Reset() {
	r.index = 0
}

// GtsFileReader reads JSON entities from one or more filesystem paths
// (files or directories). A JSON array at a document's root yields one
// entity per element.
type GtsFileReader struct {
	paths []string
	cfg   *GtsConfig

	files               []string
	currentIndex        int
	currentFileEntities []*JsonEntity
	currentEntityIndex  int
	initialized         bool
}

// NewGtsFileReader builds a GtsFileReader over the given files/directories.
// "~/" prefixes are expanded against the user's home directory.
func NewGtsFileReader(paths []string, cfg *GtsConfig) *GtsFileReader {
	if cfg == nil {
		cfg = DefaultGtsConfig()
	}

	expanded := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				p = filepath.Join(home, p[2:])
			}
		}
		expanded[i] = p
	}

	return &GtsFileReader{paths: expanded, cfg: cfg}
}

// NewGtsFileReaderFromPath builds a GtsFileReader over a single path.
func NewGtsFileReaderFromPath(path string, cfg *GtsConfig) *GtsFileReader {
	return NewGtsFileReader([]string{path}, cfg)
}

func (r *GtsFileReader) collectFiles() {
	validExtensions := map[string]bool{".json": true, ".jsonc": true, ".gts": true}
	seen := make(map[string]bool)
	var collected []string

	for _, path := range r.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}

		if info.IsDir() {
			_ = filepath.Walk(absPath, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return nil
				}
				if info.IsDir() {
					for _, exclude := range ExcludeList {
						if info.Name() == exclude {
							return filepath.SkipDir
						}
					}
					return nil
				}
				if validExtensions[strings.ToLower(filepath.Ext(filePath))] {
					real, err := filepath.EvalSymlinks(filePath)
					if err != nil {
						real = filePath
					}
					if !seen[real] {
						seen[real] = true
						collected = append(collected, real)
					}
				}
				return nil
			})
		} else if validExtensions[strings.ToLower(filepath.Ext(absPath))] {
			real, err := filepath.EvalSymlinks(absPath)
			if err != nil {
				real = absPath
			}
			if !seen[real] {
				seen[real] = true
				collected = append(collected, real)
			}
		}
	}

	r.files = collected
}

func loadJSONFile(filePath string) (any, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// processFile loads one file and extracts a JsonEntity per JSON object
// found at its root (a root array yields one entity per element).
func (r *GtsFileReader) processFile(filePath string) []*JsonEntity {
	content, err := loadJSONFile(filePath)
	if err != nil {
		return nil
	}

	var entities []*JsonEntity
	switch v := content.(type) {
	case []any:
		for idx, item := range v {
			if m, ok := item.(map[string]any); ok {
				entity := NewJsonEntity(m, r.cfg)
				if entity.GtsID != nil || entity.ExtractError != "" {
					entity.SourcePath = fmt.Sprintf("%s[%d]", filePath, idx)
					entities = append(entities, entity)
				}
			}
		}
	case map[string]any:
		entity := NewJsonEntity(v, r.cfg)
		if entity.GtsID != nil || entity.ExtractError != "" {
			entity.SourcePath = filePath
			entities = append(entities, entity)
		}
	}
	return entities
}

func (r *GtsFileReader) Next() *JsonEntity {
	if !r.initialized {
		r.collectFiles()
		r.initialized = true
	}

	if r.currentEntityIndex < len(r.currentFileEntities) {
		entity := r.currentFileEntities[r.currentEntityIndex]
		r.currentEntityIndex++
		return entity
	}

	for r.currentIndex < len(r.files) {
		r.currentFileEntities = r.processFile(r.files[r.currentIndex])
		r.currentIndex++
		r.currentEntityIndex = 0

		if len(r.currentFileEntities) > 0 {
			entity := r.currentFileEntities[r.currentEntityIndex]
			r.currentEntityIndex++
			return entity
		}
	}

	return nil
}

// ReadByID always returns nil: GtsFileReader supports sequential iteration
// only, not random access.
func (r *GtsFileReader) ReadByID(entityID string) *JsonEntity {
	return nil
}

func (r *GtsFileReader) Reset() {
	r.currentIndex = 0
	r.currentFileEntities = nil
	r.currentEntityIndex = 0
	r.initialized = false
}
