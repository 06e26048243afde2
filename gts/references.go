/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import "fmt"

// GtsReference represents a GTS ID reference found in JSON content
type GtsReference struct {
	ID         string
	SourcePath string
}

// extractGtsReferences walks through JSON content and extracts all GTS ID references
func extractGtsReferences(content any) []*GtsReference {
	refs := make([]*GtsReference, 0)
	seen := make(map[string]bool)

	walkAndCollectRefs(content, "", &refs, seen)
	return refs
}

// walkAndCollectRefs recursively walks JSON structure to find GTS IDs
func walkAndCollectRefs(node any, path string, refs *[]*GtsReference, seen map[string]bool) {
	if node == nil {
		return
	}

	// Check if current node is a GTS ID string
	if str, ok := node.(string); ok {
		if IsValidGtsID(str) {
			sourcePath := path
			if sourcePath == "" {
				sourcePath = "root"
			}
			key := str + "|" + sourcePath
			if !seen[key] {
				*refs = append(*refs, &GtsReference{
					ID:         str,
					SourcePath: sourcePath,
				})
				seen[key] = true
			}
		}
		return
	}

	// Recurse into map
	if m, ok := node.(map[string]any); ok {
		for k, v := range m {
			nextPath := k
			if path != "" {
				nextPath = path + "." + k
			}
			walkAndCollectRefs(v, nextPath, refs, seen)
		}
		return
	}

	// Recurse into slice
	if arr, ok := node.([]any); ok {
		for i, v := range arr {
			nextPath := fmt.Sprintf("[%d]", i)
			if path != "" {
				nextPath = path + nextPath
			}
			walkAndCollectRefs(v, nextPath, refs, seen)
		}
	}
}
