/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"strings"
)

// MatchIDResult represents the result of matching a GTS identifier against a pattern
type MatchIDResult struct {
	Candidate string `json:"candidate"`
	Pattern   string `json:"pattern"`
	Match     bool   `json:"match"`
	Error     string `json:"error"`
}

// InvalidWildcardError represents an error when a wildcard pattern is invalid
type InvalidWildcardError struct {
	Pattern string
	Cause   string
}

func (e *InvalidWildcardError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("invalid GTS wildcard pattern: %s: %s", e.Pattern, e.Cause)
	}
	return fmt.Sprintf("invalid GTS wildcard pattern: %s", e.Pattern)
}

// MatchIDPattern matches a candidate GTS identifier against a pattern with
// wildcards. Wildcards may appear independently in any of the four name
// segments or the major/minor version of any link.
func MatchIDPattern(candidate, pattern string) MatchIDResult {
	candidateID, err := NewGtsID(candidate)
	if err != nil {
		return MatchIDResult{Candidate: candidate, Pattern: pattern, Match: false, Error: err.Error()}
	}

	patternID, err := validateWildcard(pattern)
	if err != nil {
		return MatchIDResult{Candidate: candidate, Pattern: pattern, Match: false, Error: err.Error()}
	}

	return MatchIDResult{Candidate: candidate, Pattern: pattern, Match: Matches(patternID, candidateID), Error: ""}
}

// validateWildcard parses a pattern using the same grammar as a concrete
// identifier — wildcards are an accepted part of the single grammar, not a
// separate syntax.
func validateWildcard(pattern string) (*GtsID, error) {
	p := strings.TrimSpace(pattern)

	if !strings.HasPrefix(p, GtsPrefix) {
		return nil, &InvalidWildcardError{Pattern: pattern, Cause: fmt.Sprintf("does not start with '%s'", GtsPrefix)}
	}

	id, err := NewGtsID(p)
	if err != nil {
		return nil, &InvalidWildcardError{Pattern: pattern, Cause: err.Error()}
	}

	return id, nil
}

// Matches reports whether candidate matches pattern: the two
// identifiers must have the same number of links, and every corresponding
// link must match structurally. There is no backtracking.
func Matches(pattern, candidate *GtsID) bool {
	if pattern == nil || candidate == nil {
		return false
	}
	if len(pattern.Segments) != len(candidate.Segments) {
		return false
	}
	for i, pSeg := range pattern.Segments {
		if !matchLink(pSeg, candidate.Segments[i]) {
			return false
		}
	}
	return true
}

// matchLink compares one pattern link against one candidate link. Each of
// the four name segments matches by equality or by wildcard (`*` or `_`,
// independently of one another). The major version matches by equality or
// `*`. The minor version matches by equality, by `*`, or by both sides
// absent. The type marker must match exactly unless the pattern link uses
// the bare trailing-wildcard shorthand, in which case everything from the
// wildcard onward (including version and type marker) is unconstrained.
func matchLink(pSeg, cSeg *GtsIDSegment) bool {
	if !matchNameField(pSeg.VendorWild, pSeg.Vendor, cSeg.Vendor) {
		return false
	}
	if !matchNameField(pSeg.PackageWild, pSeg.Package, cSeg.Package) {
		return false
	}
	if !matchNameField(pSeg.NamespaceWild, pSeg.Namespace, cSeg.Namespace) {
		return false
	}
	if !matchNameField(pSeg.TypeWild, pSeg.Type, cSeg.Type) {
		return false
	}

	if pSeg.TrailingWildcard {
		return true
	}

	if !pSeg.VerMajorWild && pSeg.VerMajor != cSeg.VerMajor {
		return false
	}

	minorMatch := pSeg.VerMinorWild ||
		(pSeg.VerMinor == nil && cSeg.VerMinor == nil) ||
		(pSeg.VerMinor != nil && cSeg.VerMinor != nil && *pSeg.VerMinor == *cSeg.VerMinor)
	if !minorMatch {
		return false
	}

	if pSeg.IsType != cSeg.IsType {
		return false
	}

	return true
}

// matchNameField compares a single name segment: wild is true when the
// pattern spelled '*' in this position; a literal '_' is a per-field
// wildcard too, equivalent to '*', recognized here at match time.
func matchNameField(wild bool, patternVal, candidateVal string) bool {
	if wild || patternVal == UnderscoreWild {
		return true
	}
	return patternVal == candidateVal
}
