/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// GtsPrefix is the required prefix for all GTS identifiers
	GtsPrefix = "gts."
	// GtsURIPrefix is the URI-compatible prefix for GTS identifiers in JSON Schema $id field
	// (e.g., "gts://gts.x.y.z..."). This is ONLY used for JSON Schema serialization/deserialization,
	// not for GTS ID parsing.
	GtsURIPrefix = "gts://"
	// MaxIDLength is the maximum allowed length for a GTS identifier
	MaxIDLength = 1024
	// WildcardToken and UnderscoreWild are the two single-segment wildcard spellings.
	WildcardToken  = "*"
	UnderscoreWild = "_"
)

var (
	// GtsNamespace is the UUID namespace for GTS identifiers.
	// Published once and never changed: uuid5(NAMESPACE_URL, "gts").
	GtsNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gts"))
)

var (
	// segmentTokenRegex validates individual name tokens: mixed case, digits,
	// underscore and hyphen allowed after a letter-or-underscore lead character.
	segmentTokenRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
)

// InvalidGtsIDError represents an error when a GTS identifier is invalid
type InvalidGtsIDError struct {
	GtsID string
	Cause string
}

func (e *InvalidGtsIDError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("invalid GTS identifier: %s: %s", e.GtsID, e.Cause)
	}
	return fmt.Sprintf("invalid GTS identifier: %s", e.GtsID)
}

// InvalidSegmentError represents an error in a specific link of an identifier.
type InvalidSegmentError struct {
	Num     int
	Offset  int
	Segment string
	Cause   string
}

func (e *InvalidSegmentError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("invalid GTS link #%d @ offset %d: '%s': %s", e.Num, e.Offset, e.Segment, e.Cause)
	}
	return fmt.Sprintf("invalid GTS link #%d @ offset %d: '%s'", e.Num, e.Offset, e.Segment)
}

// GtsIDSegment represents one parsed link of a (possibly chained) GTS identifier.
// Each of the four name fields carries its own wildcard flag so that wildcards
// in different positions within the same link are independent of each other.
type GtsIDSegment struct {
	Num     int
	Offset  int
	Segment string

	Vendor    string
	Package   string
	Namespace string
	Type      string

	VendorWild    bool
	PackageWild   bool
	NamespaceWild bool
	TypeWild      bool

	VerMajor     int
	VerMajorWild bool
	VerMinor     *int
	VerMinorWild bool

	IsType bool

	// TrailingWildcard is set when a bare '*' terminates the link before all
	// six tokens are present (e.g. "x.core.events.*"): every field from the
	// wildcard onward, including the type marker, is unconstrained.
	TrailingWildcard bool
	// IsWildcard is true if any field of this link is a wildcard, used to
	// classify the whole identifier as a pattern.
	IsWildcard bool
}

// GtsID represents a parsed (possibly chained, possibly wildcarded) GTS identifier.
type GtsID struct {
	ID       string
	Segments []*GtsIDSegment
}

// NewGtsID parses and validates a GTS identifier, accepting wildcard tokens
// so that the same grammar serves both concrete identifiers and patterns.
func NewGtsID(id string) (*GtsID, error) {
	raw := strings.TrimSpace(id)

	if !strings.HasPrefix(raw, GtsPrefix) {
		return nil, &InvalidGtsIDError{GtsID: id, Cause: fmt.Sprintf("does not start with '%s'", GtsPrefix)}
	}

	if len(raw) > MaxIDLength {
		return nil, &InvalidGtsIDError{GtsID: id, Cause: "too long"}
	}

	gtsID := &GtsID{
		ID:       raw,
		Segments: make([]*GtsIDSegment, 0),
	}

	remainder := raw[len(GtsPrefix):]
	parts := splitPreservingTilde(remainder)

	offset := len(GtsPrefix)
	for i, part := range parts {
		if part == "" {
			return nil, &InvalidGtsIDError{GtsID: id, Cause: fmt.Sprintf("GTS link #%d @ offset %d is empty", i+1, offset)}
		}

		segment, err := parseSegment(i+1, offset, part)
		if err != nil {
			return nil, err
		}

		gtsID.Segments = append(gtsID.Segments, segment)
		offset += len(part)
	}

	return gtsID, nil
}

// IsValidGtsID checks if a string is a valid GTS identifier.
func IsValidGtsID(s string) bool {
	if !strings.HasPrefix(s, GtsPrefix) {
		return false
	}
	_, err := NewGtsID(s)
	return err == nil
}

// IsType returns true if the last link of this identifier carries the type marker (~).
func (g *GtsID) IsType() bool {
	if len(g.Segments) == 0 {
		return false
	}
	return g.Segments[len(g.Segments)-1].IsType
}

// IsSchema reports whether the identifier names a schema: type marker set on
// the last link, and no concrete minor version pinned on that link.
func (g *GtsID) IsSchema() bool {
	if len(g.Segments) == 0 {
		return false
	}
	last := g.Segments[len(g.Segments)-1]
	return last.IsType && last.VerMinor == nil
}

// IsInstance reports whether the identifier names an instance: no type
// marker, and a concrete minor version present.
func (g *GtsID) IsInstance() bool {
	if len(g.Segments) == 0 {
		return false
	}
	last := g.Segments[len(g.Segments)-1]
	return !last.IsType && last.VerMinor != nil
}

// IsSchemaVersionPin reports type marker set together with a pinned minor version.
func (g *GtsID) IsSchemaVersionPin() bool {
	if len(g.Segments) == 0 {
		return false
	}
	last := g.Segments[len(g.Segments)-1]
	return last.IsType && last.VerMinor != nil
}

// IsPattern reports whether any segment or version component equals '*'
// anywhere across the chain. '_' is an ordinary identifier character and
// does not by itself make an identifier a pattern (it is wildcard-equivalent
// only on the pattern side of Matches, see match.go). Patterns may not be
// used as UUID inputs or document keys.
func (g *GtsID) IsPattern() bool {
	for _, seg := range g.Segments {
		if seg.IsWildcard {
			return true
		}
	}
	return false
}

// ChainLinks returns the ordered sequence of links making up the identifier.
func (g *GtsID) ChainLinks() []*GtsIDSegment {
	return g.Segments
}

// Render returns the canonical textual form of the identifier: the
// normalized input with versions re-rendered without leading zeros.
func (g *GtsID) Render() string {
	var b strings.Builder
	b.WriteString(GtsPrefix)
	for i, seg := range g.Segments {
		if i > 0 {
			// links are concatenated directly with no separator
		}
		b.WriteString(renderLink(seg))
	}
	return b.String()
}

func renderLink(seg *GtsIDSegment) string {
	field := func(wild bool, val string) string {
		if wild {
			return WildcardToken
		}
		return val
	}
	if seg.TrailingWildcard {
		vals := []string{seg.Vendor, seg.Package, seg.Namespace, seg.Type}
		wilds := []bool{seg.VendorWild, seg.PackageWild, seg.NamespaceWild, seg.TypeWild}
		parts := make([]string, 0, 4)
		for i, wild := range wilds {
			if wild {
				parts = append(parts, WildcardToken)
				break
			}
			parts = append(parts, vals[i])
		}
		return strings.Join(parts, ".")
	}
	var b strings.Builder
	b.WriteString(field(seg.VendorWild, seg.Vendor))
	b.WriteByte('.')
	b.WriteString(field(seg.PackageWild, seg.Package))
	b.WriteByte('.')
	b.WriteString(field(seg.NamespaceWild, seg.Namespace))
	b.WriteByte('.')
	b.WriteString(field(seg.TypeWild, seg.Type))
	b.WriteByte('.')
	if seg.VerMajorWild {
		b.WriteString(WildcardToken)
	} else {
		b.WriteString("v" + strconv.Itoa(seg.VerMajor))
	}
	if seg.VerMinorWild {
		b.WriteString(".*")
	} else if seg.VerMinor != nil {
		b.WriteString("." + strconv.Itoa(*seg.VerMinor))
	}
	if seg.IsType {
		b.WriteByte('~')
	}
	return b.String()
}

// ToUUID generates a deterministic UUIDv5 from the identifier's canonical
// rendering. Precondition: identifier is not a pattern.
func (g *GtsID) ToUUID() uuid.UUID {
	return uuid.NewSHA1(GtsNamespace, []byte(g.Render()))
}

// splitPreservingTilde splits a string by ~ while preserving the ~ at the end of each part
func splitPreservingTilde(s string) []string {
	_parts := strings.Split(s, "~")
	parts := make([]string, 0, len(_parts))

	for i := 0; i < len(_parts); i++ {
		if i < len(_parts)-1 {
			parts = append(parts, _parts[i]+"~")
			// If next part is empty and this is second to last, we're done
			if i == len(_parts)-2 && _parts[i+1] == "" {
				break
			}
		} else {
			parts = append(parts, _parts[i])
		}
	}

	return parts
}

// parseSegment parses a single link of a GTS identifier.
func parseSegment(num, offset int, segment string) (*GtsIDSegment, error) {
	seg := &GtsIDSegment{
		Num:     num,
		Offset:  offset,
		Segment: strings.TrimSpace(segment),
	}

	workingSegment := seg.Segment

	if strings.Count(workingSegment, "~") > 0 {
		if strings.Count(workingSegment, "~") > 1 {
			return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "too many '~' characters"}
		}
		if strings.HasSuffix(workingSegment, "~") {
			seg.IsType = true
			workingSegment = workingSegment[:len(workingSegment)-1]
		} else {
			return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "'~' must be at the end"}
		}
	}

	tokens := strings.Split(workingSegment, ".")

	if len(tokens) > 6 {
		return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "too many tokens"}
	}

	trailingWild := len(tokens) > 0 && tokens[len(tokens)-1] == WildcardToken && len(tokens) < 6
	if !trailingWild && len(tokens) < 5 {
		return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "too few tokens"}
	}
	seg.TrailingWildcard = trailingWild
	if trailingWild {
		seg.IsWildcard = true
	}

	nameField := func(idx int, wild *bool, val *string) error {
		if len(tokens) <= idx {
			return nil
		}
		tok := tokens[idx]
		if tok == WildcardToken {
			*wild = true
			seg.IsWildcard = true
			return nil
		}
		if !segmentTokenRegex.MatchString(tok) {
			return &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "invalid segment token: " + tok}
		}
		*val = tok
		return nil
	}

	if err := nameField(0, &seg.VendorWild, &seg.Vendor); err != nil {
		return nil, err
	}
	if err := nameField(1, &seg.PackageWild, &seg.Package); err != nil {
		return nil, err
	}
	if err := nameField(2, &seg.NamespaceWild, &seg.Namespace); err != nil {
		return nil, err
	}
	if err := nameField(3, &seg.TypeWild, &seg.Type); err != nil {
		return nil, err
	}

	if trailingWild {
		// Every name field at or past the trailing wildcard's position, not
		// just the literal '*' token itself, is unconstrained.
		for idx := len(tokens); idx < 4; idx++ {
			switch idx {
			case 0:
				seg.VendorWild = true
			case 1:
				seg.PackageWild = true
			case 2:
				seg.NamespaceWild = true
			case 3:
				seg.TypeWild = true
			}
		}
		return seg, nil
	}

	// Parse major version
	if len(tokens) > 4 {
		if tokens[4] == WildcardToken {
			seg.VerMajorWild = true
			seg.IsWildcard = true
		} else {
			if !strings.HasPrefix(tokens[4], "v") {
				return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "major version must start with 'v'"}
			}
			majorStr := tokens[4][1:]
			major, err := strconv.Atoi(majorStr)
			if err != nil || major < 0 || strconv.Itoa(major) != majorStr {
				return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "major version must be a non-negative integer"}
			}
			seg.VerMajor = major
		}
	}

	// Parse minor version
	if len(tokens) > 5 {
		if tokens[5] == WildcardToken {
			seg.VerMinorWild = true
			seg.IsWildcard = true
		} else {
			minor, err := strconv.Atoi(tokens[5])
			if err != nil || minor < 0 || strconv.Itoa(minor) != tokens[5] {
				return nil, &InvalidSegmentError{Num: num, Offset: offset, Segment: segment, Cause: "minor version must be a non-negative integer"}
			}
			seg.VerMinor = &minor
		}
	}

	return seg, nil
}
