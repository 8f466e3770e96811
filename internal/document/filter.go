package document

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// FieldFilter matches documents where any sub-record has a field containing a
// literal pattern, ignoring case.
type FieldFilter struct {
	field   Field
	pattern string
	folded  string
}

// NewFieldFilter builds a filter for field and pattern.
func NewFieldFilter(field Field, pattern string) *FieldFilter {
	return &FieldFilter{
		field:   field,
		pattern: pattern,
		folded:  fold(pattern),
	}
}

// Field returns the filtered field.
func (f *FieldFilter) Field() Field {
	return f.field
}

// Pattern returns the literal pattern.
func (f *FieldFilter) Pattern() string {
	return f.pattern
}

// Regex returns a regular expression equivalent to the filter, with every
// metacharacter of the pattern escaped. It must be applied case-insensitively.
func (f *FieldFilter) Regex() string {
	return ".*" + regexp.QuoteMeta(f.pattern) + ".*"
}

// Paths returns the dotted document paths the filter inspects, one per location.
func (f *FieldFilter) Paths() []string {
	paths := make([]string, len(Locations))
	for i, loc := range Locations {
		paths[i] = string(loc) + "." + string(f.field)
	}
	return paths
}

// Match reports whether the document satisfies the filter. Both variants of
// every location are inspected.
func (f *FieldFilter) Match(d Document) bool {
	for _, loc := range Locations {
		for _, rec := range d.Response(loc).Sequence() {
			if v, ok := rec.Value(f.field); ok && strings.Contains(fold(v), f.folded) {
				return true
			}
		}
	}
	return false
}

// ContainsFold reports whether substr is within s under Unicode case folding.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

func fold(s string) string {
	return cases.Fold().String(s)
}
