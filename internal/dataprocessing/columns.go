package dataprocessing

import "strings"

// Field is one logical column of the canonical schedule schema
type Field string

const (
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldOpponent Field = "opponent"
	FieldMeet     Field = "meet"
	FieldLocation Field = "location"
	FieldDistance Field = "distance"
)

// columnSynonyms lists, per field, the header substrings to look for in
// priority order. Field order matters only for logging.
var columnSynonyms = []struct {
	field    Field
	synonyms []string
}{
	{FieldDate, []string{"date", "dates"}},
	{FieldTime, []string{"time", "times"}},
	{FieldOpponent, []string{"opponent", "opponents", "vs", "against"}},
	{FieldMeet, []string{"meet", "meets", "event", "competition"}},
	{FieldLocation, []string{"location", "locations", "venue", "where", "place"}},
	{FieldDistance, []string{"distance from macu", "distance", "miles", "distance (miles)"}},
}

// ColumnMapping maps canonical fields to the index and text of the header
// that supplies them. Fields without a matching header are absent.
type ColumnMapping map[Field]ColumnRef

// ColumnRef identifies a header in a RawTable
type ColumnRef struct {
	Index  int
	Header string
}

// Has reports whether the field was resolved
func (m ColumnMapping) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Value returns the row's cell for field f, or "" when f is unresolved
func (m ColumnMapping) Value(row RawRow, f Field) string {
	ref, ok := m[f]
	if !ok {
		return ""
	}
	return row.Cell(ref.Index)
}

// ResolveColumns matches headers against the synonym lists. For each field
// the first synonym that is contained in some lower-cased, trimmed header
// wins, and among headers the leftmost match is taken.
func ResolveColumns(headers []string) ColumnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := make(ColumnMapping)
	for _, entry := range columnSynonyms {
	synonyms:
		for _, syn := range entry.synonyms {
			for i, h := range normalized {
				if strings.Contains(h, syn) {
					mapping[entry.field] = ColumnRef{Index: i, Header: headers[i]}
					break synonyms
				}
			}
		}
	}
	return mapping
}
