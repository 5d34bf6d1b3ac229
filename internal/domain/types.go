// Package domain defines the record types shared by the fetcher, the store,
// and the presentation layer. They are independent of the wire format.
package domain

import "strconv"

// RawRecord is a record exactly as served by the endpoint.
// Name is nil when the field is null or missing.
type RawRecord struct {
	ID     int     `json:"id"`
	ListID int     `json:"listId"`
	Name   *string `json:"name"`
}

// Record is a sanitized record. Name is never empty.
type Record struct {
	ID     int    `json:"id" yaml:"id"`
	ListID int    `json:"listId" yaml:"listId"`
	Name   string `json:"name" yaml:"name"`
	Tag    Tag    `json:"tag" yaml:"tag"`
}

// Tag is a decorative icon attached to a record at sanitization time.
// It carries no meaning and must never influence filtering or ordering.
type Tag int

// Tag values, in palette order.
const (
	TagEarbuds Tag = iota
	TagWeekend
	TagComputer
	TagDryCleaning
	TagFitnessCenter
)

// Palette lists every tag a record can be given.
var Palette = []Tag{
	TagEarbuds,
	TagWeekend,
	TagComputer,
	TagDryCleaning,
	TagFitnessCenter,
}

var tagNames = map[Tag]string{
	TagEarbuds:       "earbuds",
	TagWeekend:       "weekend",
	TagComputer:      "computer",
	TagDryCleaning:   "dry_cleaning",
	TagFitnessCenter: "fitness_center",
}

var tagGlyphs = map[Tag]string{
	TagEarbuds:       "🎧",
	TagWeekend:       "🛋",
	TagComputer:      "💻",
	TagDryCleaning:   "👔",
	TagFitnessCenter: "🏋",
}

// String returns the tag name, e.g. "dry_cleaning".
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

// Glyph returns the symbol drawn next to a record.
func (t Tag) Glyph() string {
	if g, ok := tagGlyphs[t]; ok {
		return g
	}
	return "•"
}

// MarshalText encodes the tag by name so JSON and YAML output stay readable.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// StringPtr is a convenience for building RawRecords in code.
func StringPtr(s string) *string {
	return &s
}
