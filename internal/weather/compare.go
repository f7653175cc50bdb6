package weather

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// MaxCompared is the largest number of locations compared side by side.
const MaxCompared = 3

const (
	// NoData fills every cell of a location without a summary.
	NoData = "no data"
	// NotAvailable fills a single missing value of an otherwise valid summary.
	NotAvailable = "n/a"
)

// ComparisonSet is an insertion-ordered selection of at most MaxCompared
// location keys. The zero value is an empty selection. Values are never
// mutated in place; Toggle and Reset return new sets.
type ComparisonSet struct {
	keys []string
}

// NewComparisonSet builds a selection by toggling keys in order.
func NewComparisonSet(keys ...string) ComparisonSet {
	var s ComparisonSet
	for _, k := range keys {
		s = s.Toggle(k)
	}
	return s
}

// Toggle removes key when selected, otherwise appends it if there is room.
// A full selection ignores new keys.
func (s ComparisonSet) Toggle(key string) ComparisonSet {
	if i := slices.Index(s.keys, key); i >= 0 {
		return ComparisonSet{keys: slices.Delete(slices.Clone(s.keys), i, i+1)}
	}
	if len(s.keys) >= MaxCompared {
		return s
	}
	return ComparisonSet{keys: append(slices.Clone(s.keys), key)}
}

// Reset returns an empty selection.
func (s ComparisonSet) Reset() ComparisonSet {
	return ComparisonSet{}
}

func (s ComparisonSet) Len() int {
	return len(s.keys)
}

func (s ComparisonSet) Contains(key string) bool {
	return slices.Contains(s.keys, key)
}

// Keys returns a copy of the selected keys in insertion order.
func (s ComparisonSet) Keys() []string {
	return slices.Clone(s.keys)
}

func (s ComparisonSet) MarshalJSON() ([]byte, error) {
	if s.keys == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.keys)
}

// ComparisonColumn describes one compared location.
type ComparisonColumn struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ComparisonRow holds one attribute, one value per column.
type ComparisonRow struct {
	Attribute string   `json:"attribute"`
	Label     string   `json:"label"`
	Values    []string `json:"values"`
}

// ComparisonTable is the side-by-side view of selected locations.
type ComparisonTable struct {
	Columns []ComparisonColumn `json:"columns"`
	Rows    []ComparisonRow    `json:"rows"`
}

type attribute struct {
	id     string
	label  string
	format func(LocationSummary) string
}

var comparedAttributes = []attribute{
	{"weather", "Weather", func(s LocationSummary) string { return s.Weather }},
	{"temperature", "Temperature", func(s LocationSummary) string { return fmt.Sprintf("%d°C", s.TemperatureC) }},
	{"snowDepth", "Snow depth", func(s LocationSummary) string {
		if s.SnowDepthCm == nil {
			return NotAvailable
		}
		return fmt.Sprintf("%d cm", *s.SnowDepthCm)
	}},
	{"wind", "Wind", func(s LocationSummary) string { return fmt.Sprintf("%d km/h", s.WindKmh) }},
	{"todayMinMax", "Today min/max", func(s LocationSummary) string {
		if s.Today == nil {
			return NotAvailable
		}
		return fmt.Sprintf("%d°C / %d°C", s.Today.MinC, s.Today.MaxC)
	}},
	{"todaySnowfall", "Today snowfall", func(s LocationSummary) string { return fmt.Sprintf("%.1f cm", s.TodaySnowfallCm) }},
	{"conditions", "Conditions", func(s LocationSummary) string { return s.Tier.Label() }},
}

// BuildComparison lays out the selected locations of fleet side by side.
// Locations that failed or are unknown to fleet get NoData in every row.
func BuildComparison(set ComparisonSet, fleet FleetResult) ComparisonTable {
	table := ComparisonTable{
		Columns: make([]ComparisonColumn, 0, set.Len()),
		Rows:    make([]ComparisonRow, len(comparedAttributes)),
	}

	summaries := make([]*LocationSummary, 0, set.Len())
	for _, key := range set.keys {
		col := ComparisonColumn{Key: key, Name: key}
		var summary *LocationSummary
		if entry, ok := fleet.Lookup(key); ok {
			col.Name = entry.Location.Name
			summary = entry.Summary
		}
		col.Available = summary != nil
		table.Columns = append(table.Columns, col)
		summaries = append(summaries, summary)
	}

	for r, attr := range comparedAttributes {
		row := ComparisonRow{
			Attribute: attr.id,
			Label:     attr.label,
			Values:    make([]string, len(summaries)),
		}
		for c, s := range summaries {
			if s == nil {
				row.Values[c] = NoData
				continue
			}
			row.Values[c] = attr.format(*s)
		}
		table.Rows[r] = row
	}
	return table
}
