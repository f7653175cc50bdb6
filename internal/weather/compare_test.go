package weather

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonSet_Toggle(t *testing.T) {
	var s ComparisonSet

	s = s.Toggle("a").Toggle("b").Toggle("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	full := s.Toggle("d")
	assert.Equal(t, []string{"a", "b", "c"}, full.Keys(), "saturated set ignores new keys")

	s = s.Toggle("b")
	assert.Equal(t, []string{"a", "c"}, s.Keys())

	s = s.Toggle("d")
	assert.Equal(t, []string{"a", "c", "d"}, s.Keys(), "new keys are appended")
}

func TestComparisonSet_RoundTrip(t *testing.T) {
	var empty ComparisonSet
	s := empty.Toggle("zermatt").Toggle("zermatt")
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}

func TestComparisonSet_NeverExceedsMax(t *testing.T) {
	var s ComparisonSet
	keys := []string{"a", "b", "c", "d", "a", "e", "b", "f", "g", "c", "h"}
	for _, k := range keys {
		s = s.Toggle(k)
		assert.LessOrEqual(t, s.Len(), MaxCompared)
	}
}

func TestComparisonSet_IsImmutable(t *testing.T) {
	s := NewComparisonSet("a", "b")
	_ = s.Toggle("c")
	_ = s.Toggle("a")
	_ = s.Reset()

	assert.Equal(t, []string{"a", "b"}, s.Keys())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}

func TestComparisonSet_Reset(t *testing.T) {
	s := NewComparisonSet("a", "b", "c").Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{"x"}, s.Toggle("x").Keys())
}

func TestComparisonSet_JSON(t *testing.T) {
	b, err := json.Marshal(ComparisonSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	b, err = json.Marshal(NewComparisonSet("b", "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `["b","a"]`, string(b))
}

func comparisonFleet() FleetResult {
	chamonix := Location{Name: "Chamonix", Country: "FR"}
	verbier := Location{Name: "Verbier", Country: "CH"}

	depth := 82
	return FleetResult{
		CycleID: "cycle-1",
		Entries: []FleetEntry{
			{Location: chamonix, Summary: &LocationSummary{
				Location:        chamonix,
				Weather:         "Slight snowfall",
				TemperatureC:    -5,
				WindKmh:         13,
				SnowDepthCm:     &depth,
				Today:           &TempRange{MinC: -10, MaxC: -3},
				TodaySnowfallCm: 4.5,
				Tier:            TierExcellent,
			}},
			{Location: zermatt, Failure: &Failure{Location: zermatt, Cause: "fetch failed", Err: errors.New("fetch failed")}},
			{Location: verbier, Summary: &LocationSummary{
				Location:     verbier,
				Weather:      "Overcast",
				TemperatureC: 2,
				WindKmh:      40,
				Tier:         TierPoor,
			}},
		},
	}
}

func TestBuildComparison(t *testing.T) {
	set := NewComparisonSet("verbier", "zermatt", "chamonix")
	table := BuildComparison(set, comparisonFleet())

	require.Len(t, table.Columns, 3)
	assert.Equal(t, []ComparisonColumn{
		{Key: "verbier", Name: "Verbier", Available: true},
		{Key: "zermatt", Name: "Zermatt", Available: false},
		{Key: "chamonix", Name: "Chamonix", Available: true},
	}, table.Columns)

	want := map[string][]string{
		"weather":       {"Overcast", NoData, "Slight snowfall"},
		"temperature":   {"2°C", NoData, "-5°C"},
		"snowDepth":     {NotAvailable, NoData, "82 cm"},
		"wind":          {"40 km/h", NoData, "13 km/h"},
		"todayMinMax":   {NotAvailable, NoData, "-10°C / -3°C"},
		"todaySnowfall": {"0.0 cm", NoData, "4.5 cm"},
		"conditions":    {"Poor", NoData, "Excellent"},
	}

	require.Len(t, table.Rows, len(want))
	order := []string{"weather", "temperature", "snowDepth", "wind", "todayMinMax", "todaySnowfall", "conditions"}
	for i, row := range table.Rows {
		assert.Equal(t, order[i], row.Attribute)
		assert.NotEmpty(t, row.Label)
		assert.Equal(t, want[row.Attribute], row.Values, row.Attribute)
	}
}

func TestBuildComparison_UnknownLocation(t *testing.T) {
	table := BuildComparison(NewComparisonSet("nowhere"), comparisonFleet())

	require.Len(t, table.Columns, 1)
	assert.Equal(t, ComparisonColumn{Key: "nowhere", Name: "nowhere"}, table.Columns[0])
	for _, row := range table.Rows {
		assert.Equal(t, []string{NoData}, row.Values)
	}
}

func TestBuildComparison_EmptySet(t *testing.T) {
	table := BuildComparison(ComparisonSet{}, comparisonFleet())
	assert.Empty(t, table.Columns)
	for _, row := range table.Rows {
		assert.Empty(t, row.Values)
	}
}
