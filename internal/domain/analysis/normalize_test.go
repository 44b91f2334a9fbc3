package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"netProfit":       "net Profit",
		"totalRevenue":    "total Revenue",
		"summary":         "summary",
		"Growth":          "Growth",
		"rawText":         "raw Text",
		"ABC":             "A B C",
		"previousPeriod2": "previous Period2",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Label(in), in)
	}
}

func samplePayload() Payload {
	return Payload{
		{Name: "netProfit", Value: Scalar("$400,000")},
		{Name: "highlights", Value: ScalarList{"steady revenue", "controlled costs"}},
		{Name: "breakdown", Value: RecordList{
			{{Key: "category", Value: "Product Sales"}, {Key: "percentageShare", Value: "64%"}},
			{{Key: "category", Value: "Services"}, {Key: "percentageShare", Value: "28%"}},
		}},
	}
}

func TestNormalizeShapes(t *testing.T) {
	sections := Normalize(samplePayload())
	require.Len(t, sections, 3)

	assert.Equal(t, Section{Field: "netProfit", Label: "net Profit", Kind: SectionFact, Text: "$400,000"}, sections[0])

	assert.Equal(t, SectionList, sections[1].Kind)
	assert.Equal(t, []string{"steady revenue", "controlled costs"}, sections[1].Items)

	assert.Equal(t, SectionRecords, sections[2].Kind)
	require.Len(t, sections[2].Entries, 2)
	assert.Equal(t, "category: Product Sales", sections[2].Entries[0][0].String())
	assert.Equal(t, "percentage Share: 64%", sections[2].Entries[0][1].String())
}

func TestNormalizeIsDeterministicAndPure(t *testing.T) {
	p := samplePayload()
	before := p.Clone()

	first := Normalize(p)
	second := Normalize(p)
	assert.Equal(t, first, second)

	first[1].Items[0] = "changed"
	first[2].Entries[0][0].Value = "changed"
	assert.Equal(t, before, p)
}

type unknownValue struct{}

func (unknownValue) isValue() {}

func TestNormalizeSkipsUnrecognisedValues(t *testing.T) {
	p := Payload{
		{Name: "missing", Value: nil},
		{Name: "odd", Value: unknownValue{}},
		{Name: "kept", Value: Scalar("yes")},
	}
	sections := Normalize(p)
	require.Len(t, sections, 1)
	assert.Equal(t, "kept", sections[0].Field)
}

func TestNormalizeSkipsBareNumberFromJSON(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"count": 3, "trend": "increasing"}`), &p))

	sections := Normalize(p)
	require.Len(t, sections, 1)
	assert.Equal(t, "trend", sections[0].Field)
}

func TestRender(t *testing.T) {
	want := "net Profit\n" +
		"  $400,000\n" +
		"\n" +
		"highlights\n" +
		"  - steady revenue\n" +
		"  - controlled costs\n" +
		"\n" +
		"breakdown\n" +
		"  - category: Product Sales\n" +
		"    percentage Share: 64%\n" +
		"  - category: Services\n" +
		"    percentage Share: 28%\n"
	assert.Equal(t, want, Render(Normalize(samplePayload())))
}
