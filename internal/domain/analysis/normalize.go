package analysis

import (
	"strings"
)

// SectionKind enum
type SectionKind string

const (
	SectionFact    SectionKind = "fact"
	SectionList    SectionKind = "list"
	SectionRecords SectionKind = "records"
)

// Line is one "label: value" pair of a record entry.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (l Line) String() string { return l.Label + ": " + l.Value }

// Section is the display-ready form of one payload field.
type Section struct {
	Field   string      `json:"field"`
	Label   string      `json:"label"`
	Kind    SectionKind `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Entries [][]Line    `json:"entries,omitempty"`
}

// Label inserts a space before every ASCII capital and trims the result:
// "netProfit" -> "net Profit".
func Label(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Normalize decomposes a payload into sections, one per recognised field, in
// payload order. Unrecognised values are skipped. The payload is not modified.
func Normalize(p Payload) []Section {
	out := make([]Section, 0, len(p))
	for _, f := range p {
		sec := Section{Field: f.Name, Label: Label(f.Name)}
		switch v := f.Value.(type) {
		case Scalar:
			sec.Kind = SectionFact
			sec.Text = string(v)
		case ScalarList:
			sec.Kind = SectionList
			sec.Items = append([]string{}, v...)
		case RecordList:
			sec.Kind = SectionRecords
			sec.Entries = make([][]Line, 0, len(v))
			for _, rec := range v {
				lines := make([]Line, 0, len(rec))
				for _, e := range rec {
					lines = append(lines, Line{Label: Label(e.Key), Value: e.Value})
				}
				sec.Entries = append(sec.Entries, lines)
			}
		default:
			continue
		}
		out = append(out, sec)
	}
	return out
}

// Render prints sections as plain text, the form used for golden comparisons.
func Render(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Label)
		b.WriteByte('\n')
		switch s.Kind {
		case SectionFact:
			b.WriteString("  " + s.Text + "\n")
		case SectionList:
			for _, it := range s.Items {
				b.WriteString("  - " + it + "\n")
			}
		case SectionRecords:
			for _, entry := range s.Entries {
				for j, l := range entry {
					prefix := "    "
					if j == 0 {
						prefix = "  - "
					}
					b.WriteString(prefix + l.String() + "\n")
				}
			}
		}
	}
	return b.String()
}
