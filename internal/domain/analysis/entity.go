package analysis

import (
	"sort"
	"time"
)

// Result is the stored output of one action run.
type Result struct {
	ActionID      ActionID  `json:"action_id"`
	ActionLabel   string    `json:"action_label"`
	MaterialNames []string  `json:"material_names"`
	Payload       Payload   `json:"payload"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Clone copies the slices so a stored result cannot be changed through a returned one.
func (r Result) Clone() Result {
	r.MaterialNames = append([]string(nil), r.MaterialNames...)
	r.Payload = r.Payload.Clone()
	return r
}

// SortedResults returns the results of m in catalog order.
func SortedResults(m map[ActionID]Result) []Result {
	out := make([]Result, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := catalogIndex(out[i].ActionID), catalogIndex(out[j].ActionID)
		if ci != cj {
			return ci < cj
		}
		return out[i].ActionID < out[j].ActionID
	})
	return out
}
