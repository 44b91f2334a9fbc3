package assistant

import (
	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
)

// ResultContext is one analysis result as handed to the assistant.
type ResultContext struct {
	ActionID    analysis.ActionID `json:"action_id"`
	ActionLabel string            `json:"action_label"`
	Payload     analysis.Payload  `json:"payload"`
}

// Context is what an outbound chat turn may reference.
type Context struct {
	MaterialNames []string        `json:"material_names"`
	Results       []ResultContext `json:"results"`
}

// BuildContext resolves attached ids to names, silently dropping ids that no
// longer resolve, and lists the available results in catalog order. It only
// reads from its inputs.
func BuildContext(repo materials.Repository, attached []materials.ID, results map[analysis.ActionID]analysis.Result) Context {
	ctx := Context{MaterialNames: []string{}, Results: []ResultContext{}}
	seen := make(map[materials.ID]bool, len(attached))
	for _, id := range attached {
		if seen[id] {
			continue
		}
		seen[id] = true
		m, err := repo.Get(id)
		if err != nil {
			continue
		}
		ctx.MaterialNames = append(ctx.MaterialNames, m.Name)
	}
	for _, r := range analysis.SortedResults(results) {
		ctx.Results = append(ctx.Results, ResultContext{
			ActionID:    r.ActionID,
			ActionLabel: r.ActionLabel,
			Payload:     r.Payload.Clone(),
		})
	}
	return ctx
}
