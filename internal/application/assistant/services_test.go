package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/ai"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/chat"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/infra/memory"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt ai.Prompt
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, p ai.Prompt) (string, error) {
	g.calls++
	g.prompt = p
	return g.reply, g.err
}

type fixture struct {
	svc     *Service
	repo    *memory.MaterialRepository
	results *memory.ResultRepository
	gen     *stubGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    memory.NewMaterialRepository(),
		results: memory.NewResultRepository(),
		gen:     &stubGenerator{reply: "Margins look healthy."},
	}
	f.svc = &Service{
		Materials:  f.repo,
		Results:    f.results,
		Transcript: memory.NewTranscript(),
		Generator:  f.gen,
	}
	return f
}

func (f *fixture) ready(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.repo.Add(materials.Material{ID: materials.ID(id), Name: name, Status: materials.StatusUploading}))
	_, err := f.repo.Transition(materials.ID(id), materials.StatusReady)
	require.NoError(t, err)
}

func TestSendAppendsBothTurns(t *testing.T) {
	f := newFixture(t)
	f.ready(t, "a", "Q1.pdf")

	user, reply, err := f.svc.Send(context.Background(), SendCommand{Body: "How are margins?", MaterialIDs: []materials.ID{"a", "a"}})
	require.NoError(t, err)
	assert.Equal(t, chat.RoleUser, user.Role)
	assert.Equal(t, []materials.ID{"a"}, user.AttachedMaterialIDs)
	assert.Equal(t, chat.RoleAssistant, reply.Role)
	assert.Equal(t, "Margins look healthy.", reply.Body)

	msgs := f.svc.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, user.ID, msgs[0].ID)
	assert.Equal(t, reply.ID, msgs[1].ID)

	assert.Contains(t, f.gen.prompt.System, "KeynesAI")
	assert.Contains(t, f.gen.prompt.User, "The user has attached the following materials: Q1.pdf.")
	assert.Contains(t, f.gen.prompt.User, "User question: How are margins?")
}

func TestSendRejectsInvalidTurns(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Add(materials.Material{ID: "busy", Name: "b.pdf", Status: materials.StatusUploading}))

	cases := []struct {
		name string
		cmd  SendCommand
	}{
		{"empty", SendCommand{Body: "   "}},
		{"unknown action", SendCommand{Body: "hi", ActionID: "forecast"}},
		{"missing material", SendCommand{Body: "hi", MaterialIDs: []materials.ID{"gone"}}},
		{"uploading material", SendCommand{Body: "hi", MaterialIDs: []materials.ID{"busy"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.svc.Send(context.Background(), tc.cmd)
			assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		})
	}
	assert.Empty(t, f.svc.Messages())
	assert.Equal(t, 0, f.gen.calls)
}

func TestSendAttachmentOnlyIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.ready(t, "a", "Q1.pdf")

	_, _, err := f.svc.Send(context.Background(), SendCommand{MaterialIDs: []materials.ID{"a"}})
	require.NoError(t, err)
	assert.Len(t, f.svc.Messages(), 2)
}

func TestGenerationFailureKeepsUserMessage(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("upstream timeout")

	user, reply, err := f.svc.Send(context.Background(), SendCommand{Body: "hello"})
	assert.ErrorIs(t, err, errs.ErrGenerationFailed)
	assert.Empty(t, reply.ID)

	msgs := f.svc.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, user.ID, msgs[0].ID)
}

func TestSendWithoutGenerator(t *testing.T) {
	f := newFixture(t)
	f.svc.Generator = nil

	_, _, err := f.svc.Send(context.Background(), SendCommand{Body: "hello"})
	assert.ErrorIs(t, err, errs.ErrGenerationFailed)
	assert.Len(t, f.svc.Messages(), 1)
}

func TestReferencedActionNarrowsResults(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.results.Upsert(analysis.Result{
		ActionID:    analysis.ActionProfitMargin,
		ActionLabel: "Profit Margin Analysis",
		Payload:     analysis.Payload{{Name: "netMargin", Value: analysis.Scalar("32%")}},
	}))
	require.NoError(t, f.results.Upsert(analysis.Result{
		ActionID:    analysis.ActionFinancialSummary,
		ActionLabel: "Financial Summary",
		Payload:     analysis.Payload{{Name: "netProfit", Value: analysis.Scalar("$400,000")}},
	}))

	_, _, err := f.svc.Send(context.Background(), SendCommand{Body: "explain", ActionID: analysis.ActionProfitMargin})
	require.NoError(t, err)
	assert.Contains(t, f.gen.prompt.User, "- Profit Margin Analysis: ")
	assert.NotContains(t, f.gen.prompt.User, "Financial Summary")

	_, _, err = f.svc.Send(context.Background(), SendCommand{Body: "explain all"})
	require.NoError(t, err)
	assert.Contains(t, f.gen.prompt.User, "Financial Summary")
	assert.Less(t,
		strings.Index(f.gen.prompt.User, "Financial Summary"),
		strings.Index(f.gen.prompt.User, "Profit Margin Analysis"))
}

func TestBuildContextDropsRemovedMaterials(t *testing.T) {
	f := newFixture(t)
	f.ready(t, "a", "a.pdf")
	f.ready(t, "b", "b.pdf")
	_, err := f.repo.Remove("a")
	require.NoError(t, err)

	c := BuildContext(f.repo, []materials.ID{"a", "b", "b", "zz"}, nil)
	assert.Equal(t, []string{"b.pdf"}, c.MaterialNames)
	assert.Empty(t, c.Results)
}

func TestBuildPromptWithoutContext(t *testing.T) {
	p := BuildPrompt(Context{}, "What is EBITDA?")
	assert.Equal(t, "User question: What is EBITDA?", p.User)
}

func TestBuildPromptRendersPayloadInOrder(t *testing.T) {
	c := Context{Results: []ResultContext{{
		ActionID:    analysis.ActionRevenueAnalysis,
		ActionLabel: "Revenue Analysis",
		Payload: analysis.Payload{
			{Name: "growth", Value: analysis.Scalar("+13.6%")},
			{Name: "currentPeriod", Value: analysis.Scalar("$1,250,000")},
		},
	}}}
	p := BuildPrompt(c, "q")
	assert.Contains(t, p.User, "Available analysis results:\n- Revenue Analysis: {")
	assert.Less(t, strings.Index(p.User, `"growth"`), strings.Index(p.User, `"currentPeriod"`))
}
