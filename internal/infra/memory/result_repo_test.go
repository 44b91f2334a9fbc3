package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/chat"
)

func TestResultRepositoryUpsertOverwrites(t *testing.T) {
	repo := NewResultRepository()
	_, ok := repo.Get(domain.ActionProfitMargin)
	assert.False(t, ok)

	require.NoError(t, repo.Upsert(domain.Result{
		ActionID:      domain.ActionProfitMargin,
		MaterialNames: []string{"a.pdf", "b.pdf"},
		CompletedAt:   time.Unix(1, 0),
	}))
	require.NoError(t, repo.Upsert(domain.Result{
		ActionID:      domain.ActionProfitMargin,
		MaterialNames: []string{"c.pdf"},
		CompletedAt:   time.Unix(2, 0),
	}))

	got, ok := repo.Get(domain.ActionProfitMargin)
	require.True(t, ok)
	assert.Equal(t, []string{"c.pdf"}, got.MaterialNames)
	assert.Len(t, repo.ListAll(), 1)
}

func TestResultRepositoryReturnsCopies(t *testing.T) {
	repo := NewResultRepository()
	names := []string{"a.pdf"}
	require.NoError(t, repo.Upsert(domain.Result{ActionID: domain.ActionFinancialSummary, MaterialNames: names}))
	names[0] = "mutated"

	got, _ := repo.Get(domain.ActionFinancialSummary)
	assert.Equal(t, []string{"a.pdf"}, got.MaterialNames)

	got.MaterialNames[0] = "mutated again"
	all := repo.ListAll()
	assert.Equal(t, []string{"a.pdf"}, all[domain.ActionFinancialSummary].MaterialNames)
}

func TestTranscriptAppendOnly(t *testing.T) {
	tr := NewTranscript()
	require.NoError(t, tr.Append(chat.Message{ID: "1", Role: chat.RoleUser, Body: "hi"}))
	require.NoError(t, tr.Append(chat.Message{ID: "2", Role: chat.RoleAssistant, Body: "hello"}))

	list := tr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)

	list[0].Body = "rewritten"
	assert.Equal(t, "hi", tr.List()[0].Body)
}
