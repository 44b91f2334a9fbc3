package memory

import (
	"github.com/patrickmn/go-cache"

	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
)

// ResultRepository keeps one result per action id for the process lifetime.
type ResultRepository struct {
	cache *cache.Cache
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{cache: cache.New(cache.NoExpiration, 0)}
}

// Upsert overwrites any previous result for the action.
func (r *ResultRepository) Upsert(res domain.Result) error {
	r.cache.Set(string(res.ActionID), res.Clone(), cache.NoExpiration)
	return nil
}

func (r *ResultRepository) Get(id domain.ActionID) (domain.Result, bool) {
	if x, found := r.cache.Get(string(id)); found {
		return x.(domain.Result).Clone(), true
	}
	return domain.Result{}, false
}

func (r *ResultRepository) ListAll() map[domain.ActionID]domain.Result {
	items := r.cache.Items()
	out := make(map[domain.ActionID]domain.Result, len(items))
	for k, it := range items {
		out[domain.ActionID(k)] = it.Object.(domain.Result).Clone()
	}
	return out
}
