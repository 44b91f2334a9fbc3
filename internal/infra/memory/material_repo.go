package memory

import (
	"fmt"
	"sync"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
)

// MaterialRepository keeps materials in insertion order. Every mutation
// swaps a whole record under the lock.
type MaterialRepository struct {
	mu    sync.RWMutex
	order []domain.ID
	byID  map[domain.ID]domain.Material
}

func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{byID: make(map[domain.ID]domain.Material)}
}

func (r *MaterialRepository) Add(m domain.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[m.ID]; exists {
		return fmt.Errorf("material %s already exists", m.ID)
	}
	r.byID[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *MaterialRepository) Get(id domain.ID) (domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Material{}, fmt.Errorf("material %s: %w", id, errs.ErrNotFound)
	}
	return m, nil
}

func (r *MaterialRepository) Transition(id domain.ID, to domain.Status) (domain.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Material{}, fmt.Errorf("material %s: %w", id, errs.ErrNotFound)
	}
	if !m.Status.CanTransition(to) {
		return m, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, m.Status, to)
	}
	m = m.WithStatus(to)
	r.byID[id] = m
	return m, nil
}

func (r *MaterialRepository) Remove(id domain.ID) (domain.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.Material{}, fmt.Errorf("material %s: %w", id, errs.ErrNotFound)
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return m, nil
}

func (r *MaterialRepository) List() []domain.Material {
	return r.filter(func(domain.Material) bool { return true })
}

func (r *MaterialRepository) ListReady() []domain.Material {
	return r.filter(domain.Material.Ready)
}

func (r *MaterialRepository) filter(keep func(domain.Material) bool) []domain.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Material, 0, len(r.order))
	for _, id := range r.order {
		if m := r.byID[id]; keep(m) {
			out = append(out, m)
		}
	}
	return out
}
