package analysis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/keynes-workspace/internal/application"
	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/frontier"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/pkg/logger"
)

// Service runs catalog actions against Ready materials and stores the results.
// Runs for the same action id are serialized; different actions run in parallel.
type Service struct {
	Materials materials.Repository
	Results   domain.Repository
	Blobs     materials.BlobStore
	Frontier  frontier.Client
	Clock     application.Clock
	Log       *logger.Logger
	// MockLatency delays the canned generators to imitate real work.
	MockLatency time.Duration

	locks   sync.Map // ActionID -> *sync.Mutex
	running sync.Map // ActionID -> *atomic.Int32
}

type runRequest struct {
	action    domain.Action
	materials []materials.Material
}

// Run validates the request, produces the payload and upserts the result.
// Validation failures return errs.ErrInvalidRequest before any work starts.
func (s *Service) Run(ctx context.Context, actionID domain.ActionID, materialIDs []materials.ID) (domain.Result, error) {
	req, err := s.prepare(actionID, materialIDs)
	if err != nil {
		return domain.Result{}, err
	}
	c := s.counter(req.action.ID)
	c.Add(1)
	defer c.Add(-1)
	return s.execute(ctx, req)
}

// Start validates synchronously and completes the run in the background.
func (s *Service) Start(actionID domain.ActionID, materialIDs []materials.ID) (*application.Pending[domain.Result], error) {
	req, err := s.prepare(actionID, materialIDs)
	if err != nil {
		return nil, err
	}
	s.counter(req.action.ID).Add(1)
	return application.Go(func() (domain.Result, error) {
		defer s.counter(req.action.ID).Add(-1)
		return s.execute(context.Background(), req)
	}), nil
}

// Running reports whether a run for the action is in flight.
func (s *Service) Running(id domain.ActionID) bool {
	return s.counter(id).Load() > 0
}

// Get returns the stored result for an action.
func (s *Service) Get(id domain.ActionID) (domain.Result, error) {
	r, ok := s.Results.Get(id)
	if !ok {
		return domain.Result{}, fmt.Errorf("result for %s: %w", id, errs.ErrNotFound)
	}
	return r, nil
}

// ListAll returns every stored result keyed by action id.
func (s *Service) ListAll() map[domain.ActionID]domain.Result {
	return s.Results.ListAll()
}

func (s *Service) prepare(actionID domain.ActionID, ids []materials.ID) (runRequest, error) {
	action, ok := domain.LookupAction(actionID)
	if !ok {
		return runRequest{}, errs.Invalid("unknown action %q", actionID)
	}
	if len(ids) == 0 {
		return runRequest{}, errs.Invalid("no materials selected")
	}

	seen := make(map[materials.ID]bool, len(ids))
	selected := make([]materials.Material, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		m, err := s.Materials.Get(id)
		if err != nil {
			return runRequest{}, errs.Invalid("material %s not found", id)
		}
		if !m.Ready() {
			return runRequest{}, errs.Invalid("material %s is %s", m.Name, m.Status)
		}
		selected = append(selected, m)
	}

	if action.ID == domain.ActionEfficientFrontier {
		if len(selected) != 1 || selected[0].Kind != materials.KindSpreadsheet {
			return runRequest{}, errs.Invalid("%s needs exactly one spreadsheet", action.Name)
		}
	}
	return runRequest{action: action, materials: selected}, nil
}

func (s *Service) execute(ctx context.Context, req runRequest) (domain.Result, error) {
	mu := s.lock(req.action.ID)
	mu.Lock()
	defer mu.Unlock()

	log := logger.OrNop(s.Log).With("action", req.action.ID)

	payload, err := s.generate(ctx, req)
	if err != nil {
		log.Warn("analysis run failed", "error", err)
		return domain.Result{}, err
	}

	names := make([]string, len(req.materials))
	for i, m := range req.materials {
		names[i] = m.Name
	}
	result := domain.Result{
		ActionID:      req.action.ID,
		ActionLabel:   req.action.Name,
		MaterialNames: names,
		Payload:       payload,
		CompletedAt:   application.ClockOrSystem(s.Clock).Now(),
	}
	if err := s.Results.Upsert(result); err != nil {
		return domain.Result{}, err
	}
	log.Info("analysis run completed", "materials", len(names))
	return result.Clone(), nil
}

func (s *Service) generate(ctx context.Context, req runRequest) (domain.Payload, error) {
	if req.action.ID == domain.ActionEfficientFrontier {
		return s.efficientFrontier(ctx, req.materials[0])
	}
	gen, ok := generators[req.action.ID]
	if !ok {
		return domain.Payload{{Name: "message", Value: domain.Scalar("Analysis completed successfully.")}}, nil
	}
	if s.MockLatency > 0 {
		t := time.NewTimer(s.MockLatency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return gen(), nil
}

func (s *Service) efficientFrontier(ctx context.Context, m materials.Material) (domain.Payload, error) {
	if s.Frontier == nil {
		return nil, fmt.Errorf("%w: analysis endpoint is not configured", errs.ErrConfiguration)
	}
	data, err := s.Blobs.Get(ctx, m.BlobKey())
	if err != nil {
		return nil, fmt.Errorf("read material %s: %w", m.Name, err)
	}
	res, err := s.Frontier.Submit(ctx, frontier.File{Name: m.Name, Data: data})
	if err != nil {
		return nil, err
	}
	return frontierPayload(res), nil
}

// frontierPayload turns the weight list into a RecordList field.
func frontierPayload(res frontier.Result) domain.Payload {
	weights := make(domain.RecordList, 0, len(res.Weights))
	for _, w := range res.Weights {
		weights = append(weights, record("fund", w.Fund, "weight", strconv.FormatFloat(w.Weight, 'f', -1, 64)))
	}
	p := domain.Payload{{Name: "weights", Value: weights}}
	if res.RawText != nil {
		p = append(p, domain.Field{Name: "rawText", Value: domain.Scalar(*res.RawText)})
	}
	return p
}

func (s *Service) lock(id domain.ActionID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *Service) counter(id domain.ActionID) *atomic.Int32 {
	c, _ := s.running.LoadOrStore(id, &atomic.Int32{})
	return c.(*atomic.Int32)
}
