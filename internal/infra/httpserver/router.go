package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/keynes-workspace/internal/application/analysis"
	appassistant "github.com/bryanwahyu/keynes-workspace/internal/application/assistant"
	appmaterials "github.com/bryanwahyu/keynes-workspace/internal/application/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/ai"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/materials"
	"github.com/bryanwahyu/keynes-workspace/internal/middleware"
	"github.com/bryanwahyu/keynes-workspace/internal/pkg/logger"
)

const defaultMaxUploadBytes = 32 << 20

// Options wires the services into the router.
type Options struct {
	Materials *appmaterials.Service
	Analysis  *appanalysis.Service
	Assistant *appassistant.Service
	Health    map[string]middleware.HealthChecker
	Log       *logger.Logger

	CORSOrigins    []string
	MaxUploadBytes int64
	// RateCapacity and RateRefill bound run and chat requests per client IP; zero disables.
	RateCapacity int
	RateRefill   int
}

type Router struct {
	materialsSvc *appmaterials.Service
	analysisSvc  *appanalysis.Service
	assistantSvc *appassistant.Service
	log          *logger.Logger
	maxUpload    int64
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		materialsSvc: opts.Materials,
		analysisSvc:  opts.Analysis,
		assistantSvc: opts.Assistant,
		log:          logger.OrNop(opts.Log),
		maxUpload:    opts.MaxUploadBytes,
	}
	if r.maxUpload <= 0 {
		r.maxUpload = defaultMaxUploadBytes
	}

	mux := chi.NewRouter()
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.Logging(r.log))
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Health))
	mux.Get("/metrics", middleware.MetricsHandler)

	limited := func(h http.Handler) http.Handler { return h }
	if opts.RateCapacity > 0 && opts.RateRefill > 0 {
		limited = middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill)
	}

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/materials", r.wrap(r.handleUpload))
		rt.Get("/materials", r.wrap(r.handleListMaterials))
		rt.Get("/materials/{id}", r.wrap(r.handleGetMaterial))
		rt.Get("/materials/{id}/content", r.wrap(r.handleMaterialContent))
		rt.Delete("/materials/{id}", r.wrap(r.handleRemoveMaterial))

		rt.Get("/actions", r.wrap(r.handleActions))
		rt.With(limited).Post("/actions/{action}/runs", r.wrap(r.handleRun))
		rt.Get("/results", r.wrap(r.handleResults))
		rt.Get("/results/{action}", r.wrap(r.handleResult))

		rt.Get("/chat/messages", r.wrap(r.handleMessages))
		rt.With(limited).Post("/chat/messages", r.wrap(r.handleSend))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.Warn("request failed", "path", req.URL.Path, "status", status, "error", err)
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

func statusFor(err error) int {
	var backendErr *errs.BackendError
	switch {
	case errors.Is(err, errs.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, materials.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, materials.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.As(err, &backendErr),
		errors.Is(err, errs.ErrMalformedResponse),
		errors.Is(err, errs.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return errs.Invalid("malformed JSON body: %v", err)
	}
	return middleware.ValidateStruct(v)
}

//
// ==== MATERIALS ====
//

// POST /v1/materials (multipart, repeated field "file")
// Files with unsupported extensions are skipped and reported under "rejected".
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
	if err := req.ParseMultipartForm(r.maxUpload); err != nil {
		return errs.Invalid("multipart body: %v", err)
	}
	defer req.MultipartForm.RemoveAll()

	files := req.MultipartForm.File["file"]
	if len(files) == 0 {
		return errs.Invalid("no file field in upload")
	}

	accepted := make([]materials.Material, 0, len(files))
	rejected := []string{}
	for _, fh := range files {
		name := middleware.SanitizeString(filepath.Base(fh.Filename))
		if !materials.Accepts(name) {
			middleware.IncrementUploadsRejected()
			rejected = append(rejected, name)
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		m, _, err := r.materialsSvc.Upload(appmaterials.FileDescriptor{
			Name:        name,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			return err
		}
		middleware.IncrementUploads()
		accepted = append(accepted, m)
	}

	return writeJSON(w, http.StatusAccepted, map[string]any{
		"accepted": accepted,
		"rejected": rejected,
	})
}

// GET /v1/materials?status=ready
func (r *Router) handleListMaterials(w http.ResponseWriter, req *http.Request) error {
	var list []materials.Material
	switch req.URL.Query().Get("status") {
	case "":
		list = r.materialsSvc.List()
	case string(materials.StatusReady):
		list = r.materialsSvc.ListReady()
	default:
		return errs.Invalid("only status=ready is supported")
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/materials/{id}
func (r *Router) handleGetMaterial(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateMaterialID(id); err != nil {
		return err
	}
	m, err := r.materialsSvc.Get(materials.ID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, m)
}

// GET /v1/materials/{id}/content
func (r *Router) handleMaterialContent(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateMaterialID(id); err != nil {
		return err
	}
	m, data, err := r.materialsSvc.Content(req.Context(), materials.ID(id))
	if err != nil {
		return err
	}
	ct := m.ContentType
	if ct == "" {
		ct = materials.ContentTypeFor(m.Name)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": m.Name}))
	_, err = w.Write(data)
	return err
}

// DELETE /v1/materials/{id}
func (r *Router) handleRemoveMaterial(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateMaterialID(id); err != nil {
		return err
	}
	if err := r.materialsSvc.Remove(req.Context(), materials.ID(id)); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ==== ANALYSIS ====
//

type actionView struct {
	analysis.Action
	Running   bool `json:"running"`
	HasResult bool `json:"has_result"`
}

type resultView struct {
	analysis.Result
	Sections []analysis.Section `json:"sections"`
}

func viewOf(res analysis.Result) resultView {
	return resultView{Result: res, Sections: analysis.Normalize(res.Payload)}
}

// GET /v1/actions
func (r *Router) handleActions(w http.ResponseWriter, req *http.Request) error {
	results := r.analysisSvc.ListAll()
	catalog := analysis.Catalog()
	out := make([]actionView, 0, len(catalog))
	for _, a := range catalog {
		_, has := results[a.ID]
		out = append(out, actionView{Action: a, Running: r.analysisSvc.Running(a.ID), HasResult: has})
	}
	return writeJSON(w, http.StatusOK, out)
}

type runBody struct {
	MaterialIDs []string `json:"material_ids" validate:"required,min=1,dive,required"`
}

// POST /v1/actions/{action}/runs[?async=true]
// Body: {"material_ids": ["<id>", ...]}
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	action := chi.URLParam(req, "action")
	if err := middleware.ValidateActionID(action); err != nil {
		return err
	}
	var body runBody
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	ids := make([]materials.ID, len(body.MaterialIDs))
	for i, id := range body.MaterialIDs {
		ids[i] = materials.ID(id)
	}

	async, _ := strconv.ParseBool(req.URL.Query().Get("async"))
	if async {
		pending, err := r.analysisSvc.Start(analysis.ActionID(action), ids)
		if err != nil {
			return err
		}
		middleware.IncrementRuns()
		go func() {
			if _, err := pending.Wait(context.Background()); err != nil {
				middleware.IncrementRunsFailed()
				r.log.Warn("background analysis run failed", "action", action, "error", err)
			}
		}()
		return writeJSON(w, http.StatusAccepted, map[string]any{
			"status":   "queued",
			"action":   action,
			"queuedAt": time.Now(),
		})
	}

	middleware.IncrementRuns()
	res, err := r.analysisSvc.Run(req.Context(), analysis.ActionID(action), ids)
	if err != nil {
		if !errors.Is(err, errs.ErrInvalidRequest) {
			middleware.IncrementRunsFailed()
		}
		return err
	}
	return writeJSON(w, http.StatusOK, viewOf(res))
}

// GET /v1/results
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) error {
	sorted := analysis.SortedResults(r.analysisSvc.ListAll())
	out := make([]resultView, 0, len(sorted))
	for _, res := range sorted {
		out = append(out, viewOf(res))
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/results/{action}[?format=text]
func (r *Router) handleResult(w http.ResponseWriter, req *http.Request) error {
	action := chi.URLParam(req, "action")
	if err := middleware.ValidateActionID(action); err != nil {
		return err
	}
	res, err := r.analysisSvc.Get(analysis.ActionID(action))
	if err != nil {
		return err
	}
	if req.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, err := io.WriteString(w, analysis.Render(analysis.Normalize(res.Payload)))
		return err
	}
	return writeJSON(w, http.StatusOK, viewOf(res))
}

//
// ==== CHAT ====
//

// GET /v1/chat/messages
func (r *Router) handleMessages(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.assistantSvc.Messages())
}

type sendBody struct {
	Body        string   `json:"body" validate:"max=16000"`
	MaterialIDs []string `json:"material_ids" validate:"omitempty,dive,required"`
	ActionID    string   `json:"action_id"`
}

// POST /v1/chat/messages
// Body: {"body": "...", "material_ids": [...], "action_id": "..."}
func (r *Router) handleSend(w http.ResponseWriter, req *http.Request) error {
	var body sendBody
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	ids := make([]materials.ID, len(body.MaterialIDs))
	for i, id := range body.MaterialIDs {
		ids[i] = materials.ID(id)
	}

	middleware.IncrementChatTurns()
	userMsg, reply, err := r.assistantSvc.Send(req.Context(), appassistant.SendCommand{
		Body:        middleware.SanitizeString(body.Body),
		MaterialIDs: ids,
		ActionID:    analysis.ActionID(body.ActionID),
	})
	if err != nil {
		middleware.IncrementChatFailed()
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{
		"message": userMsg,
		"reply":   reply,
	})
}
