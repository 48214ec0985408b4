package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	istarlark "github.com/IAmJonoBo/watercrawl-sub002/internal/starlark"
	"github.com/IAmJonoBo/watercrawl-sub002/internal/state"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

const (
	maxBodyBytes    = 32 << 20
	defaultRunLimit = 20
	// RunIDHeader carries the ID of a stored run.
	RunIDHeader = "X-Watercrawl-Run"
)

// Handlers provides the HTTP handlers of the API.
type Handlers struct {
	engine     *inference.Engine
	registry   *inference.Registry
	store      state.Store
	schemaPath string
	logger     *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *inference.Engine, registry *inference.Registry, store state.Store, schemaPath string, logger *slog.Logger) *Handlers {
	if registry == nil {
		registry = inference.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		engine:     engine,
		registry:   registry,
		store:      store,
		schemaPath: schemaPath,
		logger:     logger,
	}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Schema returns the descriptors and thresholds the engine infers with.
func (h *Handlers) Schema(w http.ResponseWriter, _ *http.Request) {
	opts := h.engine.Options()
	writeJSON(w, http.StatusOK, SchemaResponse{
		Columns: h.engine.Descriptors(),
		Options: OptionsPayload{
			SampleSize:         opts.SampleSize,
			MinCandidateScore:  opts.MinCandidateScore,
			MinAssignmentScore: opts.MinAssignmentScore,
		},
	})
}

// ListHooks lists the registered detection hooks.
func (h *Handlers) ListHooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"hooks": istarlark.Describe(h.registry)})
}

// Infer maps the columns of each posted frame onto the schema and returns
// the merged result.
func (h *Handlers) Infer(w http.ResponseWriter, r *http.Request) {
	var req InferRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Save && h.store == nil {
		writeError(w, http.StatusBadRequest, errors.New("run history is not configured"))
		return
	}

	frames := make([]*core.Frame, 0, len(req.Frames))
	names := make([]string, 0, len(req.Frames))
	for i, fp := range req.Frames {
		name := fp.Name
		if name == "" {
			name = fmt.Sprintf("frame-%d", i+1)
		}
		frame := core.NewFrame(name)
		for _, col := range fp.Columns {
			if err := frame.AddColumn(col.Name, col.Values); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("frame %q: %w", name, err))
				return
			}
		}
		frames = append(frames, frame)
		names = append(names, name)
	}

	result, err := h.engine.InferAll(r.Context(), frames)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if req.Save {
		run, err := h.store.SaveRun(r.Context(), names, h.schemaPath, result)
		if err != nil {
			h.logger.Error("failed to save run", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set(RunIDHeader, run.ID)
	}

	writeJSON(w, http.StatusOK, result)
}

// Merge combines previously returned results.
func (h *Handlers) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if !decode(w, r, &req) {
		return
	}

	results := make([]*inference.Result, 0, len(req.Results))
	for i, raw := range req.Results {
		res, err := inference.ParseResult(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("results[%d]: %w", i, err))
			return
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, inference.Merge(results...))
}

// ListRuns lists stored runs, newest first.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", s))
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []*state.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GetRun returns a stored run and its result.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	result, err := h.store.RunResult(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RunResponse{Run: run, Result: result})
}

// RunMatches returns the stored matches of a run.
func (h *Handlers) RunMatches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	matches, err := h.store.RunMatches(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if matches == nil {
		matches = []inference.ColumnMatch{}
	}
	writeJSON(w, http.StatusOK, MatchesResponse{RunID: id, Matches: matches})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, state.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
