// Package api exposes the agent engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
	"github.com/emberfall/npcmind/internal/store"
	"github.com/emberfall/npcmind/internal/world"
)

// Handler holds dependencies for HTTP handlers. The snapshot store is
// optional; snapshot routes return 503 when it is nil.
type Handler struct {
	engine *agent.Engine
	clock  *world.Clock
	snaps  *store.Store
	seed   int64
	seedFn func(*agent.Agent)
	logger *zap.Logger
}

// NewHandler creates a new API handler. seedFn installs the default
// mental profile on newly created agents; nil means agent.SeedDefaults.
func NewHandler(engine *agent.Engine, clock *world.Clock, snaps *store.Store, seed int64, seedFn func(*agent.Agent), logger *zap.Logger) *Handler {
	if seedFn == nil {
		seedFn = agent.SeedDefaults
	}
	return &Handler{
		engine: engine,
		clock:  clock,
		snaps:  snaps,
		seed:   seed,
		seedFn: seedFn,
		logger: logger,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)
		r.Get("/world", h.worldStatus)
		r.Post("/world/speed", h.setWorldSpeed)

		r.Get("/agents", h.listAgents)
		r.Post("/agents", h.createAgent)
		r.Get("/agents/{id}", h.getAgent)

		r.Post("/agents/{id}/perceive", h.perceive)
		r.Post("/agents/{id}/decide", h.decide)
		r.Post("/agents/{id}/outcome", h.recordOutcome)
		r.Get("/agents/{id}/recall", h.recall)
		r.Get("/agents/{id}/recent", h.recentActivity)
		r.Get("/agents/{id}/state", h.cognitiveState)

		r.Get("/agents/{id}/goals", h.listGoals)
		r.Post("/agents/{id}/goals", h.createGoal)
		r.Post("/agents/{id}/goals/{goalID}/progress", h.updateProgress)
		r.Get("/agents/{id}/desires", h.strongestDesire)
		r.Post("/agents/{id}/desires/{name}/satisfy", h.satisfyDesire)

		r.Post("/agents/{id}/snapshot", h.saveSnapshot)
		r.Post("/agents/{id}/restore", h.restoreSnapshot)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) worldStatus(w http.ResponseWriter, r *http.Request) {
	agents := h.engine.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sim_time":    h.clock.SimTime(),
		"agent_count": len(agents),
	})
}

type speedRequest struct {
	Speed float64 `json:"speed"`
}

func (h *Handler) setWorldSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Speed <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "speed must be positive"})
		return
	}
	h.clock.SetSpeed(req.Speed)
	writeJSON(w, http.StatusOK, map[string]float64{"speed": req.Speed})
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Clock float64 `json:"clock"`
	}
	agents := h.engine.List()
	out := make([]summary, 0, len(agents))
	for _, a := range agents {
		out = append(out, summary{ID: a.ID, Name: a.Name, Clock: a.Now()})
	}
	writeJSON(w, http.StatusOK, out)
}

type createAgentRequest struct {
	Name string `json:"name"`
	Seed int64  `json:"seed"`
}

func (h *Handler) createAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Seed == 0 {
		req.Seed = h.seed
	}
	a := agent.New(req.Name, req.Seed, h.logger)
	h.seedFn(a)
	h.engine.Register(a)
	writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID})
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	data, err := a.Snapshot()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type perceiveRequest struct {
	Input          string  `json:"input"`
	EmotionalValue float64 `json:"emotional_value"`
}

func (h *Handler) perceive(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req perceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.Enqueue(agent.Event{
		Kind:           agent.EventPerceive,
		Input:          req.Input,
		EmotionalValue: req.EmotionalValue,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

type decideRequest struct {
	Options []string           `json:"options"`
	Context map[string]float64 `json:"context"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	chosen := a.Decide(req.Options, req.Context)
	writeJSON(w, http.StatusOK, map[string]string{"chosen": chosen})
}

type outcomeRequest struct {
	GoalID   string  `json:"goal_id,omitempty"`
	Success  bool    `json:"success"`
	Impact   float64 `json:"impact"`
	Feedback string  `json:"feedback,omitempty"`
}

func (h *Handler) recordOutcome(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.Enqueue(agent.Event{
		Kind:     agent.EventRecordOutcome,
		GoalID:   req.GoalID,
		Success:  req.Success,
		Impact:   req.Impact,
		Feedback: req.Feedback,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) recall(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	query := r.URL.Query().Get("q")
	m := a.Recall(query)
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no matching memory"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n <= 0 {
		n = 5
	}
	writeJSON(w, http.StatusOK, a.Recent(n))
}

func (h *Handler) cognitiveState(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	writeJSON(w, http.StatusOK, a.State())
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	writeJSON(w, http.StatusOK, a.ActiveGoals())
}

type createGoalRequest struct {
	Description string   `json:"description"`
	Priority    float64  `json:"priority"`
	Deadline    *float64 `json:"deadline,omitempty"`
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	id := a.CreateGoal(req.Description, req.Priority, req.Deadline)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type progressRequest struct {
	Progress float64 `json:"progress"`
}

func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.Enqueue(agent.Event{
		Kind:     agent.EventUpdateProgress,
		GoalID:   chi.URLParam(r, "goalID"),
		Progress: req.Progress,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) strongestDesire(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	d, ok := a.StrongestDesire()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no desires tracked"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type satisfyRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) satisfyDesire(w http.ResponseWriter, r *http.Request) {
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	var req satisfyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a.Enqueue(agent.Event{
		Kind:   agent.EventSatisfyDesire,
		Desire: chi.URLParam(r, "name"),
		Amount: req.Amount,
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snaps == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot store not configured"})
		return
	}
	a, ok := h.engine.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
		return
	}
	if err := h.snaps.SaveSnapshot(r.Context(), a); err != nil {
		h.logger.Error("save snapshot failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) restoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snaps == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot store not configured"})
		return
	}
	id := chi.URLParam(r, "id")
	data, err := h.snaps.LoadSnapshot(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	a, err := agent.Restore(data, h.seed, h.logger)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.engine.Register(a)
	writeJSON(w, http.StatusOK, map[string]string{"id": a.ID, "status": "restored"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
