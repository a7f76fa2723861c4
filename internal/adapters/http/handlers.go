package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/ports"
	"svw.info/bottlesort/internal/usecase"
)

// Handler exposes the engine's entry points as a JSON API for the session
// layer. There is no HTML surface; rendering lives outside this module.
type Handler struct {
	UC *usecase.Service
	// DefaultBudget applies when a request leaves budgets unset.
	DefaultBudget ports.Budget
}

func New(uc *usecase.Service) *Handler {
	return &Handler{
		UC:            uc,
		DefaultBudget: ports.Budget{MaxNodes: 200_000, MaxTime: time.Second},
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/move", h.handleMove)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
}

func (h *Handler) budget(maxNodes int, maxMillis int64) ports.Budget {
	b := h.DefaultBudget
	if maxNodes > 0 {
		b.MaxNodes = maxNodes
	}
	if maxMillis > 0 {
		b.MaxTime = time.Duration(maxMillis) * time.Millisecond
	}
	return b
}

// ---- Generate ----

type generateReq struct {
	Seed  int64 `json:"seed,omitempty"`
	Level int   `json:"level"`
}

type generateResp struct {
	State      *domain.PuzzleState `json:"state,omitempty"`
	Seed       int64               `json:"seed,omitempty"`
	Band       string              `json:"band,omitempty"`
	DurationMs int64               `json:"durationMs,omitempty"`
	Nodes      int                 `json:"nodes,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if req.Level < 1 {
		req.Level = 1
	}
	st, stats, err := h.UC.Generate(r.Context(), seed, req.Level)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(generateResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(generateResp{
		State:      st,
		Seed:       seed,
		Band:       domain.BandForLevel(req.Level).String(),
		DurationMs: stats.Duration.Milliseconds(),
		Nodes:      stats.Nodes,
	})
}

// ---- Solve ----

type solveReq struct {
	State          *domain.PuzzleState `json:"state"`
	MaxNodes       int                 `json:"maxNodes,omitempty"`
	MaxMillis      int64               `json:"maxMillis,omitempty"`
	WithPath       bool                `json:"withPath,omitempty"`
	AllowSinkMoves *bool               `json:"allowSinkMoves,omitempty"`
}

type solveResp struct {
	OptimalMoves int           `json:"optimalMoves"`
	Path         []domain.Move `json:"path,omitempty"`
	DurationMs   int64         `json:"durationMs,omitempty"`
	Nodes        int           `json:"nodes,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.State == nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{OptimalMoves: domain.UnknownOptimal, Error: "invalid request"})
		return
	}
	if ok, problems, _ := h.UC.Validate(r.Context(), req.State); !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{OptimalMoves: domain.UnknownOptimal, Error: "invalid state: " + problems[0]})
		return
	}
	b := h.budget(req.MaxNodes, req.MaxMillis)
	var (
		res   domain.SolverResult
		stats ports.Stats
		err   error
	)
	if req.WithPath {
		allowSinks := true
		if req.AllowSinkMoves != nil {
			allowSinks = *req.AllowSinkMoves
		}
		res, stats, err = h.UC.SolveWithPath(r.Context(), req.State, b, allowSinks)
	} else {
		res, stats, err = h.UC.Solve(r.Context(), req.State, b)
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{OptimalMoves: domain.UnknownOptimal, Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(solveResp{
		OptimalMoves: res.OptimalMoves,
		Path:         res.Path,
		DurationMs:   stats.Duration.Milliseconds(),
		Nodes:        stats.Nodes,
	})
}

// ---- Move ----

type moveReq struct {
	State  *domain.PuzzleState `json:"state"`
	Source int                 `json:"source"`
	Target int                 `json:"target"`
}

type moveResp struct {
	State  *domain.PuzzleState `json:"state,omitempty"`
	Poured int                 `json:"poured"`
	Win    bool                `json:"win"`
	Fail   bool                `json:"fail"`
	Error  string              `json:"error,omitempty"`
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.State == nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(moveResp{Error: "invalid request"})
		return
	}
	next, poured := h.UC.ApplyMove(req.State, req.Source, req.Target)
	_ = json.NewEncoder(w).Encode(moveResp{
		State:  next,
		Poured: poured,
		Win:    next.IsWin(),
		Fail:   next.IsFail(),
	})
}

// ---- Hint ----

type hintReq struct {
	State          *domain.PuzzleState `json:"state"`
	MaxNodes       int                 `json:"maxNodes,omitempty"`
	MaxMillis      int64               `json:"maxMillis,omitempty"`
	AllowSinkMoves *bool               `json:"allowSinkMoves,omitempty"`
}

type hintResp struct {
	Found bool        `json:"found"`
	Move  domain.Move `json:"move,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.State == nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(hintResp{Error: "invalid request"})
		return
	}
	allowSinks := false
	if req.AllowSinkMoves != nil {
		allowSinks = *req.AllowSinkMoves
	}
	mv, found, err := h.UC.Hint(r.Context(), req.State, h.budget(req.MaxNodes, req.MaxMillis), allowSinks)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(hintResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(hintResp{Found: found, Move: mv})
}

// ---- Persistence ----

type saveReq struct {
	Puzzle *domain.Puzzle `json:"puzzle"`
}

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Puzzle == nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(saveResp{Error: "invalid request"})
		return
	}
	if err := h.UC.Save(r.Context(), req.Puzzle); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(saveResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(saveResp{ID: req.Puzzle.ID})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	id := r.URL.Query().Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing id"})
		return
	}
	p, err := h.UC.Load(r.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	metas, err := h.UC.List(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(metas)
}
