package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/bottlesort/internal/domain"
	"svw.info/bottlesort/internal/generator"
	"svw.info/bottlesort/internal/hint"
	"svw.info/bottlesort/internal/infrastructure/storage"
	"svw.info/bottlesort/internal/solver"
	"svw.info/bottlesort/internal/usecase"
	"svw.info/bottlesort/internal/validator"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	sv := solver.NewBFSSolver()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewService(
		sv,
		generator.New(sv, logger),
		hint.New(sv),
		validator.New(),
		storage.NewFS(t.TempDir()),
	)
	mux := http.NewServeMux()
	New(uc).Register(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func mergeState() *domain.PuzzleState {
	return &domain.PuzzleState{Bottles: []domain.Bottle{
		{Capacity: 3, Units: []domain.ColorID{1, 1}},
		{Capacity: 3, Units: []domain.ColorID{1}},
	}}
}

func TestGenerateEndpoint(t *testing.T) {
	mux := testMux(t)
	rec := postJSON(t, mux, "/api/generate", generateReq{Seed: 42, Level: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp generateResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.State)
	assert.Equal(t, int64(42), resp.Seed)
	assert.Equal(t, "easy", resp.Band)
	assert.Greater(t, resp.State.OptimalMoves, 0)
}

func TestGenerateRejectsGet(t *testing.T) {
	mux := testMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSolveEndpoint(t *testing.T) {
	mux := testMux(t)
	rec := postJSON(t, mux, "/api/solve", solveReq{State: mergeState(), WithPath: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp solveResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.OptimalMoves)
	assert.Len(t, resp.Path, 1)
}

func TestSolveRejectsMalformedState(t *testing.T) {
	mux := testMux(t)
	bad := &domain.PuzzleState{Bottles: []domain.Bottle{{Capacity: -1}, {Capacity: 2}}}
	rec := postJSON(t, mux, "/api/solve", solveReq{State: bad})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp solveResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.UnknownOptimal, resp.OptimalMoves)
	assert.Contains(t, resp.Error, "invalid state")
}

func TestMoveEndpoint(t *testing.T) {
	mux := testMux(t)
	rec := postJSON(t, mux, "/api/move", moveReq{State: mergeState(), Source: 1, Target: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp moveResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Poured)
	assert.True(t, resp.Win)
	assert.False(t, resp.Fail)
}

func TestMoveNoOp(t *testing.T) {
	mux := testMux(t)
	// Pouring from an empty bottle moves nothing and returns the same state.
	s := &domain.PuzzleState{Bottles: []domain.Bottle{
		domain.NewBottle(2),
		{Capacity: 2, Units: []domain.ColorID{1}},
	}}
	rec := postJSON(t, mux, "/api/move", moveReq{State: s, Source: 0, Target: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp moveResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Poured)
}

func TestHintEndpoint(t *testing.T) {
	mux := testMux(t)
	rec := postJSON(t, mux, "/api/hint", hintReq{State: mergeState()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp hintResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Found)
	next, n := domain.TryApplyMove(mergeState(), resp.Move.Source, resp.Move.Target)
	assert.Equal(t, resp.Move.Amount, n)
	assert.True(t, next.IsWin())
}

func TestSaveLoadListEndpoints(t *testing.T) {
	mux := testMux(t)
	p := &domain.Puzzle{
		Name:       "kept",
		Band:       domain.Easy,
		LevelIndex: 3,
		Seed:       9,
		State:      *mergeState(),
	}
	rec := postJSON(t, mux, "/api/save", saveReq{Puzzle: p})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved saveResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/load?id="+saved.ID, nil)
	loadRec := httptest.NewRecorder()
	mux.ServeHTTP(loadRec, req)
	require.Equal(t, http.StatusOK, loadRec.Code)

	var got domain.Puzzle
	require.NoError(t, json.Unmarshal(loadRec.Body.Bytes(), &got))
	assert.Equal(t, "kept", got.Name)
	assert.Equal(t, int64(9), got.Seed)

	listRec := httptest.NewRecorder()
	mux.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/api/list", nil))
	require.Equal(t, http.StatusOK, listRec.Code)
	var metas []domain.PuzzleMeta
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &metas))
	assert.Len(t, metas, 1)
}

func TestLoadMissingID(t *testing.T) {
	mux := testMux(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/load", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/load?id=ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
