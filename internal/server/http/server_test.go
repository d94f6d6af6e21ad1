package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"loft/internal/board"
	"loft/internal/classify"
	"loft/internal/content"
	"loft/internal/events"
	"loft/internal/llm"
	"loft/internal/llmerrors"
	"loft/internal/orchestrator"
	"loft/internal/task"
)

type testEnv struct {
	server   *Server
	mock     *llm.MockClient
	registry *task.Registry
	sinks    *content.Sinks
	board    *board.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mock := llm.NewMockClient()
	registry := task.NewRegistry()
	sinks := content.NewSinks()
	boardStore := board.NewStore()
	hub := events.NewHub()
	t.Cleanup(hub.Close)

	orch := orchestrator.New(orchestrator.Deps{
		Client:     mock,
		Classifier: classify.New(mock),
		Registry:   registry,
		Sinks:      sinks,
		Hub:        hub,
		Registerer: prometheus.NewRegistry(),
	})

	cfg := DefaultServerConfig()
	server := NewServer(cfg, orch, registry, sinks, boardStore, hub)
	return &testEnv{server: server, mock: mock, registry: registry, sinks: sinks, board: boardStore}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestChatRecognizedKind(t *testing.T) {
	env := newTestEnv(t)
	env.mock.Queue(llm.PurposeClassification, "roadmap")
	env.mock.Queue(llm.PurposeGeneration, "# Timeline")

	resp := env.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "Generate a project timeline"})
	require.Equal(t, http.StatusOK, resp.Code)

	var reply orchestrator.Reply
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reply))
	require.Equal(t, task.KindRoadmap, reply.Kind)
	require.Equal(t, "# Timeline", reply.Full)
	require.NotEmpty(t, reply.TaskID)

	got, present := env.sinks.Roadmap.Content()
	require.True(t, present)
	require.Equal(t, "# Timeline", got)
}

func TestChatEmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestChatInvalidBody(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestChatCompletionErrorCarriesCategory(t *testing.T) {
	env := newTestEnv(t)
	env.mock.Queue(llm.PurposeClassification, "email")
	env.mock.QueueError(llm.PurposeGeneration, llmerrors.ServerError("overloaded", nil))

	resp := env.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "write an email"})
	require.Equal(t, http.StatusBadGateway, resp.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "server_error", body.Category)
}

func TestListTasksFiltersByKind(t *testing.T) {
	env := newTestEnv(t)
	env.registry.Create(task.KindDocument)
	env.registry.Create(task.KindRoadmap)

	resp := env.do(t, http.MethodGet, "/api/tasks?kind=roadmap", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Tasks []task.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Tasks, 1)
	require.Equal(t, task.KindRoadmap, body.Tasks[0].Kind)

	resp = env.do(t, http.MethodGet, "/api/tasks", nil)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Tasks, 2)
}

func TestContentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.sinks.Email.SetContent("Dear colleague,")

	resp := env.do(t, http.MethodGet, "/api/content/email", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Content  string `json:"content"`
		Present  bool   `json:"present"`
		EditMode bool   `json:"edit_mode"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Present)
	require.Equal(t, "Dear colleague,", body.Content)
	require.False(t, body.EditMode)

	resp = env.do(t, http.MethodPut, "/api/content/email/edit-mode", map[string]bool{"edit_mode": true})
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, env.sinks.Email.EditMode())

	resp = env.do(t, http.MethodGet, "/api/content/unknown", nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBoardCRUD(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/board", map[string]string{"title": "Ship v1", "description": "cut release"})
	require.Equal(t, http.StatusCreated, resp.Code)

	var card board.Card
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &card))
	require.Equal(t, board.StatusTodo, card.Status)

	resp = env.do(t, http.MethodPatch, "/api/board/"+card.ID, map[string]string{"status": "in-progress"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &card))
	require.Equal(t, board.StatusInProgress, card.Status)

	resp = env.do(t, http.MethodGet, "/api/board", nil)
	var listBody struct {
		Cards []board.Card `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listBody))
	require.Len(t, listBody.Cards, 1)

	resp = env.do(t, http.MethodDelete, "/api/board/"+card.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = env.do(t, http.MethodDelete, "/api/board/"+card.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBoardValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/board", map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	card, err := env.board.Add("x", "", board.StatusTodo)
	require.NoError(t, err)
	resp = env.do(t, http.MethodPatch, "/api/board/"+card.ID, map[string]string{"status": "limbo"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
