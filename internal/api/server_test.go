package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type manualScheduler struct {
	mu sync.Mutex
	fs []func()
}

type stopTimer struct{}

func (stopTimer) Stop() bool { return true }

func (m *manualScheduler) AfterFunc(_ time.Duration, f func()) session.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fs = append(m.fs, f)
	return stopTimer{}
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	fs := m.fs
	m.fs = nil
	m.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

type testServer struct {
	h     http.Handler
	sched *manualScheduler
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	sched := &manualScheduler{}
	e, err := academy.New(context.Background(), academy.Options{KV: store.NewMemoryKV(), Scheduler: sched})
	require.NoError(t, err)
	s := NewServer(e, Config{CORSOrigins: []string{"http://localhost:5173"}}, nil)
	return testServer{h: s.Handler(), sched: sched}
}

func (ts testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w, _ := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestListUnits(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodGet, "/api/units", nil)
	require.Equal(t, http.StatusOK, w.Code)

	units := body["units"].([]any)
	require.Len(t, units, 5)
	first := units[0].(map[string]any)
	nodes := first["nodes"].([]any)
	require.Len(t, nodes, 3)
	assert.Equal(t, false, nodes[0].(map[string]any)["locked"])
	assert.Equal(t, true, nodes[1].(map[string]any)["locked"])
	assert.Equal(t, "u1_n1", body["next"])
}

func TestQuizFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodPost, "/api/session", map[string]string{"node_id": "u1_n1"})
	require.Equal(t, http.StatusCreated, w.Code)
	sess := body["session"].(map[string]any)
	assert.Equal(t, "presenting", sess["phase"])

	w, body = ts.do(t, http.MethodPost, "/api/session/answer", map[string]string{"option_id": "b"})
	require.Equal(t, http.StatusOK, w.Code)
	sess = body["session"].(map[string]any)
	assert.Equal(t, "correct", sess["status"])
	events := body["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "Correct Answer!", events[0].(map[string]any)["message"])
	assert.EqualValues(t, 1500, body["advance_after_ms"])

	w, body = ts.do(t, http.MethodPost, "/api/session/answer", map[string]string{"option_id": "b"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_answered", errorCode(body))

	ts.sched.fire()

	w, body = ts.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", body["session"].(map[string]any)["phase"])
	assert.NotEmpty(t, body["events"], "completion events are delivered on the next read")

	_, body = ts.do(t, http.MethodGet, "/api/progress", nil)
	prog := body["progress"].(map[string]any)
	assert.Equal(t, []any{"u1_n1"}, prog["completed_nodes"])
	assert.EqualValues(t, 25, prog["points"])
	assert.EqualValues(t, 100, prog["next_level_at"])

	w, _ = ts.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, body = ts.do(t, http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_session", errorCode(body))
}

func TestTextLessonAcknowledge(t *testing.T) {
	ts := newTestServer(t)
	for _, id := range []string{"u1_n1", "u1_n2", "u1_n3"} {
		ts.do(t, http.MethodPost, "/api/session", map[string]string{"node_id": id})
		ts.do(t, http.MethodPost, "/api/session/answer", map[string]bool{"correct": true})
		ts.sched.fire()
	}

	w, body := ts.do(t, http.MethodPost, "/api/session", map[string]string{"node_id": "u2_n1"})
	require.Equal(t, http.StatusCreated, w.Code, body)
	assert.Equal(t, "showing_text", body["session"].(map[string]any)["phase"])

	w, body = ts.do(t, http.MethodPost, "/api/session/answer", map[string]bool{"correct": true})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_presenting", errorCode(body))

	w, body = ts.do(t, http.MethodPost, "/api/session/acknowledge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", body["session"].(map[string]any)["phase"])
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"locked node", http.MethodPost, "/api/session", map[string]string{"node_id": "u2_n1"}, http.StatusForbidden, "locked"},
		{"unknown node", http.MethodPost, "/api/session", map[string]string{"node_id": "u9_n9"}, http.StatusNotFound, "unknown_node"},
		{"missing node id", http.MethodPost, "/api/session", map[string]string{}, http.StatusBadRequest, "bad_request"},
		{"answer without session", http.MethodPost, "/api/session/answer", map[string]bool{"correct": true}, http.StatusConflict, "no_session"},
		{"no session to read", http.MethodGet, "/api/session", nil, http.StatusConflict, "no_session"},
		{"unknown scan step", http.MethodPost, "/api/scans/teleport", nil, http.StatusBadRequest, "unknown_step"},
		{"unknown mission", http.MethodPost, "/api/missions/m9/claim", nil, http.StatusNotFound, "unknown_mission"},
		{"unconfirmed reset", http.MethodPost, "/api/progress/reset", map[string]bool{"confirm": false}, http.StatusBadRequest, "confirmation_required"},
		{"bad limit", http.MethodGet, "/api/events?limit=x", nil, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(body))
		})
	}
}

func TestUnknownOption(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/session", map[string]string{"node_id": "u1_n1"})
	w, body := ts.do(t, http.MethodPost, "/api/session/answer", map[string]string{"option_id": "z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown_option", errorCode(body))
}

func TestScansMissionsLeaderboardEvents(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodPost, "/api/scans/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["result"].(map[string]any)["total_scans"])

	w, body = ts.do(t, http.MethodPost, "/api/missions/m1/claim", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["mission"].(map[string]any)["completed"])
	w, body = ts.do(t, http.MethodPost, "/api/missions/m1/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_claimed", errorCode(body))

	_, body = ts.do(t, http.MethodGet, "/api/missions", nil)
	assert.Len(t, body["missions"], 3)

	_, body = ts.do(t, http.MethodGet, "/api/leaderboard", nil)
	rows := body["leaderboard"].([]any)
	require.Len(t, rows, 5)
	// 30 (submit) + 50 (first scan badge) + 10 (mission)
	you := rows[3].(map[string]any)
	assert.Equal(t, "You", you["name"])
	assert.EqualValues(t, 90, you["xp"])

	_, body = ts.do(t, http.MethodGet, "/api/events?kind=badge", nil)
	evs := body["events"].([]any)
	require.Len(t, evs, 1)
	assert.Equal(t, "first_scan", evs[0].(map[string]any)["badge_id"])
}

func TestCalibrationOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodGet, "/api/calibration", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["questions"], 3)
	assert.Nil(t, body["profile"])

	w, body = ts.do(t, http.MethodPost, "/api/calibration", map[string]string{"soil_fertility": "low"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "calibration_incomplete", errorCode(body))

	w, body = ts.do(t, http.MethodPost, "/api/calibration", map[string]string{
		"soil_fertility": "low", "pest_attacks": "often", "irrigation_cost": "okay",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_answer", errorCode(body))

	answers := map[string]string{"soil_fertility": "low", "pest_attacks": "rare", "irrigation_cost": "okay"}
	w, body = ts.do(t, http.MethodPost, "/api/calibration", answers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["result"].(map[string]any)["awarded"])
	assert.EqualValues(t, 50, body["progress"].(map[string]any)["points"])
	events := body["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "Calibration Complete!", events[0].(map[string]any)["message"])

	_, body = ts.do(t, http.MethodGet, "/api/calibration", nil)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, []any{"unit_1", "unit_2"}, profile["focus_units"])

	_, body = ts.do(t, http.MethodPost, "/api/calibration", answers)
	assert.Equal(t, false, body["result"].(map[string]any)["awarded"])
	assert.EqualValues(t, 50, body["progress"].(map[string]any)["points"])
}

func TestResetKeepsPoints(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/session", map[string]string{"node_id": "u1_n1"})
	ts.do(t, http.MethodPost, "/api/session/answer", map[string]string{"option_id": "b"})
	ts.sched.fire()

	w, body := ts.do(t, http.MethodPost, "/api/progress/reset", map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, w.Code)
	prog := body["progress"].(map[string]any)
	assert.Empty(t, prog["completed_nodes"])
	assert.EqualValues(t, 25, prog["points"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/units", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	ts.h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
