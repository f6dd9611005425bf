package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type stubSessionView struct {
	info    SessionInfo
	metrics NetMetrics
}

func (s *stubSessionView) Info() SessionInfo { return s.info }
func (s *stubSessionView) Metrics() *NetMetrics { return &s.metrics }

func newAdminFixture() (http.Handler, *stubSessionView, *Sampler) {
	view := &stubSessionView{info: SessionInfo{
		Phase:    "joined",
		Status:   "Joined",
		Identity: &Identity{PlayerID: 1, Role: RoleGuardian, RoomCode: "ABCD"},
		Tick:     42,
		Room:     2,
	}}
	view.metrics.IncFrames()
	view.metrics.IncFrames()
	sampler := NewSampler(&stubUplinkSource{}, &InputState{}, DefaultInputInterval)
	return NewAdminRouter(view, sampler), view, sampler
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminHealthz(t *testing.T) {
	h, _, _ := newAdminFixture()
	rec := serve(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAdminSession(t *testing.T) {
	h, _, _ := newAdminFixture()
	rec := serve(h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"phase": "joined",
		"status": "Joined",
		"identity": {"player_id": 1, "role": "guardian", "room_code": "ABCD"},
		"tick": 42,
		"room": 2
	}`, rec.Body.String())
}

func TestAdminMetrics(t *testing.T) {
	h, _, _ := newAdminFixture()
	rec := serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Phase   string           `json:"phase"`
		Tick    int64            `json:"tick"`
		Metrics map[string]int64 `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "joined", body.Phase)
	assert.EqualValues(t, 42, body.Tick)
	assert.EqualValues(t, 2, body.Metrics["frames_received"])
	assert.Contains(t, body.Metrics, "commands_dropped")
}

func TestAdminConfig(t *testing.T) {
	h, _, sampler := newAdminFixture()

	rec := serve(h, http.MethodGet, "/admin/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"input_ms": 50}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/admin/config", `{"input_ms": 20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20*time.Millisecond, sampler.Interval())

	rec = serve(h, http.MethodPost, "/admin/config", `{"input_ms": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 20*time.Millisecond, sampler.Interval())

	rec = serve(h, http.MethodPost, "/admin/config", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodDelete, "/admin/config", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAdminLogLevel(t *testing.T) {
	prev := LogLevel.Level()
	t.Cleanup(func() { LogLevel.SetLevel(prev) })
	h, _, _ := newAdminFixture()

	rec := serve(h, http.MethodPut, "/admin/loglevel", `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zapcore.DebugLevel, LogLevel.Level())

	rec = serve(h, http.MethodGet, "/admin/loglevel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"level":"debug"}`, rec.Body.String())
}
