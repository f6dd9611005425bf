package client

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionView 调试接口需要的只读会话视图
type SessionView interface {
	Info() SessionInfo
	Metrics() *NetMetrics
}

// IntervalSetter 可热更新周期的采样器
type IntervalSetter interface {
	Interval() time.Duration
	SetInterval(d time.Duration)
}

type adminConfig struct {
	InputMs *int `json:"input_ms,omitempty"`
}

// NewAdminRouter 本地调试 HTTP：
// GET /healthz, GET /metrics, GET /session,
// GET|POST /admin/config（采样周期）, GET|PUT /admin/loglevel
func NewAdminRouter(sess SessionView, sampler IntervalSetter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		info := sess.Info()
		writeJSON(w, http.StatusOK, map[string]any{
			"phase":   info.Phase,
			"tick":    info.Tick,
			"metrics": sess.Metrics().Snapshot(),
		})
	})
	r.Get("/session", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, sess.Info())
	})
	r.Get("/admin/config", func(w http.ResponseWriter, _ *http.Request) {
		ms := int(sampler.Interval() / time.Millisecond)
		writeJSON(w, http.StatusOK, adminConfig{InputMs: &ms})
	})
	r.Post("/admin/config", func(w http.ResponseWriter, r *http.Request) {
		var body adminConfig
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.InputMs != nil {
			if *body.InputMs <= 0 {
				http.Error(w, "input_ms must be positive", http.StatusBadRequest)
				return
			}
			sampler.SetInterval(time.Duration(*body.InputMs) * time.Millisecond)
		}
		Log.Infof("config updated: input=%s", sampler.Interval())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/admin/loglevel", LogLevel)
	r.Method(http.MethodPut, "/admin/loglevel", LogLevel)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
