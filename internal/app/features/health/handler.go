package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is satisfied by records.Store and every kv backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Store   Pinger
	Backend string
	Log     *zap.Logger
}

func NewHandler(store Pinger, backend string, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Backend: backend, Log: logger}
}

type report struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Backend string `json:"backend,omitempty"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health: 200 {"status":"ok","store":"reachable",...}
// when the record store answers a ping, 503 with the ping error otherwise.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.Store.Ping(ctx)
	rep := report{Status: "ok", Store: "reachable", Backend: h.Backend, Latency: time.Since(start).String()}
	code := http.StatusOK
	if err != nil {
		h.Log.Error("health: store ping failed", zap.String("backend", h.Backend), zap.Error(err))
		rep.Status, rep.Store, rep.Error = "unavailable", "unreachable", err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(rep)
}
