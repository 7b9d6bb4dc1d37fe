package handler

import (
	"log/slog"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC().Truncate(time.Millisecond)
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		msg := err.Error()
		if h.opts.Production {
			msg = "store unavailable"
		}
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unhealthy",
			Message:   msg,
			Timestamp: now,
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   h.opts.SiteName + " server online",
		Timestamp: now,
	})
}
