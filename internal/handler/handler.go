package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
)

// Options configures the shared Handler.
type Options struct {
	AllowedOrigins []string
	Production     bool
	SiteName       string
}

type Handler struct {
	db   repository.DB
	opts Options
	now  func() time.Time
}

func New(db repository.DB, opts Options) *Handler {
	return &Handler{db: db, opts: opts, now: time.Now}
}

// errorResponse is the failure body shared by every endpoint.
// Error carries the underlying cause outside production only.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, cause error, production bool) {
	resp := errorResponse{Success: false, Message: message}
	if cause != nil && !production {
		resp.Error = cause.Error()
	}
	writeJSON(w, status, resp)
}

// CORS echoes the request Origin when it is in the allow list. "*" allows any origin.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(h.opts.AllowedOrigins, origin) || slices.Contains(h.opts.AllowedOrigins, "*")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NotFound is mounted on "/" and answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Success: false, Message: "Route not found"})
}

// Recover turns a panic in any handler into a 500 response.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rv := recover()
			if rv == nil {
				return
			}
			if rv == http.ErrAbortHandler {
				panic(rv)
			}
			err := fmt.Errorf("panic: %v", rv)
			slog.Error("unhandled panic",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
				"stack", string(debug.Stack()),
			)
			writeError(w, http.StatusInternalServerError, "internal error occurred", err, h.opts.Production)
		}()
		next.ServeHTTP(w, r)
	})
}
