package handler

import "net/http"

// Routes builds the API mux wrapped in the middleware chain.
// rl limits POST /api/contact; a nil rl disables limiting. metrics may be nil.
func Routes(h *Handler, contact *ContactHandler, rl *RateLimiter, metrics http.Handler) http.Handler {
	submit := http.Handler(http.HandlerFunc(contact.Submit))
	if rl != nil {
		submit = rl.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/contact", submit)
	mux.HandleFunc("GET /api/messages", contact.List)
	mux.HandleFunc("PUT /api/messages/{id}/read", contact.MarkRead)
	mux.HandleFunc("DELETE /api/messages/{id}", contact.Delete)
	mux.HandleFunc("GET /api/stats", contact.Stats)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	mux.HandleFunc("/", h.NotFound)

	return RequestLogger(h.Recover(SecurityHeaders(h.CORS(mux))))
}
