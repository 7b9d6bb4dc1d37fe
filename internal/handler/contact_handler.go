package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
	"github.com/NdeyeSokhna722/loumshoes/internal/service"
)

// maxBodyBytes caps POST /api/contact request bodies.
const maxBodyBytes = 100 << 10

// ContactHandler handles contact form submission and message administration.
type ContactHandler struct {
	contactService service.ContactService
	production     bool
}

// NewContactHandler creates a ContactHandler with the given service.
// Error details are echoed to clients unless production is set.
func NewContactHandler(contactService service.ContactService, production bool) *ContactHandler {
	return &ContactHandler{contactService: contactService, production: production}
}

// submitRequest is the JSON body for POST /api/contact. Newsletter is raw so
// that both booleans and checkbox strings ("on") are accepted.
type submitRequest struct {
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Subject    string          `json:"subject"`
	Message    string          `json:"message"`
	Newsletter json.RawMessage `json:"newsletter"`
}

type submitResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *model.Receipt `json:"data"`
}

type listResponse struct {
	Success  bool                    `json:"success"`
	Count    int                     `json:"count"`
	Messages []*model.ContactMessage `json:"messages"`
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   *model.Stats `json:"stats"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact. Accepts JSON or URL-encoded form bodies.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	in, err := decodeSubmission(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "request body too large", nil, h.production)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err, h.production)
		return
	}

	receipt, err := h.contactService.Submit(r.Context(), in)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error(), nil, h.production)
			return
		}
		slog.Error("contact submission failed", "error", err)
		writeError(w, http.StatusInternalServerError,
			"An error occurred while sending your message. Please try again later.", err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Message sent successfully! We will get back to you as soon as possible.",
		Data:    receipt,
	})
}

func decodeSubmission(r *http.Request) (model.SubmitInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return model.SubmitInput{}, err
		}
		return model.SubmitInput{
			FirstName:  r.PostFormValue("firstName"),
			LastName:   r.PostFormValue("lastName"),
			Email:      r.PostFormValue("email"),
			Phone:      r.PostFormValue("phone"),
			Subject:    r.PostFormValue("subject"),
			Message:    r.PostFormValue("message"),
			Newsletter: truthy(r.PostFormValue("newsletter")),
		}, nil
	default:
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return model.SubmitInput{}, err
		}
		newsletter, err := parseNewsletter(req.Newsletter)
		if err != nil {
			return model.SubmitInput{}, err
		}
		return model.SubmitInput{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			Subject:    req.Subject,
			Message:    req.Message,
			Newsletter: newsletter,
		}, nil
	}
}

func parseNewsletter(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return truthy(s), nil
	}
	return false, fmt.Errorf("newsletter: unsupported value %s", raw)
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// List handles GET /api/messages.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.List(r.Context())
	if err != nil {
		slog.Error("list messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error retrieving messages", err, h.production)
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(messages), Messages: messages})
}

// MarkRead handles PUT /api/messages/{id}/read.
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found", nil, h.production)
		return
	}

	if err := h.contactService.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found", nil, h.production)
			return
		}
		slog.Error("mark read failed", "message_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating message", err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Message marked as read"})
}

// Delete handles DELETE /api/messages/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found", nil, h.production)
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Message not found", nil, h.production)
			return
		}
		slog.Error("delete failed", "message_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting message", err, h.production)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Message deleted successfully"})
}

// Stats handles GET /api/stats.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		slog.Error("compute stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error computing statistics", err, h.production)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

// pathID parses {id}. Anything but a positive integer addresses no record.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
