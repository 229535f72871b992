package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	domain "message-api/internal/domain/message"
	"message-api/internal/middleware"
	"message-api/internal/request"
	"message-api/internal/response"
	"message-api/internal/service"
)

// MessageHandler wires the message HTTP endpoints to the message service.
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler constructs a MessageHandler with its dependencies.
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Create handles POST /api/v1/messages. The sender is the authenticated
// principal; the body supplies only the content.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal == nil {
		response.RespondError(w, http.StatusUnauthorized, "missing authenticated principal")
		return
	}

	var req request.CreateMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := request.Validate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	msg, err := h.svc.Create(r.Context(), principal.Username, req.Content)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, response.FromDomainMessage(msg))
}

// GetByID handles GET /api/v1/messages/{id}.
func (h *MessageHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, response.FromDomainMessage(msg))
}

// Query handles GET /api/v1/messages with either a sender filter or a
// createdAt date range.
func (h *MessageHandler) Query(w http.ResponseWriter, r *http.Request) {
	params, err := request.ParseQueryMessages(r.URL.Query())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	page, err := h.svc.QueryMessages(r.Context(), service.QueryParams{
		Sender:    params.Sender,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Limit:     int32(params.Limit),
		Cursor:    params.Cursor,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, response.FromDomainPage(page))
}

// UpdateStatus handles PATCH /api/v1/messages/{id}/status.
func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateMessageStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := request.Validate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		response.RespondError(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}

	msg, err := h.svc.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, response.FromDomainMessage(msg))
}

// respondDomainError maps the stable error kinds onto HTTP statuses. The
// reason text is safe to surface; underlying causes stay server-side.
func respondDomainError(w http.ResponseWriter, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		response.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var status int
	switch domainErr.Code {
	case domain.CodeInvalidMessage, domain.CodeInvalidQuery, domain.CodeMalformedCursor:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeConflict, domain.CodeInvalidTransition:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	response.RespondError(w, status, domainErr.Reason)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "invalid field " + verrs[0].Field()
	}
	return "invalid request parameters"
}
