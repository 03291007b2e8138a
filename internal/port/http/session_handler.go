package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/service"
)

type SessionHandler struct {
	session *service.SessionService
	log     logger.Logger
}

func NewSessionHandler(session *service.SessionService, log logger.Logger) *SessionHandler {
	return &SessionHandler{session: session, log: log}
}

type startSessionRequest struct {
	Role string `json:"role"`
}

type sessionResponse struct {
	Role      string     `json:"role,omitempty"`
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

func (h *SessionHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	role, err := entity.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.session.Start(role); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Role: string(role), Active: true})
}

func (h *SessionHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	h.session.End()
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	role, active := h.session.Current()
	resp := sessionResponse{Role: string(role), Active: active}
	if startedAt, ok := h.session.StartedAt(); ok {
		resp.StartedAt = &startedAt
	}
	writeJSON(w, http.StatusOK, resp)
}
