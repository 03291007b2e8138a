package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/service"
)

type AdvisoryHandler struct {
	advisory *service.AdvisoryService
	session  *service.SessionService
	log      logger.Logger
}

func NewAdvisoryHandler(advisory *service.AdvisoryService, session *service.SessionService, log logger.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{advisory: advisory, session: session, log: log}
}

type priceSuggestionRequest struct {
	ProductName string `json:"productName"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

func (h *AdvisoryHandler) HandlePriceSuggestion(w http.ResponseWriter, r *http.Request) {
	var req priceSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "productName is required")
		return
	}

	suggestion := h.advisory.SuggestPrice(r.Context(), req.ProductName, req.Location, req.Category)
	writeJSON(w, http.StatusOK, suggestion)
}

type qualityCheckRequest struct {
	// Image is base64-encoded JPEG bytes, matching what the upload form sends.
	Image string `json:"image"`
}

func (h *AdvisoryHandler) HandleQualityCheck(w http.ResponseWriter, r *http.Request) {
	var req qualityCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image must be base64 encoded")
		return
	}

	report := h.advisory.CheckQuality(r.Context(), image)
	writeJSON(w, http.StatusOK, report)
}

func (h *AdvisoryHandler) HandleCropRecommendations(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "location query parameter is required")
		return
	}

	recommendations := h.advisory.RecommendCrops(r.Context(), location)
	writeJSON(w, http.StatusOK, recommendations)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatReplyResponse struct {
	Reply string `json:"reply"`
}

// HandleChat serves the assistant available to any active session; the reply
// is contextualized with the caller's current role.
func (h *AdvisoryHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	role, active := h.session.Current()
	if !active {
		writeError(w, http.StatusForbidden, "requires an active session")
		return
	}

	reply := h.advisory.Chat(r.Context(), string(role), req.Message)
	writeJSON(w, http.StatusOK, chatReplyResponse{Reply: reply})
}
