package http

import (
	"encoding/json"
	"net/http"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/service"
	"github.com/go-chi/chi/v5"
)

type ListingHandler struct {
	catalog service.CatalogService
	log     logger.Logger
}

func NewListingHandler(catalog service.CatalogService, log logger.Logger) *ListingHandler {
	return &ListingHandler{catalog: catalog, log: log}
}

type createListingRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	Unit         string   `json:"unit"`
	Quantity     int      `json:"quantity"`
	HarvestDate  string   `json:"harvestDate"`
	IsOrganic    bool     `json:"isOrganic"`
	ImageURL     string   `json:"imageUrl"`
	SellerID     string   `json:"sellerId"`
	SellerName   string   `json:"sellerName"`
	Location     string   `json:"location"`
	QualityScore *float64 `json:"qualityScore,omitempty"`
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for CreateListing: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	category, err := entity.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.catalog.CreateListing(r.Context(), service.CreateListingParams{
		Name:         req.Name,
		Category:     category,
		Price:        req.Price,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		HarvestDate:  req.HarvestDate,
		IsOrganic:    req.IsOrganic,
		ImageURL:     req.ImageURL,
		SellerID:     req.SellerID,
		SellerName:   req.SellerName,
		Location:     req.Location,
		QualityScore: req.QualityScore,
	})
	if err != nil {
		h.log.Warnf("Failed to create listing: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) HandleRemoveListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sellerID := r.URL.Query().Get("sellerId")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "sellerId query parameter is required")
		return
	}

	if err := h.catalog.RemoveListing(r.Context(), id, sellerID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.catalog.GetListing(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	listings, err := h.catalog.Search(r.Context(), search, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}
