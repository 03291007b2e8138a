package http

import (
	"encoding/json"
	"net/http"

	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders   service.OrderService
	receipts service.ReceiptService
	log      logger.Logger
}

func NewOrderHandler(orders service.OrderService, receipts service.ReceiptService, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, receipts: receipts, log: log}
}

type placeOrderRequest struct {
	ListingID  string `json:"listingId"`
	BuyerName  string `json:"buyerName"`
	BuyerEmail string `json:"buyerEmail,omitempty"`
	Quantity   int    `json:"quantity"`
}

func (h *OrderHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for PlaceOrder: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), service.PlaceOrderParams{
		ListingID:  req.ListingID,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) HandleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.AcceptOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) HandleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CompleteOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) HandleOrderReceipt(w http.ResponseWriter, r *http.Request) {
	content, fileName, err := h.receipts.GenerateOrderReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *OrderHandler) HandleSellerStats(w http.ResponseWriter, r *http.Request) {
	sellerID := r.URL.Query().Get("sellerId")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "sellerId query parameter is required")
		return
	}

	stats, err := h.orders.SellerStats(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
