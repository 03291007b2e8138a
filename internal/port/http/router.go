package http

import (
	"net/http"
	"time"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Listing  *ListingHandler
	Order    *OrderHandler
	Session  *SessionHandler
	Advisory *AdvisoryHandler
}

func NewRouter(session *service.SessionService, h Handlers) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	mux.Use(middleware.Timeout(60 * time.Second))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Post("/api/session", h.Session.HandleStartSession)
	mux.Delete("/api/session", h.Session.HandleEndSession)
	mux.Get("/api/session", h.Session.HandleGetSession)

	mux.Get("/api/listings", h.Listing.HandleSearchListings)
	mux.Get("/api/listings/{id}", h.Listing.HandleGetListing)
	mux.Get("/api/orders", h.Order.HandleListOrders)
	mux.Get("/api/orders/{id}", h.Order.HandleGetOrder)
	mux.Get("/api/orders/{id}/receipt", h.Order.HandleOrderReceipt)

	mux.Group(func(r chi.Router) {
		r.Use(RequireRole(session, entity.RoleProducer))

		r.Post("/api/listings", h.Listing.HandleCreateListing)
		r.Delete("/api/listings/{id}", h.Listing.HandleRemoveListing)
		r.Post("/api/orders/{id}/accept", h.Order.HandleAcceptOrder)
		r.Post("/api/orders/{id}/complete", h.Order.HandleCompleteOrder)
		r.Get("/api/producer/stats", h.Order.HandleSellerStats)

		r.Post("/api/advisory/price", h.Advisory.HandlePriceSuggestion)
		r.Post("/api/advisory/quality", h.Advisory.HandleQualityCheck)
		r.Get("/api/advisory/crops", h.Advisory.HandleCropRecommendations)
	})

	mux.Group(func(r chi.Router) {
		r.Use(RequireRole(session, entity.RoleBuyer))

		r.Post("/api/orders", h.Order.HandlePlaceOrder)
		r.Post("/api/orders/{id}/cancel", h.Order.HandleCancelOrder)
	})

	mux.Group(func(r chi.Router) {
		r.Use(RequireSession(session))

		r.Post("/api/advisory/chat", h.Advisory.HandleChat)
	})

	return mux
}
