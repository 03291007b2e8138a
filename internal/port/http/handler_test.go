package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Issaqsk/farm2market/internal/adapter/advisory"
	"github.com/Issaqsk/farm2market/internal/adapter/memory"
	natsadapter "github.com/Issaqsk/farm2market/internal/adapter/nats"
	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingAdvisor always errors, driving the fallback policy.
type failingAdvisor struct{}

func (failingAdvisor) SuggestPrice(context.Context, string, string, string) (*advisory.PriceSuggestion, error) {
	return nil, errors.New("advisory unavailable")
}

func (failingAdvisor) CheckQuality(context.Context, []byte) (*advisory.QualityReport, error) {
	return nil, errors.New("advisory unavailable")
}

func (failingAdvisor) RecommendCrops(context.Context, string) ([]advisory.CropRecommendation, error) {
	return nil, errors.New("advisory unavailable")
}

func (failingAdvisor) Chat(context.Context, string, string) (string, error) {
	return "", errors.New("advisory unavailable")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.NewNop()
	publisher := natsadapter.NewNoopPublisher()
	catalogRepo := memory.NewCatalogRepository()
	orderRepo := memory.NewOrderRepository()

	session := service.NewSessionService(log)
	catalog := service.NewCatalogService(catalogRepo, publisher, log)
	orders := service.NewOrderService(orderRepo, catalogRepo, publisher, nil, log)
	receipts := service.NewReceiptService(orderRepo, log)
	advisorySvc := service.NewAdvisoryService(failingAdvisor{}, memory.NewAdvisoryCache(), time.Minute, log)

	router := NewRouter(session, Handlers{
		Listing:  NewListingHandler(catalog, log),
		Order:    NewOrderHandler(orders, receipts, log),
		Session:  NewSessionHandler(session, log),
		Advisory: NewAdvisoryHandler(advisorySvc, session, log),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, respBody
}

func startSession(t *testing.T, srv *httptest.Server, role entity.Role) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/session", map[string]string{"role": string(role)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func endSession(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/session", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestProducerToBuyerScenario(t *testing.T) {
	srv := newTestServer(t)

	// producer logs in and lists tomatoes
	startSession(t, srv, entity.RoleProducer)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", map[string]interface{}{
		"name":        "Tomatoes",
		"category":    "Vegetables",
		"price":       45,
		"unit":        "kg",
		"quantity":    120,
		"harvestDate": "2023-10-25",
		"sellerId":    "f1",
		"sellerName":  "Rajesh Kumar",
		"location":    "Nashik, Maharashtra",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var listing entity.Listing
	require.NoError(t, json.Unmarshal(body, &listing))
	require.NotEmpty(t, listing.ID)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/listings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listings []entity.Listing
	require.NoError(t, json.Unmarshal(body, &listings))
	require.Len(t, listings, 1)

	// switch roles: sessions cannot overlap
	endSession(t, srv)
	startSession(t, srv, entity.RoleBuyer)

	// buyer finds the listing by substring, case-insensitively
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/listings?search=tomato&category=All", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, listing.ID, listings[0].ID)

	// and places an order
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]interface{}{
		"listingId": listing.ID,
		"buyerName": "Urban Pantry",
		"quantity":  1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var order entity.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, 45.0, order.TotalPrice)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orderList []entity.Order
	require.NoError(t, json.Unmarshal(body, &orderList))
	require.Len(t, orderList, 1)

	// back to the producer, who fulfils the order
	endSession(t, srv)
	startSession(t, srv, entity.RoleProducer)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/orders/%s/accept", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/orders/%s/complete", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// repeating a terminal transition conflicts
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/orders/%s/accept", srv.URL, order.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/producer/stats?sellerId=f1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats service.SellerStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 0, stats.PendingOrders)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.Equal(t, 45.0, stats.CompletedRevenue)
	assert.Equal(t, 1, stats.ActiveListings)
}

func TestRoleGating(t *testing.T) {
	srv := newTestServer(t)

	// no session at all
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/listings", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]interface{}{"listingId": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// buyers cannot use producer endpoints and vice versa
	startSession(t, srv, entity.RoleBuyer)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/listings", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/advisory/crops?location=Nashik", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// a second session cannot start over an active one
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/session", map[string]string{"role": "PRODUCER"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	endSession(t, srv)
	startSession(t, srv, entity.RoleProducer)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]interface{}{"listingId": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBuyerCancelsPendingOrder(t *testing.T) {
	srv := newTestServer(t)

	startSession(t, srv, entity.RoleProducer)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", map[string]interface{}{
		"name": "Ghee", "category": "Dairy", "price": 850, "unit": "kg", "quantity": 15,
		"sellerId": "f2", "sellerName": "Lakshmi Devi", "location": "Ambala",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var listing entity.Listing
	require.NoError(t, json.Unmarshal(body, &listing))

	endSession(t, srv)
	startSession(t, srv, entity.RoleBuyer)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]interface{}{
		"listingId": listing.ID, "buyerName": "Urban Pantry", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order entity.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, 1700.0, order.TotalPrice)

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/orders/%s/cancel", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, entity.StatusCancelled, order.Status)

	// cancelled is terminal
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/orders/%s/cancel", srv.URL, order.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdvisoryFallbacksOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	startSession(t, srv, entity.RoleProducer)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/advisory/price", map[string]string{
		"productName": "Tomatoes", "location": "Nashik", "category": "Vegetables",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var price advisory.PriceSuggestion
	require.NoError(t, json.Unmarshal(body, &price))
	assert.Equal(t, 0.0, price.SuggestedPrice)
	assert.Equal(t, "Could not fetch AI insights at this moment.", price.Explanation)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/advisory/quality", map[string]string{
		"image": "/9j/4AAQ", // any valid base64
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var quality advisory.QualityReport
	require.NoError(t, json.Unmarshal(body, &quality))
	assert.Equal(t, 0.0, quality.Score)
	assert.Equal(t, "Error analyzing image.", quality.Feedback)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/advisory/crops?location=Nashik", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var crops []advisory.CropRecommendation
	require.NoError(t, json.Unmarshal(body, &crops))
	assert.Empty(t, crops)
}

func TestAdvisoryChat(t *testing.T) {
	srv := newTestServer(t)
	chatBody := map[string]string{"message": "When should I plant onions?"}

	// chat needs some active session
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/advisory/chat", chatBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// but either role may use it
	startSession(t, srv, entity.RoleBuyer)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/advisory/chat", chatBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, "Error connecting to AI.", reply.Reply)

	endSession(t, srv)
	startSession(t, srv, entity.RoleProducer)
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/advisory/chat", chatBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/advisory/chat", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSessionReportsStart(t *testing.T) {
	srv := newTestServer(t)

	var sess struct {
		Role      string     `json:"role"`
		Active    bool       `json:"active"`
		StartedAt *time.Time `json:"startedAt"`
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.False(t, sess.Active)
	assert.Nil(t, sess.StartedAt)

	startSession(t, srv, entity.RoleProducer)
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.True(t, sess.Active)
	assert.Equal(t, "PRODUCER", sess.Role)
	require.NotNil(t, sess.StartedAt)
	assert.False(t, sess.StartedAt.IsZero())
}

func TestOrderReceiptDownload(t *testing.T) {
	srv := newTestServer(t)

	startSession(t, srv, entity.RoleProducer)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", map[string]interface{}{
		"name": "Basmati Rice", "category": "Grains", "price": 120, "unit": "kg", "quantity": 500,
		"sellerId": "f1", "sellerName": "Rajesh Kumar", "location": "Karnal",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var listing entity.Listing
	require.NoError(t, json.Unmarshal(body, &listing))

	endSession(t, srv)
	startSession(t, srv, entity.RoleBuyer)
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/orders", map[string]interface{}{
		"listingId": listing.ID, "buyerName": "Green Grocers", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order entity.Order
	require.NoError(t, json.Unmarshal(body, &order))

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/orders/%s/receipt", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(body), "Basmati Rice")
	assert.Contains(t, string(body), "1200.00")
}

func TestUnknownListingAndOrder(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/listings/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/orders/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
