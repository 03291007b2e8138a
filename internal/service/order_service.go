package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Issaqsk/farm2market/internal/adapter/email"
	"github.com/Issaqsk/farm2market/internal/adapter/nats"
	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/google/uuid"
)

const (
	natsSubjectOrderCreated       = "order.created"
	natsSubjectOrderStatusUpdated = "order.status.updated"
)

type PlaceOrderParams struct {
	ListingID  string
	BuyerName  string
	BuyerEmail string
	Quantity   int
}

// SellerStats aggregates the producer dashboard numbers: open demand, money
// already earned, and how many listings the seller currently has live.
type SellerStats struct {
	PendingOrders    int     `json:"pendingOrders"`
	CompletedOrders  int     `json:"completedOrders"`
	CompletedRevenue float64 `json:"completedRevenue"`
	ActiveListings   int     `json:"activeListings"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*entity.Order, error)
	AcceptOrder(ctx context.Context, orderID string) (*entity.Order, error)
	CompleteOrder(ctx context.Context, orderID string) (*entity.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	SellerStats(ctx context.Context, sellerID string) (*SellerStats, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	catalogRepo  repository.CatalogRepository
	msgPublisher nats.MessagePublisher
	emailSender  email.Sender
	log          logger.Logger
}

// NewOrderService wires the order flow. emailSender may be nil when SMTP is
// not configured; receipt mail is then skipped.
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	msgPublisher nats.MessagePublisher,
	emailSender email.Sender,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		msgPublisher: msgPublisher,
		emailSender:  emailSender,
		log:          log,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*entity.Order, error) {
	s.log.Infof("Placing order for listing %s by %q", params.ListingID, params.BuyerName)

	listing, err := s.catalogRepo.FindByID(ctx, params.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", params.ListingID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up listing %s: %w", params.ListingID, err)
	}

	totalPrice := listing.Price * float64(params.Quantity)
	order, err := entity.NewOrder(listing.ID, listing.Name, listing.SellerID, params.BuyerName, params.Quantity, totalPrice)
	if err != nil {
		s.log.Warnf("Invalid order for listing %s: %v", params.ListingID, err)
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	order.ID = uuid.NewString()
	order.BuyerEmail = params.BuyerEmail

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.log.Errorf("Failed to save order for listing %s: %v", params.ListingID, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectOrderCreated, order); err != nil {
		s.log.Warnf("Failed to publish order created event for %s: %v", order.ID, err)
	}

	s.sendReceipt(ctx, order)

	s.log.Infof("Order %s placed by %q, total %.2f", order.ID, params.BuyerName, order.TotalPrice)
	return order, nil
}

func (s *orderService) AcceptOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return s.transition(ctx, orderID, entity.StatusAccepted)
}

func (s *orderService) CompleteOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return s.transition(ctx, orderID, entity.StatusCompleted)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return s.transition(ctx, orderID, entity.StatusCancelled)
}

func (s *orderService) transition(ctx context.Context, orderID string, newStatus entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	if err := order.UpdateStatus(newStatus); err != nil {
		s.log.Warnf("Rejected status change for order %s: %v", orderID, err)
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status); err != nil {
		s.log.Errorf("Failed to save status %s for order %s: %v", newStatus, orderID, err)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectOrderStatusUpdated, order); err != nil {
		s.log.Warnf("Failed to publish order status updated event for %s: %v", orderID, err)
	}

	s.log.Infof("Order %s moved to %s", orderID, newStatus)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) SellerStats(ctx context.Context, sellerID string) (*SellerStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for stats: %w", err)
	}

	stats := &SellerStats{}
	for _, o := range orders {
		if o.SellerID != sellerID {
			continue
		}
		switch o.Status {
		case entity.StatusPending:
			stats.PendingOrders++
		case entity.StatusCompleted:
			stats.CompletedOrders++
			stats.CompletedRevenue += o.TotalPrice
		}
	}

	listings, err := s.catalogRepo.FindByFilter(ctx, repository.ListingFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog for stats: %w", err)
	}
	for _, l := range listings {
		if l.SellerID == sellerID {
			stats.ActiveListings++
		}
	}
	return stats, nil
}

func (s *orderService) sendReceipt(ctx context.Context, order *entity.Order) {
	if s.emailSender == nil || order.BuyerEmail == "" {
		return
	}
	subject := fmt.Sprintf("Your Farm2Market order %s", order.ID)
	body := RenderReceipt(order)
	if err := s.emailSender.Send(ctx, []string{order.BuyerEmail}, subject, body); err != nil {
		s.log.Warnf("Failed to send receipt for order %s: %v", order.ID, err)
	}
}
