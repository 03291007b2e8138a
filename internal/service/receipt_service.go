package service

import (
	"context"
	"fmt"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/repository"
)

type ReceiptService interface {
	GenerateOrderReceipt(ctx context.Context, orderID string) ([]byte, string, error)
}

type receiptService struct {
	orderRepo repository.OrderRepository
	log       logger.Logger
}

func NewReceiptService(orderRepo repository.OrderRepository, log logger.Logger) ReceiptService {
	return &receiptService{orderRepo: orderRepo, log: log}
}

func (s *receiptService) GenerateOrderReceipt(ctx context.Context, orderID string) ([]byte, string, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.log.Errorf("Failed to get order %s for receipt: %v", orderID, err)
		return nil, "", fmt.Errorf("order %s: %w", orderID, err)
	}

	fileName := fmt.Sprintf("receipt_%s.txt", orderID)
	s.log.Infof("Generated receipt for order %s", orderID)
	return []byte(RenderReceipt(order)), fileName, nil
}

// RenderReceipt produces the plain-text order receipt used both for the
// download endpoint and for receipt mails.
func RenderReceipt(order *entity.Order) string {
	return fmt.Sprintf(
		"Order ID: %s\nBuyer: %s\nItem: %s (x%d)\nTotal: %.2f\nStatus: %s\nDate: %s\n",
		order.ID,
		order.BuyerName,
		order.ListingName,
		order.Quantity,
		order.TotalPrice,
		order.Status,
		order.Date.Format("2006-01-02"),
	)
}
