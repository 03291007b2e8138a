package entity

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAccepted  OrderStatus = "Accepted"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// Order is a buyer's purchase request. ListingName, SellerID, and TotalPrice
// are denormalized copies taken at creation time; later listing edits do not
// propagate back into placed orders.
type Order struct {
	ID          string      `json:"id"`
	ListingID   string      `json:"listingId"`
	ListingName string      `json:"listingName"`
	SellerID    string      `json:"sellerId"`
	BuyerName   string      `json:"buyerName"`
	BuyerEmail  string      `json:"buyerEmail,omitempty"`
	Quantity    int         `json:"quantity"`
	TotalPrice  float64     `json:"totalPrice"`
	Status      OrderStatus `json:"status"`
	Date        time.Time   `json:"date"`
}

func NewOrder(listingID, listingName, sellerID, buyerName string, quantity int, totalPrice float64) (*Order, error) {
	if listingID == "" {
		return nil, errors.New("listing ID cannot be empty")
	}
	if sellerID == "" {
		return nil, errors.New("seller ID cannot be empty")
	}
	if buyerName == "" {
		return nil, errors.New("buyer name cannot be empty")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if totalPrice < 0 {
		return nil, errors.New("total price cannot be negative")
	}
	return &Order{
		ListingID:   listingID,
		ListingName: listingName,
		SellerID:    sellerID,
		BuyerName:   buyerName,
		Quantity:    quantity,
		TotalPrice:  totalPrice,
		Status:      StatusPending,
		Date:        time.Now().UTC(),
	}, nil
}

// UpdateStatus moves the order along its lifecycle. Completed and Cancelled
// are terminal; any transition out of them fails.
func (o *Order) UpdateStatus(newStatus OrderStatus) error {
	allowed, ok := orderTransitions[o.Status]
	if !ok {
		return fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, o.Status)
	}
	for _, s := range allowed {
		if s == newStatus {
			o.Status = newStatus
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
}

func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending
}
