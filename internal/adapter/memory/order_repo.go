package memory

import (
	"context"
	"sync"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/repository"
)

// orderRepository is the in-memory order book, newest-first.
type orderRepository struct {
	mu     sync.RWMutex
	orders []*entity.Order
}

func NewOrderRepository() repository.OrderRepository {
	return &orderRepository{}
}

func (r *orderRepository) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == order.ID {
			return repository.ErrAlreadyExists
		}
	}

	cp := *order
	r.orders = append([]*entity.Order{&cp}, r.orders...)
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *orderRepository) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *orderRepository) List(_ context.Context) ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		result = append(result, &cp)
	}
	return result, nil
}
