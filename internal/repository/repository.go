package repository

import (
	"context"
	"time"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
)

// ListingFilter narrows catalog queries. An empty Search matches everything;
// Category equal to entity.CategoryAll (or empty) matches every category.
type ListingFilter struct {
	Search   string
	Category string
}

// CatalogRepository owns the set of listings. Implementations keep
// newest-first ordering: Create prepends and FindByFilter preserves order.
type CatalogRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.Listing, error)
	FindByFilter(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)
}

// OrderRepository owns the set of orders, newest-first. UpdateStatus replaces
// the status field blindly; transition legality is the caller's concern.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	List(ctx context.Context) ([]*entity.Order, error)
}

// AdvisoryCache stores serialized advisory responses with a TTL. Get returns
// ErrNotFound on a miss or an expired entry.
type AdvisoryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
