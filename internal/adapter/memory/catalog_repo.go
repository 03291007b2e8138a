package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/repository"
)

// catalogRepository is the in-memory listing store. Listings are held
// newest-first; there is no durable backing by design.
type catalogRepository struct {
	mu       sync.RWMutex
	listings []*entity.Listing
}

func NewCatalogRepository() repository.CatalogRepository {
	return &catalogRepository{}
}

func (r *catalogRepository) Create(_ context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.listings {
		if l.ID == listing.ID {
			return repository.ErrAlreadyExists
		}
	}

	cp := *listing
	r.listings = append([]*entity.Listing{&cp}, r.listings...)
	return nil
}

func (r *catalogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.listings {
		if l.ID == id {
			r.listings = append(r.listings[:i], r.listings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *catalogRepository) FindByID(_ context.Context, id string) (*entity.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.listings {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *catalogRepository) FindByFilter(_ context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	result := make([]*entity.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if !matchesSearch(l, search) {
			continue
		}
		if !matchesCategory(l, filter.Category) {
			continue
		}
		cp := *l
		result = append(result, &cp)
	}
	return result, nil
}

func matchesSearch(l *entity.Listing, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), search) ||
		strings.Contains(strings.ToLower(l.SellerName), search)
}

func matchesCategory(l *entity.Listing, category string) bool {
	if category == "" || category == entity.CategoryAll {
		return true
	}
	return string(l.Category) == category
}
