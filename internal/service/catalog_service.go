package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Issaqsk/farm2market/internal/adapter/nats"
	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/google/uuid"
)

const (
	natsSubjectListingCreated = "listing.created"
	natsSubjectListingRemoved = "listing.removed"
)

var ErrForbidden = errors.New("action forbidden")

type CreateListingParams struct {
	Name         string
	Category     entity.Category
	Price        float64
	Unit         string
	Quantity     int
	HarvestDate  string
	IsOrganic    bool
	ImageURL     string
	SellerID     string
	SellerName   string
	Location     string
	QualityScore *float64
}

type CatalogService interface {
	CreateListing(ctx context.Context, params CreateListingParams) (*entity.Listing, error)
	RemoveListing(ctx context.Context, id, sellerID string) error
	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	Search(ctx context.Context, search, category string) ([]*entity.Listing, error)
}

type catalogService struct {
	catalogRepo  repository.CatalogRepository
	msgPublisher nats.MessagePublisher
	log          logger.Logger
}

func NewCatalogService(catalogRepo repository.CatalogRepository, msgPublisher nats.MessagePublisher, log logger.Logger) CatalogService {
	return &catalogService{
		catalogRepo:  catalogRepo,
		msgPublisher: msgPublisher,
		log:          log,
	}
}

func (s *catalogService) CreateListing(ctx context.Context, params CreateListingParams) (*entity.Listing, error) {
	s.log.Infof("Creating listing %q for seller %s", params.Name, params.SellerID)

	listing, err := entity.NewListing(
		params.Name, params.Category, params.Price, params.Unit, params.Quantity,
		params.HarvestDate, params.IsOrganic, params.ImageURL,
		params.SellerID, params.SellerName, params.Location,
	)
	if err != nil {
		s.log.Warnf("Invalid listing data from seller %s: %v", params.SellerID, err)
		return nil, fmt.Errorf("invalid listing: %w", err)
	}
	listing.ID = uuid.NewString()
	if params.QualityScore != nil {
		listing.SetQualityScore(*params.QualityScore)
	}

	if err := s.catalogRepo.Create(ctx, listing); err != nil {
		s.log.Errorf("Failed to save listing %s: %v", listing.ID, err)
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectListingCreated, listing); err != nil {
		s.log.Warnf("Failed to publish listing created event for %s: %v", listing.ID, err)
	}

	s.log.Infof("Listing %s created by seller %s", listing.ID, params.SellerID)
	return listing, nil
}

// RemoveListing deletes a listing on behalf of its seller. Removing an ID
// that no longer exists is a no-op, not an error.
func (s *catalogService) RemoveListing(ctx context.Context, id, sellerID string) error {
	listing, err := s.catalogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("Remove of absent listing %s ignored", id)
			return nil
		}
		return fmt.Errorf("failed to look up listing %s: %w", id, err)
	}

	if listing.SellerID != sellerID {
		s.log.Warnf("Seller %s attempted to remove listing %s owned by %s", sellerID, id, listing.SellerID)
		return ErrForbidden
	}

	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.log.Errorf("Failed to delete listing %s: %v", id, err)
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if err := s.msgPublisher.Publish(ctx, natsSubjectListingRemoved, listing); err != nil {
		s.log.Warnf("Failed to publish listing removed event for %s: %v", id, err)
	}

	s.log.Infof("Listing %s removed by seller %s", id, sellerID)
	return nil
}

func (s *catalogService) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := s.catalogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return listing, nil
}

// Search is a pure projection over the catalog: case-insensitive substring
// match on name or seller name, plus an exact category filter ("All" matches
// everything). Ordering follows the store (newest first).
func (s *catalogService) Search(ctx context.Context, search, category string) ([]*entity.Listing, error) {
	listings, err := s.catalogRepo.FindByFilter(ctx, repository.ListingFilter{
		Search:   search,
		Category: category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	return listings, nil
}
