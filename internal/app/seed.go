package app

import (
	"context"
	"fmt"

	"github.com/Issaqsk/farm2market/internal/domain/entity"
	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/google/uuid"
)

// seedDemoData loads a small browsable dataset so the API is usable out of
// the box. Writes go straight to the repositories; seeding should not emit
// events or receipts.
func seedDemoData(ctx context.Context, catalogRepo repository.CatalogRepository, orderRepo repository.OrderRepository) error {
	type seedListing struct {
		name        string
		category    entity.Category
		price       float64
		unit        string
		quantity    int
		harvestDate string
		isOrganic   bool
		imageURL    string
		sellerID    string
		sellerName  string
		location    string
		quality     float64
	}

	listings := []seedListing{
		{"Fresh Organic Tomatoes", entity.CategoryVegetables, 45, "kg", 120, "2023-10-25", true,
			"https://images.unsplash.com/photo-1518977676601-b53f02bad67b", "f1", "Rajesh Kumar", "Nashik, Maharashtra", 9.2},
		{"Alphonso Mangoes", entity.CategoryFruits, 600, "dozen", 50, "2023-10-20", true,
			"https://images.unsplash.com/photo-1553279768-865429fa0078", "f1", "Rajesh Kumar", "Ratnagiri, Maharashtra", 9.8},
		{"Pure Buffalo Ghee", entity.CategoryDairy, 850, "kg", 15, "2023-10-22", false,
			"https://images.unsplash.com/photo-1589927986089-35812388d1f4", "f2", "Lakshmi Devi", "Ambala, Punjab", 8.5},
		{"Basmati Rice", entity.CategoryGrains, 120, "kg", 500, "2023-10-15", true,
			"https://images.unsplash.com/photo-1586201375761-83865001e31c", "f1", "Rajesh Kumar", "Karnal, Haryana", 9.5},
	}

	seeded := make([]*entity.Listing, 0, len(listings))
	for i := len(listings) - 1; i >= 0; i-- {
		sl := listings[i]
		listing, err := entity.NewListing(sl.name, sl.category, sl.price, sl.unit, sl.quantity,
			sl.harvestDate, sl.isOrganic, sl.imageURL, sl.sellerID, sl.sellerName, sl.location)
		if err != nil {
			return fmt.Errorf("seed listing %q: %w", sl.name, err)
		}
		listing.ID = uuid.NewString()
		listing.SetQualityScore(sl.quality)
		if err := catalogRepo.Create(ctx, listing); err != nil {
			return fmt.Errorf("seed listing %q: %w", sl.name, err)
		}
		seeded = append(seeded, listing)
	}

	// seeded is reversed relative to listings; index from the end.
	tomatoes := seeded[len(seeded)-1]
	ghee := seeded[len(seeded)-3]

	accepted, err := entity.NewOrder(tomatoes.ID, tomatoes.Name, tomatoes.SellerID, "Green Grocers Retail", 50, tomatoes.Price*50)
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	accepted.ID = uuid.NewString()
	if err := accepted.UpdateStatus(entity.StatusAccepted); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	if err := orderRepo.Create(ctx, accepted); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	pending, err := entity.NewOrder(ghee.ID, ghee.Name, ghee.SellerID, "Urban Pantry", 2, ghee.Price*2)
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	pending.ID = uuid.NewString()
	if err := orderRepo.Create(ctx, pending); err != nil {
		return fmt.Errorf("seed order: %w", err)
	}

	return nil
}
