package entity

import (
	"errors"
	"fmt"
	"time"
)

type Category string

const (
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryGrains     Category = "Grains"
	CategoryDairy      Category = "Dairy"
	CategoryOrganic    Category = "Organic"
)

// CategoryAll is the wildcard used by catalog queries, not a listing category.
const CategoryAll = "All"

var categories = map[Category]struct{}{
	CategoryVegetables: {},
	CategoryFruits:     {},
	CategoryGrains:     {},
	CategoryDairy:      {},
	CategoryOrganic:    {},
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

type Listing struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     Category  `json:"category"`
	Price        float64   `json:"price"`
	Unit         string    `json:"unit"`
	Quantity     int       `json:"quantity"`
	HarvestDate  string    `json:"harvestDate"`
	IsOrganic    bool      `json:"isOrganic"`
	ImageURL     string    `json:"imageUrl"`
	SellerID     string    `json:"sellerId"`
	SellerName   string    `json:"sellerName"`
	Location     string    `json:"location"`
	QualityScore *float64  `json:"qualityScore,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewListing(name string, category Category, price float64, unit string, quantity int, harvestDate string, isOrganic bool, imageURL, sellerID, sellerName, location string) (*Listing, error) {
	if name == "" {
		return nil, errors.New("listing name cannot be empty")
	}
	if _, ok := categories[category]; !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}
	if sellerID == "" {
		return nil, errors.New("seller ID cannot be empty")
	}
	return &Listing{
		Name:        name,
		Category:    category,
		Price:       price,
		Unit:        unit,
		Quantity:    quantity,
		HarvestDate: harvestDate,
		IsOrganic:   isOrganic,
		ImageURL:    imageURL,
		SellerID:    sellerID,
		SellerName:  sellerName,
		Location:    location,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// SetQualityScore attaches an advisory quality score, clamped to [0, 10].
func (l *Listing) SetQualityScore(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	l.QualityScore = &score
}
