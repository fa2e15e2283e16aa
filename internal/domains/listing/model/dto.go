package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const laidDateLayout = "2006-01-02"

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateListingRequest is flat on the wire; only the fields of the chosen
// category are kept.
type CreateListingRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	Images      []string        `json:"images"`

	// poultry
	Breed        string `json:"breed"`
	Age          string `json:"age"`
	HealthStatus string `json:"health_status"`

	// coop / cage
	Size      string `json:"size"`
	Material  string `json:"material"`
	Condition string `json:"condition"`

	// eggs
	EggType           string `json:"egg_type"`
	LaidDate          string `json:"laid_date"`
	FeedType          string `json:"feed_type"`
	QuantityAvailable string `json:"quantity_available"`
	FarmPractices     string `json:"farm_practices"`
}

func (r CreateListingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Category, validation.Required, validation.By(knownCategory)),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Images, validation.Length(0, 10)),
		validation.Field(&r.LaidDate, validation.Date(laidDateLayout)),
	)
}

func knownCategory(value interface{}) error {
	s, _ := value.(string)
	if _, ok := ParseCategory(s); !ok {
		return errors.New("must be one of poultry, eggs, coop, cage")
	}
	return nil
}

func nonNegativePrice(value interface{}) error {
	if p, ok := value.(decimal.Decimal); ok && p.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

// ToListing builds a new active listing owned by sellerID. Call Validate first.
func (r CreateListingRequest) ToListing(sellerID uuid.UUID, now time.Time) *Listing {
	category, _ := ParseCategory(r.Category)

	return &Listing{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Category:    category,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Price:       r.Price,
		Location:    strings.TrimSpace(r.Location),
		Images:      r.Images,
		Attributes:  r.attributesFor(category),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r CreateListingRequest) attributesFor(c Category) Attributes {
	switch {
	case c == CategoryPoultry:
		return PoultryAttributes{Breed: r.Breed, AgeRange: r.Age, HealthStatus: r.HealthStatus}
	case c == CategoryEggs:
		eggs := EggAttributes{
			EggType:           r.EggType,
			FeedType:          r.FeedType,
			QuantityAvailable: r.QuantityAvailable,
			FarmPractices:     r.FarmPractices,
		}
		if laid, err := time.Parse(laidDateLayout, r.LaidDate); err == nil {
			eggs.LaidDate = &laid
		}
		return eggs
	case c.IsHousing():
		return HousingAttributes{Size: r.Size, Material: r.Material, Condition: r.Condition}
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type ListingResponse struct {
	ID          uuid.UUID          `json:"id"`
	SellerID    uuid.UUID          `json:"seller_id"`
	Category    Category           `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Location    string             `json:"location"`
	Images      []string           `json:"images"`
	Poultry     *PoultryAttributes `json:"poultry,omitempty"`
	Eggs        *EggAttributes     `json:"eggs,omitempty"`
	Housing     *HousingAttributes `json:"housing,omitempty"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (l *Listing) ToResponse() ListingResponse {
	resp := ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Category:    l.Category,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Images:      l.Images,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}

	if a, ok := l.Poultry(); ok {
		resp.Poultry = &a
	}
	if a, ok := l.Eggs(); ok {
		resp.Eggs = &a
	}
	if a, ok := l.Housing(); ok {
		resp.Housing = &a
	}
	return resp
}

// AdminStats summarises the catalogue for the admin dashboard.
type AdminStats struct {
	ActiveByCategory []ActiveCount `json:"active_by_category"`
	TotalActive      int           `json:"total_active"`
}
