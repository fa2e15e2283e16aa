package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is an item offered by a seller. Listings are never hard-deleted;
// IsActive=false hides them from search and feeds.
type Listing struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Category    Category
	Title       string
	Description string
	Price       decimal.Decimal
	Location    string
	Images      []string
	Attributes  Attributes
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Poultry returns the poultry attributes when the listing is poultry.
func (l *Listing) Poultry() (PoultryAttributes, bool) {
	a, ok := l.Attributes.(PoultryAttributes)
	if !ok || !a.appliesTo(l.Category) {
		return PoultryAttributes{}, false
	}
	return a, true
}

// Eggs returns the egg attributes when the listing is eggs.
func (l *Listing) Eggs() (EggAttributes, bool) {
	a, ok := l.Attributes.(EggAttributes)
	if !ok || !a.appliesTo(l.Category) {
		return EggAttributes{}, false
	}
	return a, true
}

// Housing returns coop/cage attributes when the listing is a coop or cage.
func (l *Listing) Housing() (HousingAttributes, bool) {
	a, ok := l.Attributes.(HousingAttributes)
	if !ok || !a.appliesTo(l.Category) {
		return HousingAttributes{}, false
	}
	return a, true
}

// LaidDate is set only for egg listings that recorded a collection date.
func (l *Listing) LaidDate() *time.Time {
	if eggs, ok := l.Eggs(); ok {
		return eggs.LaidDate
	}
	return nil
}

// Clone returns a copy that shares no mutable state with l.
func (l *Listing) Clone() *Listing {
	c := *l
	if l.Images != nil {
		c.Images = append([]string(nil), l.Images...)
	}
	if eggs, ok := l.Attributes.(EggAttributes); ok && eggs.LaidDate != nil {
		d := *eggs.LaidDate
		eggs.LaidDate = &d
		c.Attributes = eggs
	}
	return &c
}

// ActiveCount is the number of active listings in one category.
type ActiveCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
