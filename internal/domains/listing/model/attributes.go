package model

import (
	"time"
)

// Attributes holds the category-specific part of a listing. The set of
// implementations is closed: one variant per category family.
type Attributes interface {
	appliesTo(c Category) bool
}

type PoultryAttributes struct {
	Breed        string `json:"breed,omitempty"`
	AgeRange     string `json:"age,omitempty"`
	HealthStatus string `json:"health_status,omitempty"`
}

func (PoultryAttributes) appliesTo(c Category) bool { return c == CategoryPoultry }

type EggAttributes struct {
	EggType           string     `json:"egg_type,omitempty"`
	FeedType          string     `json:"feed_type,omitempty"`
	LaidDate          *time.Time `json:"laid_date,omitempty"`
	QuantityAvailable string     `json:"quantity_available,omitempty"`
	FarmPractices     string     `json:"farm_practices,omitempty"`
}

func (EggAttributes) appliesTo(c Category) bool { return c == CategoryEggs }

// HousingAttributes describes coops and cages.
type HousingAttributes struct {
	Size      string `json:"size,omitempty"`
	Material  string `json:"material,omitempty"`
	Condition string `json:"condition,omitempty"`
}

func (HousingAttributes) appliesTo(c Category) bool { return c.IsHousing() }

// AttributesFitCategory reports whether attrs may be stored on a listing of
// category c. Nil attributes fit every category.
func AttributesFitCategory(attrs Attributes, c Category) bool {
	return attrs == nil || attrs.appliesTo(c)
}
