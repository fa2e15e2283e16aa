package model

import (
	"strings"
)

// Category is the closed set of things sold on the marketplace.
type Category string

const (
	CategoryPoultry Category = "poultry"
	CategoryEggs    Category = "eggs"
	CategoryCoop    Category = "coop"
	CategoryCage    Category = "cage"
)

var categories = []Category{CategoryPoultry, CategoryEggs, CategoryCoop, CategoryCage}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts any casing and surrounding spaces.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// IsHousing is true for coops and cages, which share attributes.
func (c Category) IsHousing() bool {
	return c == CategoryCoop || c == CategoryCage
}

func (c Category) String() string {
	return string(c)
}
