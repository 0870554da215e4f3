package domain

import "github.com/shopspring/decimal"

// RoomRange bounds a room count for a build package.
type RoomRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PackageSpecs describes the layout a build package targets.
type PackageSpecs struct {
	Bedrooms    RoomRange `json:"bedrooms"`
	Bathrooms   RoomRange `json:"bathrooms"`
	Parking     int       `json:"parking"`
	Floors      int       `json:"floors"`
	LivingRooms int       `json:"living_rooms"`
	Kitchen     string    `json:"kitchen"`
	DiningRoom  bool      `json:"dining_room"`
	Store       bool      `json:"store"`
	Study       bool      `json:"study"`
}

// PackageMaterials lists the material grade per building concern.
type PackageMaterials struct {
	Flooring   string `json:"flooring"`
	Roofing    string `json:"roofing"`
	Walls      string `json:"walls"`
	Windows    string `json:"windows"`
	Doors      string `json:"doors"`
	Electrical string `json:"electrical"`
	Plumbing   string `json:"plumbing"`
}

// Package is a fixed construction pricing tier. Instances are defined once in
// the catalog and never mutated at runtime.
type Package struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	RatePerSqFt decimal.Decimal  `json:"rate_per_sqft"`
	Badge       string           `json:"badge"`
	Tagline     string           `json:"tagline"`
	Description string           `json:"description"`
	Specs       PackageSpecs     `json:"specs"`
	Materials   PackageMaterials `json:"materials"`
	Features    []string         `json:"features"`
	Highlights  []string         `json:"highlights"`
	Popular     bool             `json:"popular"`
}
