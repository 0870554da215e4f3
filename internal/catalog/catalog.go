// Package catalog holds the fixed construction package tiers. The data is
// compiled in: tiers change with a release, never at runtime.
package catalog

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

// ErrNotFound indicates no package matches the requested id. Callers treat
// this as a redirect-to-listing condition, not a server fault.
var ErrNotFound = errors.New("catalog: package not found")

// packages is ordered budget to luxury; that order is the display order.
var packages = []domain.Package{
	{
		ID:          "budget-home-1",
		Name:        "Budget Home 1",
		RatePerSqFt: decimal.NewFromInt(10000),
		Badge:       "Essential",
		Tagline:     "Start your homeownership journey affordably",
		Description: "Perfect for budget-conscious first-time home builders",
		Specs: domain.PackageSpecs{
			Bedrooms:    domain.RoomRange{Min: 2, Max: 3},
			Bathrooms:   domain.RoomRange{Min: 1, Max: 2},
			Parking:     1,
			Floors:      1,
			LivingRooms: 1,
			Kitchen:     "Open plan",
		},
		Materials: domain.PackageMaterials{
			Flooring:   "Vinyl / Standard tiles",
			Roofing:    "Asbestos sheet / Standard clay tiles",
			Walls:      "Plastered cement block",
			Windows:    "Aluminium sliding windows",
			Doors:      "Hollow core flush doors",
			Electrical: "Basic wiring, standard switches",
			Plumbing:   "Standard PVC piping",
		},
		Features: []string{
			"Standard finishing",
			"Essential fittings",
			"Basic electrical & plumbing",
			"Standard flooring",
			"Basic paint finish",
		},
		Highlights: []string{
			"Affordable starter home",
			"Quick construction timeline",
			"Low maintenance costs",
			"Energy efficient design",
		},
	},
	{
		ID:          "budget-home-2",
		Name:        "Budget Home 2",
		RatePerSqFt: decimal.NewFromInt(12000),
		Badge:       "Popular",
		Tagline:     "More comfort without breaking the budget",
		Description: "Best value for upgraded budget builds",
		Popular:     true,
		Specs: domain.PackageSpecs{
			Bedrooms:    domain.RoomRange{Min: 3, Max: 4},
			Bathrooms:   domain.RoomRange{Min: 2, Max: 3},
			Parking:     1,
			Floors:      1,
			LivingRooms: 1,
			Kitchen:     "Separate kitchen",
			DiningRoom:  true,
		},
		Materials: domain.PackageMaterials{
			Flooring:   "Ceramic tiles (600×600)",
			Roofing:    "Concrete roof tiles",
			Walls:      "Plastered & textured finish",
			Windows:    "Aluminium casement windows",
			Doors:      "Solid core timber doors",
			Electrical: "MCB panel, quality switches",
			Plumbing:   "UPVC pipes, quality fittings",
		},
		Features: []string{
			"Improved finishing",
			"Better quality fittings",
			"Enhanced electrical",
			"Ceramic tile flooring",
			"Quality paint finish",
		},
		Highlights: []string{
			"Best value for money",
			"Separate dining room",
			"Quality tile flooring",
			"Improved security fittings",
		},
	},
	{
		ID:          "vip",
		Name:        "VIP",
		RatePerSqFt: decimal.NewFromInt(18000),
		Badge:       "Premium",
		Tagline:     "Elevated living for growing families",
		Description: "Premium living with superior materials",
		Specs: domain.PackageSpecs{
			Bedrooms:    domain.RoomRange{Min: 3, Max: 5},
			Bathrooms:   domain.RoomRange{Min: 2, Max: 4},
			Parking:     2,
			Floors:      2,
			LivingRooms: 2,
			Kitchen:     "Modern fitted kitchen",
			DiningRoom:  true,
			Store:       true,
		},
		Materials: domain.PackageMaterials{
			Flooring:   "Porcelain tiles (600×1200)",
			Roofing:    "Concrete flat / pitched roof",
			Walls:      "Smooth skim coat finish",
			Windows:    "uPVC double-glazed windows",
			Doors:      "Teak solid wood doors",
			Electrical: "Smart wiring, premium switches",
			Plumbing:   "Chrome fittings, quality sanitary ware",
		},
		Features: []string{
			"Premium materials",
			"Design support included",
			"Premium electrical & plumbing",
			"Porcelain tile flooring",
			"Premium paint & finishes",
			"Custom woodwork",
		},
		Highlights: []string{
			"Two-storey design option",
			"2 living rooms for family privacy",
			"Storage room included",
			"Designer kitchen & bathrooms",
		},
	},
	{
		ID:          "vvip",
		Name:        "VVIP",
		RatePerSqFt: decimal.NewFromInt(35000),
		Badge:       "Luxury",
		Tagline:     "Where luxury meets impeccable craftsmanship",
		Description: "Ultimate luxury for discerning clients",
		Specs: domain.PackageSpecs{
			Bedrooms:    domain.RoomRange{Min: 4, Max: 7},
			Bathrooms:   domain.RoomRange{Min: 3, Max: 6},
			Parking:     3,
			Floors:      3,
			LivingRooms: 3,
			Kitchen:     "Chef's island kitchen",
			DiningRoom:  true,
			Store:       true,
			Study:       true,
		},
		Materials: domain.PackageMaterials{
			Flooring:   "Imported marble / premium porcelain",
			Roofing:    "Architectural concrete + green roof option",
			Walls:      "Designer textures & feature walls",
			Windows:    "German uPVC / aluminium composite",
			Doors:      "Custom-designed solid wood & glass",
			Electrical: "Full smart home automation",
			Plumbing:   "Imported sanitary ware, rain showers",
		},
		Features: []string{
			"Luxury finishing throughout",
			"Custom design selections",
			"High-end electrical systems",
			"Imported tile options",
			"Designer paint & textures",
			"Premium woodwork",
			"Smart home ready",
		},
		Highlights: []string{
			"Smart home automation ready",
			"Private study / home office",
			"3-car parking with coverage",
			"Imported luxury finishes",
		},
	},
}

// List returns the full catalog in display order. The returned slice and its
// feature lists are copies; callers cannot mutate the catalog.
func List() []domain.Package {
	out := make([]domain.Package, len(packages))
	for i, p := range packages {
		out[i] = clone(p)
	}
	return out
}

// Find returns the package with the given id or ErrNotFound.
func Find(id string) (domain.Package, error) {
	for _, p := range packages {
		if p.ID == id {
			return clone(p), nil
		}
	}
	return domain.Package{}, ErrNotFound
}

func clone(p domain.Package) domain.Package {
	p.Features = slices.Clone(p.Features)
	p.Highlights = slices.Clone(p.Highlights)
	return p
}
