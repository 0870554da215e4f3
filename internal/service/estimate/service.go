package estimate

import (
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/crow-lk/dream-builders-hub/internal/catalog"
	"github.com/crow-lk/dream-builders-hub/internal/config"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

// DefaultMinArea is the smallest build area the estimator will quote, in
// square feet. Smaller or non-positive inputs are clamped here, not rejected.
const DefaultMinArea = 100

// Service produces construction budget quotes from a package rate and a
// floor area. Pure calculation, no I/O.
type Service struct {
	minArea int64
	logger  *slog.Logger
}

// New constructs a Service.
func New(logger *slog.Logger, cfg config.APIConfig) Service {
	min := int64(cfg.MinBuildArea)
	if min <= 0 {
		min = DefaultMinArea
	}
	return Service{minArea: min, logger: logger}
}

// Quote is a derived estimate. It is recomputed from its inputs on every
// change and never persisted.
type Quote struct {
	PackageID      string          `json:"package_id"`
	PackageName    string          `json:"package_name"`
	RatePerSqFt    decimal.Decimal `json:"rate_per_sqft"`
	AreaSqFt       int64           `json:"area_sqft"`
	Total          decimal.Decimal `json:"total"`
	FormattedRate  string          `json:"formatted_rate"`
	FormattedTotal string          `json:"formatted_total"`
}

// MinArea reports the configured area floor.
func (s Service) MinArea() int64 {
	return s.minArea
}

// ClampArea coerces an area to the configured floor. Out-of-range input is a
// UX condition, not an error.
func (s Service) ClampArea(area int64) int64 {
	if area < s.minArea {
		return s.minArea
	}
	return area
}

// AdjustArea applies a symmetric step to the current area, clamped at the
// floor. Decrementing below the floor is a no-op.
func (s Service) AdjustArea(current, delta int64) int64 {
	return s.ClampArea(current + delta)
}

// Estimate computes rate × area exactly. The area is clamped before the
// multiplication so the total is never non-positive.
func (s Service) Estimate(pkg domain.Package, area int64) Quote {
	clamped := s.ClampArea(area)
	total := pkg.RatePerSqFt.Mul(decimal.NewFromInt(clamped))
	return Quote{
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		RatePerSqFt:    pkg.RatePerSqFt,
		AreaSqFt:       clamped,
		Total:          total,
		FormattedRate:  FormatLKR(pkg.RatePerSqFt),
		FormattedTotal: FormatLKR(total),
	}
}

// EstimateByID resolves the package from the catalog and quotes it. Returns
// catalog.ErrNotFound for unknown ids.
func (s Service) EstimateByID(packageID string, area int64) (Quote, error) {
	pkg, err := catalog.Find(packageID)
	if err != nil {
		return Quote{}, err
	}
	return s.Estimate(pkg, area), nil
}

var printer = message.NewPrinter(language.English)

// FormatLKR renders a currency amount with thousands grouping. Formatting is
// display-only; the decimal value keeps full precision.
func FormatLKR(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return printer.Sprintf("LKR %v", number.Decimal(amount.IntPart()))
	}
	f, _ := amount.Float64()
	return printer.Sprintf("LKR %v", number.Decimal(f, number.MaxFractionDigits(2)))
}
