package estimate

import (
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/crow-lk/dream-builders-hub/internal/catalog"
	"github.com/crow-lk/dream-builders-hub/internal/config"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

func newService(t *testing.T) Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, config.APIConfig{MinBuildArea: 100})
}

func TestEstimateExactMultiplication(t *testing.T) {
	svc := newService(t)
	pkg := domain.Package{ID: "budget-home-2", Name: "Budget Home 2", RatePerSqFt: decimal.NewFromInt(12000)}

	quote := svc.Estimate(pkg, 1000)
	if !quote.Total.Equal(decimal.NewFromInt(12_000_000)) {
		t.Fatalf("expected total 12000000, got %s", quote.Total)
	}
	if quote.AreaSqFt != 1000 {
		t.Fatalf("expected area 1000, got %d", quote.AreaSqFt)
	}
}

func TestEstimateClampsNonPositiveArea(t *testing.T) {
	svc := newService(t)
	pkg := domain.Package{ID: "vip", RatePerSqFt: decimal.NewFromInt(18000)}

	for _, area := range []int64{0, -50} {
		quote := svc.Estimate(pkg, area)
		if quote.AreaSqFt != 100 {
			t.Errorf("area %d: expected clamp to 100, got %d", area, quote.AreaSqFt)
		}
		if !quote.Total.Equal(decimal.NewFromInt(1_800_000)) {
			t.Errorf("area %d: expected total 1800000, got %s", area, quote.Total)
		}
		if quote.Total.Sign() <= 0 {
			t.Errorf("area %d: total must stay positive", area)
		}
	}
}

func TestAdjustAreaStepsAndFloor(t *testing.T) {
	svc := newService(t)

	if got := svc.AdjustArea(1000, 10); got != 1010 {
		t.Fatalf("expected 1010, got %d", got)
	}
	if got := svc.AdjustArea(1000, -100); got != 900 {
		t.Fatalf("expected 900, got %d", got)
	}
	// Decrementing at the floor is a no-op.
	if got := svc.AdjustArea(100, -10); got != 100 {
		t.Fatalf("expected floor 100, got %d", got)
	}
}

func TestEstimateByID(t *testing.T) {
	svc := newService(t)

	quote, err := svc.EstimateByID("vvip", 2000)
	if err != nil {
		t.Fatalf("EstimateByID returned error: %v", err)
	}
	if !quote.Total.Equal(decimal.NewFromInt(70_000_000)) {
		t.Fatalf("expected total 70000000, got %s", quote.Total)
	}

	if _, err := svc.EstimateByID("nonexistent", 2000); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestFormatLKRGroupsThousands(t *testing.T) {
	cases := map[string]string{
		"12000":    "LKR 12,000",
		"12000000": "LKR 12,000,000",
		"950":      "LKR 950",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		if err != nil {
			t.Fatalf("parse %s: %v", in, err)
		}
		if got := FormatLKR(d); got != want {
			t.Errorf("FormatLKR(%s) = %q, want %q", in, got, want)
		}
	}
}
