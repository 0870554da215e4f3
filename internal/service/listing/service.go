package listing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"log/slog"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/repository"
)

// ErrFetchFailed signals a store read failure. Callers degrade to an empty
// listing; no retry is attempted.
var ErrFetchFailed = errors.New("listing: fetch failed")

// ErrUpdateFailed signals a rejected or failed write. The displayed value
// must stay unchanged; the wrapped message is safe to show the operator.
var ErrUpdateFailed = errors.New("listing: update failed")

// Service mediates reads and field updates for the two rated-listing
// collections. Constructed once and shared; it centralizes the degrade-on-
// failure policy instead of leaving it to each caller.
type Service struct {
	repo   repository.ListingRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(repo repository.ListingRepository, logger *slog.Logger) Service {
	return Service{repo: repo, logger: logger}
}

// Consultants returns the consultant snapshot, best rated first. A store
// failure yields an empty slice and ErrFetchFailed.
func (s Service) Consultants(ctx context.Context) ([]domain.Consultant, error) {
	items, err := s.repo.ListConsultants(ctx)
	if err != nil {
		s.logger.Warn("consultant fetch failed", "error", err)
		return nil, ErrFetchFailed
	}
	return items, nil
}

// HardwareItems returns the hardware snapshot in store order.
func (s Service) HardwareItems(ctx context.Context) ([]domain.HardwareItem, error) {
	items, err := s.repo.ListHardwareItems(ctx)
	if err != nil {
		s.logger.Warn("hardware fetch failed", "error", err)
		return nil, ErrFetchFailed
	}
	return items, nil
}

// UpdateConsultantField validates and writes one field on one consultant.
// Nothing is applied locally until the store confirms.
func (s Service) UpdateConsultantField(ctx context.Context, id, field string, value any) error {
	normalized, err := validateConsultantField(field, value)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateConsultantField(ctx, id, field, normalized); err != nil {
		s.logger.Warn("consultant update failed", "id", id, "field", field, "error", err)
		return updateErr(err)
	}
	s.logger.Info("consultant updated", "id", id, "field", field)
	return nil
}

// UpdateHardwareField validates and writes one field on one hardware item.
func (s Service) UpdateHardwareField(ctx context.Context, id, field string, value any) error {
	normalized, err := validateHardwareField(field, value)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateHardwareField(ctx, id, field, normalized); err != nil {
		s.logger.Warn("hardware update failed", "id", id, "field", field, "error", err)
		return updateErr(err)
	}
	s.logger.Info("hardware item updated", "id", id, "field", field)
	return nil
}

func validateConsultantField(field string, value any) (any, error) {
	switch field {
	case "rating":
		return ratingValue(value)
	case "projects_count":
		n, err := intValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: projects_count must be a whole number", ErrUpdateFailed)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: projects_count cannot be negative", ErrUpdateFailed)
		}
		return n, nil
	case "name":
		return stringValue(field, value, false)
	case "description":
		return stringValue(field, value, true)
	default:
		return nil, fmt.Errorf("%w: unknown field %q", ErrUpdateFailed, field)
	}
}

func validateHardwareField(field string, value any) (any, error) {
	switch field {
	case "rating":
		return ratingValue(value)
	case "name", "category":
		return stringValue(field, value, false)
	case "notes":
		return stringValue(field, value, true)
	default:
		return nil, fmt.Errorf("%w: unknown field %q", ErrUpdateFailed, field)
	}
}

func ratingValue(value any) (any, error) {
	f, ok := value.(float64)
	if !ok {
		if n, ok := value.(int); ok {
			f = float64(n)
		} else {
			return nil, fmt.Errorf("%w: rating must be a number", ErrUpdateFailed)
		}
	}
	if math.IsNaN(f) || !domain.ValidRating(f) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrUpdateFailed, domain.RatingMin, domain.RatingMax)
	}
	return f, nil
}

func intValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, errors.New("not integral")
		}
		return int(v), nil
	default:
		return 0, errors.New("not a number")
	}
}

func stringValue(field string, value any, nullable bool) (any, error) {
	if value == nil {
		if nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s is required", ErrUpdateFailed, field)
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be text", ErrUpdateFailed, field)
	}
	return s, nil
}

func updateErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: listing not found", ErrUpdateFailed)
	}
	if errors.Is(err, repository.ErrInvalidField) {
		return fmt.Errorf("%w: field not editable", ErrUpdateFailed)
	}
	return fmt.Errorf("%w: store rejected the change", ErrUpdateFailed)
}
