package postgres

import (
	"context"
	"fmt"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/repository"
)

// Editable columns per collection. Updates naming anything else are rejected
// before reaching the store.
var (
	consultantColumns = map[string]string{
		"name":           "name",
		"description":    "description",
		"rating":         "rating",
		"projects_count": "projects_count",
	}
	hardwareColumns = map[string]string{
		"name":     "name",
		"category": "category",
		"rating":   "rating",
		"notes":    "notes",
	}
)

// ListConsultants returns the full consultant snapshot, best rated first.
func (r *Repository) ListConsultants(ctx context.Context) ([]domain.Consultant, error) {
	const query = `SELECT id, name, description, rating, projects_count
		FROM consultants ORDER BY rating DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Consultant
	for rows.Next() {
		var c domain.Consultant
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Rating, &c.ProjectsCount); err != nil {
			return nil, err
		}
		c.Rating = domain.ClampRating(c.Rating)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListHardwareItems returns the full hardware snapshot in store order.
func (r *Repository) ListHardwareItems(ctx context.Context) ([]domain.HardwareItem, error) {
	const query = `SELECT id, name, category, rating, notes FROM hardware_items`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HardwareItem
	for rows.Next() {
		var h domain.HardwareItem
		if err := rows.Scan(&h.ID, &h.Name, &h.Category, &h.Rating, &h.Notes); err != nil {
			return nil, err
		}
		h.Rating = domain.ClampRating(h.Rating)
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateConsultantField writes one field on one consultant row.
func (r *Repository) UpdateConsultantField(ctx context.Context, id, field string, value any) error {
	return r.updateField(ctx, "consultants", consultantColumns, id, field, value)
}

// UpdateHardwareField writes one field on one hardware row.
func (r *Repository) UpdateHardwareField(ctx context.Context, id, field string, value any) error {
	return r.updateField(ctx, "hardware_items", hardwareColumns, id, field, value)
}

func (r *Repository) updateField(ctx context.Context, table string, columns map[string]string, id, field string, value any) error {
	column, ok := columns[field]
	if !ok {
		return fmt.Errorf("%w: %s", repository.ErrInvalidField, field)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, table, column)
	tag, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
