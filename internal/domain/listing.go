package domain

// Rating bounds enforced at the repository boundary and by the store schema.
const (
	RatingMin = 0
	RatingMax = 5
)

// Consultant is a rated listing for an architect, engineer or consultant.
// Canonical state lives in the store; instances here are snapshots.
type Consultant struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Rating        float64 `json:"rating"`
	ProjectsCount int     `json:"projects_count"`
}

// HardwareItem is a rated listing for a recommended hardware product.
type HardwareItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	Notes    *string `json:"notes"`
}

// ClampRating coerces a rating into the valid [0,5] band. Store rows are
// trusted only after passing through this on read.
func ClampRating(r float64) float64 {
	if r < RatingMin {
		return RatingMin
	}
	if r > RatingMax {
		return RatingMax
	}
	return r
}

// ValidRating reports whether a rating may be written to the store.
func ValidRating(r float64) bool {
	return r >= RatingMin && r <= RatingMax
}
