package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

// Sort keys accepted by SortHardware.
const (
	SortByRating = "rating"
	SortByName   = "name"
)

// FilterByCategory returns the items whose category equals the argument
// exactly. A nil category means no filter. The input is never mutated.
func FilterByCategory(items []domain.HardwareItem, category *string) []domain.HardwareItem {
	if category == nil {
		return append([]domain.HardwareItem(nil), items...)
	}
	out := make([]domain.HardwareItem, 0, len(items))
	for _, item := range items {
		if item.Category == *category {
			out = append(out, item)
		}
	}
	return out
}

// SortHardware orders a copy of items by the given key: "rating" is
// descending with ties keeping fetch order, "name" is ascending with
// locale-aware comparison. Unknown keys fall back to rating.
func SortHardware(items []domain.HardwareItem, key string) []domain.HardwareItem {
	out := append([]domain.HardwareItem(nil), items...)
	switch key {
	case SortByName:
		// Collators keep internal buffers, so build one per call rather
		// than sharing across handler goroutines.
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Name, out[j].Name) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	}
	return out
}

// Categories returns the distinct hardware categories in first-seen order.
func Categories(items []domain.HardwareItem) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}
