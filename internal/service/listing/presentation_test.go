package listing

import (
	"reflect"
	"testing"

	"github.com/crow-lk/dream-builders-hub/internal/domain"
)

func names(items []domain.HardwareItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestSortByRatingStable(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "B", Rating: 5},
		{Name: "A", Rating: 5},
		{Name: "C", Rating: 3},
	}
	sorted := SortHardware(items, SortByRating)
	// Ties keep fetch order: B appeared before A.
	if got, want := names(sorted), []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSortByName(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "B", Rating: 5},
		{Name: "A", Rating: 5},
		{Name: "C", Rating: 3},
	}
	sorted := SortHardware(items, SortByName)
	if got, want := names(sorted), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "Z", Rating: 1},
		{Name: "A", Rating: 5},
	}
	_ = SortHardware(items, SortByName)
	if items[0].Name != "Z" {
		t.Fatal("SortHardware mutated its input")
	}
}

func TestFilterByCategoryIdempotent(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "Tokyo Super", Category: "Cement"},
		{Name: "Lanwa QT", Category: "Steel"},
		{Name: "INSEE Sanstha", Category: "Cement"},
	}
	cement := "Cement"
	once := FilterByCategory(items, &cement)
	twice := FilterByCategory(once, &cement)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", once, twice)
	}
	if len(once) != 2 {
		t.Fatalf("expected 2 cement items, got %d", len(once))
	}
}

func TestFilterNilPassthrough(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "Tokyo Super", Category: "Cement"},
		{Name: "Lanwa QT", Category: "Steel"},
	}
	all := FilterByCategory(items, nil)
	if !reflect.DeepEqual(all, items) {
		t.Fatalf("nil filter changed the list: %v", all)
	}
}

func TestFilterIsCaseSensitive(t *testing.T) {
	items := []domain.HardwareItem{{Name: "Tokyo Super", Category: "Cement"}}
	lower := "cement"
	if got := FilterByCategory(items, &lower); len(got) != 0 {
		t.Fatalf("expected exact-match filter, got %d items", len(got))
	}
}

func TestFilterThenSortOrderIndependent(t *testing.T) {
	items := []domain.HardwareItem{
		{Name: "B", Category: "Cement", Rating: 4},
		{Name: "A", Category: "Steel", Rating: 5},
		{Name: "C", Category: "Cement", Rating: 5},
	}
	cement := "Cement"
	a := SortHardware(FilterByCategory(items, &cement), SortByRating)
	b := FilterByCategory(SortHardware(items, SortByRating), &cement)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("filter/sort order mattered: %v vs %v", a, b)
	}
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	items := []domain.HardwareItem{
		{Category: "Cement"},
		{Category: "Steel"},
		{Category: "Cement"},
		{Category: "Tiles"},
	}
	got := Categories(items)
	if want := []string{"Cement", "Steel", "Tiles"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
