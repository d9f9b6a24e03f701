package catalog

// CategoryAll is the filter value that matches every item.
const CategoryAll = "All"

var categories = map[Kind][]string{
	KindCoffee: {"Classic", "Milk Based", "Specialty", "Cold Brew"},
	KindFood:   {"Pastries", "Sandwiches", "Rice Bowl", "Heavy Meals"},
}

// Categories returns the suggested categories for a kind. The set is open:
// the backend may return others and they are shown as-is.
func Categories(kind Kind) []string {
	return append([]string(nil), categories[kind]...)
}

// FilterByCategory keeps items whose category matches; All or "" keeps everything.
func FilterByCategory[T interface{ CategoryName() string }](items []T, category string) []T {
	if category == "" || category == CategoryAll {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if item.CategoryName() == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
