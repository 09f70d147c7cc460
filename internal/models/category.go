package models

import "strings"

// categorySlugs maps storefront slugs to the item categories they cover.
var categorySlugs = map[string][]string{
	"stationary": {"Stationary", "Textbooks"},
	"furniture":  {"Dorm & Living", "Furniture"},
	"food":       {"Food", "Kitchen"},
	"clothes":    {"Apparel", "Clothes"},
}

// CategoriesForSlug returns the categories browsed under slug. An unknown
// slug is taken as a category name.
func CategoriesForSlug(slug string) []string {
	if cats, ok := categorySlugs[strings.ToLower(slug)]; ok {
		return append([]string(nil), cats...)
	}
	return []string{slug}
}
