package catalog

import "strings"

// CategoryOther is the sentinel for anything the cascades can't place.
const CategoryOther = "other"

type bucket struct {
	tag      string
	keywords []string
}

// First match wins in both cascades, so order matters.
var categoryBuckets = []bucket{
	{"coffee", []string{"coffee"}},
	{"tea", []string{"tea"}},
	{"food", []string{"food"}},
	{"beverages", []string{"beverage"}},
	{"signature-drinks", []string{"signature"}},
	{"retail", []string{"retail"}},
	{"wholesale", []string{"wholesale"}},
	{"merchandise", []string{"merch", "apparel"}},
	{"add-ons", []string{"add-on", "syrup", "powder", "modification"}},
	{"services", []string{"service", "education", "event"}},
}

var nameBuckets = []bucket{
	{"coffee", []string{"coffee", "brew", "americano", "espresso"}},
	{"coffee-drinks", []string{"latte", "cappuccino", "macchiato"}},
	{"tea", []string{"tea", "chai", "matcha"}},
	{"pastry", []string{"croissant", "danish", "muffin", "bagel"}},
	{"food", []string{"sandwich", "wrap", "salad"}},
	{"beverages", []string{"juice", "smoothie"}},
}

// InferCategory maps an item to a canonical category tag. When the catalog
// supplied a category name it is matched against the keyword buckets, falling
// back to a canonicalized form of the raw name; otherwise the item's display
// name is matched against a second cascade. Pure and deterministic: replayed
// events must classify identically.
func InferCategory(itemName, catalogCategory string) string {
	if category := strings.TrimSpace(catalogCategory); category != "" {
		lower := strings.ToLower(category)
		for _, b := range categoryBuckets {
			for _, kw := range b.keywords {
				if strings.Contains(lower, kw) {
					return b.tag
				}
			}
		}
		return Canonicalize(category)
	}

	name := strings.ToLower(strings.TrimSpace(itemName))
	if !hasLetter(name) {
		return CategoryOther
	}
	for _, b := range nameBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(name, kw) {
				return b.tag
			}
		}
	}
	return CategoryOther
}

// Canonicalize lowercases and collapses non-alphanumeric runs to "-".
func Canonicalize(raw string) string {
	var sb strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			sb.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
