package models

import "strings"

// CategoryTag is one of the fixed spending categories. It is never free
// text: every stored record carries a member of AllCategoryTags.
type CategoryTag string

const (
	CategoryFood          CategoryTag = "food"
	CategoryTravel        CategoryTag = "travel"
	CategoryEMI           CategoryTag = "emi"
	CategoryUtilities     CategoryTag = "utilities"
	CategoryEntertainment CategoryTag = "entertainment"
	CategoryShopping      CategoryTag = "shopping"
	CategoryHealth        CategoryTag = "health"
	// CategoryOther is the fallback; a confident match never produces it.
	CategoryOther CategoryTag = "other"
)

// AllCategoryTags lists the closed set in display order.
var AllCategoryTags = []CategoryTag{
	CategoryFood,
	CategoryTravel,
	CategoryEMI,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

// ParseCategoryTag case-folds and trims s and reports whether it names a tag.
func ParseCategoryTag(s string) (CategoryTag, bool) {
	candidate := CategoryTag(strings.ToLower(strings.TrimSpace(s)))
	if candidate.IsValid() {
		return candidate, true
	}
	return "", false
}

// IsValid reports membership in the closed set.
func (c CategoryTag) IsValid() bool {
	for _, t := range AllCategoryTags {
		if c == t {
			return true
		}
	}
	return false
}

func (c CategoryTag) String() string {
	return string(c)
}
