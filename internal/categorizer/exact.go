package categorizer

import "fjacquet/finrecon/internal/models"

// ExactTagStrategy recognises input that already is a category tag.
type ExactTagStrategy struct{}

// Name returns the name of this strategy for logging and debugging.
func (ExactTagStrategy) Name() string {
	return "ExactTag"
}

// Match reports whether text, case-folded and trimmed, is a known tag.
func (ExactTagStrategy) Match(text string) (models.CategoryTag, bool) {
	return models.ParseCategoryTag(text)
}
