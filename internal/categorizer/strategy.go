package categorizer

import (
	"strings"

	"fjacquet/finrecon/internal/models"
)

// Strategy is one step of the classification chain. Strategies are tried in
// order and the first one reporting found wins.
type Strategy interface {
	// Match returns the tag for text and whether this strategy recognised it.
	Match(text string) (models.CategoryTag, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// normalize case-folds and trims text the same way for every strategy.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
