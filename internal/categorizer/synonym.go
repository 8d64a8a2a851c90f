package categorizer

import (
	"sync"

	"fjacquet/finrecon/internal/models"
)

// defaultSynonyms maps common alternate words for a category to its tag.
var defaultSynonyms = map[string]models.CategoryTag{
	"transport":   models.CategoryTravel,
	"cab":         models.CategoryTravel,
	"commute":     models.CategoryTravel,
	"fuel":        models.CategoryTravel,
	"dining":      models.CategoryFood,
	"restaurants": models.CategoryFood,
	"groceries":   models.CategoryFood,
	"snacks":      models.CategoryFood,
	"movies":      models.CategoryEntertainment,
	"fun":         models.CategoryEntertainment,
	"rent":        models.CategoryEMI,
	"house":       models.CategoryEMI,
	"bills":       models.CategoryUtilities,
	"mobile":      models.CategoryUtilities,
	"clothes":     models.CategoryShopping,
	"apparel":     models.CategoryShopping,
	"meds":        models.CategoryHealth,
	"pharmacy":    models.CategoryHealth,
}

// DefaultSynonyms returns a copy of the built-in synonym table.
func DefaultSynonyms() map[string]models.CategoryTag {
	out := make(map[string]models.CategoryTag, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		out[k] = v
	}
	return out
}

// SynonymStrategy maps a whole label through a synonym table. Only exact
// (case-folded) matches count; substrings are the keyword strategy's job.
type SynonymStrategy struct {
	synonyms map[string]models.CategoryTag
	mu       sync.RWMutex
}

// NewSynonymStrategy creates a SynonymStrategy seeded with the built-in table.
func NewSynonymStrategy() *SynonymStrategy {
	return &SynonymStrategy{synonyms: DefaultSynonyms()}
}

// Name returns the name of this strategy for logging and debugging.
func (s *SynonymStrategy) Name() string {
	return "Synonym"
}

// Match looks text up in the synonym table.
func (s *SynonymStrategy) Match(text string) (models.CategoryTag, bool) {
	key := normalize(text)
	if key == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.synonyms[key]
	return tag, ok
}

// Add registers an extra synonym. Built-in entries are never overridden, so
// it reports false when word is already mapped.
func (s *SynonymStrategy) Add(word string, tag models.CategoryTag) bool {
	key := normalize(word)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.synonyms[key]; exists {
		return false
	}
	s.synonyms[key] = tag
	return true
}
