package categorizer

import (
	"strings"
	"sync"

	"fjacquet/finrecon/internal/models"
)

// KeywordGroup ties a set of substrings to one category.
type KeywordGroup struct {
	Category models.CategoryTag
	Keywords []string
}

// defaultKeywordGroups is evaluated top to bottom. Several groups can match
// the same text, so the order is part of the output contract.
var defaultKeywordGroups = []KeywordGroup{
	{models.CategoryFood, []string{"food", "restaurant", "swiggy", "zomato", "pizza", "burger", "coffee", "cafe", "tea", "lunch", "dinner", "groceries", "mart", "blinkit", "zepto"}},
	{models.CategoryTravel, []string{"uber", "ola", "taxi", "train", "bus", "flight", "fuel", "petrol", "diesel", "parking", "toll", "rapido", "metro"}},
	{models.CategoryEMI, []string{"rent", "emi", "loan", "mortgage", "house", "flat", "maintenance", "deposit"}},
	{models.CategoryUtilities, []string{"bill", "electricity", "water", "gas", "wifi", "internet", "mobile", "recharge", "netflix", "spotify", "prime", "hulu", "disney", "hotstar"}},
	{models.CategoryEntertainment, []string{"movie", "cinema", "game", "concert", "party", "drink", "bar", "pub", "club", "event", "ticket"}},
	{models.CategoryShopping, []string{"shop", "amazon", "flipkart", "myntra", "clothes", "shoes", "mall", "store", "zara", "h&m", "nike", "adidas"}},
	{models.CategoryHealth, []string{"doctor", "medicine", "hospital", "pharmacy", "gym", "fitness", "health", "yoga", "meds", "checkup"}},
}

// DefaultKeywordGroups returns a copy of the built-in keyword groups.
func DefaultKeywordGroups() []KeywordGroup {
	out := make([]KeywordGroup, len(defaultKeywordGroups))
	for i, g := range defaultKeywordGroups {
		out[i] = KeywordGroup{Category: g.Category, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// KeywordStrategy implements categorization by substring matching over free
// text such as a transaction description.
type KeywordStrategy struct {
	groups []KeywordGroup
	mu     sync.RWMutex
}

// NewKeywordStrategy creates a KeywordStrategy with the built-in groups.
func NewKeywordStrategy() *KeywordStrategy {
	return &KeywordStrategy{groups: DefaultKeywordGroups()}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Match returns the category of the first group with a keyword contained in
// the case-folded text.
func (s *KeywordStrategy) Match(text string) (models.CategoryTag, bool) {
	haystack := normalize(text)
	if haystack == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, group := range s.groups {
		for _, keyword := range group.Keywords {
			if strings.Contains(haystack, keyword) {
				return group.Category, true
			}
		}
	}
	return "", false
}

// Append adds a group after all existing ones.
func (s *KeywordStrategy) Append(group KeywordGroup) {
	keywords := make([]string, 0, len(group.Keywords))
	for _, k := range group.Keywords {
		if k = normalize(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, KeywordGroup{Category: group.Category, Keywords: keywords})
}
