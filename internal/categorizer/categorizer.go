// Package categorizer assigns a spending category to a label or a free-text
// description. Classification is deterministic and total:
// 1. ExactTag: the input already names a category
// 2. Synonym: the input is a known alternate word for a category
// 3. Keyword: the input contains a keyword of a category (descriptions only)
// 4. Fallback to "other"
package categorizer

import (
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
)

// RulesSource supplies extra synonyms and keyword groups, typically from a
// YAML file. A nil result means there is nothing to add.
type RulesSource interface {
	LoadRules() (*models.ClassifierRules, error)
}

// Categorizer runs the strategy chain.
type Categorizer struct {
	exact    ExactTagStrategy
	synonyms *SynonymStrategy
	keywords *KeywordStrategy
	logger   logging.Logger
}

// NewCategorizer creates a Categorizer with the built-in tables.
func NewCategorizer(logger logging.Logger) *Categorizer {
	return &Categorizer{
		synonyms: NewSynonymStrategy(),
		keywords: NewKeywordStrategy(),
		logger:   logging.OrDefault(logger),
	}
}

// NewCategorizerWithRules creates a Categorizer and extends it with rules.
// A failing source is logged and the built-in tables are used alone.
func NewCategorizerWithRules(rules RulesSource, logger logging.Logger) *Categorizer {
	c := NewCategorizer(logger)
	if rules == nil {
		return c
	}

	loaded, err := rules.LoadRules()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to load classifier rules, using built-in tables")
		return c
	}
	c.ApplyRules(loaded)
	return c
}

// ApplyRules appends rules after the built-in tables. Entries naming an
// unknown category are skipped with a warning.
func (c *Categorizer) ApplyRules(rules *models.ClassifierRules) {
	if rules == nil {
		return
	}

	added := 0
	for word, category := range rules.Synonyms {
		tag, ok := models.ParseCategoryTag(category)
		if !ok {
			c.logger.Warn("Ignoring synonym with unknown category",
				logging.F("synonym", word), logging.F(logging.FieldCategory, category))
			continue
		}
		if c.synonyms.Add(word, tag) {
			added++
		}
	}

	for _, rule := range rules.Keywords {
		tag, ok := models.ParseCategoryTag(rule.Category)
		if !ok {
			c.logger.Warn("Ignoring keyword rule with unknown category",
				logging.F(logging.FieldCategory, rule.Category))
			continue
		}
		c.keywords.Append(KeywordGroup{Category: tag, Keywords: rule.Keywords})
		added++
	}

	c.logger.Debug("Applied classifier rules", logging.F(logging.FieldCount, added))
}

// Classify maps a label or description to a category, falling back to
// CategoryOther.
func (c *Categorizer) Classify(text string) models.CategoryTag {
	if tag, ok := c.ClassifyLabel(text); ok {
		return tag
	}
	return c.ClassifyDescription(text)
}

// ClassifyLabel resolves an explicit category label through the exact-tag and
// synonym strategies only.
func (c *Categorizer) ClassifyLabel(label string) (models.CategoryTag, bool) {
	return c.run(label, c.exact, c.synonyms)
}

// ClassifyDescription classifies free text with the keyword groups, falling
// back to CategoryOther.
func (c *Categorizer) ClassifyDescription(description string) models.CategoryTag {
	if tag, ok := c.run(description, c.keywords); ok {
		return tag
	}
	return models.CategoryOther
}

// Strategies returns the full chain in evaluation order.
func (c *Categorizer) Strategies() []Strategy {
	return []Strategy{c.exact, c.synonyms, c.keywords}
}

func (c *Categorizer) run(text string, strategies ...Strategy) (models.CategoryTag, bool) {
	for _, s := range strategies {
		if tag, ok := s.Match(text); ok {
			c.logger.Debug("Classified",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldCategory, string(tag)))
			return tag, true
		}
	}
	return "", false
}
