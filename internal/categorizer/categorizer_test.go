package categorizer

import (
	"errors"
	"strings"
	"testing"

	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCategorizer() *Categorizer {
	return NewCategorizer(logging.NewMockLogger())
}

func TestClassify_TagsAreFixedPoints(t *testing.T) {
	c := newTestCategorizer()
	for _, tag := range models.AllCategoryTags {
		assert.Equal(t, tag, c.Classify(string(tag)), "tag %s", tag)
		assert.Equal(t, tag, c.Classify("  "+strings.ToUpper(string(tag))+" "), "tag %s", tag)
	}
}

func TestClassify_Synonyms(t *testing.T) {
	c := newTestCategorizer()
	for word, tag := range DefaultSynonyms() {
		assert.Equal(t, tag, c.Classify(word), "synonym %s", word)
	}

	// examples named explicitly
	assert.Equal(t, models.CategoryTravel, c.Classify("Cab"))
	assert.Equal(t, models.CategoryFood, c.Classify("Dining"))
	assert.Equal(t, models.CategoryEMI, c.Classify("house"))
	assert.Equal(t, models.CategoryHealth, c.Classify("MEDS"))
}

func TestClassify_Fallback(t *testing.T) {
	c := newTestCategorizer()
	assert.Equal(t, models.CategoryOther, c.Classify(""))
	assert.Equal(t, models.CategoryOther, c.Classify("   "))
	assert.Equal(t, models.CategoryOther, c.Classify("zzz-unrecognized"))
}

func TestClassifyDescription_KeywordOrder(t *testing.T) {
	tests := []struct {
		description string
		want        models.CategoryTag
	}{
		{"Swiggy order", models.CategoryFood},
		{"ZOMATO dinner", models.CategoryFood},
		{"Uber ride to airport", models.CategoryTravel},
		{"Monthly rent", models.CategoryEMI},
		{"Electricity bill", models.CategoryUtilities},
		{"Netflix", models.CategoryUtilities},
		{"Cinema tickets", models.CategoryEntertainment},
		{"Amazon order", models.CategoryShopping},
		{"Pharmacy visit", models.CategoryHealth},
		// food is tested before travel
		{"Coffee at the train station", models.CategoryFood},
		// travel is tested before shopping
		{"Metro mall", models.CategoryTravel},
		{"something else", models.CategoryOther},
	}

	c := newTestCategorizer()
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ClassifyDescription(tt.description))
		})
	}
}

func TestClassifyLabel_DoesNotUseKeywords(t *testing.T) {
	c := newTestCategorizer()

	tag, ok := c.ClassifyLabel("Transport")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryTravel, tag)

	_, ok = c.ClassifyLabel("Swiggy order")
	assert.False(t, ok)

	_, ok = c.ClassifyLabel("")
	assert.False(t, ok)
}

func TestClassify_IsDeterministic(t *testing.T) {
	c := newTestCategorizer()
	inputs := []string{"Swiggy", "cab", "Zara shoes", "gym membership", "unknown"}
	for _, in := range inputs {
		first := c.Classify(in)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, c.Classify(in))
		}
	}
}

func TestStrategies_Order(t *testing.T) {
	c := newTestCategorizer()
	var names []string
	for _, s := range c.Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"ExactTag", "Synonym", "Keyword"}, names)
}

type stubRules struct {
	rules *models.ClassifierRules
	err   error
}

func (s stubRules) LoadRules() (*models.ClassifierRules, error) {
	return s.rules, s.err
}

func TestNewCategorizerWithRules(t *testing.T) {
	logger := logging.NewMockLogger()
	rules := &models.ClassifierRules{
		Synonyms: map[string]string{
			"chai":  "food",
			"cab":   "shopping", // built-in wins
			"vague": "nonsense",
		},
		Keywords: []models.KeywordRule{
			{Category: "health", Keywords: []string{"Dentist"}},
			{Category: "entertainment", Keywords: []string{"swiggy"}}, // appended after food
			{Category: "bogus", Keywords: []string{"x"}},
		},
	}

	c := NewCategorizerWithRules(stubRules{rules: rules}, logger)

	assert.Equal(t, models.CategoryFood, c.Classify("Chai"))
	assert.Equal(t, models.CategoryTravel, c.Classify("cab"))
	assert.Equal(t, models.CategoryHealth, c.Classify("Dentist appointment"))
	assert.Equal(t, models.CategoryFood, c.Classify("swiggy"))
	assert.Equal(t, models.CategoryOther, c.Classify("vague"))

	assert.Len(t, logger.EntriesByLevel("WARN"), 2)
}

func TestNewCategorizerWithRules_SourceError(t *testing.T) {
	logger := logging.NewMockLogger()
	c := NewCategorizerWithRules(stubRules{err: errors.New("boom")}, logger)

	assert.Equal(t, models.CategoryTravel, c.Classify("cab"))
	assert.True(t, logger.HasEntry("WARN", "Failed to load classifier rules, using built-in tables"))
}
