package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryTag(t *testing.T) {
	tests := []struct {
		input    string
		expected CategoryTag
		ok       bool
	}{
		{"food", CategoryFood, true},
		{"  Travel ", CategoryTravel, true},
		{"EMI", CategoryEMI, true},
		{"other", CategoryOther, true},
		{"groceries", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tag, ok := ParseCategoryTag(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, tag)
		})
	}
}

func TestAllCategoryTagsAreValid(t *testing.T) {
	assert.Len(t, AllCategoryTags, 8)
	for _, tag := range AllCategoryTags {
		assert.True(t, tag.IsValid(), tag)
	}
	assert.False(t, CategoryTag("Food").IsValid())
}
