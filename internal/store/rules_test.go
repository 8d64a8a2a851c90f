package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finrecon/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "rules.yaml")
	writeFile(t, testFile, "synonyms: {}")

	file, err := FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	writeFile(t, file, `synonyms:
  chai: food
  auto: travel
keywords:
  - category: health
    keywords: [dentist, physio]
`)

	rules, err := NewRulesStore(file, logging.NewMockLogger()).LoadRules()
	require.NoError(t, err)
	require.NotNil(t, rules)
	assert.Equal(t, "food", rules.Synonyms["chai"])
	require.Len(t, rules.Keywords, 1)
	assert.Equal(t, "health", rules.Keywords[0].Category)
	assert.Equal(t, []string{"dentist", "physio"}, rules.Keywords[0].Keywords)
}

func TestLoadRules_MissingOrUnset(t *testing.T) {
	rules, err := NewRulesStore("", nil).LoadRules()
	assert.NoError(t, err)
	assert.Nil(t, rules)

	rules, err = NewRulesStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger()).LoadRules()
	assert.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadRules_Invalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, "synonyms: [not, a, map")

	_, err := NewRulesStore(file, logging.NewMockLogger()).LoadRules()
	assert.Error(t, err)
}
