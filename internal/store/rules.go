package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"

	"gopkg.in/yaml.v3"
)

// RulesStore reads the classifier rules YAML file.
type RulesStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRulesStore creates a RulesStore for filename. An empty filename means
// there are no extra rules.
func NewRulesStore(filename string, logger logging.Logger) *RulesStore {
	return &RulesStore{RulesFile: filename, logger: logging.OrDefault(logger)}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".finrecon", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".finrecon", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules parses the rules file. A missing file yields nil rules and no
// error.
func (s *RulesStore) LoadRules() (*models.ClassifierRules, error) {
	if s.RulesFile == "" {
		return nil, nil
	}

	path, err := FindConfigFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Classifier rules file not found", logging.F(logging.FieldFile, s.RulesFile))
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var rules models.ClassifierRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	s.logger.Debug("Loaded classifier rules",
		logging.F(logging.FieldFile, path),
		logging.F("synonyms", len(rules.Synonyms)),
		logging.F("keyword_rules", len(rules.Keywords)))
	return &rules, nil
}
