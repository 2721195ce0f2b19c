// Package store loads and saves the category vocabulary seed file.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/ia-financiera/internal/fileutils"
	"fjacquet/ia-financiera/internal/logging"
	"fjacquet/ia-financiera/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is looked up when no file is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryStore manages loading and saving of the vocabulary seed.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for the given categories file.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations: the
// current directory, ./config, ./.ia-financiera and $HOME/.ia-financiera.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".ia-financiera", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".ia-financiera", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *CategoryStore) filename() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesFile
	}
	return s.CategoriesFile
}

// LoadCategories loads the vocabulary seed. A missing file is not an error: it
// yields no categories and the caller falls back to the built-in vocabulary.
//
// Three layouts are accepted: the CategoriesConfig document
// ("categories: [...]"), a bare list of categories, and a mapping from
// category name to a keyword list or to {keywords, aliases}.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.WithField(logging.FieldInputFile, filename).Debug("Categories file not found, using built-in vocabulary")
		return nil, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := parseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
	).Debug("Loaded categories")
	return categories, nil
}

func parseCategories(data []byte) ([]models.CategoryConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var categories []models.CategoryConfig
		if err := root.Decode(&categories); err != nil {
			return nil, err
		}
		return categories, nil

	case yaml.MappingNode:
		if mappingValue(root, "categories") != nil {
			var cfg models.CategoriesConfig
			if err := root.Decode(&cfg); err != nil {
				return nil, err
			}
			return cfg.Categories, nil
		}
		return parseCategoryMap(root)

	default:
		return nil, fmt.Errorf("unexpected YAML document at line %d", root.Line)
	}
}

// parseCategoryMap reads the "name: keywords" layout, keeping file order since
// declaration order is the scoring tie-break.
func parseCategoryMap(root *yaml.Node) ([]models.CategoryConfig, error) {
	categories := make([]models.CategoryConfig, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		category := models.CategoryConfig{Name: strings.TrimSpace(key.Value)}

		switch value.Kind {
		case yaml.SequenceNode:
			if err := value.Decode(&category.Keywords); err != nil {
				return nil, fmt.Errorf("category %q: %w", category.Name, err)
			}
		case yaml.MappingNode:
			var body struct {
				Keywords []string `yaml:"keywords"`
				Aliases  []string `yaml:"aliases"`
			}
			if err := value.Decode(&body); err != nil {
				return nil, fmt.Errorf("category %q: %w", category.Name, err)
			}
			category.Keywords, category.Aliases = body.Keywords, body.Aliases
		case yaml.ScalarNode:
			// description only
		default:
			return nil, fmt.Errorf("category %q: unexpected value at line %d", category.Name, value.Line)
		}

		categories = append(categories, category)
	}
	return categories, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// SaveCategories writes the vocabulary as a CategoriesConfig document. A
// relative file that does not exist yet is created under ./config.
func (s *CategoryStore) SaveCategories(categories []models.CategoryConfig) error {
	if len(categories) == 0 {
		return errors.New("no categories to save")
	}

	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		filePath = filename
		if !filepath.IsAbs(filename) && filepath.Dir(filename) == "." {
			filePath = filepath.Join("config", filename)
		}
	}

	data, err := yaml.Marshal(models.CategoriesConfig{Categories: categories})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}

	if err := fileutils.WriteFile(filePath, data); err != nil {
		return fmt.Errorf("error writing categories: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldOutput, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)},
	).Info("Saved categories")
	return nil
}
