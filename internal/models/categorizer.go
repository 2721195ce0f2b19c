// Package models provides the data structures used throughout the application.
package models

// CategoryConfig represents one category of the vocabulary together with the
// keywords that trigger it. Aliases are alternative labels (for instance the
// Spanish names remote models answer with) that resolve to Name.
type CategoryConfig struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// Clone returns a deep copy of the category configuration.
func (c CategoryConfig) Clone() CategoryConfig {
	clone := CategoryConfig{Name: c.Name}
	if c.Keywords != nil {
		clone.Keywords = append([]string(nil), c.Keywords...)
	}
	if c.Aliases != nil {
		clone.Aliases = append([]string(nil), c.Aliases...)
	}
	return clone
}
