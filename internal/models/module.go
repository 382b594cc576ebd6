package models

import (
	"strings"
)

// Metadata document keys. The reader, the scaffolder and the report all use
// this exact set.
const (
	KeyName         = "role name"
	KeyAuthor       = "role author"
	KeyUpdated      = "updated"
	KeyCategory     = "category"
	KeyDescription  = "description"
	KeyInstructions = "instructions"
	KeyURL          = "url"
)

// MetadataKeys lists the required document keys in display order
var MetadataKeys = []string{
	KeyName,
	KeyAuthor,
	KeyUpdated,
	KeyCategory,
	KeyDescription,
	KeyInstructions,
	KeyURL,
}

// AllCategories is the sentinel target meaning every module regardless of category
const AllCategories = "all"

// KnownCategories are the conventional PTES phases, in phase order
var KnownCategories = []string{
	"intelligence-gathering",
	"vulnerability-analysis",
	"exploitation",
	"post-exploitation",
	"reporting",
}

// Module represents the metadata document carried by one module directory
type Module struct {
	Name         string `json:"role name" yaml:"role name"`
	Author       string `json:"role author" yaml:"role author"`
	Updated      string `json:"updated" yaml:"updated"`
	Category     string `json:"category" yaml:"category"`
	Description  string `json:"description" yaml:"description"`
	Instructions string `json:"instructions" yaml:"instructions"`
	URL          string `json:"url" yaml:"url"`

	FilePath string `json:"-" yaml:"-"` // Path of the document relative to the modules root
}

// Key returns the normalized index key for the module
func (m *Module) Key() string {
	return NormalizeName(m.Name)
}

// Path returns the category/module_key addressing form
func (m *Module) Path() string {
	return FormatPath(m.Category, m.Name)
}

// Get returns the value stored under a metadata key
func (m *Module) Get(key string) (string, bool) {
	switch key {
	case KeyName:
		return m.Name, true
	case KeyAuthor:
		return m.Author, true
	case KeyUpdated:
		return m.Updated, true
	case KeyCategory:
		return m.Category, true
	case KeyDescription:
		return m.Description, true
	case KeyInstructions:
		return m.Instructions, true
	case KeyURL:
		return m.URL, true
	}
	return "", false
}

// Set stores value under a metadata key. It reports false for unknown keys.
func (m *Module) Set(key, value string) bool {
	switch key {
	case KeyName:
		m.Name = value
	case KeyAuthor:
		m.Author = value
	case KeyUpdated:
		m.Updated = value
	case KeyCategory:
		m.Category = value
	case KeyDescription:
		m.Description = value
	case KeyInstructions:
		m.Instructions = value
	case KeyURL:
		m.URL = value
	default:
		return false
	}
	return true
}

// Clone returns a copy that callers may modify freely
func (m *Module) Clone() *Module {
	c := *m
	return &c
}

// NormalizeName strips spaces and caps from a module name for search and display
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// DirName replaces spaces with hyphens to avoid messy paths
func DirName(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}

// FormatPath returns a module name and category in category/module form
func FormatPath(category, name string) string {
	return category + "/" + NormalizeName(name)
}
