// Package index holds the in-memory module catalog built from the metadata
// documents under a modules root.
//
// The index maps category to module key to metadata. Both levels keep the
// order in which entries were first seen, so listings follow scan order. An
// Index is never patched in place after Build; callers rebuild it wholesale.
package index

import (
	"context"
	"strings"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/storage"
)

// Scanner loads every metadata document under a modules root
type Scanner interface {
	ScanModules(ctx context.Context) (*storage.ScanResult, error)
}

// Entry is one row of a summary listing
type Entry struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

type bucket struct {
	keys    []string
	modules map[string]*models.Module
}

// Index is the two-level category → module key → metadata mapping
type Index struct {
	order   []string
	buckets map[string]*bucket
	count   int
}

// New returns an empty index
func New() *Index {
	return &Index{buckets: make(map[string]*bucket)}
}

// Build scans the store and indexes every document that parsed. Documents
// that failed are returned alongside the index rather than aborting the build.
func Build(ctx context.Context, scanner Scanner) (*Index, []*errors.AppError, error) {
	result, err := scanner.ScanModules(ctx)
	if err != nil {
		return nil, nil, err
	}

	idx := New()
	for _, m := range result.Modules {
		idx.Add(m)
	}
	return idx, result.Skipped, nil
}

// Add inserts m under its category and normalized key. A duplicate key in the
// same category replaces the earlier module but keeps its position.
func (idx *Index) Add(m *models.Module) {
	b, ok := idx.buckets[m.Category]
	if !ok {
		b = &bucket{modules: make(map[string]*models.Module)}
		idx.buckets[m.Category] = b
		idx.order = append(idx.order, m.Category)
	}

	key := m.Key()
	if _, exists := b.modules[key]; !exists {
		b.keys = append(b.keys, key)
		idx.count++
	}
	b.modules[key] = m
}

// Len returns the total number of indexed modules
func (idx *Index) Len() int {
	return idx.count
}

// Categories returns "all" followed by every category in scan order
func (idx *Index) Categories() []string {
	categories := make([]string, 0, len(idx.order)+1)
	categories = append(categories, models.AllCategories)
	return append(categories, idx.order...)
}

// CategoryPaths returns the full addressable vocabulary: "all", then each
// category followed by its category/module_key paths.
func (idx *Index) CategoryPaths() []string {
	paths := make([]string, 0, len(idx.order)+idx.count+1)
	paths = append(paths, models.AllCategories)
	for _, category := range idx.order {
		paths = append(paths, category)
		for _, key := range idx.buckets[category].keys {
			paths = append(paths, category+"/"+key)
		}
	}
	return paths
}

// Summarize lists path and description for "all" or a single category
func (idx *Index) Summarize(target string) ([]Entry, error) {
	var categories []string
	switch {
	case target == models.AllCategories:
		categories = idx.order
	case idx.buckets[target] != nil:
		categories = []string{target}
	default:
		return nil, errors.CategoryNotFoundError(target)
	}

	entries := make([]Entry, 0)
	for _, m := range idx.modules(categories) {
		entries = append(entries, Entry{Path: m.Path(), Description: m.Description})
	}
	return entries, nil
}

// Detail returns a copy of the module stored at category/moduleKey
func (idx *Index) Detail(category, moduleKey string) (*models.Module, error) {
	b, ok := idx.buckets[category]
	if !ok {
		return nil, errors.CategoryNotFoundError(category)
	}

	m, ok := b.modules[models.NormalizeName(moduleKey)]
	if !ok {
		return nil, errors.ModuleNotFoundError(category, moduleKey)
	}
	return m.Clone(), nil
}

// Search returns copies of every module whose category, key or description
// contains term, ignoring case. Author, URL and instructions are not searched.
// An empty term matches every module.
func (idx *Index) Search(term string) []*models.Module {
	term = strings.ToLower(term)

	matches := make([]*models.Module, 0)
	for _, m := range idx.modules(idx.order) {
		if strings.Contains(m.Category, term) ||
			strings.Contains(m.Key(), term) ||
			strings.Contains(strings.ToLower(m.Description), term) {
			matches = append(matches, m.Clone())
		}
	}
	return matches
}

// Modules returns copies of every module, grouped by category in scan order
func (idx *Index) Modules() []*models.Module {
	all := idx.modules(idx.order)
	out := make([]*models.Module, len(all))
	for i, m := range all {
		out[i] = m.Clone()
	}
	return out
}

func (idx *Index) modules(categories []string) []*models.Module {
	var out []*models.Module
	for _, category := range categories {
		b := idx.buckets[category]
		for _, key := range b.keys {
			out = append(out, b.modules[key])
		}
	}
	return out
}
