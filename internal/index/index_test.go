package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/logging"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/storage"
)

func mod(category, name, description string) *models.Module {
	return &models.Module{
		Name:        name,
		Author:      "tester",
		Updated:     "2024-01-01",
		Category:    category,
		Description: description,
		URL:         "https://example.com/" + name,
	}
}

// scenarioIndex holds exploitation {foo, bar} and reporting {baz}, in that order
func scenarioIndex() *Index {
	idx := New()
	idx.Add(mod("exploitation", "foo", "first exploit"))
	idx.Add(mod("exploitation", "bar", "second exploit"))
	idx.Add(mod("reporting", "baz", "write it up"))
	return idx
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func keys(modules []*models.Module) []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.Path()
	}
	return out
}

func TestScenarioSummarizeCategory(t *testing.T) {
	idx := scenarioIndex()

	entries, err := idx.Summarize("exploitation")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Path: "exploitation/foo", Description: "first exploit"},
		{Path: "exploitation/bar", Description: "second exploit"},
	}, entries)
}

func TestScenarioSummarizeUnknownCategory(t *testing.T) {
	_, err := scenarioIndex().Summarize("nope")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCategoryNotFound))
	assert.Equal(t, "Invalid category.", errors.GetAppError(err).Message)
}

func TestScenarioSearch(t *testing.T) {
	results := scenarioIndex().Search("ba")
	assert.Equal(t, []string{"exploitation/bar", "reporting/baz"}, keys(results))
}

func TestSummarizeAll(t *testing.T) {
	entries, err := scenarioIndex().Summarize("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"exploitation/foo", "exploitation/bar", "reporting/baz"}, paths(entries))
}

func TestSummarizeEmptyIndex(t *testing.T) {
	entries, err := New().Summarize("all")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"all", "exploitation", "reporting"}, scenarioIndex().Categories())
	assert.Equal(t, []string{"all"}, New().Categories())
}

func TestCategoryPaths(t *testing.T) {
	assert.Equal(t, []string{
		"all",
		"exploitation",
		"exploitation/foo",
		"exploitation/bar",
		"reporting",
		"reporting/baz",
	}, scenarioIndex().CategoryPaths())
}

func TestDetail(t *testing.T) {
	idx := scenarioIndex()

	m, err := idx.Detail("reporting", "baz")
	require.NoError(t, err)
	assert.Equal(t, "write it up", m.Description)

	_, err = idx.Detail("nope", "baz")
	assert.True(t, errors.HasCode(err, errors.ErrCodeCategoryNotFound))

	_, err = idx.Detail("reporting", "nope")
	assert.True(t, errors.HasCode(err, errors.ErrCodeModuleNotFound))
	assert.Equal(t, "Invalid module.", errors.GetAppError(err).Message)
}

func TestDetailReturnsCopy(t *testing.T) {
	idx := scenarioIndex()

	m, err := idx.Detail("reporting", "baz")
	require.NoError(t, err)
	m.Description = "changed"

	again, err := idx.Detail("reporting", "baz")
	require.NoError(t, err)
	assert.Equal(t, "write it up", again.Description)
}

func TestSearchMatchRules(t *testing.T) {
	idx := New()
	idx.Add(&models.Module{Name: "Web Fuzzer", Category: "vulnerability-analysis", Description: "Fuzz HTTP Endpoints",
		Author: "zed", URL: "https://zed.example", Instructions: "secret words"})

	assert.Len(t, idx.Search("web_fuzzer"), 1, "normalized key")
	assert.Len(t, idx.Search("WEB_F"), 1, "term is lowercased")
	assert.Len(t, idx.Search("http endpoints"), 1, "description ignores case")
	assert.Len(t, idx.Search("vulnerability"), 1, "category")
	assert.Empty(t, idx.Search("zed"), "author is not searched")
	assert.Empty(t, idx.Search("example"), "url is not searched")
	assert.Empty(t, idx.Search("secret"), "instructions are not searched")
	assert.Empty(t, idx.Search("web fuzzer"), "display name is not searched")
}

func TestDuplicateKeyLastWriteWins(t *testing.T) {
	idx := New()
	idx.Add(mod("exploitation", "Foo", "old"))
	idx.Add(mod("exploitation", "other", "other"))
	idx.Add(mod("exploitation", "foo", "new"))

	assert.Equal(t, 2, idx.Len())
	entries, err := idx.Summarize("exploitation")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Path: "exploitation/foo", Description: "new"},
		{Path: "exploitation/other", Description: "other"},
	}, entries)
}

func TestSameNameInDifferentCategories(t *testing.T) {
	idx := New()
	idx.Add(mod("exploitation", "Test Module", "a"))
	idx.Add(mod("reporting", "Test Module", "b"))

	assert.Equal(t, 2, idx.Len())

	a, err := idx.Detail("exploitation", "test_module")
	require.NoError(t, err)
	b, err := idx.Detail("reporting", "test_module")
	require.NoError(t, err)
	assert.Equal(t, "a", a.Description)
	assert.Equal(t, "b", b.Description)
}

func TestUnknownCategoriesAreAccepted(t *testing.T) {
	idx := New()
	idx.Add(mod("my-own-phase", "x", ""))
	assert.Contains(t, idx.Categories(), "my-own-phase")
}

func TestIndexProperties(t *testing.T) {
	idx := New()
	for _, m := range []*models.Module{
		mod("intelligence-gathering", "Port Scan", "scan ports"),
		mod("intelligence-gathering", "OSINT Sweep", "gather public data"),
		mod("exploitation", "SQL Injection", "inject sql"),
		mod("post-exploitation", "Persistence", "stay a while"),
		mod("post-exploitation", "Loot", "grab files"),
		mod("custom", "Port Scan", "duplicate name elsewhere"),
	} {
		idx.Add(m)
	}

	// every real category has at least one module
	for _, c := range idx.Categories()[1:] {
		entries, err := idx.Summarize(c)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, c)
	}

	// all equals the sum of the categories
	all, err := idx.Summarize("all")
	require.NoError(t, err)
	sum := 0
	for _, c := range idx.Categories()[1:] {
		entries, _ := idx.Summarize(c)
		sum += len(entries)
	}
	assert.Equal(t, len(all), sum)
	assert.Equal(t, idx.Len(), len(all))

	// every addressable path resolves
	for _, p := range idx.CategoryPaths() {
		category, key, found := strings.Cut(p, "/")
		if !found {
			continue
		}
		_, err := idx.Detail(category, key)
		assert.NoError(t, err, p)
	}

	// empty search lists everything
	everything := idx.Search("")
	assert.Len(t, everything, idx.Len())

	// search results are a subset and match the term
	for _, term := range []string{"port", "EXPLOIT", "a", "zzz", "_"} {
		results := idx.Search(term)
		assert.Subset(t, keys(everything), keys(results))
		lower := strings.ToLower(term)
		for _, m := range results {
			assert.True(t,
				strings.Contains(m.Category, lower) ||
					strings.Contains(m.Key(), lower) ||
					strings.Contains(strings.ToLower(m.Description), lower),
				"%s does not match %q", m.Path(), term)
		}
	}
}

func TestBuildFromDisk(t *testing.T) {
	root := t.TempDir()
	write := func(rel, name, category string) {
		path := filepath.Join(root, rel, "docs.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		doc := `{"role name": "` + name + `", "role author": "a", "updated": "2024-01-01", "category": "` + category +
			`", "description": "d", "instructions": "", "url": ""}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	}
	write("a-foo", "foo", "exploitation")
	write("b-bar", "bar", "exploitation")
	write("c-baz", "baz", "reporting")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d-broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "d-broken", "docs.json"), []byte("{"), 0644))

	store := storage.NewStorage(root, "docs.json", logging.Discard())
	idx, skipped, err := Build(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"all", "exploitation", "reporting"}, idx.Categories())
	require.Len(t, skipped, 1)
	assert.Equal(t, filepath.Join("d-broken", "docs.json"), skipped[0].Path())

	entries, err := idx.Summarize("exploitation")
	require.NoError(t, err)
	assert.Equal(t, []string{"exploitation/foo", "exploitation/bar"}, paths(entries))
}

func TestBuildMissingRoot(t *testing.T) {
	store := storage.NewStorage(filepath.Join(t.TempDir(), "none"), "docs.json", logging.Discard())
	_, _, err := Build(context.Background(), store)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorageFailure))
}
