// Package report renders every module's metadata into a single markdown
// document grouped by PTES phase.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/storage"
)

// Section is one category heading and the modules under it
type Section struct {
	Category string
	Modules  []*models.Module
}

// Title returns the heading text for the section
func (s Section) Title() string {
	return Title(s.Category)
}

// Summary describes a finished report run
type Summary struct {
	Sections int
	Modules  int
	Skipped  []*errors.AppError
}

// Generator builds the report from the documents in a store
type Generator struct {
	store  *storage.Storage
	logger *log.Logger
}

// NewGenerator creates a report generator
func NewGenerator(store *storage.Storage, logger *log.Logger) *Generator {
	return &Generator{store: store, logger: logger}
}

// Write renders the report to w. Documents that fail to parse are skipped and
// listed in the summary.
func (g *Generator) Write(ctx context.Context, w io.Writer) (*Summary, error) {
	result, err := g.store.ScanModules(ctx)
	if err != nil {
		return nil, err
	}

	sections := Group(result.Modules)
	builder := md.NewMarkdown(w)
	for _, section := range sections {
		g.logger.Debug("processing category", "category", section.Category, "modules", len(section.Modules))
		builder.H1(section.Title()).PlainText("")
		for _, m := range section.Modules {
			writeModule(builder, m)
		}
	}
	if err := builder.Build(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to write report")
	}

	return &Summary{
		Sections: len(sections),
		Modules:  len(result.Modules),
		Skipped:  result.Skipped,
	}, nil
}

// WriteFile renders the report to path, replacing any previous report
func (g *Generator) WriteFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IOError("create report", path, err)
	}

	summary, err := g.Write(ctx, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		return nil, errors.IOError("write report", path, closeErr)
	}
	if err != nil {
		return nil, err
	}

	g.logger.Info("wrote module documentation", "path", path, "modules", summary.Modules)
	return summary, nil
}

// Group buckets modules by category: the known PTES phases first in phase
// order, then any other category in the order first seen. Categories with no
// modules are left out.
func Group(modules []*models.Module) []Section {
	byCategory := make(map[string][]*models.Module)
	var others []string
	for _, m := range modules {
		if _, seen := byCategory[m.Category]; !seen && !slices.Contains(models.KnownCategories, m.Category) {
			others = append(others, m.Category)
		}
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	var sections []Section
	for _, category := range append(append([]string(nil), models.KnownCategories...), others...) {
		if mods := byCategory[category]; len(mods) > 0 {
			sections = append(sections, Section{Category: category, Modules: mods})
		}
	}
	return sections
}

// Title turns a category into a heading, e.g. "post-exploitation" → "Post Exploitation"
func Title(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "-", " "))
}

func writeModule(builder *md.Markdown, m *models.Module) {
	builder.H2(m.Name).
		PlainText("").
		PlainText(fmt.Sprintf("%s %s", md.Bold("Module Author:"), m.Author)).
		PlainText("").
		PlainText(fmt.Sprintf("%s %s", md.Bold("Last Updated:"), m.Updated)).
		PlainText("").
		PlainText(fmt.Sprintf("%s %s", md.Bold("Original URL:"), m.URL)).
		PlainText("").
		PlainText(m.Description).
		PlainText("")
}
