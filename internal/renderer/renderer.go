package renderer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yamsproject/yms/internal/index"
	"github.com/yamsproject/yms/internal/models"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// NoResults is printed in place of an empty table
const NoResults = "No results."

// Renderer writes index query results as tables or JSON
type Renderer struct {
	w      io.Writer
	format string
}

// NewRenderer creates a renderer. An unknown format falls back to tables.
func NewRenderer(w io.Writer, format string) *Renderer {
	if format != FormatJSON {
		format = FormatTable
	}
	return &Renderer{w: w, format: format}
}

// Writer returns the destination writer
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// Summary renders a path/description listing
func (r *Renderer) Summary(entries []index.Entry) error {
	if r.format == FormatJSON {
		if entries == nil {
			entries = []index.Entry{}
		}
		return r.JSON(entries)
	}
	if len(entries) == 0 {
		return r.Line(NoResults)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Path, e.Description}
	}
	return r.table([]string{"Path", "Description"}, rows)
}

// Modules renders search results as a summary listing
func (r *Renderer) Modules(modules []*models.Module) error {
	entries := make([]index.Entry, len(modules))
	for i, m := range modules {
		entries[i] = index.Entry{Path: m.Path(), Description: m.Description}
	}
	return r.Summary(entries)
}

// Detail renders every field of one module
func (r *Renderer) Detail(m *models.Module) error {
	if r.format == FormatJSON {
		return r.JSON(m)
	}

	rows := make([][]string, 0, len(models.MetadataKeys))
	for _, key := range models.MetadataKeys {
		value, _ := m.Get(key)
		rows = append(rows, []string{Label(key), value})
	}
	return r.table([]string{"Field", "Value"}, rows)
}

// Settings renders the create sub-shell settings with their help text
func (r *Renderer) Settings(m *models.Module) error {
	rows := make([][]string, 0, len(models.Fields))
	for _, f := range models.Fields {
		value, _ := m.Get(f.Key)
		rows = append(rows, []string{f.Key, value, f.Help})
	}
	return r.table([]string{"Name", "Value", "Description"}, rows)
}

// List renders a plain list, one item per line
func (r *Renderer) List(items []string) error {
	if r.format == FormatJSON {
		return r.JSON(items)
	}
	for _, item := range items {
		if err := r.Line(item); err != nil {
			return err
		}
	}
	return nil
}

// Line writes s followed by a newline
func (r *Renderer) Line(s string) error {
	_, err := fmt.Fprintln(r.w, s)
	return err
}

// JSON writes v as indented JSON
func (r *Renderer) JSON(v any) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Markdown renders markdown for the terminal through glamour
func (r *Renderer) Markdown(md string, wordWrap int) error {
	term, err := createGlamourRenderer(wordWrap)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := term.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(r.w, out)
	return err
}

// Label turns a metadata key into a table label, e.g. "role name" → "Role Name"
func Label(key string) string {
	if key == models.KeyURL {
		return "URL"
	}
	return cases.Title(language.English).String(key)
}

func (r *Renderer) table(headers []string, rows [][]string) error {
	align := make([]tw.Align, len(headers))
	for i := range align {
		align[i] = tw.AlignLeft
	}

	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: align}
	config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	table := tablewriter.NewTable(r.w, tablewriter.WithConfig(config))

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	table.Header(headerRow...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	return table.Render()
}

// createGlamourRenderer picks a glamour style that contrasts with the terminal background
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	style := glamour.WithAutoStyle()
	if profile == termenv.TrueColor || profile == termenv.ANSI256 {
		if lipgloss.HasDarkBackground() {
			style = glamour.WithStandardStyle("dark")
		} else {
			style = glamour.WithStandardStyle("light")
		}
	}

	return glamour.NewTermRenderer(
		style,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}
