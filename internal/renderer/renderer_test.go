package renderer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamsproject/yms/internal/index"
	"github.com/yamsproject/yms/internal/models"
)

func sampleModule() *models.Module {
	return &models.Module{
		Name:         "Port Scan",
		Author:       "jdoe",
		Updated:      "2024-03-01",
		Category:     "intelligence-gathering",
		Description:  "Scan common ports",
		Instructions: "Run it",
		URL:          "https://example.com/portscan",
	}
}

func TestSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatTable)

	require.NoError(t, r.Summary([]index.Entry{
		{Path: "exploitation/foo", Description: "first"},
		{Path: "exploitation/bar", Description: "second"},
	}))

	out := buf.String()
	assert.Contains(t, out, "exploitation/foo")
	assert.Contains(t, out, "second")
	assert.Less(t, strings.Index(out, "exploitation/foo"), strings.Index(out, "exploitation/bar"))
}

func TestSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatTable).Summary(nil))
	assert.Equal(t, NoResults+"\n", buf.String())
}

func TestModulesUsesPaths(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatTable).Modules([]*models.Module{sampleModule()}))
	assert.Contains(t, buf.String(), "intelligence-gathering/port_scan")
}

func TestDetailTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatTable).Detail(sampleModule()))

	out := buf.String()
	for _, want := range []string{"Role Name", "Role Author", "URL", "Port Scan", "https://example.com/portscan", "Run it"} {
		assert.Contains(t, out, want)
	}
}

func TestSettingsTable(t *testing.T) {
	var buf bytes.Buffer
	m := &models.Module{Name: "New One"}
	require.NoError(t, NewRenderer(&buf, FormatTable).Settings(m))

	out := buf.String()
	assert.Contains(t, out, "role name")
	assert.Contains(t, out, "New One")
	for _, f := range models.Fields {
		assert.Contains(t, out, f.Key)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON)

	require.NoError(t, r.Summary([]index.Entry{{Path: "a/b", Description: "c"}}))
	var entries []index.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Equal(t, []index.Entry{{Path: "a/b", Description: "c"}}, entries)

	buf.Reset()
	require.NoError(t, r.Detail(sampleModule()))
	var doc map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Port Scan", doc["role name"])

	buf.Reset()
	require.NoError(t, r.Summary(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, "anything").List([]string{"all", "exploitation"}))
	assert.Equal(t, "all\nexploitation\n", buf.String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Role Name", Label("role name"))
	assert.Equal(t, "Updated", Label("updated"))
	assert.Equal(t, "URL", Label("url"))
}

func TestMarkdown(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, FormatTable).Markdown("# Exploitation\n\nbody text\n", 80))
	assert.Contains(t, buf.String(), "Exploitation")
	assert.Contains(t, buf.String(), "body text")
}
