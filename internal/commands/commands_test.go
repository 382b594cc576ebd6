package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamsproject/yms/internal/config"
	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/logging"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/renderer"
	"github.com/yamsproject/yms/internal/service"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	for _, m := range []struct{ dir, name, category string }{
		{"1-foo", "foo", "exploitation"},
		{"2-bar", "bar", "exploitation"},
		{"3-baz", "baz", "reporting"},
	} {
		path := filepath.Join(root, m.dir, "docs.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		doc := `{"role name": "` + m.name + `", "role author": "a", "updated": "2024-01-01", "category": "` + m.category +
			`", "description": "about ` + m.name + `", "instructions": "", "url": ""}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	}

	cfg := config.DefaultConfig()
	cfg.ModulesDir = root
	svc, err := service.Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	var out bytes.Buffer
	return NewSession(svc, renderer.NewRenderer(&out, renderer.FormatTable), nil), &out, root
}

func TestDispatchBlankAndUnknown(t *testing.T) {
	s, _, _ := newTestSession(t)
	r := MainCommands(s)

	action, err := r.Dispatch(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Equal(t, ActionContinue, action)

	action, err = r.Dispatch(context.Background(), "frobnicate now")
	assert.True(t, errors.HasCode(err, errors.ErrCodeCommandNotFound))
	assert.Equal(t, ActionContinue, action)
}

func TestShowModuleMessages(t *testing.T) {
	s, out, _ := newTestSession(t)
	r := MainCommands(s)
	h := errors.NewCLIErrorHandler(nil, false)

	_, err := r.Dispatch(context.Background(), "showmodule nope")
	assert.Equal(t, "Invalid category.", h.FormatError(err))

	_, err = r.Dispatch(context.Background(), "showmodule exploitation/nope")
	assert.Equal(t, "Invalid module.", h.FormatError(err))

	_, err = r.Dispatch(context.Background(), "showmodule exploitation/bar")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "about bar")

	out.Reset()
	_, err = r.Dispatch(context.Background(), "showmodule all")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "reporting/baz")
}

func TestSearchModule(t *testing.T) {
	s, out, _ := newTestSession(t)

	_, err := MainCommands(s).Dispatch(context.Background(), "searchmodule BA")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Search Results:")
	assert.Contains(t, out.String(), "exploitation/bar")
	assert.Contains(t, out.String(), "reporting/baz")
	assert.NotContains(t, out.String(), "exploitation/foo")

	out.Reset()
	_, err = MainCommands(s).Dispatch(context.Background(), "searchmodule zzz")
	require.NoError(t, err)
	assert.Contains(t, out.String(), renderer.NoResults)
}

func TestCategoriesAndRefresh(t *testing.T) {
	s, out, root := newTestSession(t)
	r := MainCommands(s)

	_, err := r.Dispatch(context.Background(), "categories")
	require.NoError(t, err)
	assert.Equal(t, "all\nexploitation\nreporting\n", out.String())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken", "docs.json"), []byte("{"), 0644))

	out.Reset()
	_, err = r.Dispatch(context.Background(), "refresh")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Indexed 3 modules")
	assert.Contains(t, out.String(), filepath.Join("broken", "docs.json"))
}

func TestMainActions(t *testing.T) {
	s, _, _ := newTestSession(t)
	r := MainCommands(s)

	for line, want := range map[string]Action{
		"newmodule": ActionEnter,
		"exit":      ActionExit,
		"quit":      ActionExit,
		"help":      ActionContinue,
	} {
		action, err := r.Dispatch(context.Background(), line)
		require.NoError(t, err, line)
		assert.Equal(t, want, action, line)
	}
}

func TestHelp(t *testing.T) {
	s, out, _ := newTestSession(t)
	r := MainCommands(s)

	_, err := r.Dispatch(context.Background(), "help")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "searchmodule")
	assert.NotContains(t, out.String(), "quit")

	out.Reset()
	_, err = r.Dispatch(context.Background(), "help showmodule")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage: showmodule [category | all][/modulename]")

	_, err = r.Dispatch(context.Background(), "help nope")
	assert.True(t, errors.HasCode(err, errors.ErrCodeCommandNotFound))
}

func TestCompletion(t *testing.T) {
	s, _, _ := newTestSession(t)
	r := MainCommands(s)

	assert.Equal(t, []string{"searchmodule", "showmodule"}, r.Complete("s"))
	assert.Equal(t, []string{"showmodule exploitation", "showmodule exploitation/foo", "showmodule exploitation/bar"},
		r.Complete("showmodule EXP"))
	assert.Empty(t, r.Complete("searchmodule a"))
	assert.Empty(t, r.Complete("nope x"))

	c := CreateCommands(s)
	assert.Equal(t, []string{"set role name", "set role author"}, c.Complete("set ro"))
}

func TestCreateSubShell(t *testing.T) {
	s, out, root := newTestSession(t)
	c := CreateCommands(s)
	ctx := context.Background()

	for _, line := range []string{
		"set role name My Module",
		"set role author Jane <@jane>",
		"set updated 2024-02-03",
		"set category exploitation",
		"set description Does a thing",
		"set url https://example.com",
	} {
		_, err := c.Dispatch(ctx, line)
		require.NoError(t, err, line)
	}
	assert.Contains(t, out.String(), "Module Settings:")
	assert.Equal(t, "My Module", s.Draft().Name)
	assert.Equal(t, "Jane <@jane>", s.Draft().Author)

	_, err := c.Dispatch(ctx, "set colour blue")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidCommand))

	_, err = c.Dispatch(ctx, "create")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "My-Module", "docs.json"))
	assert.Equal(t, &models.Module{}, s.Draft())

	out.Reset()
	_, err = MainCommands(s).Dispatch(ctx, "showmodule exploitation/my_module")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Does a thing")
}

func TestCreateWithoutNameFails(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := CreateCommands(s).Dispatch(context.Background(), "create")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestCreateActions(t *testing.T) {
	s, _, _ := newTestSession(t)
	c := CreateCommands(s)

	action, err := c.Dispatch(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, ActionLeave, action)

	action, err = c.Dispatch(context.Background(), "exit")
	require.NoError(t, err)
	assert.Equal(t, ActionExit, action)
}

func TestFormCommand(t *testing.T) {
	s, _, _ := newTestSession(t)
	c := CreateCommands(s)

	_, err := c.Dispatch(context.Background(), "form")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotImplemented))

	s.Form = func(_ context.Context, draft *models.Module) (*models.Module, bool, error) {
		draft.Name = "From Form"
		return draft, true, nil
	}
	_, err = c.Dispatch(context.Background(), "form")
	require.NoError(t, err)
	assert.Equal(t, "From Form", s.Draft().Name)

	s.Form = func(_ context.Context, draft *models.Module) (*models.Module, bool, error) {
		draft.Name = "Cancelled"
		return draft, false, nil
	}
	_, err = c.Dispatch(context.Background(), "form")
	require.NoError(t, err)
	assert.Equal(t, "From Form", s.Draft().Name)
}

func TestPrefixCompleterIgnoresCase(t *testing.T) {
	complete := PrefixCompleter(func() []string {
		return []string{"all", "Post-Exploitation", "Post-Exploitation/loot", "reporting"}
	})

	assert.Equal(t, []string{"Post-Exploitation", "Post-Exploitation/loot"}, complete("post"))
	assert.Equal(t, []string{"Post-Exploitation/loot"}, complete("POST-EXPLOITATION/"))
	assert.Equal(t, []string{"all"}, complete("A"))
	assert.Empty(t, complete("x"))
}
