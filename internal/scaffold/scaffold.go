// Package scaffold creates new module skeletons: a module directory, two
// templated task files and a fresh metadata document.
package scaffold

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/storage"
)

// DateLayout is the format of the "updated" field
const DateLayout = "2006-01-02"

// Options controls the layout of created modules
type Options struct {
	// TaskExt is the task file extension without the dot
	TaskExt string
	// GroupByCategory nests modules under a directory named after their category
	GroupByCategory bool
}

// Result describes what Create wrote. Paths are relative to the modules root.
type Result struct {
	Module       *models.Module
	Dir          string
	MetadataPath string
	TaskFiles    []string
}

// Scaffolder writes module skeletons through a storage instance
type Scaffolder struct {
	store  *storage.Storage
	opts   Options
	logger *log.Logger
	now    func() time.Time
}

// New creates a scaffolder. An empty TaskExt defaults to "yml".
func New(store *storage.Storage, opts Options, logger *log.Logger) *Scaffolder {
	opts.TaskExt = strings.TrimPrefix(opts.TaskExt, ".")
	if opts.TaskExt == "" {
		opts.TaskExt = "yml"
	}
	return &Scaffolder{
		store:  store,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// includeTask is one entry of tasks/main.<ext>
type includeTask struct {
	Include string `yaml:"include"`
	Tags    string `yaml:"tags"`
}

// namedTask is one entry of tasks/<dir>.<ext>
type namedTask struct {
	Name string `yaml:"name"`
}

// Create writes the skeleton for m. Existing files with the same names are
// overwritten without warning. The returned module carries the values actually
// written, including a filled-in "updated" date.
func (s *Scaffolder) Create(m *models.Module) (*Result, error) {
	module := m.Clone()
	module.FilePath = ""

	if strings.TrimSpace(module.Name) == "" {
		return nil, errors.ValidationError(fmt.Sprintf("%q is required", models.KeyName))
	}
	if strings.TrimSpace(module.Category) == "" {
		return nil, errors.ValidationError(fmt.Sprintf("%q is required", models.KeyCategory))
	}
	if strings.Contains(module.Category, "/") {
		return nil, errors.ValidationError(fmt.Sprintf("%q must not contain '/'", models.KeyCategory))
	}

	dirName := models.DirName(module.Name)
	if strings.ContainsAny(dirName, `/\`) || dirName == "." || dirName == ".." {
		return nil, errors.ValidationError(fmt.Sprintf("%q cannot be used as a directory name", module.Name))
	}
	if module.Updated == "" {
		module.Updated = s.now().Format(DateLayout)
	}

	dir := dirName
	if s.opts.GroupByCategory {
		if strings.ContainsAny(module.Category, `/\`) || module.Category == "." || module.Category == ".." {
			return nil, errors.ValidationError(fmt.Sprintf("%q cannot be used as a directory name", module.Category))
		}
		dir = filepath.Join(module.Category, dirName)
	}

	mainContent, err := taskFile([]includeTask{{Include: dirName + "." + s.opts.TaskExt, Tags: dirName}})
	if err != nil {
		return nil, err
	}
	namedContent, err := taskFile([]namedTask{{Name: dirName}})
	if err != nil {
		return nil, err
	}

	result := &Result{Module: module, Dir: dir}
	files := []struct {
		path    string
		content []byte
	}{
		{filepath.Join(dir, "tasks", "main."+s.opts.TaskExt), mainContent},
		{filepath.Join(dir, "tasks", dirName+"."+s.opts.TaskExt), namedContent},
	}
	for _, f := range files {
		if err := s.store.WriteFile(f.path, f.content); err != nil {
			return nil, err
		}
		result.TaskFiles = append(result.TaskFiles, f.path)
	}

	metadataPath, err := s.store.SaveModule(dir, module)
	if err != nil {
		return nil, err
	}
	result.MetadataPath = metadataPath
	module.FilePath = metadataPath

	s.logger.Info("created module", "name", module.Name, "dir", filepath.Join(s.store.RootPath(), dir))
	return result, nil
}

// taskFile renders a task list as a YAML document
func taskFile(tasks any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(tasks); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to render task file")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to render task file")
	}
	return buf.Bytes(), nil
}
