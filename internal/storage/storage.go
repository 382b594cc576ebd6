package storage

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/models"
)

// Storage handles all file system operations for module metadata documents
type Storage struct {
	rootPath     string
	metadataFile string
	logger       *log.Logger
}

// ScanResult holds the modules loaded by a scan and the documents that were skipped
type ScanResult struct {
	Modules []*models.Module
	Skipped []*errors.AppError
}

// NewStorage creates a new storage instance rooted at rootPath
func NewStorage(rootPath, metadataFile string, logger *log.Logger) *Storage {
	return &Storage{
		rootPath:     rootPath,
		metadataFile: metadataFile,
		logger:       logger,
	}
}

// RootPath returns the modules root directory
func (s *Storage) RootPath() string {
	return s.rootPath
}

// MetadataFile returns the metadata document file name
func (s *Storage) MetadataFile() string {
	return s.metadataFile
}

// CheckRoot verifies the modules root exists and is a directory
func (s *Storage) CheckRoot() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return errors.IOError("read modules directory", s.rootPath, err)
	}
	if !info.IsDir() {
		return errors.IOError("read modules directory", s.rootPath, fmt.Errorf("not a directory"))
	}
	return nil
}

// Discover returns the path, relative to the root, of every metadata document
// at any depth. Paths are sorted so the scan order is stable.
func (s *Storage) Discover() ([]string, error) {
	if err := s.CheckRoot(); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(s.rootPath), "**/"+s.metadataFile, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.IOError("scan modules directory", s.rootPath, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.FromSlash(m))
	}
	return paths, nil
}

// LoadModule loads and validates one metadata document
func (s *Storage) LoadModule(relPath string) (*models.Module, error) {
	content, err := os.ReadFile(filepath.Join(s.rootPath, relPath))
	if err != nil {
		return nil, errors.ParseError(relPath, err)
	}

	module, err := parseModuleFile(content, relPath)
	if err != nil {
		return nil, errors.ParseError(relPath, err)
	}
	module.FilePath = relPath

	return module, nil
}

// ScanModules loads every discovered document. A document that fails to parse
// is logged and skipped; only a failure to read the root aborts the scan.
func (s *Storage) ScanModules(ctx context.Context) (*ScanResult, error) {
	paths, err := s.Discover()
	if err != nil {
		return nil, err
	}

	result := &ScanResult{}
	for _, relPath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Debug("found metadata document", "path", relPath)
		module, err := s.LoadModule(relPath)
		if err != nil {
			appErr := errors.GetAppError(err)
			s.logger.Warn("skipping metadata document", "path", relPath, "err", appErr.Cause)
			result.Skipped = append(result.Skipped, appErr)
			continue
		}
		result.Modules = append(result.Modules, module)
	}

	return result, nil
}

// SaveModule writes the metadata document of m into relDir and returns its relative path
func (s *Storage) SaveModule(relDir string, m *models.Module) (string, error) {
	content, err := serializeModule(m, s.metadataFile)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to serialize module metadata")
	}

	relPath := filepath.Join(relDir, s.metadataFile)
	if err := s.WriteFile(relPath, content); err != nil {
		return "", err
	}
	return relPath, nil
}

// WriteFile writes content to relPath, creating parent directories. Existing
// files are overwritten.
func (s *Storage) WriteFile(relPath string, content []byte) error {
	fullPath := filepath.Join(s.rootPath, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.IOError("create directory", dir, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return errors.IOError("write file", fullPath, err)
	}
	return nil
}

// Helper functions

// parseModuleFile decodes a metadata document. Files ending in .json are read
// as JSON, anything else as YAML.
func parseModuleFile(content []byte, fileName string) (*models.Module, error) {
	var (
		module *models.Module
		err    error
	)
	if isJSON(fileName) {
		module, err = parseJSONModule(content)
	} else {
		module, err = parseYAMLModule(content)
	}
	if err != nil {
		return nil, err
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}
	return module, nil
}

// parseJSONModule follows encoding/json semantics: escapes such as \/ are
// accepted and a repeated key keeps its last value.
func parseJSONModule(content []byte) (*models.Module, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) {
			return nil, fmt.Errorf("document must be an object of metadata keys")
		}
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("document must be an object of metadata keys")
	}

	module := &models.Module{}
	for _, key := range models.MetadataKeys {
		raw, ok := fields[key]
		if !ok {
			return nil, errors.MissingFieldError(key)
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("key %q must hold a string value", key)
		}
		module.Set(key, value)
	}
	return module, nil
}

func parseYAMLModule(content []byte) (*models.Module, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document must be a mapping of metadata keys")
	}

	present := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("key %q must hold a string value (line %d)", key, value.Line)
		}
		present[key] = true
	}
	for _, key := range models.MetadataKeys {
		if !present[key] {
			return nil, errors.MissingFieldError(key)
		}
	}

	var module models.Module
	if err := root.Decode(&module); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &module, nil
}

// validateModule enforces what the index needs to address a module as
// category/module_key.
func validateModule(m *models.Module) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%q must not be empty", models.KeyName)
	}
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("%q must not be empty", models.KeyCategory)
	}
	if strings.Contains(m.Name, "/") {
		return fmt.Errorf("%q must not contain '/'", models.KeyName)
	}
	if strings.Contains(m.Category, "/") {
		return fmt.Errorf("%q must not contain '/'", models.KeyCategory)
	}
	return nil
}

func isJSON(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".json")
}

// serializeModule encodes m as JSON for .json files and as YAML otherwise
func serializeModule(m *models.Module, fileName string) ([]byte, error) {
	var buf bytes.Buffer

	if isJSON(fileName) {
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		return buf.Bytes(), nil
	}

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	return buf.Bytes(), nil
}
