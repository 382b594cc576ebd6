package service

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yamsproject/yms/internal/config"
	"github.com/yamsproject/yms/internal/errors"
	"github.com/yamsproject/yms/internal/index"
	"github.com/yamsproject/yms/internal/models"
	"github.com/yamsproject/yms/internal/scaffold"
	"github.com/yamsproject/yms/internal/storage"
)

// Service owns the module index and the collaborators that read and write
// the modules tree. The index is replaced wholesale on every refresh.
type Service struct {
	storage    *storage.Storage
	scaffolder *scaffold.Scaffolder
	logger     *log.Logger

	index   *index.Index
	skipped []*errors.AppError
}

// ShowResult is either a summary listing or a single module's detail
type ShowResult struct {
	Entries []index.Entry
	Module  *models.Module
}

// IsDetail reports whether the result holds a single module
func (r *ShowResult) IsDetail() bool {
	return r.Module != nil
}

// New creates a service with an empty index. Call Refresh to populate it.
func New(cfg *config.Config, logger *log.Logger) *Service {
	store := storage.NewStorage(cfg.ModulesDir, cfg.MetadataFile, logger)
	return &Service{
		storage: store,
		scaffolder: scaffold.New(store, scaffold.Options{
			TaskExt:         cfg.TaskExt,
			GroupByCategory: cfg.Scaffold.GroupByCategory,
		}, logger),
		logger: logger,
		index:  index.New(),
	}
}

// Open creates a service and builds its index
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	svc := New(cfg, logger)
	if err := svc.Refresh(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Refresh discards the current index and rebuilds it from disk. On failure the
// previous index stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	idx, skipped, err := index.Build(ctx, s.storage)
	if err != nil {
		return err
	}

	s.index = idx
	s.skipped = skipped
	s.logger.Debug("index rebuilt", "modules", idx.Len(), "skipped", len(skipped))
	return nil
}

// Index returns the current index for read-only queries
func (s *Service) Index() *index.Index {
	return s.index
}

// Storage returns the metadata store the service reads from
func (s *Service) Storage() *storage.Storage {
	return s.storage
}

// Skipped returns the documents the last refresh could not parse
func (s *Service) Skipped() []*errors.AppError {
	return s.skipped
}

// Search returns every module matching term
func (s *Service) Search(term string) []*models.Module {
	return s.index.Search(strings.TrimSpace(term))
}

// Categories returns "all" and every indexed category
func (s *Service) Categories() []string {
	return s.index.Categories()
}

// CategoryPaths returns every target Show accepts
func (s *Service) CategoryPaths() []string {
	return s.index.CategoryPaths()
}

// Show resolves target, which is "all", a category or category/module
func (s *Service) Show(target string) (*ShowResult, error) {
	target = strings.TrimSpace(target)
	parts := strings.Split(target, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		entries, err := s.index.Summarize(parts[0])
		if err != nil {
			return nil, err
		}
		return &ShowResult{Entries: entries}, nil

	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		m, err := s.index.Detail(parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		return &ShowResult{Module: m}, nil

	default:
		return nil, errors.InvalidInputError("Invalid target.").WithContext("target", target)
	}
}

// Create scaffolds a new module and rebuilds the index so it is visible at once.
// Once the files are written the result is returned even if the rebuild fails;
// the previous index stays in place until the next Refresh.
func (s *Service) Create(ctx context.Context, m *models.Module) (*scaffold.Result, error) {
	result, err := s.scaffolder.Create(m)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("module created but index not rebuilt", "dir", result.Dir, "err", err)
	}
	return result, nil
}
