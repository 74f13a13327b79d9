package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/rules"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

// TemplateService feeds the type-rule resolver from the workflow template
// store. Templates are read-mostly; the index is rebuilt on startup and on
// explicit request, never per-call.
type TemplateService interface {
	// Resolver returns the current resolver. Safe for concurrent use.
	Resolver() rules.Resolver
	// Rebuild reloads every active template and swaps the resolver.
	Rebuild(ctx context.Context) error
}

type templateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo repos.WorkflowTemplateRepo
	dict         *vocab.Dictionary
	overrides    map[string][]string

	mu       sync.RWMutex
	resolver rules.Resolver
}

func NewTemplateService(db *gorm.DB, baseLog *logger.Logger, templateRepo repos.WorkflowTemplateRepo, dict *vocab.Dictionary, overrides map[string][]string) TemplateService {
	s := &templateService{
		db:           db,
		log:          baseLog.With("service", "TemplateService"),
		templateRepo: templateRepo,
		dict:         dict,
		overrides:    overrides,
	}
	// Start with an override-only resolver so the service is usable even
	// before the first successful rebuild.
	s.resolver = rules.NewResolver(dict, overrides, rules.NewTemplateIndex(dict))
	return s
}

func (s *templateService) Resolver() rules.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

func (s *templateService) Rebuild(ctx context.Context) error {
	templates, err := s.templateRepo.GetActiveWithStructure(ctx, nil)
	if err != nil {
		return err
	}
	idx := rules.NewTemplateIndex(s.dict)
	checks := 0
	for _, wt := range templates {
		for _, layer := range wt.Layers {
			for _, check := range layer.Checks {
				idx.Add(check.Name, domain.StringList(check.AllowedTypes))
				checks++
			}
		}
	}
	resolver := rules.NewResolver(s.dict, s.overrides, idx)

	s.mu.Lock()
	s.resolver = resolver
	s.mu.Unlock()

	s.log.Info("Template index rebuilt", "templates", len(templates), "checks", checks, "governed", idx.Len())
	return nil
}
