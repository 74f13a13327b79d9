package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	apperrors "github.com/axiroad/roadworks-backend/internal/pkg/errors"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type RoadCreateInput struct {
	Name string
	Slug string
}

type PhaseCreateInput struct {
	PhaseDefinitionID uuid.UUID
}

type IntervalCreateInput struct {
	StartPK float64
	EndPK   float64
	Side    string
	Layers  []string
	Spec    string
}

// RoadService manages the structural entities entries hang off of: road
// sections, their phase instances and the PK intervals inside a phase.
type RoadService interface {
	CreateRoad(ctx context.Context, input RoadCreateInput) (*domain.RoadSection, error)
	ListRoads(ctx context.Context) ([]*domain.RoadSection, error)
	CreatePhase(ctx context.Context, roadID uuid.UUID, input PhaseCreateInput) (*domain.RoadPhase, error)
	ListPhases(ctx context.Context, roadID uuid.UUID) ([]*domain.RoadPhase, error)
	CreateInterval(ctx context.Context, phaseID uuid.UUID, input IntervalCreateInput) (*domain.PhaseInterval, error)
	ListIntervals(ctx context.Context, phaseID uuid.UUID) ([]*domain.PhaseInterval, error)
}

type roadService struct {
	db           *gorm.DB
	log          *logger.Logger
	roadRepo     repos.RoadSectionRepo
	defRepo      repos.PhaseDefinitionRepo
	phaseRepo    repos.RoadPhaseRepo
	intervalRepo repos.PhaseIntervalRepo
	dict         *vocab.Dictionary
}

func NewRoadService(db *gorm.DB, baseLog *logger.Logger, roadRepo repos.RoadSectionRepo, defRepo repos.PhaseDefinitionRepo, phaseRepo repos.RoadPhaseRepo, intervalRepo repos.PhaseIntervalRepo, dict *vocab.Dictionary) RoadService {
	return &roadService{
		db:           db,
		log:          baseLog.With("service", "RoadService"),
		roadRepo:     roadRepo,
		defRepo:      defRepo,
		phaseRepo:    phaseRepo,
		intervalRepo: intervalRepo,
		dict:         dict,
	}
}

// Slugify lowercases, strips accents and collapses runs of non-alphanumerics
// into single hyphens. "Rocade Nord RN-12" becomes "rocade-nord-rn-12".
func Slugify(name string) string {
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	b.Grow(len(decomposed))
	pendingHyphen := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

func (s *roadService) CreateRoad(ctx context.Context, input RoadCreateInput) (*domain.RoadSection, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, apperrors.NewValidation("slug", "name yields an empty slug, provide one explicitly")
	}

	existing, err := s.roadRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidation("slug", "already in use")
	}

	row := &domain.RoadSection{Name: name, Slug: slug}
	if _, err := s.roadRepo.Create(ctx, nil, []*domain.RoadSection{row}); err != nil {
		return nil, err
	}
	s.log.Info("Road section created", "slug", slug)
	return row, nil
}

func (s *roadService) ListRoads(ctx context.Context) ([]*domain.RoadSection, error) {
	return s.roadRepo.GetAll(ctx, nil)
}

// CreatePhase instantiates a phase definition on a road, copying the
// definition's default layers and checks into per-phase links. The copies
// are canonicalized at instantiation time; the definition keeps whatever
// the admin typed.
func (s *roadService) CreatePhase(ctx context.Context, roadID uuid.UUID, input PhaseCreateInput) (*domain.RoadPhase, error) {
	road, err := s.roadRepo.GetByID(ctx, nil, roadID)
	if err != nil {
		return nil, err
	}
	if road == nil {
		return nil, apperrors.ErrNotFound
	}
	def, err := s.defRepo.GetByID(ctx, nil, input.PhaseDefinitionID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, apperrors.NewValidation("phaseDefinitionId", "unknown phase definition")
	}

	phase := &domain.RoadPhase{
		RoadSectionID:     road.ID,
		PhaseDefinitionID: def.ID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.phaseRepo.Create(ctx, tx, []*domain.RoadPhase{phase}); err != nil {
			return err
		}

		layers := s.dict.Canonicalize(vocab.KindLayer, domain.StringList(def.DefaultLayers))
		layerLinks := make([]*domain.PhaseLayerLink, 0, len(layers))
		for _, name := range layers {
			layerLinks = append(layerLinks, &domain.PhaseLayerLink{RoadPhaseID: phase.ID, Name: name})
		}
		if _, err := s.phaseRepo.CreateLayerLinks(ctx, tx, layerLinks); err != nil {
			return err
		}

		checks := s.dict.Canonicalize(vocab.KindCheck, domain.StringList(def.DefaultChecks))
		checkLinks := make([]*domain.PhaseCheckLink, 0, len(checks))
		for _, name := range checks {
			checkLinks = append(checkLinks, &domain.PhaseCheckLink{RoadPhaseID: phase.ID, Name: name})
		}
		_, err := s.phaseRepo.CreateCheckLinks(ctx, tx, checkLinks)
		return err
	})
	if err != nil {
		return nil, err
	}
	phase.PhaseDefinition = def
	s.log.Info("Road phase created", "road_id", road.ID, "definition", def.Name)
	return phase, nil
}

func (s *roadService) ListPhases(ctx context.Context, roadID uuid.UUID) ([]*domain.RoadPhase, error) {
	road, err := s.roadRepo.GetByID(ctx, nil, roadID)
	if err != nil {
		return nil, err
	}
	if road == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.phaseRepo.GetByRoadSectionIDs(ctx, nil, []uuid.UUID{roadID})
}

func (s *roadService) CreateInterval(ctx context.Context, phaseID uuid.UUID, input IntervalCreateInput) (*domain.PhaseInterval, error) {
	phase, err := s.phaseRepo.GetByID(ctx, nil, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, apperrors.ErrNotFound
	}
	if err := ValidatePKRange(input.StartPK, input.EndPK); err != nil {
		return nil, err
	}
	side := input.Side
	if side == "" {
		side = domain.SideBoth
	}
	if !domain.ValidSide(side) {
		return nil, apperrors.NewValidation("side", "must be LEFT, RIGHT or BOTH")
	}

	// Interval layers stay free text against the template; the auditor
	// reports drift instead of this path rejecting it.
	row := &domain.PhaseInterval{
		RoadPhaseID: phase.ID,
		StartPK:     input.StartPK,
		EndPK:       input.EndPK,
		Side:        side,
		Layers:      domain.JSONList(s.dict.Canonicalize(vocab.KindLayer, input.Layers)),
		Spec:        strings.TrimSpace(input.Spec),
	}
	if _, err := s.intervalRepo.Create(ctx, nil, []*domain.PhaseInterval{row}); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *roadService) ListIntervals(ctx context.Context, phaseID uuid.UUID) ([]*domain.PhaseInterval, error) {
	phase, err := s.phaseRepo.GetByID(ctx, nil, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.intervalRepo.GetByPhaseIDs(ctx, nil, []uuid.UUID{phaseID})
}
