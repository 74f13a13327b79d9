package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axiroad/roadworks-backend/internal/data/repos"
	"github.com/axiroad/roadworks-backend/internal/domain"
	"github.com/axiroad/roadworks-backend/internal/engine/vocab"
	"github.com/axiroad/roadworks-backend/internal/pkg/ctxutil"
	"github.com/axiroad/roadworks-backend/internal/pkg/logger"
)

type DefinitionFinding struct {
	PhaseDefinitionID uuid.UUID `json:"phase_definition_id"`
	Name              string    `json:"name"`
	MissingLayers     bool      `json:"missing_layers"`
	MissingChecks     bool      `json:"missing_checks"`
}

type IntervalFinding struct {
	IntervalID  uuid.UUID `json:"interval_id"`
	RoadPhaseID uuid.UUID `json:"road_phase_id"`
	LayerName   string    `json:"layer_name"`
}

type LinkFinding struct {
	LinkID      uuid.UUID `json:"link_id"`
	RoadPhaseID uuid.UUID `json:"road_phase_id"`
	Name        string    `json:"name"`
}

// AuditReport is informational: the system keeps operating with drifted
// data and the report is handed to a human for remediation.
type AuditReport struct {
	GeneratedAt                   time.Time           `json:"generated_at"`
	PhasesChecked                 int                 `json:"phases_checked"`
	IntervalsChecked              int                 `json:"intervals_checked"`
	DefinitionMissingDefaults     []DefinitionFinding `json:"definition_missing_defaults,omitempty"`
	IntervalLayerOutsideTemplate  []IntervalFinding   `json:"interval_layer_outside_template,omitempty"`
	PhaseLayerLinkOutsideTemplate []LinkFinding       `json:"phase_layer_link_outside_template,omitempty"`
}

// AuditService validates that phase instances and their intervals stay
// inside their phase definition's template vocabulary. Read-only: it
// never mutates data, remediation is a separate explicit operation.
type AuditService interface {
	Run(ctx context.Context) (*AuditReport, error)
}

type auditService struct {
	db           *gorm.DB
	log          *logger.Logger
	phaseRepo    repos.RoadPhaseRepo
	intervalRepo repos.PhaseIntervalRepo
	dict         *vocab.Dictionary
}

func NewAuditService(db *gorm.DB, baseLog *logger.Logger, phaseRepo repos.RoadPhaseRepo, intervalRepo repos.PhaseIntervalRepo, dict *vocab.Dictionary) AuditService {
	return &auditService{
		db:           db,
		log:          baseLog.With("service", "AuditService"),
		phaseRepo:    phaseRepo,
		intervalRepo: intervalRepo,
		dict:         dict,
	}
}

func (s *auditService) Run(ctx context.Context) (*AuditReport, error) {
	ctx = ctxutil.Default(ctx)
	report := &AuditReport{GeneratedAt: time.Now().UTC()}

	phases, err := s.phaseRepo.GetAllWithDefinitions(ctx, nil)
	if err != nil {
		return nil, err
	}
	report.PhasesChecked = len(phases)

	// Template vocabulary per phase, as canonical-name key sets.
	layerVocab := make(map[uuid.UUID]map[string]bool, len(phases))
	flaggedDefs := make(map[uuid.UUID]bool)
	phaseIDs := make([]uuid.UUID, 0, len(phases))
	for _, phase := range phases {
		phaseIDs = append(phaseIDs, phase.ID)
		def := phase.PhaseDefinition
		if def == nil {
			continue
		}

		layers := s.dict.Canonicalize(vocab.KindLayer, domain.StringList(def.DefaultLayers))
		checks := s.dict.Canonicalize(vocab.KindCheck, domain.StringList(def.DefaultChecks))

		if (len(layers) == 0 || len(checks) == 0) && !flaggedDefs[def.ID] {
			flaggedDefs[def.ID] = true
			report.DefinitionMissingDefaults = append(report.DefinitionMissingDefaults, DefinitionFinding{
				PhaseDefinitionID: def.ID,
				Name:              def.Name,
				MissingLayers:     len(layers) == 0,
				MissingChecks:     len(checks) == 0,
			})
		}

		keys := make(map[string]bool, len(layers))
		for _, name := range layers {
			keys[vocab.NormKey(name)] = true
		}
		layerVocab[phase.ID] = keys
	}

	intervals, err := s.intervalRepo.GetByPhaseIDs(ctx, nil, phaseIDs)
	if err != nil {
		return nil, err
	}
	report.IntervalsChecked = len(intervals)
	for _, interval := range intervals {
		allowed, ok := layerVocab[interval.RoadPhaseID]
		if !ok {
			continue
		}
		for _, name := range s.dict.Canonicalize(vocab.KindLayer, domain.StringList(interval.Layers)) {
			if !allowed[vocab.NormKey(name)] {
				report.IntervalLayerOutsideTemplate = append(report.IntervalLayerOutsideTemplate, IntervalFinding{
					IntervalID:  interval.ID,
					RoadPhaseID: interval.RoadPhaseID,
					LayerName:   name,
				})
			}
		}
	}

	links, err := s.phaseRepo.GetLayerLinksByPhaseIDs(ctx, nil, phaseIDs)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		allowed, ok := layerVocab[link.RoadPhaseID]
		if !ok {
			continue
		}
		canon := s.dict.Canonical(vocab.KindLayer, link.Name)
		if canon != "" && !allowed[vocab.NormKey(canon)] {
			report.PhaseLayerLinkOutsideTemplate = append(report.PhaseLayerLinkOutsideTemplate, LinkFinding{
				LinkID:      link.ID,
				RoadPhaseID: link.RoadPhaseID,
				Name:        canon,
			})
		}
	}

	s.log.Info("Template consistency audit finished",
		"phases", report.PhasesChecked,
		"intervals", report.IntervalsChecked,
		"definition_findings", len(report.DefinitionMissingDefaults),
		"interval_findings", len(report.IntervalLayerOutsideTemplate),
		"link_findings", len(report.PhaseLayerLinkOutsideTemplate))
	return report, nil
}
