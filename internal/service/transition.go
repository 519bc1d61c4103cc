package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	"github.com/gradeflow/gradeflow/internal/idempotency"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	promotionThreshold     = decimal.NewFromInt(100)
	softPromotionThreshold = decimal.NewFromInt(120)
	demotionThreshold      = decimal.NewFromInt(70)
	warning90Threshold     = decimal.NewFromInt(90)
	warning80Threshold     = decimal.NewFromInt(80)
)

// Evaluation is the engine's verdict for one participant: the grade and
// warning state they should carry into the next period. It is produced
// without touching storage so the same inputs always yield the same verdict.
type Evaluation struct {
	GradeID            string
	WarningStatus      types.WarningStatus
	WarningPeriodsLeft int

	CompletionPercentage decimal.Decimal

	// Changed is true when the grade moved; the remaining fields describe
	// the transition to record
	Changed        bool
	TransitionType types.TransitionType
	Reason         string
}

type TransitionService interface {
	// ProcessPeriod evaluates every active participant against the current
	// grade catalog and persists the outcome atomically. Participants are
	// processed independently: one evaluation never observes another's
	// in-run changes.
	ProcessPeriod(ctx context.Context, periodID string) ([]*transition.Transition, error)

	// EvaluateParticipant is the pure decision function behind ProcessPeriod
	EvaluateParticipant(p *participant.Participant, catalog *grade.Catalog) Evaluation

	GetParticipantTransitions(ctx context.Context, participantID string) (*dto.ListTransitionsResponse, error)
	GetPeriodTransitions(ctx context.Context, periodID string) (*dto.ListTransitionsResponse, error)
}

type transitionService struct {
	ServiceParams
}

func NewTransitionService(params ServiceParams) TransitionService {
	return &transitionService{
		ServiceParams: params,
	}
}

func (s *transitionService) ProcessPeriod(ctx context.Context, periodID string) ([]*transition.Transition, error) {
	gradeService := NewGradeService(s.ServiceParams)
	catalog, err := gradeService.GetCatalog(ctx)
	if err != nil {
		// includes the empty-catalog case, which aborts the whole run
		// before any participant is touched
		return nil, err
	}

	status := types.StatusActive
	participants, err := s.ParticipantRepo.List(ctx, &types.ParticipantFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	transitions := make([]*transition.Transition, 0, len(participants))

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, p := range participants {
			ev := s.EvaluateParticipant(p, catalog)

			if ev.Changed {
				t := &transition.Transition{
					ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSITION),
					ParticipantID:        p.ID,
					FromGradeID:          p.GradeID,
					ToGradeID:            ev.GradeID,
					PeriodID:             periodID,
					TransitionType:       ev.TransitionType,
					Reason:               ev.Reason,
					CompletionPercentage: ev.CompletionPercentage,
					Revenue:              p.Revenue,
					IdempotencyKey: s.IdempotencyGen.GenerateKey(idempotency.ScopeTransition, map[string]interface{}{
						"period_id":      periodID,
						"participant_id": p.ID,
					}),
					CreatedAt: time.Now().UTC(),
				}
				if err := s.TransitionRepo.Append(ctx, t); err != nil {
					return err
				}
				transitions = append(transitions, t)
			}

			p.GradeID = lo.ToPtr(ev.GradeID)
			p.WarningStatus = ev.WarningStatus
			p.WarningPeriodsLeft = ev.WarningPeriodsLeft
			p.LastPeriodRevenue = p.Revenue
			p.LastCompletionPercentage = ev.CompletionPercentage
			if err := s.ParticipantRepo.Update(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("processed grade transitions",
		"period_id", periodID,
		"participants", len(participants),
		"transitions", len(transitions))

	return transitions, nil
}

func (s *transitionService) EvaluateParticipant(p *participant.Participant, catalog *grade.Catalog) Evaluation {
	// Unassigned participants, including ones whose grade left the active
	// catalog, get the band their revenue alone deserves
	var current *grade.Grade
	if p.Assigned() {
		current, _ = catalog.ByID(*p.GradeID)
	}
	if current == nil {
		target := catalog.FindByRevenue(p.Revenue)
		return Evaluation{
			GradeID:              target.ID,
			WarningStatus:        types.WarningStatusNone,
			WarningPeriodsLeft:   0,
			CompletionPercentage: decimal.Zero,
			Changed:              true,
			TransitionType:       types.TransitionTypeInitial,
			Reason:               "initial grade assignment",
		}
	}

	completion := current.CompletionPercent(p.Revenue)

	if target, reason, ok := checkPromotion(p.Revenue, current, catalog, completion); ok {
		return Evaluation{
			GradeID:              target.ID,
			WarningStatus:        types.WarningStatusNone,
			WarningPeriodsLeft:   0,
			CompletionPercentage: completion,
			Changed:              true,
			TransitionType:       types.TransitionTypePromotion,
			Reason:               reason,
		}
	}

	if target, reason, ok := checkDemotion(p, current, catalog, completion); ok {
		return Evaluation{
			GradeID:              target.ID,
			WarningStatus:        types.WarningStatusNone,
			WarningPeriodsLeft:   0,
			CompletionPercentage: completion,
			Changed:              true,
			TransitionType:       types.TransitionTypeDemotion,
			Reason:               reason,
		}
	}

	status, left := nextWarningState(p, completion)
	return Evaluation{
		GradeID:              current.ID,
		WarningStatus:        status,
		WarningPeriodsLeft:   left,
		CompletionPercentage: completion,
		Changed:              false,
	}
}

// checkPromotion scans the tiers above the current grade nearest first and
// promotes to the first one whose own plan the revenue satisfies. Failing
// that, completing the current plan at 120% or more earns a single-tier bump.
func checkPromotion(revenue decimal.Decimal, current *grade.Grade, catalog *grade.Catalog, completion decimal.Decimal) (*grade.Grade, string, bool) {
	for _, cand := range catalog.Above(current) {
		cc := cand.CompletionPercent(revenue)
		if cc.GreaterThanOrEqual(promotionThreshold) {
			return cand, fmt.Sprintf("met %s plan at %s%%", cand.Name, cc.StringFixed(1)), true
		}
	}

	if completion.GreaterThanOrEqual(softPromotionThreshold) {
		if next := catalog.NextAbove(current); next != nil {
			return next, fmt.Sprintf("exceeded current plan at %s%%", completion.StringFixed(1)), true
		}
	}

	return nil, "", false
}

// checkDemotion applies the two demotion rules. An expired warning with the
// plan still unmet is checked before the hard 70% floor, so a participant
// whose grace ran out is demoted with the warning-expiry reason even when
// they also sit under the floor.
func checkDemotion(p *participant.Participant, current *grade.Grade, catalog *grade.Catalog, completion decimal.Decimal) (*grade.Grade, string, bool) {
	if p.WarningStatus.Active() && p.WarningPeriodsLeft <= 1 && completion.LessThan(promotionThreshold) {
		label := "90%"
		if p.WarningStatus == types.WarningStatus80 {
			label = "80%"
		}
		if target, byRevenue := demotionTarget(p.Revenue, current, catalog); target != nil {
			reason := fmt.Sprintf("failed to recover after %s warning", label)
			if byRevenue {
				reason = fmt.Sprintf("failed to recover after %s warning, reassigned to %s by revenue", label, target.Name)
			}
			return target, reason, true
		}
	}

	if completion.LessThanOrEqual(demotionThreshold) {
		if target, byRevenue := demotionTarget(p.Revenue, current, catalog); target != nil {
			reason := fmt.Sprintf("completed plan at %s%%", completion.StringFixed(1))
			if byRevenue {
				reason = fmt.Sprintf("completed plan at %s%%, reassigned to %s by revenue", completion.StringFixed(1), target.Name)
			}
			return target, reason, true
		}
	}

	return nil, "", false
}

// demotionTarget prefers the grade the raw revenue maps to when it ranks
// strictly below the current one; otherwise it falls back to a single-tier
// step down. At the bottom of the ladder there is nowhere to go and the
// participant stays put.
func demotionTarget(revenue decimal.Decimal, current *grade.Grade, catalog *grade.Catalog) (*grade.Grade, bool) {
	byRevenue := catalog.FindByRevenue(revenue)
	if catalog.IsBelow(byRevenue, current) {
		return byRevenue, true
	}
	if next := catalog.NextBelow(current); next != nil {
		return next, false
	}
	return nil, false
}

// nextWarningState advances the hysteresis state for a participant keeping
// their grade this period. Entering a warning band issues a fresh warning,
// lingering under plan burns one grace period, and meeting the plan clears
// everything.
func nextWarningState(p *participant.Participant, completion decimal.Decimal) (types.WarningStatus, int) {
	switch {
	case completion.GreaterThanOrEqual(warning90Threshold) && completion.LessThan(promotionThreshold) &&
		p.WarningStatus != types.WarningStatus90:
		return types.WarningStatus90, 2

	case completion.GreaterThanOrEqual(warning80Threshold) && completion.LessThan(warning90Threshold) &&
		p.WarningStatus != types.WarningStatus80:
		return types.WarningStatus80, 1

	case p.WarningStatus.Active() && completion.LessThan(promotionThreshold):
		left := p.WarningPeriodsLeft - 1
		if left < 0 {
			left = 0
		}
		return p.WarningStatus, left

	default:
		return types.WarningStatusNone, 0
	}
}

func (s *transitionService) GetParticipantTransitions(ctx context.Context, participantID string) (*dto.ListTransitionsResponse, error) {
	if _, err := s.ParticipantRepo.Get(ctx, participantID); err != nil {
		return nil, err
	}

	transitions, err := s.TransitionRepo.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(ctx, transitions)
}

func (s *transitionService) GetPeriodTransitions(ctx context.Context, periodID string) (*dto.ListTransitionsResponse, error) {
	transitions, err := s.TransitionRepo.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(ctx, transitions)
}

func (s *transitionService) toListResponse(ctx context.Context, transitions []*transition.Transition) (*dto.ListTransitionsResponse, error) {
	grades, err := s.GradeRepo.List(ctx, &types.GradeFilter{})
	if err != nil {
		return nil, err
	}
	gradeNames := make(map[string]string, len(grades))
	for _, g := range grades {
		gradeNames[g.ID] = g.Name
	}

	return &dto.ListTransitionsResponse{
		Transitions: lo.Map(transitions, func(t *transition.Transition, _ int) *dto.TransitionResponse {
			resp := &dto.TransitionResponse{Transition: t, ToGradeName: gradeNames[t.ToGradeID]}
			if t.FromGradeID != nil {
				resp.FromGradeName = gradeNames[*t.FromGradeID]
			}
			return resp
		}),
		Total: len(transitions),
	}, nil
}
