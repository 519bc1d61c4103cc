package service

import (
	"context"
	"testing"

	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/testutil"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransitionServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service TransitionService
}

func TestTransitionService(t *testing.T) {
	suite.Run(t, new(TransitionServiceSuite))
}

func (s *TransitionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		DB:              s.GetDB(),
		Cache:           s.GetCache(),
		IdempotencyGen:  s.GetIdempotencyGenerator(),
		GradeRepo:       stores.GradeRepo,
		ParticipantRepo: stores.ParticipantRepo,
		TransitionRepo:  stores.TransitionRepo,
		PeriodRepo:      stores.PeriodRepo,
	}
	s.service = NewTransitionService(s.params)
}

// newTestGrade builds a grade with the default pay table
func newTestGrade(ctx context.Context, name string, order int, plan int64, minRevenue, maxRevenue *int64) *grade.Grade {
	g := &grade.Grade{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GRADE),
		Name:      name,
		Plan:      decimal.NewFromInt(plan),
		Order:     order,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if minRevenue != nil {
		g.MinRevenue = lo.ToPtr(decimal.NewFromInt(*minRevenue))
	}
	if maxRevenue != nil {
		g.MaxRevenue = lo.ToPtr(decimal.NewFromInt(*maxRevenue))
	}
	return g
}

// seedGradeLadder seeds a six-tier ladder with contiguous revenue bands and
// ascending plans, top tier first by order
func seedGradeLadder(ctx context.Context, repo grade.Repository) map[string]*grade.Grade {
	ladder := []*grade.Grade{
		newTestGrade(ctx, "Sales Lead", 0, 2160000, lo.ToPtr(int64(2100000)), nil),
		newTestGrade(ctx, "Professional", 1, 1980000, lo.ToPtr(int64(1900000)), lo.ToPtr(int64(2100000))),
		newTestGrade(ctx, "Master", 2, 1800000, lo.ToPtr(int64(1700000)), lo.ToPtr(int64(1900000))),
		newTestGrade(ctx, "Expert", 3, 1620000, lo.ToPtr(int64(1500000)), lo.ToPtr(int64(1700000))),
		newTestGrade(ctx, "Specialist", 4, 1440000, lo.ToPtr(int64(1300000)), lo.ToPtr(int64(1500000))),
		newTestGrade(ctx, "Rookie", 5, 1260000, nil, lo.ToPtr(int64(1300000))),
	}

	byName := make(map[string]*grade.Grade, len(ladder))
	for _, g := range ladder {
		if err := repo.Create(ctx, g); err != nil {
			panic(err)
		}
		byName[g.Name] = g
	}
	return byName
}

func newTestParticipant(ctx context.Context, name string, revenue int64, gradeID *string) *participant.Participant {
	return &participant.Participant{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PARTICIPANT),
		FirstName:     name,
		Email:         name + "@example.com",
		Revenue:       decimal.NewFromInt(revenue),
		GradeID:       gradeID,
		WarningStatus: types.WarningStatusNone,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

func (s *TransitionServiceSuite) mustCatalog() *grade.Catalog {
	status := types.StatusActive
	grades, err := s.params.GradeRepo.List(s.GetContext(), &types.GradeFilter{Status: &status})
	s.NoError(err)
	catalog, err := grade.NewCatalog(grades)
	s.NoError(err)
	return catalog
}

func (s *TransitionServiceSuite) TestInitialAssignmentByRevenue() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "fresh", 1600000, nil)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypeInitial, ev.TransitionType)
	s.Equal(ladder["Expert"].ID, ev.GradeID)
	s.Equal("initial grade assignment", ev.Reason)
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
	s.True(ev.CompletionPercentage.IsZero())
}

func (s *TransitionServiceSuite) TestInitialAssignmentExtremes() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// revenue above every bounded band lands on the top tier
	high := s.service.EvaluateParticipant(newTestParticipant(s.GetContext(), "whale", 99000000, nil), catalog)
	s.Equal(ladder["Sales Lead"].ID, high.GradeID)

	// zero and negative revenue land on the bottom tier
	zero := s.service.EvaluateParticipant(newTestParticipant(s.GetContext(), "zero", 0, nil), catalog)
	s.Equal(ladder["Rookie"].ID, zero.GradeID)

	neg := newTestParticipant(s.GetContext(), "refunds", 0, nil)
	neg.Revenue = decimal.NewFromInt(-50000)
	s.Equal(ladder["Rookie"].ID, s.service.EvaluateParticipant(neg, catalog).GradeID)
}

func (s *TransitionServiceSuite) TestPromotionToNearestQualifyingTier() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 1,512,000 meets the Specialist plan (105%) but not Expert (93.3%)
	p := newTestParticipant(s.GetContext(), "climber", 1512000, &ladder["Rookie"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypePromotion, ev.TransitionType)
	s.Equal(ladder["Specialist"].ID, ev.GradeID)
	s.Contains(ev.Reason, "Specialist")
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
}

func (s *TransitionServiceSuite) TestPromotionPrefersNearestTierOnLargeJump() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 2,200,000 satisfies every plan up to Sales Lead (101.9%), but the
	// upward scan stops at the nearest tier whose plan is met
	p := newTestParticipant(s.GetContext(), "rocket", 2200000, &ladder["Rookie"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypePromotion, ev.TransitionType)
	s.Equal(ladder["Specialist"].ID, ev.GradeID)
	s.Contains(ev.Reason, "Specialist")
}

func (s *TransitionServiceSuite) TestSoftPromotionAtOneHundredTwenty() {
	// a steep ladder where 120% of the current plan does not reach the
	// next tier's plan
	low := newTestGrade(s.GetContext(), "Junior", 1, 100000, nil, lo.ToPtr(int64(150000)))
	high := newTestGrade(s.GetContext(), "Senior", 0, 300000, lo.ToPtr(int64(150000)), nil)
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), low))
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), high))
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "steady", 120000, &low.ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypePromotion, ev.TransitionType)
	s.Equal(high.ID, ev.GradeID)
	s.Contains(ev.Reason, "120.0%")
}

func (s *TransitionServiceSuite) TestNoSoftPromotionBelowThreshold() {
	low := newTestGrade(s.GetContext(), "Junior", 1, 100000, nil, lo.ToPtr(int64(150000)))
	high := newTestGrade(s.GetContext(), "Senior", 0, 300000, lo.ToPtr(int64(150000)), nil)
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), low))
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), high))
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "almost", 119999, &low.ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.False(ev.Changed)
	s.Equal(low.ID, ev.GradeID)
}

func (s *TransitionServiceSuite) TestStaysPutBetweenThresholds() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 87.5% of the Specialist plan: no promotion, no demotion, an 80% warning
	p := newTestParticipant(s.GetContext(), "middling", 1260000, &ladder["Specialist"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.False(ev.Changed)
	s.Equal(ladder["Specialist"].ID, ev.GradeID)
	s.Equal(types.WarningStatus80, ev.WarningStatus)
	s.Equal(1, ev.WarningPeriodsLeft)
	s.True(ev.CompletionPercentage.Equal(decimal.RequireFromString("87.5")))
}

func (s *TransitionServiceSuite) TestDemotionToRevenueBand() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 61.7% of the Expert plan; 1,000,000 maps to the Rookie band
	p := newTestParticipant(s.GetContext(), "slumping", 1000000, &ladder["Expert"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypeDemotion, ev.TransitionType)
	s.Equal(ladder["Rookie"].ID, ev.GradeID)
	s.Contains(ev.Reason, "Rookie")
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
}

func (s *TransitionServiceSuite) TestDemotionFallsBackOneTier() {
	// unbounded bands: the revenue lookup resolves to the current grade,
	// so the demotion steps down a single tier instead
	high := newTestGrade(s.GetContext(), "Senior", 0, 300000, nil, nil)
	low := newTestGrade(s.GetContext(), "Junior", 1, 100000, nil, nil)
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), high))
	s.NoError(s.params.GradeRepo.Create(s.GetContext(), low))
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "sliding", 180000, &high.ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypeDemotion, ev.TransitionType)
	s.Equal(low.ID, ev.GradeID)
	s.NotContains(ev.Reason, "by revenue")
}

func (s *TransitionServiceSuite) TestBottomTierNeverDemoted() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "floored", 500000, &ladder["Rookie"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)

	s.False(ev.Changed)
	s.Equal(ladder["Rookie"].ID, ev.GradeID)
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
}

func (s *TransitionServiceSuite) TestWarningLifecycle() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 92% of the Specialist plan issues a fresh 90% warning
	p := newTestParticipant(s.GetContext(), "wobbling", 1324800, &ladder["Specialist"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)
	s.False(ev.Changed)
	s.Equal(types.WarningStatus90, ev.WarningStatus)
	s.Equal(2, ev.WarningPeriodsLeft)

	// lingering under plan burns one grace period
	p.WarningStatus = ev.WarningStatus
	p.WarningPeriodsLeft = ev.WarningPeriodsLeft
	ev = s.service.EvaluateParticipant(p, catalog)
	s.False(ev.Changed)
	s.Equal(types.WarningStatus90, ev.WarningStatus)
	s.Equal(1, ev.WarningPeriodsLeft)

	// grace exhausted: the warning forces a demotion even above 70%
	p.WarningStatus = ev.WarningStatus
	p.WarningPeriodsLeft = ev.WarningPeriodsLeft
	ev = s.service.EvaluateParticipant(p, catalog)
	s.True(ev.Changed)
	s.Equal(types.TransitionTypeDemotion, ev.TransitionType)
	s.Contains(ev.Reason, "90% warning")
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
}

func (s *TransitionServiceSuite) TestWarningClearedOnRecovery() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// exactly 100% of the Professional plan clears the warning with no move
	p := newTestParticipant(s.GetContext(), "recovered", 1980000, &ladder["Professional"].ID)
	p.WarningStatus = types.WarningStatus90
	p.WarningPeriodsLeft = 1

	ev := s.service.EvaluateParticipant(p, catalog)
	s.False(ev.Changed)
	s.Equal(ladder["Professional"].ID, ev.GradeID)
	s.Equal(types.WarningStatusNone, ev.WarningStatus)
	s.Equal(0, ev.WarningPeriodsLeft)
}

func (s *TransitionServiceSuite) TestEightyWarningGetsSingleGracePeriod() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	// 83.3% of the Master plan
	p := newTestParticipant(s.GetContext(), "fading", 1500000, &ladder["Master"].ID)
	ev := s.service.EvaluateParticipant(p, catalog)
	s.False(ev.Changed)
	s.Equal(types.WarningStatus80, ev.WarningStatus)
	s.Equal(1, ev.WarningPeriodsLeft)

	// the single grace period is already the last one
	p.WarningStatus = ev.WarningStatus
	p.WarningPeriodsLeft = ev.WarningPeriodsLeft
	ev = s.service.EvaluateParticipant(p, catalog)
	s.True(ev.Changed)
	s.Equal(types.TransitionTypeDemotion, ev.TransitionType)
	s.Contains(ev.Reason, "80% warning")
}

func (s *TransitionServiceSuite) TestEvaluationIsPure() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "same", 1324800, &ladder["Specialist"].ID)
	first := s.service.EvaluateParticipant(p, catalog)
	second := s.service.EvaluateParticipant(p, catalog)
	s.Equal(first, second)
}

func (s *TransitionServiceSuite) TestProcessPeriodPersistsOutcome() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	ctx := s.GetContext()

	promoted := newTestParticipant(ctx, "promoted", 1512000, &ladder["Rookie"].ID)
	stable := newTestParticipant(ctx, "stable", 1850000, &ladder["Master"].ID)
	fresh := newTestParticipant(ctx, "fresh", 1600000, nil)
	for _, p := range []*participant.Participant{promoted, stable, fresh} {
		s.NoError(s.params.ParticipantRepo.Create(ctx, p))
	}

	transitions, err := s.service.ProcessPeriod(ctx, "period_run_1")
	s.NoError(err)
	s.Len(transitions, 2)

	for _, t := range transitions {
		s.Equal("period_run_1", t.PeriodID)
		s.NotEmpty(t.IdempotencyKey)
	}

	got, err := s.params.ParticipantRepo.Get(ctx, promoted.ID)
	s.NoError(err)
	s.Equal(ladder["Specialist"].ID, *got.GradeID)
	s.True(got.LastPeriodRevenue.Equal(decimal.NewFromInt(1512000)))
	s.True(got.LastCompletionPercentage.GreaterThan(decimal.NewFromInt(100)))

	got, err = s.params.ParticipantRepo.Get(ctx, fresh.ID)
	s.NoError(err)
	s.Equal(ladder["Expert"].ID, *got.GradeID)

	// 102.7% of the Master plan: no move, no warning
	got, err = s.params.ParticipantRepo.Get(ctx, stable.ID)
	s.NoError(err)
	s.Equal(ladder["Master"].ID, *got.GradeID)
	s.Equal(types.WarningStatusNone, got.WarningStatus)
}

func (s *TransitionServiceSuite) TestProcessPeriodConverges() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	ctx := s.GetContext()

	p := newTestParticipant(ctx, "climber", 1512000, &ladder["Rookie"].ID)
	s.NoError(s.params.ParticipantRepo.Create(ctx, p))

	first, err := s.service.ProcessPeriod(ctx, "period_a")
	s.NoError(err)
	s.Len(first, 1)

	// the promoted participant now sits at 105% of the Specialist plan,
	// so a second close moves nobody
	second, err := s.service.ProcessPeriod(ctx, "period_b")
	s.NoError(err)
	s.Empty(second)
}

func (s *TransitionServiceSuite) TestProcessPeriodFailsWithoutGrades() {
	ctx := s.GetContext()
	p := newTestParticipant(ctx, "stranded", 1000000, nil)
	s.NoError(s.params.ParticipantRepo.Create(ctx, p))

	_, err := s.service.ProcessPeriod(ctx, "period_x")
	s.Error(err)
	s.True(ierr.IsNoGradesConfigured(err))

	// nobody was touched
	got, err := s.params.ParticipantRepo.Get(ctx, p.ID)
	s.NoError(err)
	s.Nil(got.GradeID)
}

func (s *TransitionServiceSuite) TestStaleGradeTreatedAsUnassigned() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	catalog := s.mustCatalog()

	p := newTestParticipant(s.GetContext(), "orphaned", 1600000, lo.ToPtr("grade_gone"))
	ev := s.service.EvaluateParticipant(p, catalog)

	s.True(ev.Changed)
	s.Equal(types.TransitionTypeInitial, ev.TransitionType)
	s.Equal(ladder["Expert"].ID, ev.GradeID)
}

func (s *TransitionServiceSuite) TestGetParticipantTransitions() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	ctx := s.GetContext()

	p := newTestParticipant(ctx, "tracked", 1512000, &ladder["Rookie"].ID)
	s.NoError(s.params.ParticipantRepo.Create(ctx, p))

	_, err := s.service.ProcessPeriod(ctx, "period_a")
	s.NoError(err)

	resp, err := s.service.GetParticipantTransitions(ctx, p.ID)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal("Rookie", resp.Transitions[0].FromGradeName)
	s.Equal("Specialist", resp.Transitions[0].ToGradeName)
}
