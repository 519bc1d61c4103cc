package service

import (
	"testing"
	"time"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/testutil"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type PeriodServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service PeriodService
}

func TestPeriodService(t *testing.T) {
	suite.Run(t, new(PeriodServiceSuite))
}

func (s *PeriodServiceSuite) SetupTest() {
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
	s.service = NewPeriodService(s.params)
}

func (s *PeriodServiceSuite) createPeriod(name string) *dto.PeriodResponse {
	resp, err := s.service.CreatePeriod(s.GetContext(), dto.CreatePeriodRequest{
		Name:      name,
		StartDate: s.GetNow().AddDate(0, 0, -30),
		EndDate:   s.GetNow(),
		Type:      types.PeriodTypeMonthly,
	})
	s.NoError(err)
	return resp
}

func (s *PeriodServiceSuite) TestCreatePeriod() {
	resp := s.createPeriod("August 2026")
	s.Equal(types.PeriodStatusPending, resp.PeriodStatus)
	s.Equal(types.PeriodTypeMonthly, resp.Type)
}

func (s *PeriodServiceSuite) TestCreateRejectsSecondOpenPeriod() {
	s.createPeriod("August 2026")

	_, err := s.service.CreatePeriod(s.GetContext(), dto.CreatePeriodRequest{
		Name:      "September 2026",
		StartDate: s.GetNow(),
		EndDate:   s.GetNow().AddDate(0, 1, 0),
		Type:      types.PeriodTypeMonthly,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PeriodServiceSuite) TestCreateRejectsInvertedDates() {
	_, err := s.service.CreatePeriod(s.GetContext(), dto.CreatePeriodRequest{
		Name:      "Backwards",
		StartDate: s.GetNow(),
		EndDate:   s.GetNow().Add(-time.Hour),
		Type:      types.PeriodTypeCustom,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PeriodServiceSuite) TestActivateOnlyFromPending() {
	created := s.createPeriod("August 2026")

	activated, err := s.service.ActivatePeriod(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.PeriodStatusActive, activated.PeriodStatus)

	_, err = s.service.ActivatePeriod(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PeriodServiceSuite) TestCompleteRunsEngineAndSnapshots() {
	ctx := s.GetContext()
	ladder := seedGradeLadder(ctx, s.params.GradeRepo)

	p := newTestParticipant(ctx, "climber", 1512000, &ladder["Rookie"].ID)
	s.NoError(s.params.ParticipantRepo.Create(ctx, p))

	created := s.createPeriod("August 2026")
	_, err := s.service.ActivatePeriod(ctx, created.ID)
	s.NoError(err)

	resp, err := s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{})
	s.NoError(err)
	s.Equal(types.PeriodStatusCompleted, resp.Period.PeriodStatus)
	s.Len(resp.Transitions, 1)
	s.Equal(ladder["Specialist"].ID, resp.Transitions[0].ToGradeID)

	// the snapshot froze the pre-transition figures
	stored, err := s.params.PeriodRepo.Get(ctx, created.ID)
	s.NoError(err)
	s.Len(stored.ParticipantSnapshots, 1)
	snap := stored.ParticipantSnapshots[0]
	s.Equal(p.ID, snap.ParticipantID)
	s.Equal("Rookie", snap.GradeName)
	s.True(snap.Revenue.Equal(p.Revenue))
}

func (s *PeriodServiceSuite) TestCompleteWithoutSnapshot() {
	ctx := s.GetContext()
	seedGradeLadder(ctx, s.params.GradeRepo)

	created := s.createPeriod("August 2026")
	_, err := s.service.ActivatePeriod(ctx, created.ID)
	s.NoError(err)

	_, err = s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{
		SaveSnapshot: lo.ToPtr(false),
	})
	s.NoError(err)

	stored, err := s.params.PeriodRepo.Get(ctx, created.ID)
	s.NoError(err)
	s.Empty(stored.ParticipantSnapshots)
}

func (s *PeriodServiceSuite) TestCompleteTwiceIsRejected() {
	ctx := s.GetContext()
	seedGradeLadder(ctx, s.params.GradeRepo)

	created := s.createPeriod("August 2026")
	_, err := s.service.ActivatePeriod(ctx, created.ID)
	s.NoError(err)

	_, err = s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{})
	s.NoError(err)

	_, err = s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PeriodServiceSuite) TestCompletePendingIsRejected() {
	ctx := s.GetContext()
	seedGradeLadder(ctx, s.params.GradeRepo)

	created := s.createPeriod("August 2026")
	_, err := s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PeriodServiceSuite) TestCompleteFailsWithoutGrades() {
	ctx := s.GetContext()

	created := s.createPeriod("August 2026")
	_, err := s.service.ActivatePeriod(ctx, created.ID)
	s.NoError(err)

	_, err = s.service.CompletePeriod(ctx, created.ID, dto.CompletePeriodRequest{})
	s.Error(err)
	s.True(ierr.IsNoGradesConfigured(err))

	// the period stays active so the close can be retried
	stored, err := s.params.PeriodRepo.Get(ctx, created.ID)
	s.NoError(err)
	s.Equal(types.PeriodStatusActive, stored.PeriodStatus)
}

func (s *PeriodServiceSuite) TestCancelPeriod() {
	created := s.createPeriod("August 2026")

	cancelled, err := s.service.CancelPeriod(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.PeriodStatusCancelled, cancelled.PeriodStatus)

	// a cancelled period no longer blocks a new one
	s.createPeriod("September 2026")

	_, err = s.service.CancelPeriod(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PeriodServiceSuite) TestUpdateClosedPeriodIsRejected() {
	created := s.createPeriod("August 2026")
	_, err := s.service.CancelPeriod(s.GetContext(), created.ID)
	s.NoError(err)

	_, err = s.service.UpdatePeriod(s.GetContext(), created.ID, dto.UpdatePeriodRequest{
		Name: lo.ToPtr("renamed"),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
