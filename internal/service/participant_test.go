package service

import (
	"testing"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/testutil"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ParticipantServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service ParticipantService
}

func TestParticipantService(t *testing.T) {
	suite.Run(t, new(ParticipantServiceSuite))
}

func (s *ParticipantServiceSuite) SetupTest() {
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
	s.service = NewParticipantService(s.params)
}

func (s *ParticipantServiceSuite) TestCreateParticipant() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)

	resp, err := s.service.CreateParticipant(s.GetContext(), dto.CreateParticipantRequest{
		FirstName: "Ada",
		LastName:  "Kovacs",
		Email:     "ada@example.com",
		Revenue:   decimal.NewFromInt(1400000),
		GradeID:   &ladder["Specialist"].ID,
	})
	s.NoError(err)
	s.Equal("Ada Kovacs", resp.FullName())
	s.Equal("Specialist", resp.GradeName)
	s.Equal(types.WarningStatusNone, resp.WarningStatus)
}

func (s *ParticipantServiceSuite) TestCreateRejectsUnknownGrade() {
	_, err := s.service.CreateParticipant(s.GetContext(), dto.CreateParticipantRequest{
		FirstName: "Lost",
		GradeID:   lo.ToPtr("grade_missing"),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ParticipantServiceSuite) TestCreateRejectsNegativeRevenue() {
	_, err := s.service.CreateParticipant(s.GetContext(), dto.CreateParticipantRequest{
		FirstName: "Minus",
		Revenue:   decimal.NewFromInt(-1),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ParticipantServiceSuite) TestUpdateRevenueOnly() {
	created, err := s.service.CreateParticipant(s.GetContext(), dto.CreateParticipantRequest{
		FirstName: "Ada",
		Revenue:   decimal.NewFromInt(100000),
	})
	s.NoError(err)

	updated, err := s.service.UpdateParticipant(s.GetContext(), created.ID, dto.UpdateParticipantRequest{
		Revenue: lo.ToPtr(decimal.NewFromInt(250000)),
	})
	s.NoError(err)
	s.True(updated.Revenue.Equal(decimal.NewFromInt(250000)))
	s.Equal("Ada", updated.FirstName)
}

func (s *ParticipantServiceSuite) TestListByGrade() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	ctx := s.GetContext()

	a := newTestParticipant(ctx, "a", 1400000, &ladder["Specialist"].ID)
	b := newTestParticipant(ctx, "b", 1600000, &ladder["Expert"].ID)
	s.NoError(s.params.ParticipantRepo.Create(ctx, a))
	s.NoError(s.params.ParticipantRepo.Create(ctx, b))

	resp, err := s.service.ListParticipants(ctx, &types.ParticipantFilter{
		GradeID: &ladder["Specialist"].ID,
	})
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal("a", resp.Participants[0].FirstName)
	s.Equal("Specialist", resp.Participants[0].GradeName)
}

func (s *ParticipantServiceSuite) TestListWithWarnings() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	ctx := s.GetContext()

	warned := newTestParticipant(ctx, "warned", 1324800, &ladder["Specialist"].ID)
	warned.WarningStatus = types.WarningStatus90
	warned.WarningPeriodsLeft = 2
	clean := newTestParticipant(ctx, "clean", 1500000, &ladder["Specialist"].ID)
	s.NoError(s.params.ParticipantRepo.Create(ctx, warned))
	s.NoError(s.params.ParticipantRepo.Create(ctx, clean))

	resp, err := s.service.ListWithWarnings(ctx)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal("warned", resp.Participants[0].FirstName)
}

func (s *ParticipantServiceSuite) TestDeleteParticipant() {
	created, err := s.service.CreateParticipant(s.GetContext(), dto.CreateParticipantRequest{
		FirstName: "Gone",
	})
	s.NoError(err)

	s.NoError(s.service.DeleteParticipant(s.GetContext(), created.ID))

	_, err = s.service.GetParticipant(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
