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

type GradeServiceSuite struct {
	testutil.BaseServiceTestSuite
	params  ServiceParams
	service GradeService
}

func TestGradeService(t *testing.T) {
	suite.Run(t, new(GradeServiceSuite))
}

func (s *GradeServiceSuite) SetupTest() {
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
	s.service = NewGradeService(s.params)
}

func (s *GradeServiceSuite) TestCreateGrade() {
	resp, err := s.service.CreateGrade(s.GetContext(), dto.CreateGradeRequest{
		Name:  "Specialist",
		Plan:  decimal.NewFromInt(1440000),
		Order: 4,
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("Specialist", resp.Name)

	// a grade without a stored pay table still exposes the default bands
	s.Len(resp.NormalizedLevels, 9)
}

func (s *GradeServiceSuite) TestCreateGradeValidation() {
	_, err := s.service.CreateGrade(s.GetContext(), dto.CreateGradeRequest{
		Name: "Broken",
		Plan: decimal.Zero,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateGrade(s.GetContext(), dto.CreateGradeRequest{
		Name:       "Inverted",
		Plan:       decimal.NewFromInt(100000),
		MinRevenue: lo.ToPtr(decimal.NewFromInt(200000)),
		MaxRevenue: lo.ToPtr(decimal.NewFromInt(100000)),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *GradeServiceSuite) TestUpdateGrade() {
	created, err := s.service.CreateGrade(s.GetContext(), dto.CreateGradeRequest{
		Name:  "Specialist",
		Plan:  decimal.NewFromInt(1440000),
		Order: 4,
	})
	s.NoError(err)

	updated, err := s.service.UpdateGrade(s.GetContext(), created.ID, dto.UpdateGradeRequest{
		Plan:  lo.ToPtr(decimal.NewFromInt(1500000)),
		Color: lo.ToPtr("#ff8800"),
	})
	s.NoError(err)
	s.True(updated.Plan.Equal(decimal.NewFromInt(1500000)))
	s.Equal("#ff8800", updated.Color)
	s.Equal("Specialist", updated.Name)
}

func (s *GradeServiceSuite) TestDeleteGradeBlockedWhileAssigned() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)

	p := newTestParticipant(s.GetContext(), "holder", 1400000, &ladder["Specialist"].ID)
	s.NoError(s.params.ParticipantRepo.Create(s.GetContext(), p))

	err := s.service.DeleteGrade(s.GetContext(), ladder["Specialist"].ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	s.NoError(s.service.DeleteGrade(s.GetContext(), ladder["Rookie"].ID))
	_, err = s.service.GetGrade(s.GetContext(), ladder["Rookie"].ID)
	s.True(ierr.IsNotFound(err))
}

func (s *GradeServiceSuite) TestGetCatalogOrdering() {
	seedGradeLadder(s.GetContext(), s.params.GradeRepo)

	catalog, err := s.service.GetCatalog(s.GetContext())
	s.NoError(err)
	s.Equal(6, catalog.Size())
	s.Equal("Sales Lead", catalog.Top().Name)
	s.Equal("Rookie", catalog.Bottom().Name)
}

func (s *GradeServiceSuite) TestGetCatalogFailsWhenEmpty() {
	_, err := s.service.GetCatalog(s.GetContext())
	s.Error(err)
	s.True(ierr.IsNoGradesConfigured(err))
}

func (s *GradeServiceSuite) TestCatalogCacheInvalidation() {
	seedGradeLadder(s.GetContext(), s.params.GradeRepo)

	catalog, err := s.service.GetCatalog(s.GetContext())
	s.NoError(err)
	s.Equal(6, catalog.Size())

	// a second read hits the cache and sees the same snapshot
	cached, err := s.service.GetCatalog(s.GetContext())
	s.NoError(err)
	s.Equal(6, cached.Size())

	// mutations invalidate the snapshot
	_, err = s.service.CreateGrade(s.GetContext(), dto.CreateGradeRequest{
		Name:  "Apprentice",
		Plan:  decimal.NewFromInt(900000),
		Order: 6,
	})
	s.NoError(err)

	fresh, err := s.service.GetCatalog(s.GetContext())
	s.NoError(err)
	s.Equal(7, fresh.Size())
	s.Equal("Apprentice", fresh.Bottom().Name)
}

func (s *GradeServiceSuite) TestListGradesFiltersDeleted() {
	ladder := seedGradeLadder(s.GetContext(), s.params.GradeRepo)
	s.NoError(s.service.DeleteGrade(s.GetContext(), ladder["Rookie"].ID))

	resp, err := s.service.ListGrades(s.GetContext(), &types.GradeFilter{})
	s.NoError(err)
	s.Equal(5, resp.Total)
}
