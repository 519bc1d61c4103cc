package service

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	"github.com/gradeflow/gradeflow/internal/cache"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
)

const catalogCacheExpiry = 5 * time.Minute

type GradeService interface {
	CreateGrade(ctx context.Context, req dto.CreateGradeRequest) (*dto.GradeResponse, error)
	GetGrade(ctx context.Context, id string) (*dto.GradeResponse, error)
	ListGrades(ctx context.Context, filter *types.GradeFilter) (*dto.ListGradesResponse, error)
	UpdateGrade(ctx context.Context, id string, req dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	DeleteGrade(ctx context.Context, id string) error

	// GetCatalog builds the ordered snapshot of active grades that a
	// transition or salary run works against
	GetCatalog(ctx context.Context) (*grade.Catalog, error)
}

type gradeService struct {
	ServiceParams
}

func NewGradeService(params ServiceParams) GradeService {
	return &gradeService{
		ServiceParams: params,
	}
}

func (s *gradeService) CreateGrade(ctx context.Context, req dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g := req.ToGrade(ctx)
	if err := s.GradeRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)

	return dto.NewGradeResponse(g), nil
}

func (s *gradeService) GetGrade(ctx context.Context, id string) (*dto.GradeResponse, error) {
	if id == "" {
		return nil, ierr.NewError("grade id is required").
			WithHint("Grade ID is required").
			Mark(ierr.ErrValidation)
	}

	g, err := s.GradeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponse(g), nil
}

func (s *gradeService) ListGrades(ctx context.Context, filter *types.GradeFilter) (*dto.ListGradesResponse, error) {
	grades, err := s.GradeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListGradesResponse{
		Grades: lo.Map(grades, func(g *grade.Grade, _ int) *dto.GradeResponse {
			return dto.NewGradeResponse(g)
		}),
		Total: len(grades),
	}, nil
}

func (s *gradeService) UpdateGrade(ctx context.Context, id string, req dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.GradeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Plan != nil {
		g.Plan = *req.Plan
	}
	if req.MinRevenue != nil {
		g.MinRevenue = req.MinRevenue
	}
	if req.MaxRevenue != nil {
		g.MaxRevenue = req.MaxRevenue
	}
	if len(req.PerformanceLevels) > 0 {
		g.PerformanceLevels = req.PerformanceLevels
	}
	if req.Color != nil {
		g.Color = *req.Color
	}
	if req.Order != nil {
		g.Order = *req.Order
	}

	if g.MinRevenue != nil && g.MaxRevenue != nil && g.MinRevenue.GreaterThan(*g.MaxRevenue) {
		return nil, ierr.NewError("invalid revenue band").
			WithHint("min_revenue must not exceed max_revenue").
			Mark(ierr.ErrValidation)
	}

	if err := s.GradeRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)

	return dto.NewGradeResponse(g), nil
}

func (s *gradeService) DeleteGrade(ctx context.Context, id string) error {
	g, err := s.GradeRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	holders, err := s.ParticipantRepo.List(ctx, &types.ParticipantFilter{GradeID: &g.ID})
	if err != nil {
		return err
	}
	if len(holders) > 0 {
		return ierr.NewError("grade is still assigned").
			WithHintf("%d participants still hold grade %s", len(holders), g.Name).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.GradeRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

func (s *gradeService) GetCatalog(ctx context.Context) (*grade.Catalog, error) {
	cacheKey := cache.GenerateKey(cache.PrefixGradeCatalog, "active")
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if catalog, ok := cached.(*grade.Catalog); ok {
			return catalog, nil
		}
	}

	status := types.StatusActive
	grades, err := s.GradeRepo.List(ctx, &types.GradeFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	catalog, err := grade.NewCatalog(grades)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, catalog, catalogCacheExpiry)
	return catalog, nil
}

func (s *gradeService) invalidateCatalogCache(ctx context.Context) {
	s.Cache.DeleteByPrefix(ctx, cache.PrefixGradeCatalog)
	s.Cache.DeleteByPrefix(ctx, cache.PrefixGrade)
}
