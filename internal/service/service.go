package service

import (
	"github.com/gradeflow/gradeflow/internal/cache"
	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	"github.com/gradeflow/gradeflow/internal/domain/period"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	"github.com/gradeflow/gradeflow/internal/idempotency"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	Cache          cache.Cache
	IdempotencyGen *idempotency.Generator

	// Repositories
	GradeRepo       grade.Repository
	ParticipantRepo participant.Repository
	TransitionRepo  transition.Repository
	PeriodRepo      period.Repository
}
