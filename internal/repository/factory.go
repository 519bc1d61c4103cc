package repository

import (
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	"github.com/gradeflow/gradeflow/internal/domain/period"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	postgresRepo "github.com/gradeflow/gradeflow/internal/repository/postgres"
)

func NewGradeRepository(db *postgres.DB, logger *logger.Logger) grade.Repository {
	return postgresRepo.NewGradeRepository(db, logger)
}

func NewParticipantRepository(db *postgres.DB, logger *logger.Logger) participant.Repository {
	return postgresRepo.NewParticipantRepository(db, logger)
}

func NewTransitionRepository(db *postgres.DB, logger *logger.Logger) transition.Repository {
	return postgresRepo.NewTransitionRepository(db, logger)
}

func NewPeriodRepository(db *postgres.DB, logger *logger.Logger) period.Repository {
	return postgresRepo.NewPeriodRepository(db, logger)
}
