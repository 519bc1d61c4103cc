package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradeflow/gradeflow/internal/api"
	v1 "github.com/gradeflow/gradeflow/internal/api/v1"
	"github.com/gradeflow/gradeflow/internal/cache"
	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	"github.com/gradeflow/gradeflow/internal/domain/period"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	"github.com/gradeflow/gradeflow/internal/idempotency"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	"github.com/gradeflow/gradeflow/internal/repository"
	"github.com/gradeflow/gradeflow/internal/service"
	"github.com/gradeflow/gradeflow/internal/validator"
	"go.uber.org/fx"
)

// @title GradeFlow API
// @version 1.0
// @description Sales compensation and grade progression service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Core dependencies
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.Initialize,
			idempotency.NewGenerator,

			// Postgres
			postgres.NewDB,
			func(db *postgres.DB) postgres.IClient { return db },

			// Repositories
			repository.NewGradeRepository,
			repository.NewParticipantRepository,
			repository.NewTransitionRepository,
			repository.NewPeriodRepository,

			// Services
			provideServiceParams,
			service.NewGradeService,
			service.NewParticipantService,
			service.NewTransitionService,
			service.NewCompensationService,
			service.NewPeriodService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	db postgres.IClient,
	cacheClient cache.Cache,
	idempotencyGen *idempotency.Generator,
	gradeRepo grade.Repository,
	participantRepo participant.Repository,
	transitionRepo transition.Repository,
	periodRepo period.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:          log,
		Config:          cfg,
		DB:              db,
		Cache:           cacheClient,
		IdempotencyGen:  idempotencyGen,
		GradeRepo:       gradeRepo,
		ParticipantRepo: participantRepo,
		TransitionRepo:  transitionRepo,
		PeriodRepo:      periodRepo,
	}
}

func provideHandlers(
	log *logger.Logger,
	gradeService service.GradeService,
	participantService service.ParticipantService,
	transitionService service.TransitionService,
	compensationService service.CompensationService,
	periodService service.PeriodService,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(),
		Grade:       v1.NewGradeHandler(gradeService, log),
		Participant: v1.NewParticipantHandler(participantService, transitionService, compensationService, log),
		Period:      v1.NewPeriodHandler(periodService, transitionService, log),
		Salary:      v1.NewSalaryHandler(compensationService, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			db.Close()
			return nil
		},
	})
}
