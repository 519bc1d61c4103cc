package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/gradeflow/gradeflow/internal/api/v1"
	"github.com/gradeflow/gradeflow/internal/rest/middleware"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Grade       *v1.GradeHandler
	Participant *v1.ParticipantHandler
	Period      *v1.PeriodHandler
	Salary      *v1.SalaryHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Grade routes
	grades := router.Group("/grades")
	{
		grades.POST("", handlers.Grade.CreateGrade)
		grades.GET("", handlers.Grade.ListGrades)
		grades.GET("/:id", handlers.Grade.GetGrade)
		grades.PUT("/:id", handlers.Grade.UpdateGrade)
		grades.DELETE("/:id", handlers.Grade.DeleteGrade)
	}

	// Participant routes
	participants := router.Group("/participants")
	{
		participants.POST("", handlers.Participant.CreateParticipant)
		participants.GET("", handlers.Participant.ListParticipants)
		participants.GET("/warnings", handlers.Participant.ListWithWarnings)
		participants.GET("/:id", handlers.Participant.GetParticipant)
		participants.PUT("/:id", handlers.Participant.UpdateParticipant)
		participants.DELETE("/:id", handlers.Participant.DeleteParticipant)
		participants.GET("/:id/transitions", handlers.Participant.GetTransitions)
		participants.GET("/:id/salary", handlers.Participant.GetSalaryDetails)
	}

	// Period routes
	periods := router.Group("/periods")
	{
		periods.POST("", handlers.Period.CreatePeriod)
		periods.GET("", handlers.Period.ListPeriods)
		periods.GET("/:id", handlers.Period.GetPeriod)
		periods.PUT("/:id", handlers.Period.UpdatePeriod)
		periods.POST("/:id/activate", handlers.Period.ActivatePeriod)
		periods.POST("/:id/complete", handlers.Period.CompletePeriod)
		periods.POST("/:id/cancel", handlers.Period.CancelPeriod)
		periods.GET("/:id/transitions", handlers.Period.GetTransitions)
	}

	// Salary routes
	salaries := router.Group("/salaries")
	{
		salaries.GET("/calculate", handlers.Salary.CalculateSalaries)
	}
}
