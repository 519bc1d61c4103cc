package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeflow/gradeflow/internal/api/dto"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/service"
	"github.com/gradeflow/gradeflow/internal/types"
)

type PeriodHandler struct {
	service           service.PeriodService
	transitionService service.TransitionService
	log               *logger.Logger
}

func NewPeriodHandler(
	service service.PeriodService,
	transitionService service.TransitionService,
	log *logger.Logger,
) *PeriodHandler {
	return &PeriodHandler{
		service:           service,
		transitionService: transitionService,
		log:               log,
	}
}

// @Summary Create a new period
// @Description Create a new compensation period; only one may be open at a time
// @Tags Periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period configuration"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /periods [post]
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a period
// @Description Get a period by ID
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /periods/{id} [get]
func (h *PeriodHandler) GetPeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("period ID is required").
			WithHint("Period ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPeriod(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List periods
// @Description List periods with optional status filtering, newest first
// @Tags Periods
// @Produce json
// @Param filter query types.PeriodFilter false "Filter"
// @Success 200 {object} dto.ListPeriodsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /periods [get]
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	var filter types.PeriodFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListPeriods(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a period
// @Description Update an open period's name, dates or type
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param period body dto.UpdatePeriodRequest true "Period update"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /periods/{id} [put]
func (h *PeriodHandler) UpdatePeriod(c *gin.Context) {
	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Activate a period
// @Description Move a pending period to active
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /periods/{id}/activate [post]
func (h *PeriodHandler) ActivatePeriod(c *gin.Context) {
	resp, err := h.service.ActivatePeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Complete a period
// @Description Close an active period and run grade transitions for every participant
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param options body dto.CompletePeriodRequest false "Completion options"
// @Success 200 {object} dto.CompletePeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /periods/{id}/complete [post]
func (h *PeriodHandler) CompletePeriod(c *gin.Context) {
	var req dto.CompletePeriodRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.service.CompletePeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel a period
// @Description Abandon an open period without running transitions
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /periods/{id}/cancel [post]
func (h *PeriodHandler) CancelPeriod(c *gin.Context) {
	resp, err := h.service.CancelPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get period transitions
// @Description Get all grade transitions recorded for a period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.ListTransitionsResponse
// @Router /periods/{id}/transitions [get]
func (h *PeriodHandler) GetTransitions(c *gin.Context) {
	resp, err := h.transitionService.GetPeriodTransitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
