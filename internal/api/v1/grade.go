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

type GradeHandler struct {
	service service.GradeService
	log     *logger.Logger
}

func NewGradeHandler(service service.GradeService, log *logger.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a new grade
// @Description Create a new compensation grade with its plan and pay table
// @Tags Grades
// @Accept json
// @Produce json
// @Param grade body dto.CreateGradeRequest true "Grade configuration"
// @Success 201 {object} dto.GradeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /grades [post]
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateGrade(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a grade
// @Description Get a grade by ID
// @Tags Grades
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} dto.GradeResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /grades/{id} [get]
func (h *GradeHandler) GetGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("grade ID is required").
			WithHint("Grade ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetGrade(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List grades
// @Description List grades with optional status filtering, top tier first
// @Tags Grades
// @Produce json
// @Param filter query types.GradeFilter false "Filter"
// @Success 200 {object} dto.ListGradesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /grades [get]
func (h *GradeHandler) ListGrades(c *gin.Context) {
	var filter types.GradeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListGrades(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a grade
// @Description Update a grade's plan, band, pay table or ordering
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param grade body dto.UpdateGradeRequest true "Grade update"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /grades/{id} [put]
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateGrade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a grade
// @Description Soft delete a grade that no participant holds
// @Tags Grades
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /grades/{id} [delete]
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	if err := h.service.DeleteGrade(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "grade deleted successfully"})
}
