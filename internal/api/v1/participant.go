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

type ParticipantHandler struct {
	service             service.ParticipantService
	transitionService   service.TransitionService
	compensationService service.CompensationService
	log                 *logger.Logger
}

func NewParticipantHandler(
	service service.ParticipantService,
	transitionService service.TransitionService,
	compensationService service.CompensationService,
	log *logger.Logger,
) *ParticipantHandler {
	return &ParticipantHandler{
		service:             service,
		transitionService:   transitionService,
		compensationService: compensationService,
		log:                 log,
	}
}

// @Summary Create a new participant
// @Description Register a salesperson in the compensation scheme
// @Tags Participants
// @Accept json
// @Produce json
// @Param participant body dto.CreateParticipantRequest true "Participant data"
// @Success 201 {object} dto.ParticipantResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /participants [post]
func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req dto.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateParticipant(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a participant
// @Description Get a participant by ID
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /participants/{id} [get]
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("participant ID is required").
			WithHint("Participant ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetParticipant(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List participants
// @Description List participants with optional grade and warning filtering
// @Tags Participants
// @Produce json
// @Param filter query types.ParticipantFilter false "Filter"
// @Success 200 {object} dto.ListParticipantsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /participants [get]
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	var filter types.ParticipantFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListParticipants(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List participants with warnings
// @Description List active participants currently carrying a demotion warning
// @Tags Participants
// @Produce json
// @Success 200 {object} dto.ListParticipantsResponse
// @Router /participants/warnings [get]
func (h *ParticipantHandler) ListWithWarnings(c *gin.Context) {
	resp, err := h.service.ListWithWarnings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a participant
// @Description Update participant profile data or ingest period revenue
// @Tags Participants
// @Accept json
// @Produce json
// @Param id path string true "Participant ID"
// @Param participant body dto.UpdateParticipantRequest true "Participant update"
// @Success 200 {object} dto.ParticipantResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /participants/{id} [put]
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	var req dto.UpdateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateParticipant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a participant
// @Description Soft delete a participant
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ierr.ErrorResponse
// @Router /participants/{id} [delete]
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	if err := h.service.DeleteParticipant(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "participant deleted successfully"})
}

// @Summary Get participant transitions
// @Description Get a participant's grade transition history, newest first
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ListTransitionsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /participants/{id}/transitions [get]
func (h *ParticipantHandler) GetTransitions(c *gin.Context) {
	resp, err := h.transitionService.GetParticipantTransitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get participant salary details
// @Description Get a participant's current pay breakdown and pay table
// @Tags Participants
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} dto.ParticipantSalaryDetailsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /participants/{id}/salary [get]
func (h *ParticipantHandler) GetSalaryDetails(c *gin.Context) {
	resp, err := h.compensationService.GetParticipantSalaryDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
