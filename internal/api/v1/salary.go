package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/service"
)

type SalaryHandler struct {
	service service.CompensationService
	log     *logger.Logger
}

func NewSalaryHandler(service service.CompensationService, log *logger.Logger) *SalaryHandler {
	return &SalaryHandler{
		service: service,
		log:     log,
	}
}

// @Summary Calculate salaries
// @Description Calculate the pay breakdown for every active participant.
// @Description Targets the active period unless period_id says otherwise.
// @Tags Salaries
// @Produce json
// @Param period_id query string false "Period ID"
// @Success 200 {object} dto.SalaryCalculationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /salaries/calculate [get]
func (h *SalaryHandler) CalculateSalaries(c *gin.Context) {
	resp, err := h.service.CalculateSalaries(c.Request.Context(), c.Query("period_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
