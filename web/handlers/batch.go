package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"warepulse.io/warepulse/engine"
	web "warepulse.io/warepulse/web/common"
)

type BatchRunParams struct {
	StartDate *web.DateOnly `json:"startDate" binding:"required"`
	EndDate   *web.DateOnly `json:"endDate" binding:"required"`
	Employees []int32       `json:"employees"`
}

// RunBatch recomputes score records for a date range. Recomputation is a
// normal operation: the run is idempotent for closed source data.
func (h *Handler) RunBatch(c *gin.Context) {
	var params BatchRunParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	result, err := h.Runner.Run(c.Request.Context(), engine.RunOptions{
		StartDate: params.StartDate.Time,
		EndDate:   params.EndDate.Time,
		Employees: params.Employees,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(result))
}
