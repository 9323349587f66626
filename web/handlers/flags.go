package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"warepulse.io/warepulse/utils"
	web "warepulse.io/warepulse/web/common"
)

// GetFlags lists the shifts rejected during reconciliation for one date,
// for operator review.
func (h *Handler) GetFlags(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("date query parameter is required"))
		return
	}
	day, err := utils.ParseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	flags, err := h.Store.FlagsForDate(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSuccessResponse(flags))
}
