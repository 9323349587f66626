package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	web "warepulse.io/warepulse/web/common"
)

type ScoreSearchParams struct {
	StartDate *web.DateOnly `json:"startDate" binding:"required"`
	EndDate   *web.DateOnly `json:"endDate" binding:"required"`
	Employees []int32       `json:"employees"`
}

func (h *Handler) SearchScores(c *gin.Context) {
	var params ScoreSearchParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	ctx := c.Request.Context()
	scores, err := h.Store.ScoresForRange(ctx, params.StartDate.Time, params.EndDate.Time, params.Employees)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, web.NewSearchResponse(scores, int64(len(scores))))
}
