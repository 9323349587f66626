package handlers

import (
	"github.com/gin-gonic/gin"
	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/store"
)

// Handler is the thin HTTP shell over the scoring core. It holds no
// business logic; everything interesting happens in engine and store.
type Handler struct {
	Store  *store.Store
	Runner *engine.Runner
}

func Register(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/scores/search", h.SearchScores)
	rg.GET("/flags", h.GetFlags)
	rg.POST("/batch/run", h.RunBatch)
}
