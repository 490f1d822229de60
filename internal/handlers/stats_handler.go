package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodconnect/internal/managers"
	"foodconnect/internal/utils"
)

// StatsHdl defines the interface for the admin statistics route.
type StatsHdl interface {
	GetStats(c *gin.Context)
}

type StatsHandler struct {
	StatsManager managers.StatsMgr
}

func NewStatsHandler(statsManager managers.StatsMgr) StatsHdl {
	return &StatsHandler{StatsManager: statsManager}
}

func (handler *StatsHandler) GetStats(c *gin.Context) {
	stats, err := handler.StatsManager.Read(c)
	if err != nil {
		writeManagerError(c, err)
		return
	}
	utils.WriteAndLogResponse(c, stats, http.StatusOK)
}
