package api

import (
	"net/http"

	"TandaPredict/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	history *service.HistoryService
	logger  *logrus.Logger
}

func NewSyncHandler(history *service.HistoryService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{history: history, logger: logger}
}

// SyncDrawsHandler 手动触发一次开奖历史同步
// @Summary 同步最新开奖结果
// @Success 200 {object} service.SyncOutcome
// @Failure 500 {object} map[string]string
// @Router /sync/draws [post]
func (h *SyncHandler) SyncDrawsHandler(c *gin.Context) {
	outcome, err := h.history.SyncLatest(c.Request.Context())
	if err != nil {
		h.logger.Errorf("开奖同步失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, outcome)
}
