package api

import (
	"net/http"

	"TandaPredict/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnnounceHandler struct {
	announce *service.AnnounceService
	logger   *logrus.Logger
}

func NewAnnounceHandler(announce *service.AnnounceService, logger *logrus.Logger) *AnnounceHandler {
	return &AnnounceHandler{announce: announce, logger: logger}
}

// AnnounceNowHandler 手动触发一次播报，可与定时播报并行（各自独立成贴）
// @Summary 立即生成并发布预测播报
// @Router /api/announce [post]
func (h *AnnounceHandler) AnnounceNowHandler(c *gin.Context) {
	if err := h.announce.Run(c.Request.Context()); err != nil {
		h.logger.Errorf("手动播报失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "播报已发布"})
}
