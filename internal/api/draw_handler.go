package api

import (
	"net/http"
	"strconv"

	"TandaPredict/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DrawHandler struct {
	drawRepo repository.DrawRepository
	logger   *logrus.Logger
}

func NewDrawHandler(drawRepo repository.DrawRepository, logger *logrus.Logger) *DrawHandler {
	return &DrawHandler{drawRepo: drawRepo, logger: logger}
}

// ListDrawsHandler 最近开奖记录（给前端历史页用）
// @Summary 查询开奖历史
// @Param slot query string false "时段 HH:MM，空=全部"
// @Param limit query int false "条数，默认20"
// @Router /api/draws [get]
func (h *DrawHandler) ListDrawsHandler(c *gin.Context) {
	slot := c.Query("slot")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	draws, err := h.drawRepo.ListRecent(c.Request.Context(), slot, limit)
	if err != nil {
		h.logger.Errorf("查询开奖历史失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(draws),
		"draws": draws,
	})
}
