package api

import (
	"net/http"

	"TandaPredict/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettleHandler 预测结算回写入口，供开奖后的外部结算任务调用
type SettleHandler struct {
	ledgerRepo repository.LedgerRepository
	logger     *logrus.Logger
}

func NewSettleHandler(ledgerRepo repository.LedgerRepository, logger *logrus.Logger) *SettleHandler {
	return &SettleHandler{ledgerRepo: ledgerRepo, logger: logger}
}

type settleRequest struct {
	PredictionID string `json:"prediction_id" binding:"required"`
	ActualResult *int   `json:"actual_result" binding:"required"`
	WasCorrect   bool   `json:"was_correct"`
}

// SettlePredictionHandler 回写实际开奖结果与命中标志
// @Summary 结算单条预测
// @Success 200 {object} map[string]interface{}
// @Router /api/predictions/settle [post]
func (h *SettleHandler) SettlePredictionHandler(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数非法: " + err.Error()})
		return
	}
	if *req.ActualResult < 0 || *req.ActualResult > 99 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "实际开奖号码越界"})
		return
	}

	if err := h.ledgerRepo.SettlePrediction(c.Request.Context(), req.PredictionID, *req.ActualResult, req.WasCorrect); err != nil {
		h.logger.Errorf("结算预测%s失败: %v", req.PredictionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictionId": req.PredictionID, "settled": true})
}
