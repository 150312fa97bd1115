package api

import (
	"errors"
	"net/http"
	"strconv"

	"TandaPredict/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PredictionHandler struct {
	spins  *service.SpinService
	logger *logrus.Logger
}

func NewPredictionHandler(spins *service.SpinService, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{spins: spins, logger: logger}
}

// spinRequest 用户预测请求体。slot可空（空=全时段口径出号）
type spinRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Slot   string `json:"slot"`
}

// SpinHandler 用户发起一次预测
// @Summary 生成预测号码（按档位计量）
// @Success 200 {object} service.SpinResult
// @Failure 429 {object} map[string]interface{} "当日次数用尽，带剩余配额"
// @Router /api/predictions/spin [post]
func (h *PredictionHandler) SpinHandler(c *gin.Context) {
	var req spinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数非法: " + err.Error()})
		return
	}

	result, err := h.spins.Spin(c.Request.Context(), req.UserID, req.Slot)
	if err != nil {
		// 配额用尽是业务态而非故障，单独返回429并附剩余额度
		var quotaErr *service.QuotaExceededError
		if errors.As(err, &quotaErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":          "quota_exceeded",
				"maxSpins":       quotaErr.MaxSpins,
				"spinsUsed":      quotaErr.SpinsUsed,
				"spinsRemaining": 0,
			})
			return
		}
		h.logger.Errorf("用户%d预测失败: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EntitlementHandler 查询用户档位与当日配额
// @Summary 查询档位/配额状态
// @Param user_id path int true "用户ID"
// @Success 200 {object} service.QuotaStatus
// @Router /api/predictions/entitlement/{user_id} [get]
func (h *PredictionHandler) EntitlementHandler(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "非法用户ID"})
		return
	}

	status, err := h.spins.Status(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("查询用户%d配额失败: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}
