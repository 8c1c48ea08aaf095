package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tankapool/internal/service"
)

type exchangeRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// Exchange 处理一次短歌交换：提交五行短歌，换回池中随机一首
func (a *API) Exchange(c *gin.Context) {
	var req exchangeRequest
	if !bindJSON(c, &req, "请提交短歌内容") {
		return
	}
	if len(req.Lines) > service.SubmissionLines {
		respondError(c, http.StatusBadRequest, "短歌最多五行")
		return
	}

	result, err := a.exchanges.Exchange(sessionID(c), req.Lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySubmission):
			respondError(c, http.StatusBadRequest, "请输入短歌内容")
		case errors.Is(err, service.ErrPoolEmpty):
			respondError(c, http.StatusConflict, "暂无可交换的短歌，请稍后再试")
		case errors.Is(err, service.ErrExchangeConflict):
			respondError(c, http.StatusConflict, "交换发生冲突，请重试")
		default:
			respondError(c, http.StatusInternalServerError, "交换失败")
		}
		return
	}

	count, err := a.pool.Count()
	if err != nil {
		// 计数失败不影响已完成的交换
		count = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"received":   result.ReceivedContent,
		"pool_count": count,
	})
}

// GetPoolCount 返回池中短歌数量，调试用
func (a *API) GetPoolCount(c *gin.Context) {
	count, err := a.pool.Count()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取池子数量失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
