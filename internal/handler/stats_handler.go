package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tankapool/internal/service"
)

// GetStats 返回全局统计：人气排行、分类统计与全部短歌
func (a *API) GetStats(c *gin.Context) {
	popular, err := a.stats.PopularTankas(10)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取人气排行失败")
		return
	}

	categoryStats, err := a.stats.CategoryStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类统计失败")
		return
	}

	tankas, err := a.stats.AllTankasWithCategories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取短歌列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"popular":        popular,
		"category_stats": categoryStats,
		"tankas":         tankas,
	})
}

// GetCategories 返回全部分类
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.stats.AllCategories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryTankas 返回指定分类下的短歌
func (a *API) GetCategoryTankas(c *gin.Context) {
	name := c.Param("name")
	tankas, err := a.stats.TankasByCategory(name)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类短歌失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": name, "tankas": tankas})
}

// GetUserStats 返回当前会话用户的交换统计与最近历史
func (a *API) GetUserStats(c *gin.Context) {
	userID, err := a.users.GetOrCreate(sessionID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "解析用户失败")
		return
	}

	stats, err := a.stats.UserExchangeStats(userID)
	if err != nil && !errors.Is(err, service.ErrNoExchanges) {
		respondError(c, http.StatusInternalServerError, "获取用户统计失败")
		return
	}

	history, err := a.stats.UserExchangeHistory(userID, 20)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取交换历史失败")
		return
	}

	// 从未交换的用户 stats 为 null，history 为空数组
	c.JSON(http.StatusOK, gin.H{
		"stats":   stats,
		"history": history,
	})
}
