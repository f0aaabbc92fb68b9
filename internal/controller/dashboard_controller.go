package controller

import (
	"net/http"
	"ritual_tracker_backend/internal/service"
	"ritual_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Stats *service.StatsService
}

func NewDashboardController(stats *service.StatsService) *DashboardController {
	return &DashboardController{Stats: stats}
}

// GetDashboard godoc
// @Summary 学生总览
// @Description 目录中每个仪式的总时长、次数和连续天数
// @Tags 总览
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "成功"
// @Failure 503 {object} util.Response "统计暂不可用"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	dashboard, err := c.Stats.GetDashboard(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	util.Success(ctx, dashboard)
}
