package controller

import (
	"ritual_tracker_backend/internal/service"
	"ritual_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RitualController struct {
	Rituals service.RitualCatalog
}

func NewRitualController(rituals service.RitualCatalog) *RitualController {
	return &RitualController{Rituals: rituals}
}

// ListRituals godoc
// @Summary 仪式目录
// @Description 返回全部仪式（固定参考数据）
// @Tags 仪式
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Ritual} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/rituals [get]
func (c *RitualController) ListRituals(ctx *gin.Context) {
	rituals, err := c.Rituals.FindAll(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rituals)
}

// GetRitual godoc
// @Summary 仪式详情
// @Description 按ID返回单个仪式
// @Tags 仪式
// @Produce  json
// @Param   id path int true "仪式ID"
// @Success 200 {object} util.Response{data=model.Ritual} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/rituals/{id} [get]
func (c *RitualController) GetRitual(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	ritual, err := c.Rituals.FindByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, ritual)
}
