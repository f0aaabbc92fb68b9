package controller

import (
	"errors"
	"net/http"
	"ritual_tracker_backend/internal/service"
	"ritual_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	Timers   *service.TimerService
	Practice *service.PracticeService
	Stats    *service.StatsService
}

func NewPracticeController(timers *service.TimerService, practice *service.PracticeService, stats *service.StatsService) *PracticeController {
	return &PracticeController{
		Timers:   timers,
		Practice: practice,
		Stats:    stats,
	}
}

// StartTimerRequest 启动计时请求
// swagger:model StartTimerRequest
type StartTimerRequest struct {
	Countdown bool `json:"countdown"` // 为真时以仪式建议时长倒计时
}

// StartTimer godoc
// @Summary 开始计时
// @Description 为当前学生在该仪式下启动计时器
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Param   body body StartTimerRequest false "计时模式"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 404 {object} util.Response "仪式不存在"
// @Failure 409 {object} util.Response "计时器已在运行"
// @Router /api/practice/{ritualId}/timer/start [post]
func (c *PracticeController) StartTimer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))

	var req StartTimerRequest
	ctx.ShouldBindJSON(&req)

	snap, err := c.Timers.Start(claims.UserID, ritualID, req.Countdown)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRitualNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTimerAlreadyActive):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, snap)
}

// PauseTimer godoc
// @Summary 暂停计时
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/practice/{ritualId}/timer/pause [post]
func (c *PracticeController) PauseTimer(ctx *gin.Context) {
	c.timerCommand(ctx, c.Timers.Pause)
}

// ResumeTimer godoc
// @Summary 恢复计时
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/practice/{ritualId}/timer/resume [post]
func (c *PracticeController) ResumeTimer(ctx *gin.Context) {
	c.timerCommand(ctx, c.Timers.Resume)
}

// StopTimer godoc
// @Summary 停止计时
// @Description 提前结束，已累计的时间保留以供保存
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/practice/{ritualId}/timer/stop [post]
func (c *PracticeController) StopTimer(ctx *gin.Context) {
	c.timerCommand(ctx, c.Timers.Stop)
}

// ResetTimer godoc
// @Summary 重置计时
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 404 {object} util.Response "无计时器"
// @Router /api/practice/{ritualId}/timer/reset [post]
func (c *PracticeController) ResetTimer(ctx *gin.Context) {
	c.timerCommand(ctx, c.Timers.Reset)
}

// GetTimer godoc
// @Summary 计时器快照
// @Description 返回 {status, elapsedSeconds, remainingSeconds}
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.TimerSnapshot} "成功"
// @Failure 404 {object} util.Response "无计时器"
// @Router /api/practice/{ritualId}/timer [get]
func (c *PracticeController) GetTimer(ctx *gin.Context) {
	c.timerCommand(ctx, c.Timers.Snapshot)
}

// SaveSession godoc
// @Summary 保存练习记录
// @Description 把计时器累计时间写成一条练习记录并返回刷新后的统计
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 201 {object} util.Response{data=object} "创建成功（统计刷新失败时 stats 为空且 statsUnavailable 为真）"
// @Failure 400 {object} util.Response "累计时间为零"
// @Failure 404 {object} util.Response "无计时器或仪式不存在"
// @Failure 500 {object} util.Response "写入失败，可重试"
// @Router /api/practice/{ritualId}/save [post]
func (c *PracticeController) SaveSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))

	record, stats, err := c.Practice.Save(claims.UserID, ritualID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrStatsUnavailable):
			// 记录已保存成功，只是统计读不出来，不能报成保存失败
			util.Created(ctx, gin.H{"session": record, "stats": nil, "statsUnavailable": true})
		case errors.Is(err, util.ErrZeroDuration):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrTimerNotFound), errors.Is(err, util.ErrRitualNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"session": record, "stats": stats})
}

// GetStats godoc
// @Summary 仪式统计
// @Description 当前学生在该仪式下的总时长、次数和连续天数
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response{data=service.AggregateStats} "成功"
// @Failure 500 {object} util.Response "统计暂不可用"
// @Router /api/practice/{ritualId}/stats [get]
func (c *PracticeController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))

	stats, err := c.Stats.GetRitualStats(claims.UserID, ritualID)
	if err != nil {
		// 读失败明确报错，不静默返回零值（零值意味着"还没练过"）
		util.Error(ctx, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	util.Success(ctx, stats)
}

// GetRecentSessions godoc
// @Summary 最近练习记录
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Param   limit query int false "条数上限"
// @Success 200 {object} util.Response{data=[]model.PracticeSession} "成功"
// @Router /api/practice/{ritualId}/sessions [get]
func (c *PracticeController) GetRecentSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))
	limit := int(util.MustParseUint(ctx.Query("limit")))

	sessions, err := c.Stats.GetRecentSessions(claims.UserID, ritualID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// DiscardTimer godoc
// @Summary 丢弃计时器
// @Description 练习界面关闭时调用，立即取消 tick 源
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   ritualId path int true "仪式ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/practice/{ritualId}/timer [delete]
func (c *PracticeController) DiscardTimer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))

	c.Timers.Discard(claims.UserID, ritualID)
	util.Success(ctx, nil)
}

func (c *PracticeController) timerCommand(ctx *gin.Context, cmd func(studentID, ritualID uint) (service.TimerSnapshot, error)) {
	claims := util.GetUserFromContext(ctx)
	ritualID := util.MustParseUint(ctx.Param("ritualId"))

	snap, err := cmd(claims.UserID, ritualID)
	if err != nil {
		if errors.Is(err, util.ErrTimerNotFound) {
			util.NotFound(ctx)
		} else {
			util.Error(ctx, http.StatusConflict, err.Error())
		}
		return
	}

	util.Success(ctx, snap)
}
