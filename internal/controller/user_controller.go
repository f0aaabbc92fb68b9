package controller

import (
	"errors"
	"net/http"
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/internal/service"
	"ritual_tracker_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserController 管理端学生账号管理
type UserController struct {
	UserService *service.UserService
	AuthService *service.AuthService
	Stats       *service.StatsService
}

func NewUserController(userService *service.UserService, authService *service.AuthService, stats *service.StatsService) *UserController {
	return &UserController{
		UserService: userService,
		AuthService: authService,
		Stats:       stats,
	}
}

// ListStudents godoc
// @Summary 学生列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.User}} "成功"
// @Router /api/admin/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	students, total, err := c.UserService.GetStudents(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  students,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// CreateStudentRequest 新建学生请求
// swagger:model CreateStudentRequest
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	StudentNo string `json:"studentNo" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// CreateStudent godoc
// @Summary 新建学生账号
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateStudentRequest true "学生信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 409 {object} util.Response "邮箱或学号已被使用"
// @Router /api/admin/students [post]
func (c *UserController) CreateStudent(ctx *gin.Context) {
	var req CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		StudentNo: req.StudentNo,
		Password:  req.Password,
		Role:      model.Student,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) || errors.Is(err, util.ErrStudentNoTaken) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// UpdateStudentRequest 更新学生请求
// swagger:model UpdateStudentRequest
type UpdateStudentRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	StudentNo string `json:"studentNo" binding:"required"`
	Disabled  bool   `json:"disabled"`
}

// UpdateStudent godoc
// @Summary 更新学生账号
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Param   body body UpdateStudentRequest true "学生信息"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/admin/students/{id} [put]
func (c *UserController) UpdateStudent(ctx *gin.Context) {
	var req UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		StudentNo: req.StudentNo,
		Disabled:  req.Disabled,
	}
	user.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.UserService.UpdateUser(user); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// DeleteStudent godoc
// @Summary 删除学生账号
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/admin/students/{id} [delete]
func (c *UserController) DeleteStudent(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.UserService.DeleteUser(id); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ResetStudentPassword godoc
// @Summary 重置学生密码
// @Description 生成临时密码并返回
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "不存在"
// @Router /api/admin/students/{id}/reset-password [post]
func (c *UserController) ResetStudentPassword(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	tempPassword, err := c.UserService.ResetPassword(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"tempPassword": tempPassword})
}

// GetStudentStats godoc
// @Summary 学生统计汇总
// @Description 该学生全部练习按仪式汇总（次数、分钟数及余秒）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=[]service.RitualRollup} "成功"
// @Failure 503 {object} util.Response "统计暂不可用"
// @Router /api/admin/students/{id}/stats [get]
func (c *UserController) GetStudentStats(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	rollups, err := c.Stats.GetStudentRollup(ctx.Request.Context(), id)
	if err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "stats unavailable")
		return
	}

	util.Success(ctx, rollups)
}
