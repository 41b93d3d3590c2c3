package controller

import (
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// AdminOverview godoc
// @Summary 管理端看板
// @Description 用户量、题库规模、科目/难度/题型分布与高频错题
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminOverview} "成功"
// @Router /api/admin/dashboard [get]
func (c *DashboardController) AdminOverview(ctx *gin.Context) {
	overview, err := c.DashboardService.AdminOverview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// BankOverview godoc
// @Summary 题库概览
// @Description 公开的题库规模与科目分布；携带合法token时附带个人待复习错题数
// @Tags 题库
// @Produce  json
// @Success 200 {object} util.Response{data=service.BankOverview} "成功"
// @Router /api/bank/overview [get]
func (c *DashboardController) BankOverview(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	overview, err := c.DashboardService.BankOverview(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// StudentOverview godoc
// @Summary 学生个人总览
// @Description 错题数、掌握进度、近期任务与正确率
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentOverview} "成功"
// @Router /api/dashboard [get]
func (c *DashboardController) StudentOverview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.DashboardService.StudentOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
