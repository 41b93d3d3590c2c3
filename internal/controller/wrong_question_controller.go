package controller

import (
	"errors"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WrongQuestionController struct {
	WrongService    *service.WrongQuestionService
	AnalysisService *service.AnalysisService
}

func NewWrongQuestionController(wrongService *service.WrongQuestionService, analysisService *service.AnalysisService) *WrongQuestionController {
	return &WrongQuestionController{
		WrongService:    wrongService,
		AnalysisService: analysisService,
	}
}

// List godoc
// @Summary 错题本
// @Description 分页查询当前用户的未掌握错题，支持按科目筛选
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   subject query string false "科目"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/wrong-questions [get]
func (c *WrongQuestionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.PageParams(ctx)
	views, total, err := c.WrongService.List(claims.UserID, ctx.Query("subject"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  views,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// MarkMastered godoc
// @Summary 标记已掌握
// @Description 将错题标记为已掌握，不再出现在复习集合中，记录保留
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Param   questionId path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "错题记录不存在"
// @Router /api/wrong-questions/{questionId}/master [post]
func (c *WrongQuestionController) MarkMastered(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	questionID, ok := util.ParseUintParam(ctx, "questionId")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.WrongService.MarkMastered(claims.UserID, questionID); err != nil {
		if errors.Is(err, util.ErrWrongRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// Counts godoc
// @Summary 错题统计
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/wrong-questions/stats [get]
func (c *WrongQuestionController) Counts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	total, mastered, err := c.WrongService.Counts(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"total":    total,
		"mastered": mastered,
		"pending":  total - mastered,
	})
}

// GenerateAnalysis godoc
// @Summary 生成错因分析
// @Description 调用AI分析未掌握错题并生成报告，耗时可达2分钟，失败需手动重试
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AnalysisReport} "成功"
// @Failure 400 {object} util.Response "错题本为空"
// @Failure 503 {object} util.Response "分析服务暂不可用"
// @Router /api/wrong-questions/analysis [post]
func (c *WrongQuestionController) GenerateAnalysis(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalysisService.GenerateReport(ctx.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoWrongQuestions):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAnalysisUnavailable):
			util.Error(ctx, 503, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, report)
}

// LatestAnalysis godoc
// @Summary 最近一次错因分析
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AnalysisReport} "成功"
// @Failure 404 {object} util.Response "尚无分析报告"
// @Router /api/wrong-questions/analysis/latest [get]
func (c *WrongQuestionController) LatestAnalysis(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.AnalysisService.Latest(claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, report)
}

// ListAnalysis godoc
// @Summary 历史分析报告
// @Tags 错题
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/wrong-questions/analysis [get]
func (c *WrongQuestionController) ListAnalysis(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.PageParams(ctx)
	reports, total, err := c.AnalysisService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  reports,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
