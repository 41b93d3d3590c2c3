package controller

import (
	"errors"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// practiceError 练习流程错误到HTTP状态码的映射
func practiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSessionCompleted),
		errors.Is(err, util.ErrNotSubmittable),
		errors.Is(err, util.ErrEmptyAnswer),
		errors.Is(err, util.ErrInvalidAnswerLabel),
		errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrAdvanceBeforeSubmit),
		errors.Is(err, util.ErrNoWrongQuestions):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateSession godoc
// @Summary 开启练习会话
// @Description 按模式抽题建会话：random随机，subject按科目，task每日任务，review错题复习
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateSessionRequest true "会话参数"
// @Success 201 {object} util.Response{data=service.SessionView} "创建成功"
// @Failure 400 {object} util.Response "参数错误或错题本为空"
// @Router /api/practice/sessions [post]
func (c *PracticeController) CreateSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.PracticeService.CreateSession(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// GetSession godoc
// @Summary 会话状态
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Router /api/practice/sessions/{id} [get]
func (c *PracticeController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.PracticeService.GetSession(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CurrentQuestion godoc
// @Summary 当前题目
// @Description 返回作答视图，不含答案；无法识别题型的题目 submittable 为 false
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Router /api/practice/sessions/{id}/question [get]
func (c *PracticeController) CurrentQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.PracticeService.CurrentQuestion(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SelectAnswer godoc
// @Summary 暂存作答
// @Description 保存当前题目的选择草稿，可反复覆盖，提交前不判分
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body service.SelectAnswerRequest true "选中的标号"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 400 {object} util.Response "当前题目已提交"
// @Router /api/practice/sessions/{id}/select [post]
func (c *PracticeController) SelectAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SelectAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.PracticeService.SelectAnswer(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req)
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SubmitAnswer godoc
// @Summary 提交判分
// @Description 判分并返回正确答案与解析；同一题重复提交返回已有结果
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body service.SelectAnswerRequest true "作答内容，为空时使用已暂存草稿"
// @Success 200 {object} util.Response{data=service.SubmitResult} "成功"
// @Failure 400 {object} util.Response "作答为空或标号不合法"
// @Router /api/practice/sessions/{id}/submit [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SelectAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PracticeService.SubmitAnswer(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req)
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Advance godoc
// @Summary 下一题
// @Description 只有当前题目已判分讲解后才能推进
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView} "成功"
// @Failure 400 {object} util.Response "当前题目尚未提交"
// @Router /api/practice/sessions/{id}/advance [post]
func (c *PracticeController) Advance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.PracticeService.Advance(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Summary godoc
// @Summary 会话小结
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionSummary} "成功"
// @Failure 404 {object} util.Response "会话不存在或已过期"
// @Router /api/practice/sessions/{id}/summary [get]
func (c *PracticeController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.PracticeService.Summary(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		practiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ListTasks godoc
// @Summary 练习任务列表
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/practice/tasks [get]
func (c *PracticeController) ListTasks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.PageParams(ctx)
	tasks, total, err := c.PracticeService.ListTasks(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  tasks,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
