package controller

import (
	"errors"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/service"
	"exam_practice_backend/internal/util"
	"io"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	ImportService   *service.ImportService
	DedupService    *service.DedupService
}

func NewQuestionController(
	questionService *service.QuestionService,
	importService *service.ImportService,
	dedupService *service.DedupService,
) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		ImportService:   importService,
		DedupService:    dedupService,
	}
}

// List godoc
// @Summary 题目列表
// @Description 分页查询题库，支持科目/难度筛选
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   subject query string false "科目"
// @Param   difficulty query string false "难度"
// @Param   type query string false "题型 single_choice/multiple_choice/true_false/unknown"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	questions, total, err := c.QuestionService.List(
		ctx.Query("subject"), ctx.Query("difficulty"),
		model.QuestionType(ctx.Query("type")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  questions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary 题目详情
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionDetail} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	detail, err := c.QuestionService.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, detail)
}

// Create godoc
// @Summary 新建题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpsertQuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "题目内容不合法"
// @Router /api/admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.UpsertQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Create(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"id": q.ID})
}

// Update godoc
// @Summary 编辑题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body service.UpsertQuestionRequest true "题目内容"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "题目内容不合法"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.UpsertQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.QuestionService.Update(id, req); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	if err := c.QuestionService.Delete(id); err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, nil)
}

// Import godoc
// @Summary 导入题库
// @Description 上传JSON题库文件批量导入，返回逐行校验结果
// @Tags 题库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "题库JSON文件"
// @Success 200 {object} util.Response{data=service.ImportResult} "导入完成"
// @Failure 400 {object} util.Response "文件为空或格式不支持"
// @Router /api/admin/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result, err := c.ImportService.Import(data, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, util.ErrEmptyImportFile) || errors.Is(err, util.ErrUnsupportedImportFmt) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// ScanDuplicates godoc
// @Summary 题库查重
// @Description 按题干相似度扫描疑似重复题目，全表两两比较，耗时随题量增长
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/questions/duplicates [get]
func (c *QuestionController) ScanDuplicates(ctx *gin.Context) {
	pairs, err := c.DedupService.ScanDuplicates()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"pairs": pairs, "count": len(pairs)})
}

// AttachImage godoc
// @Summary 上传题目配图
// @Tags 题库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   file formData file true "图片文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{id}/image [post]
func (c *QuestionController) AttachImage(ctx *gin.Context) {
	id, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.QuestionService.AttachImage(ctx.Request.Context(), id,
		fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"imageUrl": url})
}
