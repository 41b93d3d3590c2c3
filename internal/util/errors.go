package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrSessionNotFound      = errors.New("practice session not found or expired")
	ErrSessionCompleted     = errors.New("practice session already completed")
	ErrNotSubmittable       = errors.New("题目类型无法识别，暂不支持作答")
	ErrEmptyAnswer          = errors.New("answer must not be empty")
	ErrInvalidAnswerLabel   = errors.New("answer contains labels not present in options")
	ErrAlreadySubmitted     = errors.New("current question already submitted")
	ErrAdvanceBeforeSubmit  = errors.New("cannot advance before the current question is submitted")
	ErrTaskNotFound         = errors.New("practice task not found")
	ErrNoWrongQuestions     = errors.New("错题本为空，无可复习题目")
	ErrAnalysisUnavailable  = errors.New("错因分析服务暂不可用，请稍后重试")
	ErrWrongRecordNotFound  = errors.New("wrong question record not found")
	ErrEmptyImportFile      = errors.New("导入文件为空")
	ErrUnsupportedImportFmt = errors.New("无法解析的题库格式")
)
