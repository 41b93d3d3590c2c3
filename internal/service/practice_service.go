package service

import (
	"context"
	"encoding/json"
	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/util"
	"exam_practice_backend/pkg/logger"
	"exam_practice_backend/pkg/monitoring"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type PracticeService struct {
	QuestionRepo *repository.QuestionRepository
	TaskRepo     *repository.PracticeTaskRepository
	Wrong        *WrongQuestionService
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewPracticeService(
	questionRepo *repository.QuestionRepository,
	taskRepo *repository.PracticeTaskRepository,
	wrong *WrongQuestionService,
	rdb *redis.Client,
	cfg *config.Config,
) *PracticeService {
	return &PracticeService{
		QuestionRepo: questionRepo,
		TaskRepo:     taskRepo,
		Wrong:        wrong,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

func sessionKey(id string) string {
	return "practice:session:" + id
}

// decodeOptionsLogged 解析选项JSON，坏数据记日志后按无选项继续降级处理
func decodeOptionsLogged(q *model.Question) []model.QuestionOption {
	opts, err := q.DecodeOptions()
	if err != nil {
		logger.Log.Warn("question has malformed options json",
			zap.Uint("questionId", q.ID), zap.Error(err))
	}
	return opts
}

func (s *PracticeService) saveSession(ctx context.Context, session *PracticeSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Duration(s.Cfg.Practice.SessionTTLHours) * time.Hour
	return s.Redis.Set(ctx, sessionKey(session.ID), data, ttl).Err()
}

func (s *PracticeService) loadSession(ctx context.Context, userID uint, sessionID string) (*PracticeSession, error) {
	data, err := s.Redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	var session PracticeSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, util.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return &session, nil
}

type CreateSessionRequest struct {
	Mode    PracticeMode `json:"mode" binding:"required"`
	Subject string       `json:"subject"`
	Count   int          `json:"count"`
	Title   string       `json:"title"`
}

type SessionView struct {
	SessionID      string       `json:"sessionId"`
	Mode           PracticeMode `json:"mode"`
	TaskID         uint         `json:"taskId,omitempty"`
	TotalQuestions int          `json:"totalQuestions"`
	Index          int          `json:"index"`
	Step           SessionStep  `json:"step"`
	CorrectCount   int          `json:"correctCount"`
}

func sessionView(s *PracticeSession) *SessionView {
	return &SessionView{
		SessionID:      s.ID,
		Mode:           s.Mode,
		TaskID:         s.TaskID,
		TotalQuestions: len(s.QuestionIDs),
		Index:          s.Index,
		Step:           s.Step,
		CorrectCount:   s.CorrectCount,
	}
}

// CreateSession 开启练习会话
// random/subject 为开放练习，不落任务表；task/review 额外建持久化任务行
func (s *PracticeService) CreateSession(ctx context.Context, userID uint, req CreateSessionRequest) (*SessionView, error) {
	count := req.Count
	if count <= 0 {
		count = s.Cfg.Practice.DefaultBatchSize
	}
	if count > s.Cfg.Practice.MaxBatchSize {
		count = s.Cfg.Practice.MaxBatchSize
	}

	var ids []uint
	var err error

	switch req.Mode {
	case ModeRandom:
		ids, err = s.QuestionRepo.RandomIDs("", count)
	case ModeSubject, ModeTask:
		ids, err = s.QuestionRepo.RandomIDs(req.Subject, count)
	case ModeReview:
		ids, err = s.Wrong.ReviewQuestionIDs(userID, s.Cfg.Practice.MaxBatchSize)
	default:
		return nil, fmt.Errorf("unsupported practice mode: %s", req.Mode)
	}
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	session := NewPracticeSession(userID, req.Mode, ids)
	session.Subject = req.Subject

	// 任务/复习模式落库，进度可跨会话追溯
	if req.Mode == ModeTask || req.Mode == ModeReview {
		title := req.Title
		if title == "" {
			if req.Mode == ModeReview {
				title = "错题复习"
			} else {
				title = "每日练习任务"
			}
		}
		idsJSON, _ := json.Marshal(ids)
		task := &model.PracticeTask{
			UserID:         userID,
			Mode:           string(req.Mode),
			Title:          title,
			QuestionIDs:    idsJSON,
			TotalQuestions: len(ids),
			Status:         model.TaskPending,
		}
		if err := s.TaskRepo.Create(task); err != nil {
			return nil, err
		}
		session.TaskID = task.ID
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

func (s *PracticeService) GetSession(ctx context.Context, userID uint, sessionID string) (*SessionView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

// QuestionView 作答视图，不透出答案与解析
type QuestionView struct {
	QuestionID   uint                   `json:"questionId"`
	Content      string                 `json:"content"`
	Options      []model.QuestionOption `json:"options"`
	QuestionType model.QuestionType     `json:"questionType"`
	Subject      string                 `json:"subject"`
	Difficulty   string                 `json:"difficulty"`
	ImageURL     string                 `json:"imageUrl,omitempty"`
	Index        int                    `json:"index"`
	Total        int                    `json:"total"`
	Draft        string                 `json:"draft,omitempty"`
	Submittable  bool                   `json:"submittable"`
}

// CurrentQuestion 当前题目；unknown 题型禁用提交而不是报错
func (s *PracticeService) CurrentQuestion(ctx context.Context, userID uint, sessionID string) (*QuestionView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	questionID, err := session.CurrentQuestionID()
	if err != nil {
		return nil, err
	}

	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	opts := decodeOptionsLogged(q)
	qt := ClassifyQuestion(opts, q.Content, q.Answer)
	if qt == model.UnknownType {
		logger.Log.Warn("question type unknown, submission disabled",
			zap.Uint("questionId", q.ID))
	}

	return &QuestionView{
		QuestionID:   q.ID,
		Content:      q.Content,
		Options:      EffectiveOptions(opts, qt),
		QuestionType: qt,
		Subject:      q.Subject,
		Difficulty:   q.Difficulty,
		ImageURL:     q.ImageURL,
		Index:        session.Index,
		Total:        len(session.QuestionIDs),
		Draft:        session.Draft,
		Submittable:  qt != model.UnknownType,
	}, nil
}

type SelectAnswerRequest struct {
	Labels []string `json:"labels"`
	Answer string   `json:"answer"`
}

func (r *SelectAnswerRequest) canonical() string {
	if len(r.Labels) > 0 {
		return CanonicalizeSelection(r.Labels)
	}
	return CanonicalizeAnswer(r.Answer)
}

// SelectAnswer 暂存草稿，可反复覆盖
func (s *PracticeService) SelectAnswer(ctx context.Context, userID uint, sessionID string, req SelectAnswerRequest) (*SessionView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Select(req.canonical()); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

type SubmitResult struct {
	QuestionID    uint   `json:"questionId"`
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	CorrectCount  int    `json:"correctCount"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
}

// SubmitAnswer 判分提交。按题幂等：重复提交返回已有结果，不重复计分、
// 不重复登记错题
func (s *PracticeService) SubmitAnswer(ctx context.Context, userID uint, sessionID string, req SelectAnswerRequest) (*SubmitResult, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// 双击/重放：直接回放上一次判分结果
	if session.Step == StepExplained {
		return s.replayResult(session)
	}

	questionID, err := session.CurrentQuestionID()
	if err != nil {
		return nil, err
	}

	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	opts := decodeOptionsLogged(q)
	qt := ClassifyQuestion(opts, q.Content, q.Answer)
	if qt == model.UnknownType {
		return nil, util.ErrNotSubmittable
	}

	answer := req.canonical()
	if answer == "" {
		answer = session.Draft
	}
	if answer == "" {
		return nil, util.ErrEmptyAnswer
	}
	if !ValidateAnswerLabels(answer, EffectiveOptions(opts, qt)) {
		return nil, util.ErrInvalidAnswerLabel
	}

	correct := IsAnswerCorrect(answer, q.Answer, qt)
	if err := session.Submit(answer, correct); err != nil {
		return nil, err
	}

	result := "wrong"
	if correct {
		result = "correct"
	}
	monitoring.SubmissionCounter.WithLabelValues(string(session.Mode), result).Inc()

	// 持久化副作用失败只记日志，不阻断会话，判分结果照常返回
	s.applySideEffects(session, q, answer, correct)

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return &SubmitResult{
		QuestionID:    q.ID,
		Correct:       correct,
		UserAnswer:    answer,
		CorrectAnswer: CanonicalizeAnswer(q.Answer),
		Explanation:   q.Explanation,
		CorrectCount:  session.CorrectCount,
		Answered:      len(session.Results),
		Total:         len(session.QuestionIDs),
	}, nil
}

func (s *PracticeService) replayResult(session *PracticeSession) (*SubmitResult, error) {
	last := session.LastResult()
	if last == nil {
		return nil, util.ErrAlreadySubmitted
	}

	res := &SubmitResult{
		QuestionID:   last.QuestionID,
		Correct:      last.Correct,
		UserAnswer:   last.Answer,
		CorrectCount: session.CorrectCount,
		Answered:     len(session.Results),
		Total:        len(session.QuestionIDs),
	}
	if q, err := s.QuestionRepo.FindByID(last.QuestionID); err == nil {
		res.CorrectAnswer = CanonicalizeAnswer(q.Answer)
		res.Explanation = q.Explanation
	}
	return res, nil
}

func (s *PracticeService) applySideEffects(session *PracticeSession, q *model.Question, answer string, correct bool) {
	if session.TaskID != 0 {
		if err := s.updateTaskProgress(session, correct); err != nil {
			logger.Log.Error("failed to update task progress",
				zap.Uint("taskId", session.TaskID), zap.Error(err))
		}
	}

	if !correct {
		if err := s.Wrong.RecordWrong(session.UserID, q.ID, answer, CanonicalizeAnswer(q.Answer)); err != nil {
			logger.Log.Error("failed to record wrong question",
				zap.Uint("userId", session.UserID),
				zap.Uint("questionId", q.ID), zap.Error(err))
		}
		return
	}

	if session.Mode == ModeReview {
		if err := s.Wrong.RetireOnCorrect(session.UserID, q.ID); err != nil {
			logger.Log.Error("failed to retire wrong question",
				zap.Uint("userId", session.UserID),
				zap.Uint("questionId", q.ID), zap.Error(err))
		}
	}
}

func (s *PracticeService) updateTaskProgress(session *PracticeSession, correct bool) error {
	task, err := s.TaskRepo.FindByID(session.TaskID)
	if err != nil {
		return err
	}

	task.CompletedQuestions++
	if correct {
		task.CorrectCount++
	}
	task.Status = model.TaskInProgress
	if task.CompletedQuestions >= task.TotalQuestions {
		task.Status = model.TaskCompleted
		now := time.Now()
		task.CompletedAt = &now
	}
	return s.TaskRepo.Update(task)
}

// Advance 下一题：只允许从 explained 推进
func (s *PracticeService) Advance(ctx context.Context, userID uint, sessionID string) (*SessionView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Advance(); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return sessionView(session), nil
}

func (s *PracticeService) Summary(ctx context.Context, userID uint, sessionID string) (*SessionSummary, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	summary := session.Summary()
	return &summary, nil
}

func (s *PracticeService) ListTasks(userID uint, page, limit int) ([]model.PracticeTask, int64, error) {
	return s.TaskRepo.ListByUser(userID, page, limit)
}
