package service

import (
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/util"
	"time"
)

type PracticeMode string

const (
	ModeRandom  PracticeMode = "random"  // 随机练习
	ModeSubject PracticeMode = "subject" // 按科目练习
	ModeTask    PracticeMode = "task"    // 任务模式
	ModeReview  PracticeMode = "review"  // 错题复习
)

type SessionStep string

const (
	StepReady     SessionStep = "ready"     // 初始态，等待第一次作答
	StepAnswering SessionStep = "answering" // 可反复改选，未判分
	StepExplained SessionStep = "explained" // 已判分，展示解析，等待下一题
	StepComplete  SessionStep = "complete"  // 终态
)

// QuestionResult 单题的最终作答结果
type QuestionResult struct {
	QuestionID  uint      `json:"questionId"`
	Answer      string    `json:"answer"`
	Correct     bool      `json:"correct"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// PracticeSession 练习会话，整体序列化进Redis
// 状态迁移严格串行：ready→answering→explained→(answering|complete)
// 只有 explained 状态允许推进，强制用户看完解析再下一题
type PracticeSession struct {
	ID           string           `json:"id"`
	UserID       uint             `json:"userId"`
	Mode         PracticeMode     `json:"mode"`
	TaskID       uint             `json:"taskId,omitempty"`
	Subject      string           `json:"subject,omitempty"`
	QuestionIDs  []uint           `json:"questionIds"`
	Index        int              `json:"index"`
	Step         SessionStep      `json:"step"`
	Draft        string           `json:"draft"`
	Results      []QuestionResult `json:"results"`
	CorrectCount int              `json:"correctCount"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func NewPracticeSession(userID uint, mode PracticeMode, questionIDs []uint) *PracticeSession {
	return &PracticeSession{
		ID:          model.GenerateUUID(),
		UserID:      userID,
		Mode:        mode,
		QuestionIDs: questionIDs,
		Step:        StepReady,
		CreatedAt:   time.Now(),
	}
}

func (s *PracticeSession) CurrentQuestionID() (uint, error) {
	if s.Step == StepComplete || s.Index >= len(s.QuestionIDs) {
		return 0, util.ErrSessionCompleted
	}
	return s.QuestionIDs[s.Index], nil
}

// Select 暂存草稿答案，可任意次覆盖，不产生持久化
func (s *PracticeSession) Select(draft string) error {
	switch s.Step {
	case StepReady, StepAnswering:
		s.Draft = draft
		s.Step = StepAnswering
		return nil
	case StepExplained:
		return util.ErrAlreadySubmitted
	default:
		return util.ErrSessionCompleted
	}
}

// Submit 冻结作答并记录判分结果，按题幂等：同一题重复提交直接拒绝
func (s *PracticeSession) Submit(answer string, correct bool) error {
	switch s.Step {
	case StepReady, StepAnswering:
	case StepExplained:
		return util.ErrAlreadySubmitted
	default:
		return util.ErrSessionCompleted
	}

	questionID, err := s.CurrentQuestionID()
	if err != nil {
		return err
	}

	s.Results = append(s.Results, QuestionResult{
		QuestionID:  questionID,
		Answer:      answer,
		Correct:     correct,
		SubmittedAt: time.Now(),
	})
	if correct {
		s.CorrectCount++
	}
	s.Draft = ""
	s.Step = StepExplained
	return nil
}

// LastResult 当前题的判分结果，仅 explained 状态有值
func (s *PracticeSession) LastResult() *QuestionResult {
	if s.Step != StepExplained || len(s.Results) == 0 {
		return nil
	}
	return &s.Results[len(s.Results)-1]
}

// Advance 推进到下一题或终态，只允许从 explained 出发
func (s *PracticeSession) Advance() error {
	if s.Step == StepComplete {
		return util.ErrSessionCompleted
	}
	if s.Step != StepExplained {
		return util.ErrAdvanceBeforeSubmit
	}

	if s.Index+1 >= len(s.QuestionIDs) {
		s.Step = StepComplete
		return nil
	}
	s.Index++
	s.Step = StepAnswering
	return nil
}

func (s *PracticeSession) IsComplete() bool {
	return s.Step == StepComplete
}

// SessionSummary 会话总结
type SessionSummary struct {
	SessionID      string           `json:"sessionId"`
	Mode           PracticeMode     `json:"mode"`
	TotalQuestions int              `json:"totalQuestions"`
	Answered       int              `json:"answered"`
	CorrectCount   int              `json:"correctCount"`
	Accuracy       float64          `json:"accuracy"`
	Results        []QuestionResult `json:"results"`
	Complete       bool             `json:"complete"`
}

func (s *PracticeSession) Summary() SessionSummary {
	accuracy := 0.0
	if len(s.Results) > 0 {
		accuracy = float64(s.CorrectCount) / float64(len(s.Results))
	}
	return SessionSummary{
		SessionID:      s.ID,
		Mode:           s.Mode,
		TotalQuestions: len(s.QuestionIDs),
		Answered:       len(s.Results),
		CorrectCount:   s.CorrectCount,
		Accuracy:       accuracy,
		Results:        s.Results,
		Complete:       s.IsComplete(),
	}
}
