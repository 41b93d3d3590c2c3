package service

import (
	"errors"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/util"
	"exam_practice_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// WrongQuestionStore 错题记录的持久化接口，由 repository.WrongQuestionRepository 实现
type WrongQuestionStore interface {
	Create(wq *model.WrongQuestion) error
	Update(wq *model.WrongQuestion) error
	FindByUserAndQuestion(userID, questionID uint) (*model.WrongQuestion, error)
	ListByUser(userID uint, subject string, includeMastered bool, page, limit int) ([]model.WrongQuestion, int64, error)
	ListUnmastered(userID uint, limit int) ([]model.WrongQuestion, error)
	MarkMastered(userID, questionID uint) error
	CountByUser(userID uint) (total int64, mastered int64, err error)
}

type WrongQuestionService struct {
	Repo         WrongQuestionStore
	QuestionRepo *repository.QuestionRepository
}

func NewWrongQuestionService(repo WrongQuestionStore, questionRepo *repository.QuestionRepository) *WrongQuestionService {
	return &WrongQuestionService{Repo: repo, QuestionRepo: questionRepo}
}

// RecordWrong 答错后登记错题：已有记录则计数+1并清掉掌握标记，否则新建
// (user_id, question_id) 的唯一索引是并发重复提交时的最后一道防线
func (s *WrongQuestionService) RecordWrong(userID, questionID uint, userAnswer, correctAnswer string) error {
	now := time.Now()

	wq, err := s.Repo.FindByUserAndQuestion(userID, questionID)
	if err == nil {
		wq.WrongCount++
		wq.UserAnswer = userAnswer
		wq.CorrectAnswer = correctAnswer
		wq.IsMastered = false
		wq.MasteredAt = nil
		wq.LastWrongAt = now
		if err := s.Repo.Update(wq); err != nil {
			return err
		}
		monitoring.WrongQuestionUpserts.Inc()
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	wq = &model.WrongQuestion{
		UserID:        userID,
		QuestionID:    questionID,
		WrongCount:    1,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		LastWrongAt:   now,
	}
	if err := s.Repo.Create(wq); err != nil {
		return err
	}
	monitoring.WrongQuestionUpserts.Inc()
	return nil
}

// RetireOnCorrect 复习模式答对后置掌握标记，保留历史记录
func (s *WrongQuestionService) RetireOnCorrect(userID, questionID uint) error {
	err := s.Repo.MarkMastered(userID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 记录可能已被标记掌握，复习流不视为错误
		return nil
	}
	return err
}

// MarkMastered 用户手动“已掌握”操作
func (s *WrongQuestionService) MarkMastered(userID, questionID uint) error {
	err := s.Repo.MarkMastered(userID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrWrongRecordNotFound
	}
	return err
}

type WrongQuestionView struct {
	QuestionID    uint                   `json:"questionId"`
	Content       string                 `json:"content"`
	Subject       string                 `json:"subject"`
	Difficulty    string                 `json:"difficulty"`
	QuestionType  model.QuestionType     `json:"questionType"`
	Options       []model.QuestionOption `json:"options"`
	UserAnswer    string                 `json:"userAnswer"`
	CorrectAnswer string                 `json:"correctAnswer"`
	Explanation   string                 `json:"explanation"`
	WrongCount    int                    `json:"wrongCount"`
	LastWrongAt   time.Time              `json:"lastWrongAt"`
}

// List 错题本，已掌握的默认排除
func (s *WrongQuestionService) List(userID uint, subject string, page, limit int) ([]WrongQuestionView, int64, error) {
	records, total, err := s.Repo.ListByUser(userID, subject, false, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]WrongQuestionView, 0, len(records))
	for _, wq := range records {
		view := WrongQuestionView{
			QuestionID:    wq.QuestionID,
			UserAnswer:    wq.UserAnswer,
			CorrectAnswer: wq.CorrectAnswer,
			WrongCount:    wq.WrongCount,
			LastWrongAt:   wq.LastWrongAt,
		}
		if wq.Question != nil {
			opts, _ := wq.Question.DecodeOptions()
			qt := ClassifyQuestion(opts, wq.Question.Content, wq.Question.Answer)
			view.Content = wq.Question.Content
			view.Subject = wq.Question.Subject
			view.Difficulty = wq.Question.Difficulty
			view.Explanation = wq.Question.Explanation
			view.QuestionType = qt
			view.Options = EffectiveOptions(opts, qt)
		}
		views = append(views, view)
	}
	return views, total, nil
}

// ReviewQuestionIDs 复习会话的题目集合：全部未掌握错题，最久未复习在前
func (s *WrongQuestionService) ReviewQuestionIDs(userID uint, limit int) ([]uint, error) {
	records, err := s.Repo.ListUnmastered(userID, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrNoWrongQuestions
	}

	ids := make([]uint, 0, len(records))
	for _, wq := range records {
		ids = append(ids, wq.QuestionID)
	}
	return ids, nil
}

func (s *WrongQuestionService) Counts(userID uint) (total, mastered int64, err error) {
	return s.Repo.CountByUser(userID)
}
