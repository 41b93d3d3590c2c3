package service

import (
	"fmt"
	"testing"
	"time"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/util"

	"gorm.io/gorm"
)

// memoryWrongStore 内存实现，按 (user_id, question_id) 唯一，模拟数据库唯一索引
type memoryWrongStore struct {
	rows map[[2]uint]*model.WrongQuestion
}

func newMemoryWrongStore() *memoryWrongStore {
	return &memoryWrongStore{rows: make(map[[2]uint]*model.WrongQuestion)}
}

func (s *memoryWrongStore) Create(wq *model.WrongQuestion) error {
	key := [2]uint{wq.UserID, wq.QuestionID}
	if _, exists := s.rows[key]; exists {
		return fmt.Errorf("duplicate entry for idx_user_question (%d, %d)", wq.UserID, wq.QuestionID)
	}
	copied := *wq
	s.rows[key] = &copied
	return nil
}

func (s *memoryWrongStore) Update(wq *model.WrongQuestion) error {
	key := [2]uint{wq.UserID, wq.QuestionID}
	if _, exists := s.rows[key]; !exists {
		return gorm.ErrRecordNotFound
	}
	copied := *wq
	s.rows[key] = &copied
	return nil
}

func (s *memoryWrongStore) FindByUserAndQuestion(userID, questionID uint) (*model.WrongQuestion, error) {
	wq, exists := s.rows[[2]uint{userID, questionID}]
	if !exists {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *wq
	return &copied, nil
}

func (s *memoryWrongStore) ListByUser(userID uint, subject string, includeMastered bool, page, limit int) ([]model.WrongQuestion, int64, error) {
	var list []model.WrongQuestion
	for _, wq := range s.rows {
		if wq.UserID != userID {
			continue
		}
		if !includeMastered && wq.IsMastered {
			continue
		}
		list = append(list, *wq)
	}
	return list, int64(len(list)), nil
}

func (s *memoryWrongStore) ListUnmastered(userID uint, limit int) ([]model.WrongQuestion, error) {
	list, _, err := s.ListByUser(userID, "", false, 1, limit)
	return list, err
}

func (s *memoryWrongStore) MarkMastered(userID, questionID uint) error {
	wq, exists := s.rows[[2]uint{userID, questionID}]
	if !exists {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	wq.IsMastered = true
	wq.MasteredAt = &now
	return nil
}

func (s *memoryWrongStore) CountByUser(userID uint) (total int64, mastered int64, err error) {
	for _, wq := range s.rows {
		if wq.UserID != userID {
			continue
		}
		total++
		if wq.IsMastered {
			mastered++
		}
	}
	return total, mastered, nil
}

func TestRecordWrongCreatesThenIncrements(t *testing.T) {
	store := newMemoryWrongStore()
	svc := NewWrongQuestionService(store, nil)

	if err := svc.RecordWrong(1, 10, "A", "B"); err != nil {
		t.Fatalf("first RecordWrong failed: %v", err)
	}

	wq, err := store.FindByUserAndQuestion(1, 10)
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if wq.WrongCount != 1 {
		t.Errorf("WrongCount = %d, want 1", wq.WrongCount)
	}
	if wq.UserAnswer != "A" || wq.CorrectAnswer != "B" {
		t.Errorf("answers = %q/%q, want A/B", wq.UserAnswer, wq.CorrectAnswer)
	}

	// 再次答错：同一行计数+1，不产生第二行
	if err := svc.RecordWrong(1, 10, "C", "B"); err != nil {
		t.Fatalf("second RecordWrong failed: %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected a single row per (user, question), got %d", len(store.rows))
	}
	wq, _ = store.FindByUserAndQuestion(1, 10)
	if wq.WrongCount != 2 {
		t.Errorf("WrongCount after second wrong = %d, want 2", wq.WrongCount)
	}
	if wq.UserAnswer != "C" {
		t.Errorf("UserAnswer should hold latest attempt, got %q", wq.UserAnswer)
	}
}

func TestRecordWrongClearsMasteredFlag(t *testing.T) {
	store := newMemoryWrongStore()
	svc := NewWrongQuestionService(store, nil)

	if err := svc.RecordWrong(1, 10, "A", "B"); err != nil {
		t.Fatalf("RecordWrong failed: %v", err)
	}
	if err := svc.MarkMastered(1, 10); err != nil {
		t.Fatalf("MarkMastered failed: %v", err)
	}

	// 掌握后又答错：清掉掌握标记，计数继续累加
	if err := svc.RecordWrong(1, 10, "A", "B"); err != nil {
		t.Fatalf("RecordWrong after mastered failed: %v", err)
	}
	wq, _ := store.FindByUserAndQuestion(1, 10)
	if wq.IsMastered {
		t.Error("IsMastered should be cleared after a new wrong answer")
	}
	if wq.MasteredAt != nil {
		t.Error("MasteredAt should be cleared after a new wrong answer")
	}
	if wq.WrongCount != 2 {
		t.Errorf("WrongCount = %d, want 2", wq.WrongCount)
	}
}

func TestRecordWrongSeparateUsersSeparateRows(t *testing.T) {
	store := newMemoryWrongStore()
	svc := NewWrongQuestionService(store, nil)

	if err := svc.RecordWrong(1, 10, "A", "B"); err != nil {
		t.Fatalf("RecordWrong failed: %v", err)
	}
	if err := svc.RecordWrong(2, 10, "C", "B"); err != nil {
		t.Fatalf("RecordWrong for second user failed: %v", err)
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected one row per user, got %d", len(store.rows))
	}
}

func TestRetireOnCorrectMarksMastered(t *testing.T) {
	store := newMemoryWrongStore()
	svc := NewWrongQuestionService(store, nil)

	if err := svc.RecordWrong(1, 10, "A", "B"); err != nil {
		t.Fatalf("RecordWrong failed: %v", err)
	}
	if err := svc.RetireOnCorrect(1, 10); err != nil {
		t.Fatalf("RetireOnCorrect failed: %v", err)
	}

	wq, _ := store.FindByUserAndQuestion(1, 10)
	if !wq.IsMastered || wq.MasteredAt == nil {
		t.Error("record should be flagged mastered with a timestamp")
	}

	// 记录不存在时复习流不报错
	if err := svc.RetireOnCorrect(1, 99); err != nil {
		t.Errorf("RetireOnCorrect on missing record should be nil, got %v", err)
	}
}

func TestMarkMasteredMissingRecord(t *testing.T) {
	svc := NewWrongQuestionService(newMemoryWrongStore(), nil)
	if err := svc.MarkMastered(1, 99); err != util.ErrWrongRecordNotFound {
		t.Errorf("expected ErrWrongRecordNotFound, got %v", err)
	}
}
