package service

import (
	"exam_practice_backend/internal/util"
	"testing"
)

func newTestSession() *PracticeSession {
	return NewPracticeSession(1, ModeRandom, []uint{10, 20, 30})
}

func TestSessionHappyPath(t *testing.T) {
	s := newTestSession()

	if s.Step != StepReady {
		t.Fatalf("new session must start ready, got %v", s.Step)
	}

	id, err := s.CurrentQuestionID()
	if err != nil || id != 10 {
		t.Fatalf("current question = %d, %v", id, err)
	}

	if err := s.Select("A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.Step != StepAnswering || s.Draft != "A" {
		t.Fatalf("after select: step=%v draft=%q", s.Step, s.Draft)
	}

	// 改选覆盖草稿
	if err := s.Select("B"); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if s.Draft != "B" {
		t.Fatalf("draft not overwritten: %q", s.Draft)
	}

	if err := s.Submit("B", true); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.Step != StepExplained || s.CorrectCount != 1 {
		t.Fatalf("after submit: step=%v correct=%d", s.Step, s.CorrectCount)
	}
	if r := s.LastResult(); r == nil || r.QuestionID != 10 || !r.Correct {
		t.Fatalf("last result = %+v", r)
	}

	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Index != 1 || s.Step != StepAnswering {
		t.Fatalf("after advance: index=%d step=%v", s.Index, s.Step)
	}
}

func TestSessionDoubleSubmitRejected(t *testing.T) {
	s := newTestSession()

	if err := s.Submit("A", false); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// 模拟双击提交：分数不得二次累计，结果不得重复追加
	err := s.Submit("A", false)
	if err != util.ErrAlreadySubmitted {
		t.Fatalf("second submit: got %v, want ErrAlreadySubmitted", err)
	}
	if len(s.Results) != 1 {
		t.Fatalf("results appended twice: %d", len(s.Results))
	}
	if s.CorrectCount != 0 {
		t.Fatalf("correct count changed: %d", s.CorrectCount)
	}
}

func TestSessionAdvanceRequiresExplained(t *testing.T) {
	s := newTestSession()

	if err := s.Advance(); err != util.ErrAdvanceBeforeSubmit {
		t.Fatalf("advance from ready: got %v", err)
	}

	s.Select("A")
	if err := s.Advance(); err != util.ErrAdvanceBeforeSubmit {
		t.Fatalf("advance from answering: got %v", err)
	}
}

func TestSessionCompletion(t *testing.T) {
	s := NewPracticeSession(1, ModeReview, []uint{10, 20})

	s.Submit("A", true)
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	s.Submit("B", false)
	if err := s.Advance(); err != nil {
		t.Fatalf("final advance: %v", err)
	}

	if !s.IsComplete() {
		t.Fatal("session should be complete")
	}
	if _, err := s.CurrentQuestionID(); err != util.ErrSessionCompleted {
		t.Fatalf("current question after completion: %v", err)
	}
	if err := s.Select("A"); err != util.ErrSessionCompleted {
		t.Fatalf("select after completion: %v", err)
	}
	if err := s.Submit("A", true); err != util.ErrSessionCompleted {
		t.Fatalf("submit after completion: %v", err)
	}
	if err := s.Advance(); err != util.ErrSessionCompleted {
		t.Fatalf("advance after completion: %v", err)
	}

	sum := s.Summary()
	if sum.TotalQuestions != 2 || sum.Answered != 2 || sum.CorrectCount != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.Accuracy != 0.5 {
		t.Fatalf("accuracy = %f", sum.Accuracy)
	}
	if !sum.Complete {
		t.Fatal("summary should be marked complete")
	}
}

func TestSessionSelectAfterSubmitRejected(t *testing.T) {
	s := newTestSession()
	s.Submit("A", true)

	if err := s.Select("B"); err != util.ErrAlreadySubmitted {
		t.Fatalf("select in explained state: got %v", err)
	}
}
