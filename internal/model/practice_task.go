package model

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// PracticeTask 任务/复习模式的持久化进度
// completed_questions == total_questions 时任务终结
type PracticeTask struct {
	BaseModel
	UserID             uint            `gorm:"not null;index" json:"userId"`
	Mode               string          `gorm:"size:20;not null" json:"mode"` // task / review
	Title              string          `gorm:"size:255" json:"title"`
	QuestionIDs        json.RawMessage `gorm:"type:json" json:"questionIds"` // JSON: []uint，保持出题顺序
	TotalQuestions     int             `gorm:"not null" json:"totalQuestions"`
	CompletedQuestions int             `gorm:"default:0" json:"completedQuestions"`
	CorrectCount       int             `gorm:"default:0" json:"correctCount"`
	Status             TaskStatus      `gorm:"size:20;default:'pending';index" json:"status"`
	CompletedAt        *time.Time      `json:"completedAt"`
}

func (PracticeTask) TableName() string {
	return "practice_tasks"
}

func (t *PracticeTask) DecodeQuestionIDs() ([]uint, error) {
	var ids []uint
	if len(t.QuestionIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(t.QuestionIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
