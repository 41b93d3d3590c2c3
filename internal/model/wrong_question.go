package model

import "time"

// WrongQuestion 错题记录，(user_id, question_id) 唯一
// 掌握后保留行并置 is_mastered，复习列表排除已掌握记录
type WrongQuestion struct {
	BaseModel
	UserID        uint       `gorm:"not null;index:idx_user_question,unique" json:"userId"`
	QuestionID    uint       `gorm:"not null;index:idx_user_question,unique" json:"questionId"`
	WrongCount    int        `gorm:"default:1" json:"wrongCount"`
	UserAnswer    string     `gorm:"size:20" json:"userAnswer"`    // 最近一次错误作答
	CorrectAnswer string     `gorm:"size:20" json:"correctAnswer"` // 冗余存储，列表展示免联表
	IsMastered    bool       `gorm:"default:false;index" json:"isMastered"`
	MasteredAt    *time.Time `json:"masteredAt"`
	LastWrongAt   time.Time  `json:"lastWrongAt"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (WrongQuestion) TableName() string {
	return "wrong_questions"
}
