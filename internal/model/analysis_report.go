package model

import "encoding/json"

// AnalysisReport AI错因分析结果
// raw_content 保留模型原始输出，parsed 仅在成功抽取出JSON时存储
type AnalysisReport struct {
	BaseModel
	UserID        uint            `gorm:"not null;index" json:"userId"`
	Model         string          `gorm:"size:100" json:"model"`
	QuestionCount int             `json:"questionCount"` // 本次送审的错题数
	RawContent    string          `gorm:"type:text" json:"rawContent"`
	Parsed        json.RawMessage `gorm:"type:json" json:"parsed,omitempty"`
	ParseOK       bool            `json:"parseOk"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}
