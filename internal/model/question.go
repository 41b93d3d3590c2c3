package model

import "encoding/json"

// QuestionType 题型，由选项/答案的形态推断得出
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueOrFalse    QuestionType = "true_false"
	UnknownType    QuestionType = "unknown"
)

// QuestionOption 选项，label 为选项标号（A/B/C/D），同时作为 answer 字符串的组成字符
type QuestionOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question 题库题目
// options 允许为空：历史数据中部分判断题不存储选项，由约定补出 正确/错误 两项
// swagger:model Question
type Question struct {
	BaseModel
	Content     string          `gorm:"type:text;not null" json:"content"` // 题干
	Options     json.RawMessage `gorm:"type:json" json:"options"`          // JSON: []QuestionOption
	Answer      string          `gorm:"size:20;not null" json:"answer"`    // 规范答案，多选按标号升序拼接
	Subject     string          `gorm:"size:100;index" json:"subject"`
	Difficulty  string          `gorm:"size:20;index" json:"difficulty"` // easy/medium/hard，历史数据不强校验
	Explanation string          `gorm:"type:text" json:"explanation"`
	ImageURL    string          `gorm:"size:255" json:"imageUrl"`
	Source      string          `gorm:"size:100" json:"source"` // 导入来源批次
}

func (Question) TableName() string {
	return "questions"
}

// DecodeOptions 解析选项列表，保持存储顺序
func (q *Question) DecodeOptions() ([]QuestionOption, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []QuestionOption
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
