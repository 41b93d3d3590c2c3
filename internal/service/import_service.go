package service

import (
	"encoding/json"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/util"
	"exam_practice_backend/pkg/logger"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

type ImportService struct {
	QuestionRepo *repository.QuestionRepository
}

func NewImportService(questionRepo *repository.QuestionRepository) *ImportService {
	return &ImportService{QuestionRepo: questionRepo}
}

// importRecord 历史题库JSON的一行
// 字段名和选项编码在不同批次的导出里并不统一，都要兼容：
// 题干字段有 question/content 两种写法，选项有对象映射和数组两种编码
type importRecord struct {
	Question    string          `json:"question"`
	Content     string          `json:"content"`
	Options     json.RawMessage `json:"options"`
	Answer      string          `json:"answer"`
	Subject     string          `json:"subject"`
	Difficulty  string          `json:"difficulty"`
	Explanation string          `json:"explanation"`
}

func (r *importRecord) stem() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Content
}

// ImportError 单行导入失败的定位信息
type ImportError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ImportResult 导入汇总
type ImportResult struct {
	Total    int           `json:"total"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// decodeImportOptions 兼容两种历史编码：
// 数组 [{"label":"A","text":"..."}] 原样保序；对象 {"A":"..."} 按标号升序重排
func decodeImportOptions(raw json.RawMessage) ([]model.QuestionOption, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asArray []model.QuestionOption
	if err := json.Unmarshal(raw, &asArray); err == nil {
		return asArray, nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, util.ErrUnsupportedImportFmt
	}

	labels := make([]string, 0, len(asMap))
	for label := range asMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	opts := make([]model.QuestionOption, 0, len(labels))
	for _, label := range labels {
		opts = append(opts, model.QuestionOption{Label: label, Text: asMap[label]})
	}
	return opts, nil
}

// ParseQuestionBank 解析并校验题库文件，返回可入库的题目和逐行错误
func ParseQuestionBank(data []byte) ([]model.Question, []ImportError, error) {
	if len(data) == 0 {
		return nil, nil, util.ErrEmptyImportFile
	}

	var records []importRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, util.ErrUnsupportedImportFmt
	}
	if len(records) == 0 {
		return nil, nil, util.ErrEmptyImportFile
	}

	var questions []model.Question
	var importErrors []ImportError

	for i, rec := range records {
		stem := strings.TrimSpace(rec.stem())
		if stem == "" {
			importErrors = append(importErrors, ImportError{Index: i, Reason: "题干为空"})
			continue
		}

		answer := CanonicalizeAnswer(rec.Answer)
		if answer == "" {
			importErrors = append(importErrors, ImportError{Index: i, Reason: "答案为空"})
			continue
		}

		opts, err := decodeImportOptions(rec.Options)
		if err != nil {
			importErrors = append(importErrors, ImportError{Index: i, Reason: "选项格式无法解析"})
			continue
		}

		// 有选项的题目答案标号必须存在于选项中
		// 无选项保留给旧版判断题（题干带全角括号占位）
		if len(opts) > 0 && !ValidateAnswerLabels(answer, opts) {
			importErrors = append(importErrors, ImportError{Index: i, Reason: fmt.Sprintf("答案 %q 使用了不存在的选项标号", answer)})
			continue
		}
		if len(opts) == 0 {
			qt := ClassifyQuestion(nil, stem, answer)
			if qt != model.TrueOrFalse {
				importErrors = append(importErrors, ImportError{Index: i, Reason: "无选项且不符合判断题约定"})
				continue
			}
			if !ValidateAnswerLabels(answer, SynthesizedTrueFalseOptions()) {
				importErrors = append(importErrors, ImportError{Index: i, Reason: fmt.Sprintf("判断题答案 %q 不在默认选项 A/B 中", answer)})
				continue
			}
		}

		var optsJSON json.RawMessage
		if len(opts) > 0 {
			optsJSON, _ = json.Marshal(opts)
		}

		questions = append(questions, model.Question{
			Content:     stem,
			Options:     optsJSON,
			Answer:      answer,
			Subject:     strings.TrimSpace(rec.Subject),
			Difficulty:  strings.TrimSpace(rec.Difficulty),
			Explanation: rec.Explanation,
		})
	}

	return questions, importErrors, nil
}

// Import 导入题库文件并批量入库
func (s *ImportService) Import(data []byte, source string) (*ImportResult, error) {
	questions, importErrors, err := ParseQuestionBank(data)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		questions[i].Source = source
	}

	if len(questions) > 0 {
		if err := s.QuestionRepo.CreateInBatches(questions, 100); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("question bank imported",
		zap.String("source", source),
		zap.Int("inserted", len(questions)),
		zap.Int("skipped", len(importErrors)))

	return &ImportResult{
		Total:    len(questions) + len(importErrors),
		Inserted: len(questions),
		Skipped:  len(importErrors),
		Errors:   importErrors,
	}, nil
}
