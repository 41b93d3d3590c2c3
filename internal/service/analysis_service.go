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
	"strings"

	"go.uber.org/zap"
)

type AnalysisService struct {
	AI        *AIService
	WrongRepo *repository.WrongQuestionRepository
	Repo      *repository.AnalysisRepository
	Cfg       *config.Config
}

func NewAnalysisService(ai *AIService, wrongRepo *repository.WrongQuestionRepository, repo *repository.AnalysisRepository, cfg *config.Config) *AnalysisService {
	return &AnalysisService{AI: ai, WrongRepo: wrongRepo, Repo: repo, Cfg: cfg}
}

const analysisSystemPrompt = "你是一名资深的教师资格证考试辅导老师，擅长从学生的错题中归纳薄弱知识点并给出复习建议。"

// buildAnalysisPrompt 把错题摘要拼装成分析提示词，要求模型输出JSON
func buildAnalysisPrompt(records []model.WrongQuestion) string {
	var sb strings.Builder
	sb.WriteString("以下是一名考生近期的错题记录，请分析其薄弱环节：\n\n")

	for i, wq := range records {
		sb.WriteString(fmt.Sprintf("%d. ", i+1))
		if wq.Question != nil {
			sb.WriteString(fmt.Sprintf("【%s】%s\n", wq.Question.Subject, wq.Question.Content))
		}
		sb.WriteString(fmt.Sprintf("   考生答案：%s，正确答案：%s，累计错误%d次\n",
			wq.UserAnswer, wq.CorrectAnswer, wq.WrongCount))
	}

	sb.WriteString("\n请以JSON格式输出分析结果，格式如下：\n")
	sb.WriteString("```json\n{\"summary\": \"总体分析\", \"weakSubjects\": [\"薄弱科目\"], \"suggestions\": [\"复习建议\"]}\n```\n")
	sb.WriteString("如无法按格式输出，请直接给出文字分析。")
	return sb.String()
}

// ExtractJSONObject 从模型输出中抽取JSON对象
// 依次尝试：```json 围栏块 → 裸围栏块 → 首个配平的大括号片段
// 每个候选都走严格解析，全部失败则由调用方把整段输出当纯文本展示
func ExtractJSONObject(s string) (json.RawMessage, bool) {
	for _, candidate := range jsonCandidates(s) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || candidate[0] != '{' {
			continue
		}
		var probe map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
			return json.RawMessage(candidate), true
		}
	}
	return nil, false
}

func jsonCandidates(s string) []string {
	var candidates []string

	for _, fence := range []string{"```json", "```"} {
		if start := strings.Index(s, fence); start >= 0 {
			rest := s[start+len(fence):]
			if end := strings.Index(rest, "```"); end >= 0 {
				candidates = append(candidates, rest[:end])
			}
		}
	}

	if body := balancedBraceSpan(s); body != "" {
		candidates = append(candidates, body)
	}
	return candidates
}

// balancedBraceSpan 返回首个大括号配平的片段，跳过字符串字面量内的括号
func balancedBraceSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// GenerateReport 生成错因分析报告
// 外部接口尽力而为：解析失败降级为纯文本，调用失败交由用户手动重试
func (s *AnalysisService) GenerateReport(ctx context.Context, userID uint) (*model.AnalysisReport, error) {
	records, err := s.WrongRepo.ListUnmastered(userID, s.Cfg.Practice.AnalysisBatchLimit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrNoWrongQuestions
	}

	raw, err := s.AI.Chat(ctx, analysisSystemPrompt, buildAnalysisPrompt(records))
	if err != nil {
		monitoring.AnalysisCalls.WithLabelValues("error").Inc()
		logger.Log.Error("AI analysis call failed", zap.Uint("userId", userID), zap.Error(err))
		return nil, util.ErrAnalysisUnavailable
	}

	report := &model.AnalysisReport{
		UserID:        userID,
		Model:         s.AI.Model(),
		QuestionCount: len(records),
		RawContent:    raw,
	}

	if parsed, ok := ExtractJSONObject(raw); ok {
		report.Parsed = parsed
		report.ParseOK = true
		monitoring.AnalysisCalls.WithLabelValues("ok").Inc()
	} else {
		monitoring.AnalysisCalls.WithLabelValues("parse_fallback").Inc()
	}

	if err := s.Repo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *AnalysisService) Latest(userID uint) (*model.AnalysisReport, error) {
	return s.Repo.LatestByUser(userID)
}

func (s *AnalysisService) List(userID uint, page, limit int) ([]model.AnalysisReport, int64, error) {
	return s.Repo.ListByUser(userID, page, limit)
}
