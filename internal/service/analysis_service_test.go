package service

import (
	"encoding/json"
	"exam_practice_backend/internal/model"
	"strings"
	"testing"
)

func TestExtractJSONObjectFenced(t *testing.T) {
	input := "分析如下：\n```json\n{\"summary\": \"基础薄弱\", \"weakSubjects\": [\"教育学\"]}\n```\n请参考。"

	raw, ok := ExtractJSONObject(input)
	if !ok {
		t.Fatal("expected fenced JSON to parse")
	}

	var parsed struct {
		Summary      string   `json:"summary"`
		WeakSubjects []string `json:"weakSubjects"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal extracted: %v", err)
	}
	if parsed.Summary != "基础薄弱" || len(parsed.WeakSubjects) != 1 {
		t.Errorf("unexpected parse result: %+v", parsed)
	}
}

func TestExtractJSONObjectBareFence(t *testing.T) {
	input := "```\n{\"summary\": \"ok\"}\n```"

	raw, ok := ExtractJSONObject(input)
	if !ok {
		t.Fatal("expected bare fenced JSON to parse")
	}
	if string(raw) != `{"summary": "ok"}` {
		t.Errorf("extracted %q", string(raw))
	}
}

func TestExtractJSONObjectEmbedded(t *testing.T) {
	input := `好的，我的分析是 {"summary": "粗心", "suggestions": ["多做题"]} 希望有帮助。`

	raw, ok := ExtractJSONObject(input)
	if !ok {
		t.Fatal("expected embedded JSON to parse")
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if probe["summary"] != "粗心" {
		t.Errorf("summary = %v", probe["summary"])
	}
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	input := `前言 {"summary": "注意 {花括号} 字符", "n": 1} 结尾`

	raw, ok := ExtractJSONObject(input)
	if !ok {
		t.Fatal("expected JSON with braces inside strings to parse")
	}
	var probe map[string]interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestExtractJSONObjectFallback(t *testing.T) {
	inputs := []string{
		"这名考生主要问题是教育学基础不牢，建议系统复习。",
		"```json\n{broken json\n```",
		"{unbalanced",
		"",
	}
	for _, input := range inputs {
		if _, ok := ExtractJSONObject(input); ok {
			t.Errorf("input %q should not parse as JSON", input)
		}
	}
}

func TestBuildAnalysisPromptContainsRecords(t *testing.T) {
	records := []model.WrongQuestion{
		{
			UserAnswer:    "A",
			CorrectAnswer: "B",
			WrongCount:    3,
			Question: &model.Question{
				Content: "素质教育的核心是什么",
				Subject: "教育学",
			},
		},
	}
	prompt := buildAnalysisPrompt(records)

	for _, want := range []string{"教育学", "素质教育的核心", "考生答案：A", "正确答案：B", "累计错误3次", "json"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
