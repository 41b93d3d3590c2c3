package service

import (
	"exam_practice_backend/internal/model"
	"testing"
)

func opts(pairs ...string) []model.QuestionOption {
	var out []model.QuestionOption
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.QuestionOption{Label: pairs[i], Text: pairs[i+1]})
	}
	return out
}

func TestClassifyQuestion(t *testing.T) {
	tests := []struct {
		name    string
		opts    []model.QuestionOption
		content string
		answer  string
		want    model.QuestionType
	}{
		{
			name:   "two options with 正确/错误",
			opts:   opts("A", "正确", "B", "错误"),
			answer: "B",
			want:   model.TrueOrFalse,
		},
		{
			name:   "two options with 对/错",
			opts:   opts("A", "对", "B", "错"),
			answer: "A",
			want:   model.TrueOrFalse,
		},
		{
			name:   "two options with √/×",
			opts:   opts("A", "√", "B", "×"),
			answer: "A",
			want:   model.TrueOrFalse,
		},
		{
			// 规则1优先于规则3：判断题答案即使是多字符也不能判成多选
			name:   "true/false wins over answer length",
			opts:   opts("A", "是", "B", "否"),
			answer: "AB",
			want:   model.TrueOrFalse,
		},
		{
			name:    "empty options with fullwidth paren marker",
			opts:    nil,
			content: "教师职业道德的核心是关爱学生。（）",
			answer:  "A",
			want:    model.TrueOrFalse,
		},
		{
			name:    "empty options without marker",
			opts:    nil,
			content: "教师职业道德的核心是什么",
			answer:  "A",
			want:    model.UnknownType,
		},
		{
			name:   "multi-char answer is multiple choice",
			opts:   opts("A", "x", "B", "y", "C", "z", "D", "w"),
			answer: "BD",
			want:   model.MultipleChoice,
		},
		{
			name:   "single answer with four options",
			opts:   opts("A", "x", "B", "y", "C", "z", "D", "w"),
			answer: "C",
			want:   model.SingleChoice,
		},
		{
			// 单个多字节字符的答案按一个标号计，不能误判成多选
			name:   "multi-byte single answer with four options",
			opts:   opts("√", "x", "×", "y", "A", "z", "B", "w"),
			answer: "√",
			want:   model.SingleChoice,
		},
		{
			// 两个普通选项、单字符答案：不满足任何规则
			name:   "two plain options fall through to unknown",
			opts:   opts("A", "x", "B", "y"),
			answer: "A",
			want:   model.UnknownType,
		},
		{
			name:   "empty answer with options",
			opts:   opts("A", "x", "B", "y", "C", "z"),
			answer: "",
			want:   model.UnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyQuestion(tt.opts, tt.content, tt.answer)
			if got != tt.want {
				t.Errorf("ClassifyQuestion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveOptionsSynthesizesPair(t *testing.T) {
	qt := ClassifyQuestion(nil, "地球是圆的。（）", "A")
	if qt != model.TrueOrFalse {
		t.Fatalf("expected true/false, got %v", qt)
	}

	effective := EffectiveOptions(nil, qt)
	if len(effective) != 2 {
		t.Fatalf("expected 2 synthesized options, got %d", len(effective))
	}
	if effective[0].Label != "A" || effective[0].Text != "正确" {
		t.Errorf("unexpected first option: %+v", effective[0])
	}
	if effective[1].Label != "B" || effective[1].Text != "错误" {
		t.Errorf("unexpected second option: %+v", effective[1])
	}

	// 已有选项的题目不做补齐
	original := opts("A", "正确", "B", "错误")
	if got := EffectiveOptions(original, model.TrueOrFalse); len(got) != 2 || got[0].Text != "正确" {
		t.Errorf("existing options must pass through unchanged: %+v", got)
	}
}

func TestCanonicalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BD", "BD"},
		{"DB", "BD"},
		{"  DB ", "BD"},
		{"CAB", "ABC"},
		{"A", "A"},
		{" A ", "A"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalizeAnswer(tt.in); got != tt.want {
			t.Errorf("CanonicalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalizeSelectionOrderInvariant(t *testing.T) {
	a := CanonicalizeSelection([]string{"C", "A"})
	b := CanonicalizeSelection([]string{"A", "C"})
	if a != b || a != "AC" {
		t.Errorf("selection order must not matter: %q vs %q", a, b)
	}
}

func TestIsAnswerCorrect(t *testing.T) {
	tests := []struct {
		name      string
		user      string
		canonical string
		qt        model.QuestionType
		want      bool
	}{
		{"single exact", "B", "B", model.SingleChoice, true},
		{"single wrong", "A", "B", model.SingleChoice, false},
		{"single trims whitespace", " B ", "B", model.SingleChoice, true},
		{"true/false exact", "A", "A", model.TrueOrFalse, true},
		{"multiple same order", "BD", "BD", model.MultipleChoice, true},
		{"multiple reversed selection", "DB", "BD", model.MultipleChoice, true},
		{"multiple missing label", "B", "BD", model.MultipleChoice, false},
		{"multiple extra label", "ABD", "BD", model.MultipleChoice, false},
		{"empty never correct", "", "B", model.SingleChoice, false},
		{"empty never correct multiple", "", "BD", model.MultipleChoice, false},
		{"unknown never scored", "A", "A", model.UnknownType, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAnswerCorrect(tt.user, tt.canonical, tt.qt); got != tt.want {
				t.Errorf("IsAnswerCorrect(%q, %q, %v) = %v, want %v", tt.user, tt.canonical, tt.qt, got, tt.want)
			}
		})
	}
}

func TestValidateAnswerLabels(t *testing.T) {
	options := opts("A", "x", "B", "y", "C", "z", "D", "w")

	if !ValidateAnswerLabels("BD", options) {
		t.Error("BD should be valid against A-D options")
	}
	if ValidateAnswerLabels("BE", options) {
		t.Error("E is not an option label")
	}
	if !ValidateAnswerLabels("A", SynthesizedTrueFalseOptions()) {
		t.Error("A should validate against synthesized true/false pair")
	}
	if ValidateAnswerLabels("C", SynthesizedTrueFalseOptions()) {
		t.Error("C should not validate against synthesized true/false pair")
	}
}
