package service

import (
	"errors"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/util"
	"testing"
)

func TestParseQuestionBankArrayOptions(t *testing.T) {
	data := []byte(`[
		{
			"question": "我国教师法颁布于哪一年？",
			"options": [
				{"label": "A", "text": "1993"},
				{"label": "B", "text": "1994"},
				{"label": "C", "text": "1995"},
				{"label": "D", "text": "1996"}
			],
			"answer": "A",
			"subject": "教育法规",
			"difficulty": "easy"
		}
	]`)

	questions, importErrors, err := ParseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(importErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", importErrors)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions", len(questions))
	}

	opts, err := questions[0].DecodeOptions()
	if err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts) != 4 || opts[0].Label != "A" || opts[3].Text != "1996" {
		t.Errorf("options = %+v", opts)
	}
}

func TestParseQuestionBankMapOptions(t *testing.T) {
	data := []byte(`[
		{
			"content": "下列属于教学原则的是？",
			"options": {"C": "因材施教", "A": "启发性", "B": "直观性"},
			"answer": "CAB",
			"subject": "教育学"
		}
	]`)

	questions, importErrors, err := ParseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(importErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", importErrors)
	}

	q := questions[0]
	if q.Answer != "ABC" {
		t.Errorf("answer not canonicalized: %q", q.Answer)
	}

	opts, _ := q.DecodeOptions()
	if len(opts) != 3 || opts[0].Label != "A" || opts[1].Label != "B" || opts[2].Label != "C" {
		t.Errorf("map options should be sorted by label: %+v", opts)
	}
}

func TestParseQuestionBankLegacyTrueFalse(t *testing.T) {
	data := []byte(`[
		{"question": "教师职业道德的核心是爱岗敬业。（）", "answer": "B", "subject": "职业道德"}
	]`)

	questions, importErrors, err := ParseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(importErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", importErrors)
	}
	if questions[0].Options != nil {
		t.Error("legacy true/false question should keep empty options")
	}
}

func TestParseQuestionBankRowErrors(t *testing.T) {
	data := []byte(`[
		{"question": "", "answer": "A"},
		{"question": "答案为空的题", "answer": "  "},
		{"question": "标号越界的题", "options": [{"label": "A", "text": "甲"}, {"label": "B", "text": "乙"}, {"label": "C", "text": "丙"}], "answer": "AD"},
		{"question": "无选项且无全角括号的题", "answer": "A"},
		{"question": "正常的题", "options": [{"label": "A", "text": "甲"}, {"label": "B", "text": "乙"}, {"label": "C", "text": "丙"}], "answer": "B"}
	]`)

	questions, importErrors, err := ParseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("got %d valid questions, want 1", len(questions))
	}
	if len(importErrors) != 4 {
		t.Fatalf("got %d row errors, want 4: %+v", len(importErrors), importErrors)
	}
	for i, wantIdx := range []int{0, 1, 2, 3} {
		if importErrors[i].Index != wantIdx {
			t.Errorf("error %d has index %d, want %d", i, importErrors[i].Index, wantIdx)
		}
	}
}

func TestParseQuestionBankBadFile(t *testing.T) {
	if _, _, err := ParseQuestionBank(nil); !errors.Is(err, util.ErrEmptyImportFile) {
		t.Errorf("nil data: %v", err)
	}
	if _, _, err := ParseQuestionBank([]byte("[]")); !errors.Is(err, util.ErrEmptyImportFile) {
		t.Errorf("empty array: %v", err)
	}
	if _, _, err := ParseQuestionBank([]byte("not json")); !errors.Is(err, util.ErrUnsupportedImportFmt) {
		t.Errorf("garbage: %v", err)
	}
	if _, _, err := ParseQuestionBank([]byte(`{"question": "单个对象"}`)); !errors.Is(err, util.ErrUnsupportedImportFmt) {
		t.Errorf("non-array: %v", err)
	}
}

func TestClassifyImportedQuestionTypes(t *testing.T) {
	data := []byte(`[
		{"question": "判断题样例。（）", "answer": "A"},
		{"question": "多选样例", "options": {"A": "甲", "B": "乙", "C": "丙", "D": "丁"}, "answer": "BD"},
		{"question": "单选样例", "options": {"A": "甲", "B": "乙", "C": "丙"}, "answer": "C"}
	]`)

	questions, _, err := ParseQuestionBank(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []model.QuestionType{model.TrueOrFalse, model.MultipleChoice, model.SingleChoice}
	for i, q := range questions {
		opts, _ := q.DecodeOptions()
		if got := ClassifyQuestion(opts, q.Content, q.Answer); got != want[i] {
			t.Errorf("question %d classified as %s, want %s", i, got, want[i])
		}
	}
}
