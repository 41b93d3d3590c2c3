package service

import (
	"encoding/json"
	"testing"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeOptionsLoggedWarnsOnBadJSON(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	old := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = old }()

	q := &model.Question{
		BaseModel: model.BaseModel{ID: 7},
		Content:   "教育学的创立者是谁",
		Options:   json.RawMessage(`{broken`),
		Answer:    "A",
	}

	opts := decodeOptionsLogged(q)
	if opts != nil {
		t.Errorf("malformed options should degrade to nil, got %+v", opts)
	}
	if got := logs.FilterMessage("question has malformed options json").Len(); got != 1 {
		t.Errorf("expected one warning about malformed options, got %d", got)
	}
}

func TestDecodeOptionsLoggedValidJSON(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	old := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = old }()

	q := &model.Question{
		Content: "下列属于教学原则的是",
		Options: json.RawMessage(`[{"label":"A","text":"直观性"},{"label":"B","text":"随意性"}]`),
		Answer:  "A",
	}

	opts := decodeOptionsLogged(q)
	if len(opts) != 2 || opts[0].Label != "A" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if logs.Len() != 0 {
		t.Errorf("valid options must not log warnings, got %d entries", logs.Len())
	}
}
