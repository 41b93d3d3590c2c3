package service

import (
	"context"
	"encoding/json"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/internal/util"
	"fmt"
	"io"
	"time"
)

type QuestionService struct {
	Repo    *repository.QuestionRepository
	Storage *StorageService
}

func NewQuestionService(repo *repository.QuestionRepository, storage *StorageService) *QuestionService {
	return &QuestionService{Repo: repo, Storage: storage}
}

// UpsertQuestionRequest 管理端新建/编辑题目
type UpsertQuestionRequest struct {
	Content     string                 `json:"content" binding:"required"`
	Options     []model.QuestionOption `json:"options"`
	Answer      string                 `json:"answer" binding:"required"`
	Subject     string                 `json:"subject"`
	Difficulty  string                 `json:"difficulty"`
	Explanation string                 `json:"explanation"`
	Source      string                 `json:"source"`
}

// validate 写入前做和导入同一套校验，保证库内数据一致
func (r *UpsertQuestionRequest) validate() (string, error) {
	answer := CanonicalizeAnswer(r.Answer)
	if answer == "" {
		return "", util.ErrEmptyAnswer
	}

	if len(r.Options) > 0 {
		if !ValidateAnswerLabels(answer, r.Options) {
			return "", util.ErrInvalidAnswerLabel
		}
		return answer, nil
	}

	if ClassifyQuestion(nil, r.Content, answer) != model.TrueOrFalse {
		return "", util.ErrNotSubmittable
	}
	if !ValidateAnswerLabels(answer, SynthesizedTrueFalseOptions()) {
		return "", util.ErrInvalidAnswerLabel
	}
	return answer, nil
}

func (r *UpsertQuestionRequest) toModel() (*model.Question, error) {
	answer, err := r.validate()
	if err != nil {
		return nil, err
	}

	var optsJSON json.RawMessage
	if len(r.Options) > 0 {
		optsJSON, _ = json.Marshal(r.Options)
	}

	return &model.Question{
		Content:     r.Content,
		Options:     optsJSON,
		Answer:      answer,
		Subject:     r.Subject,
		Difficulty:  r.Difficulty,
		Explanation: r.Explanation,
		Source:      r.Source,
	}, nil
}

func (s *QuestionService) Create(req UpsertQuestionRequest) (*model.Question, error) {
	q, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Update(id uint, req UpsertQuestionRequest) (*model.Question, error) {
	existing, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	updated, err := req.toModel()
	if err != nil {
		return nil, err
	}

	existing.Content = updated.Content
	existing.Options = updated.Options
	existing.Answer = updated.Answer
	existing.Subject = updated.Subject
	existing.Difficulty = updated.Difficulty
	existing.Explanation = updated.Explanation
	if updated.Source != "" {
		existing.Source = updated.Source
	}
	existing.UpdatedAt = time.Now()

	if err := s.Repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return util.ErrQuestionNotFound
	}
	return s.Repo.Delete(id)
}

// QuestionDetail 管理端完整视图，含答案与解析
type QuestionDetail struct {
	ID           uint                   `json:"id"`
	Content      string                 `json:"content"`
	Options      []model.QuestionOption `json:"options"`
	QuestionType model.QuestionType     `json:"questionType"`
	Answer       string                 `json:"answer"`
	Subject      string                 `json:"subject"`
	Difficulty   string                 `json:"difficulty"`
	Explanation  string                 `json:"explanation"`
	ImageURL     string                 `json:"imageUrl,omitempty"`
	Source       string                 `json:"source,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func questionDetail(q *model.Question) QuestionDetail {
	opts, _ := q.DecodeOptions()
	qt := ClassifyQuestion(opts, q.Content, q.Answer)
	return QuestionDetail{
		ID:           q.ID,
		Content:      q.Content,
		Options:      EffectiveOptions(opts, qt),
		QuestionType: qt,
		Answer:       q.Answer,
		Subject:      q.Subject,
		Difficulty:   q.Difficulty,
		Explanation:  q.Explanation,
		ImageURL:     q.ImageURL,
		Source:       q.Source,
		CreatedAt:    q.CreatedAt,
	}
}

func (s *QuestionService) Get(id uint) (*QuestionDetail, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	detail := questionDetail(q)
	return &detail, nil
}

func (s *QuestionService) List(subject, difficulty string, qtype model.QuestionType, page, limit int) ([]QuestionDetail, int64, error) {
	// 题型不落库，按题型筛选时先取出科目/难度命中的全集再分类分页
	if qtype != "" {
		return s.listByType(subject, difficulty, qtype, page, limit)
	}

	qs, total, err := s.Repo.List(subject, difficulty, page, limit)
	if err != nil {
		return nil, 0, err
	}

	details := make([]QuestionDetail, 0, len(qs))
	for i := range qs {
		details = append(details, questionDetail(&qs[i]))
	}
	return details, total, nil
}

func (s *QuestionService) listByType(subject, difficulty string, qtype model.QuestionType, page, limit int) ([]QuestionDetail, int64, error) {
	qs, err := s.Repo.FindFiltered(subject, difficulty)
	if err != nil {
		return nil, 0, err
	}

	var matched []QuestionDetail
	for i := range qs {
		detail := questionDetail(&qs[i])
		if detail.QuestionType == qtype {
			matched = append(matched, detail)
		}
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []QuestionDetail{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// AttachImage 上传题目配图并回写 image_url
func (s *QuestionService) AttachImage(ctx context.Context, questionID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	q, err := s.Repo.FindByID(questionID)
	if err != nil {
		return "", util.ErrQuestionNotFound
	}

	objectName := fmt.Sprintf("questions/%d/%d_%s", questionID, time.Now().Unix(), filename)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	q.ImageURL = url
	q.UpdatedAt = time.Now()
	if err := s.Repo.Update(q); err != nil {
		return "", err
	}
	return url, nil
}
