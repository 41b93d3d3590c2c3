package service

import (
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
	"exam_practice_backend/pkg/logger"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

type DedupService struct {
	QuestionRepo *repository.QuestionRepository
	Threshold    float64
}

func NewDedupService(questionRepo *repository.QuestionRepository, threshold float64) *DedupService {
	return &DedupService{QuestionRepo: questionRepo, Threshold: threshold}
}

// DuplicatePair 一对疑似重复题目及其相似度
type DuplicatePair struct {
	QuestionID  uint    `json:"questionId"`
	DuplicateID uint    `json:"duplicateId"`
	Similarity  float64 `json:"similarity"`
	Content     string  `json:"content"`
	Duplicate   string  `json:"duplicate"`
}

// normalizeStem 归一化题干用于相似度比较：去空白和标点，全角括号占位一并剔除
func normalizeStem(content string) []rune {
	var out []rune
	for _, r := range content {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// levenshtein 编辑距离，滚动单行节省内存
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur := prev[0]
		prev[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(prev[j]+1, prev[j-1]+1, cur+cost)
			cur = prev[j]
			prev[j] = next
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// StemSimilarity 归一化题干的相似度，1 为完全一致
func StemSimilarity(a, b string) float64 {
	ra, rb := normalizeStem(a), normalizeStem(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longer)
}

// ScanDuplicates 全量扫描题库，返回相似度超过阈值的题目对
// 两两比较是平方复杂度，只在管理端手动触发，分页加载避免一次性拉全表
func (s *DedupService) ScanDuplicates() ([]DuplicatePair, error) {
	const pageSize = 500

	var all []model.Question
	for offset := 0; ; offset += pageSize {
		batch, err := s.QuestionRepo.FindPage(offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
	}

	var pairs []DuplicatePair
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			sim := StemSimilarity(all[i].Content, all[j].Content)
			if sim >= s.Threshold {
				pairs = append(pairs, DuplicatePair{
					QuestionID:  all[i].ID,
					DuplicateID: all[j].ID,
					Similarity:  sim,
					Content:     truncateStem(all[i].Content),
					Duplicate:   truncateStem(all[j].Content),
				})
			}
		}
	}

	logger.Log.Info("duplicate scan finished",
		zap.Int("questions", len(all)),
		zap.Int("pairs", len(pairs)),
		zap.Float64("threshold", s.Threshold))
	return pairs, nil
}

func truncateStem(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= 50 {
		return string(runes)
	}
	return string(runes[:50]) + "..."
}
