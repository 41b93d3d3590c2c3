package service

import (
	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/repository"
)

type DashboardService struct {
	UserRepo     *repository.UserRepository
	QuestionRepo *repository.QuestionRepository
	WrongRepo    *repository.WrongQuestionRepository
	TaskRepo     *repository.PracticeTaskRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	wrongRepo *repository.WrongQuestionRepository,
	taskRepo *repository.PracticeTaskRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		QuestionRepo: questionRepo,
		WrongRepo:    wrongRepo,
		TaskRepo:     taskRepo,
	}
}

// AdminOverview 管理端看板
type AdminOverview struct {
	UserCount     int64                         `json:"userCount"`
	QuestionCount int64                         `json:"questionCount"`
	BySubject     []repository.TagCount         `json:"bySubject"`
	ByDifficulty  []repository.TagCount         `json:"byDifficulty"`
	ByType        map[model.QuestionType]int64  `json:"byType"`
	TopWrong      []repository.HotWrongQuestion `json:"topWrong"`
}

func (s *DashboardService) AdminOverview() (*AdminOverview, error) {
	userCount, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	questionCount, err := s.QuestionRepo.Count()
	if err != nil {
		return nil, err
	}
	bySubject, err := s.QuestionRepo.CountBySubject()
	if err != nil {
		return nil, err
	}
	byDifficulty, err := s.QuestionRepo.CountByDifficulty()
	if err != nil {
		return nil, err
	}
	byType, err := s.countByType()
	if err != nil {
		return nil, err
	}
	topWrong, err := s.WrongRepo.TopWrong(10)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		UserCount:     userCount,
		QuestionCount: questionCount,
		BySubject:     bySubject,
		ByDifficulty:  byDifficulty,
		ByType:        byType,
		TopWrong:      topWrong,
	}, nil
}

// countByType 题型不落库，统计时分页扫表按规则现场分类
func (s *DashboardService) countByType() (map[model.QuestionType]int64, error) {
	const pageSize = 500
	counts := make(map[model.QuestionType]int64)

	for offset := 0; ; offset += pageSize {
		batch, err := s.QuestionRepo.FindPage(offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			opts, _ := batch[i].DecodeOptions()
			counts[ClassifyQuestion(opts, batch[i].Content, batch[i].Answer)]++
		}
		if len(batch) < pageSize {
			break
		}
	}
	return counts, nil
}

// BankOverview 题库概览，登录用户额外带个人待复习错题数
type BankOverview struct {
	QuestionCount int64                 `json:"questionCount"`
	BySubject     []repository.TagCount `json:"bySubject"`
	WrongPending  *int64                `json:"wrongPending,omitempty"`
}

// BankOverview userID 为 0 表示游客，只返回公共统计
func (s *DashboardService) BankOverview(userID uint) (*BankOverview, error) {
	questionCount, err := s.QuestionRepo.Count()
	if err != nil {
		return nil, err
	}
	bySubject, err := s.QuestionRepo.CountBySubject()
	if err != nil {
		return nil, err
	}

	overview := &BankOverview{
		QuestionCount: questionCount,
		BySubject:     bySubject,
	}

	if userID != 0 {
		total, mastered, err := s.WrongRepo.CountByUser(userID)
		if err != nil {
			return nil, err
		}
		pending := total - mastered
		overview.WrongPending = &pending
	}
	return overview, nil
}

// TaskBrief 学生总览里的任务摘要
type TaskBrief struct {
	TaskID    uint             `json:"taskId"`
	Title     string           `json:"title"`
	Mode      string           `json:"mode"`
	Status    model.TaskStatus `json:"status"`
	Total     int              `json:"total"`
	Completed int              `json:"completed"`
	Correct   int              `json:"correct"`
}

// StudentOverview 学生个人总览
type StudentOverview struct {
	WrongTotal    int64       `json:"wrongTotal"`
	WrongMastered int64       `json:"wrongMastered"`
	WrongPending  int64       `json:"wrongPending"`
	Accuracy      float64     `json:"accuracy"`
	RecentTasks   []TaskBrief `json:"recentTasks"`
}

func (s *DashboardService) StudentOverview(userID uint) (*StudentOverview, error) {
	total, mastered, err := s.WrongRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.TaskRepo.RecentByUser(userID, 5)
	if err != nil {
		return nil, err
	}

	briefs := make([]TaskBrief, 0, len(tasks))
	var answered, correct int
	for _, t := range tasks {
		briefs = append(briefs, TaskBrief{
			TaskID:    t.ID,
			Title:     t.Title,
			Mode:      t.Mode,
			Status:    t.Status,
			Total:     t.TotalQuestions,
			Completed: t.CompletedQuestions,
			Correct:   t.CorrectCount,
		})
		answered += t.CompletedQuestions
		correct += t.CorrectCount
	}

	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(correct) / float64(answered)
	}

	return &StudentOverview{
		WrongTotal:    total,
		WrongMastered: mastered,
		WrongPending:  total - mastered,
		Accuracy:      accuracy,
		RecentTasks:   briefs,
	}, nil
}
