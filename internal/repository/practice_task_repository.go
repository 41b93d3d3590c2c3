package repository

import (
	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type PracticeTaskRepository struct {
	DB *gorm.DB
}

func NewPracticeTaskRepository(db *gorm.DB) *PracticeTaskRepository {
	return &PracticeTaskRepository{DB: db}
}

func (r *PracticeTaskRepository) Create(task *model.PracticeTask) error {
	return r.DB.Create(task).Error
}

func (r *PracticeTaskRepository) FindByID(id uint) (*model.PracticeTask, error) {
	var task model.PracticeTask
	err := r.DB.First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PracticeTaskRepository) Update(task *model.PracticeTask) error {
	return r.DB.Save(task).Error
}

func (r *PracticeTaskRepository) ListByUser(userID uint, page, limit int) ([]model.PracticeTask, int64, error) {
	var tasks []model.PracticeTask
	var total int64

	query := r.DB.Model(&model.PracticeTask{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, total, err
}

// RecentByUser 学生总览里的近期任务
func (r *PracticeTaskRepository) RecentByUser(userID uint, limit int) ([]model.PracticeTask, error) {
	var tasks []model.PracticeTask
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&tasks).Error
	return tasks, err
}
