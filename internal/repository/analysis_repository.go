package repository

import (
	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type AnalysisRepository struct {
	DB *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{DB: db}
}

func (r *AnalysisRepository) Create(report *model.AnalysisReport) error {
	return r.DB.Create(report).Error
}

func (r *AnalysisRepository) LatestByUser(userID uint) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *AnalysisRepository) ListByUser(userID uint, page, limit int) ([]model.AnalysisReport, int64, error) {
	var reports []model.AnalysisReport
	var total int64

	query := r.DB.Model(&model.AnalysisReport{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error
	return reports, total, err
}
