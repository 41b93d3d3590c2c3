package repository

import (
	"exam_practice_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Create 新建题目
func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

// CreateInBatches 批量导入题目
func (r *QuestionRepository) CreateInBatches(qs []model.Question, batchSize int) error {
	return r.DB.CreateInBatches(qs, batchSize).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDs 按ID集合查询，调用方自行按原顺序重排
func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// List 分页查询，支持按科目/难度过滤
func (r *QuestionRepository) List(subject, difficulty string, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64

	query := r.DB.Model(&model.Question{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("id").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

// FindFiltered 按科目/难度取全部题目，题型过滤在服务层分类后完成
func (r *QuestionRepository) FindFiltered(subject, difficulty string) ([]model.Question, error) {
	var qs []model.Question
	query := r.DB.Model(&model.Question{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("id").Find(&qs).Error
	return qs, err
}

// RandomIDs 随机抽取题目ID，科目可选
func (r *QuestionRepository) RandomIDs(subject string, limit int) ([]uint, error) {
	var ids []uint
	query := r.DB.Model(&model.Question{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	err := query.Order("RAND()").Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// CountBySubject 按科目聚合题量
func (r *QuestionRepository) CountBySubject() ([]TagCount, error) {
	var rows []TagCount
	err := r.DB.Model(&model.Question{}).
		Select("subject AS tag, COUNT(*) AS count").
		Group("subject").Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// CountByDifficulty 按难度聚合题量
func (r *QuestionRepository) CountByDifficulty() ([]TagCount, error) {
	var rows []TagCount
	err := r.DB.Model(&model.Question{}).
		Select("difficulty AS tag, COUNT(*) AS count").
		Group("difficulty").Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// FindPage 全表扫描类统计/查重用的顺序分页读取，不加载解析和图片字段
func (r *QuestionRepository) FindPage(offset, limit int) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Select("id", "content", "options", "subject", "answer").
		Order("id").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, err
}
