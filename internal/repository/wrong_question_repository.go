package repository

import (
	"exam_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type WrongQuestionRepository struct {
	DB *gorm.DB
}

func NewWrongQuestionRepository(db *gorm.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{DB: db}
}

func (r *WrongQuestionRepository) Create(wq *model.WrongQuestion) error {
	return r.DB.Create(wq).Error
}

func (r *WrongQuestionRepository) Update(wq *model.WrongQuestion) error {
	return r.DB.Save(wq).Error
}

func (r *WrongQuestionRepository) FindByUserAndQuestion(userID, questionID uint) (*model.WrongQuestion, error) {
	var wq model.WrongQuestion
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&wq).Error
	if err != nil {
		return nil, err
	}
	return &wq, nil
}

// ListByUser 错题本分页，默认排除已掌握
func (r *WrongQuestionRepository) ListByUser(userID uint, subject string, includeMastered bool, page, limit int) ([]model.WrongQuestion, int64, error) {
	var list []model.WrongQuestion
	var total int64

	query := r.DB.Model(&model.WrongQuestion{}).Where("user_id = ?", userID)
	if !includeMastered {
		query = query.Where("is_mastered = ?", false)
	}
	if subject != "" {
		query = query.Joins("JOIN questions ON questions.id = wrong_questions.question_id").
			Where("questions.subject = ?", subject)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Question").
		Order("wrong_questions.last_wrong_at DESC").
		Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// ListUnmastered 复习/分析取数，按最近出错时间升序（最久未复习优先）
func (r *WrongQuestionRepository) ListUnmastered(userID uint, limit int) ([]model.WrongQuestion, error) {
	var list []model.WrongQuestion
	query := r.DB.Where("user_id = ? AND is_mastered = ?", userID, false).
		Preload("Question").
		Order("last_wrong_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&list).Error
	return list, err
}

// MarkMastered 置掌握标记，保留历史行
func (r *WrongQuestionRepository) MarkMastered(userID, questionID uint) error {
	now := time.Now()
	result := r.DB.Model(&model.WrongQuestion{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Updates(map[string]interface{}{
			"is_mastered": true,
			"mastered_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *WrongQuestionRepository) CountByUser(userID uint) (total int64, mastered int64, err error) {
	err = r.DB.Model(&model.WrongQuestion{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.DB.Model(&model.WrongQuestion{}).
		Where("user_id = ? AND is_mastered = ?", userID, true).Count(&mastered).Error
	return total, mastered, err
}

type HotWrongQuestion struct {
	QuestionID uint   `json:"questionId"`
	Content    string `json:"content"`
	Subject    string `json:"subject"`
	UserCount  int64  `json:"userCount"`  // 出错人数
	WrongTotal int64  `json:"wrongTotal"` // 累计出错次数
}

// TopWrong 全站错得最多的题目
func (r *WrongQuestionRepository) TopWrong(limit int) ([]HotWrongQuestion, error) {
	var rows []HotWrongQuestion
	err := r.DB.Model(&model.WrongQuestion{}).
		Select("wrong_questions.question_id, questions.content, questions.subject, COUNT(*) AS user_count, SUM(wrong_questions.wrong_count) AS wrong_total").
		Joins("JOIN questions ON questions.id = wrong_questions.question_id").
		Group("wrong_questions.question_id, questions.content, questions.subject").
		Order("wrong_total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
