package repository

import (
	"training_portal_backend/internal/model"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(feedback *model.Feedback) error {
	return r.DB.Create(feedback).Error
}

func (r *FeedbackRepository) ListByCourse(courseID uint) ([]model.Feedback, error) {
	var feedback []model.Feedback
	err := r.DB.Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}
