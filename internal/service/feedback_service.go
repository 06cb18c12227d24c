package service

import (
	"errors"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"

	"gorm.io/gorm"
)

type FeedbackService struct {
	FeedbackRepo   *repository.FeedbackRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewFeedbackService(feedbackRepo *repository.FeedbackRepository, enrollmentRepo *repository.EnrollmentRepository) *FeedbackService {
	return &FeedbackService{
		FeedbackRepo:   feedbackRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// Submit records one review per (user, course). Only enrolled users
// may review.
func (s *FeedbackService) Submit(userID, courseID uint, rating int, comment string) (*model.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	feedback := &model.Feedback{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.FeedbackRepo.Create(feedback); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyReviewed
		}
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackService) ListByCourse(courseID uint) ([]model.Feedback, error) {
	return s.FeedbackRepo.ListByCourse(courseID)
}
