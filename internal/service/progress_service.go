package service

import (
	"errors"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService advances an enrollment's watch percentage. Progress
// never regresses, and the completion timestamp is written exactly once.
type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewProgressService(enrollmentRepo *repository.EnrollmentRepository) *ProgressService {
	return &ProgressService{EnrollmentRepo: enrollmentRepo}
}

// Update applies a progress callback for the given enrollment.
// Out-of-range values are rejected rather than clamped so caller bugs
// surface instead of silently sticking at 0 or 100. A value at or below
// the stored percentage is a no-op returning current state. completedNow
// is true only for the single call that crossed the 100% threshold.
func (s *ProgressService) Update(userID, enrollmentID uint, percentage int) (*model.Enrollment, bool, error) {
	if percentage < 0 || percentage > 100 {
		return nil, false, util.ErrInvalidProgress
	}

	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrNotEnrolled
		}
		return nil, false, err
	}
	if enrollment.UserID != userID {
		return nil, false, util.ErrPermissionDenied
	}

	enrollment, completedNow, err := s.EnrollmentRepo.AdvanceProgress(enrollmentID, percentage)
	if err != nil {
		return nil, false, err
	}

	if completedNow {
		logger.Log.Info("course completed",
			zap.Uint("userId", enrollment.UserID),
			zap.Uint("courseId", enrollment.CourseID))
	}
	return enrollment, completedNow, nil
}
