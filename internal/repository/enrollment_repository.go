package repository

import (
	"errors"
	"time"
	"training_portal_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Enroll creates the (user, course) enrollment if missing. A concurrent
// insert for the same pair trips the composite unique index, in which
// case the existing row is returned.
func (r *EnrollmentRepository) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		UserID:             userID,
		CourseID:           courseID,
		ProgressPercentage: 0,
	}
	err := r.DB.Create(enrollment).Error
	if err == nil {
		return enrollment, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.FindByUserAndCourse(userID, courseID)
	}
	return nil, err
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.First(&enrollment, id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// AdvanceProgress moves the stored percentage forward with a conditional
// UPDATE so concurrent callbacks can neither regress it nor lose writes.
// CompletedAt is set by a second conditional UPDATE that only ever fires
// once per enrollment; completedNow reports whether this call was the
// one that crossed the 100% threshold.
func (r *EnrollmentRepository) AdvanceProgress(id uint, percentage int) (enrollment *model.Enrollment, completedNow bool, err error) {
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Enrollment{}).
			Where("id = ? AND progress_percentage < ?", id, percentage).
			Update("progress_percentage", percentage)
		if res.Error != nil {
			return res.Error
		}

		res = tx.Model(&model.Enrollment{}).
			Where("id = ? AND progress_percentage >= 100 AND completed_at IS NULL", id).
			Update("completed_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		completedNow = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	enrollment, err = r.FindByID(id)
	if err != nil {
		return nil, false, err
	}
	return enrollment, completedNow, nil
}
