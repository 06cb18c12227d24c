package service

import (
	"testing"
	"training_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressMonotonicAndCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, enrollment.ProgressPercentage)
	assert.Nil(t, enrollment.CompletedAt)

	// 30 -> 70 -> 100 -> 50: final stored progress stays 100 and the
	// completion timestamp is set once at the 100 update.
	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, enrollment.ProgressPercentage)
	assert.Nil(t, enrollment.CompletedAt)

	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 70)
	require.NoError(t, err)
	assert.Equal(t, 70, enrollment.ProgressPercentage)

	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	require.NotNil(t, enrollment.CompletedAt)
	completedAt := *enrollment.CompletedAt

	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, completedAt, *enrollment.CompletedAt)
}

func TestProgressRepeatedHundredKeepsTimestamp(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 100)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	first := *enrollment.CompletedAt

	enrollment, err = svc.SubmitProgress(user.ID, enrollment.ID, 100)
	require.NoError(t, err)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, first, *enrollment.CompletedAt)
}

func TestProgressRejectsOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.SubmitProgress(user.ID, enrollment.ID, -1)
	require.ErrorIs(t, err, util.ErrInvalidProgress)

	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 101)
	require.ErrorIs(t, err, util.ErrInvalidProgress)

	// Nothing was applied.
	stored, err := svc.EnrollmentRepo.FindByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ProgressPercentage)
}

func TestProgressDeniedForOtherUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	_, err = svc.SubmitProgress(user.ID+1, enrollment.ID, 50)
	require.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestEnrollIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)

	first, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	second, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Table("enrollments").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollInactiveCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	require.NoError(t, db.Model(course).Update("is_active", false).Error)

	_, err := svc.Enroll(user.ID, course.ID)
	require.ErrorIs(t, err, util.ErrCourseInactive)
}
