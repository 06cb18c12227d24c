package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeCourse(t *testing.T, svc *CertificationService, userID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment, err := svc.Enroll(userID, courseID)
	require.NoError(t, err)
	enrollment, err = svc.SubmitProgress(userID, enrollment.ID, 100)
	require.NoError(t, err)
	return enrollment
}

func TestSubmitQuizAttemptScoresAndRecords(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)
	completeCourse(t, svc, user.ID, course.ID)

	attempt, err := svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 0, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, 80, attempt.Score)
	assert.True(t, attempt.Passed)

	attempts, err := svc.QuizRepo.ListAttempts(quiz.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 80, attempts[0].Score)
}

func TestSubmitQuizAttemptRejectsMalformed(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)
	completeCourse(t, svc, user.ID, course.ID)

	// Four answers for a five-question quiz: rejected before any row
	// is written.
	_, err := svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 0, 3})
	require.ErrorIs(t, err, util.ErrInvalidQuizState)

	attempts, err := svc.QuizRepo.ListAttempts(quiz.ID, user.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSubmitQuizAttemptLockedBeforeCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 80)
	require.NoError(t, err)

	_, err = svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 2, 3, 0})
	require.ErrorIs(t, err, util.ErrQuizLocked)
}

func TestMultipleAttemptsAllowed(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)
	completeCourse(t, svc, user.ID, course.ID)

	_, err := svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{1, 0, 0, 0, 1})
	require.NoError(t, err)
	_, err = svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 2, 3, 0})
	require.NoError(t, err)

	attempts, err := svc.QuizRepo.ListAttempts(quiz.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}

func TestEligibilityMatrix(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)

	// Not enrolled.
	eligible, err := svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	// Progress below 100, even with a passing attempt on record.
	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 80)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.QuizAttempt{
		QuizID: quiz.ID, UserID: user.ID, Answers: []int{0, 1, 2, 3, 0}, Score: 100, Passed: true,
	}).Error)
	eligible, err = svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible, "eligibility requires completed progress")

	// Completed and passed.
	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 100)
	require.NoError(t, err)
	eligible, err = svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestEligibilityCompletedWithoutPassingAttempt(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)
	completeCourse(t, svc, user.ID, course.ID)

	eligible, err := svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)

	// A failing attempt changes nothing.
	_, err = svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{1, 0, 0, 0, 1})
	require.NoError(t, err)
	eligible, err = svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestEligibilityWithoutQuiz(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	completeCourse(t, svc, user.ID, course.ID)

	// No quiz configured: completion alone qualifies.
	eligible, err := svc.CheckEligibility(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestRequestCertificateBeforeEligibility(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	createTestQuiz(t, db, course.ID)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 80)
	require.NoError(t, err)

	_, err = svc.RequestCertificate(user.ID, course.ID)
	require.ErrorIs(t, err, util.ErrNotEligible)

	var count int64
	require.NoError(t, db.Table("certificates").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestRequestCertificateIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)
	completeCourse(t, svc, user.ID, course.ID)
	_, err := svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 2, 3, 0})
	require.NoError(t, err)

	first, err := svc.RequestCertificate(user.ID, course.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first.CertificateNumber)
	require.NotEmpty(t, first.VerificationCode)

	second, err := svc.RequestCertificate(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)
	assert.Equal(t, first.VerificationCode, second.VerificationCode)

	var count int64
	require.NoError(t, db.Table("certificates").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRequestCertificateConcurrent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	completeCourse(t, svc, user.ID, course.ID)

	const racers = 4
	results := make([]*model.Certificate, racers)
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.RequestCertificate(user.ID, course.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].CertificateNumber, results[i].CertificateNumber)
		assert.Equal(t, results[0].VerificationCode, results[i].VerificationCode)
	}

	var count int64
	require.NoError(t, db.Table("certificates").
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCertificateNumberFormat(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	completeCourse(t, svc, user.ID, course.ID)

	cert, err := svc.RequestCertificate(user.ID, course.ID)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CERT-\d{4}-C\d+-[A-Z2-9]{6}$`), cert.CertificateNumber)
	assert.GreaterOrEqual(t, len(cert.VerificationCode), 32)
	assert.NotContains(t, cert.CertificateNumber, cert.VerificationCode)
}

func TestVerifyCertificate(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	completeCourse(t, svc, user.ID, course.ID)

	cert, err := svc.RequestCertificate(user.ID, course.ID)
	require.NoError(t, err)

	found, err := svc.VerifyCertificate(context.Background(), cert.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, found.CertificateNumber)
	assert.Equal(t, course.Title, found.Course.Title)
	assert.Equal(t, user.FullName, found.User.FullName)

	_, err = svc.VerifyCertificate(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestStateMachineProgression(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	quiz := createTestQuiz(t, db, course.ID)

	state, err := svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateNotEnrolled, state)

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	state, err = svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateEnrolled, state)

	_, err = svc.SubmitProgress(user.ID, enrollment.ID, 100)
	require.NoError(t, err)
	state, err = svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateQuizUnlocked, state)

	_, err = svc.SubmitQuizAttempt(user.ID, quiz.ID, []int{0, 1, 2, 3, 0})
	require.NoError(t, err)
	state, err = svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateCertificateEligible, state)

	_, err = svc.RequestCertificate(user.ID, course.ID)
	require.NoError(t, err)
	state, err = svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateCertified, state)
}

func TestStateSkipsQuizWhenNoneConfigured(t *testing.T) {
	db := setupTestDB(t)
	svc := newCertificationService(db)
	user := createTestUser(t, db)
	course := createTestCourse(t, db)
	completeCourse(t, svc, user.ID, course.ID)

	state, err := svc.State(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, StateCertificateEligible, state)
}
