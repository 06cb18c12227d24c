package service

import (
	"errors"
	"time"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/logger"
	"training_portal_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseState is the per-(user, course) progression state derived from
// the enrollment, quiz attempts and certificate on record.
type CourseState string

const (
	StateNotEnrolled         CourseState = "not_enrolled"
	StateEnrolled            CourseState = "enrolled"
	StateQuizUnlocked        CourseState = "quiz_unlocked"
	StateCertificateEligible CourseState = "certificate_eligible"
	StateCertified           CourseState = "certified"
)

// transientRetryBackoff is applied once before retrying a failed
// storage call. Uniqueness conflicts are never retried here; they are
// expected outcomes, not failures.
const transientRetryBackoff = 100 * time.Millisecond

// CertificationService drives the course progression state machine:
// enrollment, progress, quiz attempts, and certificate issuance.
type CertificationService struct {
	EnrollmentRepo  *repository.EnrollmentRepository
	QuizRepo        *repository.QuizRepository
	CertificateRepo *repository.CertificateRepository
	CourseRepo      *repository.CourseRepository
	Progress        *ProgressService
	Redis           *redis.Client
}

func NewCertificationService(
	enrollmentRepo *repository.EnrollmentRepository,
	quizRepo *repository.QuizRepository,
	certificateRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
	rdb *redis.Client,
) *CertificationService {
	return &CertificationService{
		EnrollmentRepo:  enrollmentRepo,
		QuizRepo:        quizRepo,
		CertificateRepo: certificateRepo,
		CourseRepo:      courseRepo,
		Progress:        progress,
		Redis:           rdb,
	}
}

// Enroll creates the enrollment for an active course. Re-enrolling is a
// no-op returning the existing record.
func (s *CertificationService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, util.ErrCourseInactive
	}
	return s.EnrollmentRepo.Enroll(userID, courseID)
}

// SubmitProgress records a video progress callback. When the update
// crosses the 100% threshold the quiz for the course, if any, unlocks.
func (s *CertificationService) SubmitProgress(userID, enrollmentID uint, percentage int) (*model.Enrollment, error) {
	var enrollment *model.Enrollment
	var completedNow bool
	err := s.withRetry(func() error {
		var err error
		enrollment, completedNow, err = s.Progress.Update(userID, enrollmentID, percentage)
		return err
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		if _, err := s.QuizRepo.FindByCourse(enrollment.CourseID); err == nil {
			logger.Log.Info("final quiz unlocked",
				zap.Uint("userId", userID),
				zap.Uint("courseId", enrollment.CourseID))
		}
	}
	return enrollment, nil
}

// SubmitQuizAttempt validates, scores and records one submission.
// The quiz stays locked until the enrollment reaches 100%. A malformed
// submission is rejected before any attempt row is written.
func (s *CertificationService) SubmitQuizAttempt(userID, quizID uint, answers []int) (*model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, quiz.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if !enrollment.Completed() {
		return nil, util.ErrQuizLocked
	}

	if err := ValidateAnswers(quiz.Questions, answers); err != nil {
		return nil, err
	}

	score := ScoreAttempt(quiz.Questions, answers)
	attempt := &model.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: answers,
		Score:   score,
		Passed:  score >= quiz.Threshold(),
	}

	if err := s.withRetry(func() error { return s.QuizRepo.CreateAttempt(attempt) }); err != nil {
		return nil, err
	}

	monitoring.QuizAttempts.WithLabelValues(boolLabel(attempt.Passed)).Inc()
	return attempt, nil
}

// CheckEligibility reports whether a certificate may be issued for the
// pair right now. Pure read; consulted again inside issuance.
func (s *CertificationService) CheckEligibility(userID, courseID uint) (bool, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !enrollment.Completed() {
		return false, nil
	}

	quiz, err := s.QuizRepo.FindByCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No quiz configured: completion alone qualifies.
			return true, nil
		}
		return false, err
	}

	return s.QuizRepo.HasPassedAttempt(quiz.ID, userID)
}

// State derives the current progression state for the pair.
func (s *CertificationService) State(userID, courseID uint) (CourseState, error) {
	if _, err := s.CertificateRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return StateCertified, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StateNotEnrolled, nil
		}
		return "", err
	}
	if !enrollment.Completed() {
		return StateEnrolled, nil
	}

	quiz, err := s.QuizRepo.FindByCourse(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StateCertificateEligible, nil
		}
		return "", err
	}

	passed, err := s.QuizRepo.HasPassedAttempt(quiz.ID, userID)
	if err != nil {
		return "", err
	}
	if passed {
		return StateCertificateEligible, nil
	}
	return StateQuizUnlocked, nil
}

// withRetry retries a storage call once after a short backoff. Domain
// rejections and expected lookup misses pass through untouched;
// persistent storage failure surfaces as ErrStorageUnavailable.
func (s *CertificationService) withRetry(op func() error) error {
	err := op()
	if err == nil || !isTransient(err) {
		return err
	}

	logger.Log.Warn("storage call failed, retrying", zap.Error(err))
	time.Sleep(transientRetryBackoff)

	if err = op(); err != nil {
		if isTransient(err) {
			return util.ErrStorageUnavailable
		}
		return err
	}
	return nil
}

func isTransient(err error) bool {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, repository.ErrCodeCollision),
		errors.Is(err, util.ErrInvalidProgress),
		errors.Is(err, util.ErrInvalidInput),
		errors.Is(err, util.ErrInvalidQuizState),
		errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrNotEligible),
		errors.Is(err, util.ErrQuizLocked),
		errors.Is(err, util.ErrPermissionDenied):
		return false
	}
	return true
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
