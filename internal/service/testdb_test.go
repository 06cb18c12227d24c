package service

import (
	"testing"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// setupTestDB opens a per-test in-memory database with the same error
// translation the production MySQL connection uses, so uniqueness
// conflicts behave identically.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive and
	// serializes concurrent writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.Feedback{},
	))
	return db
}

func newCertificationService(db *gorm.DB) *CertificationService {
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	return NewCertificationService(
		enrollmentRepo,
		repository.NewQuizRepository(db),
		repository.NewCertificateRepository(db),
		repository.NewCourseRepository(db),
		NewProgressService(enrollmentRepo),
		nil,
	)
}

func createTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		FullName: "Ada Moretti",
		Email:    "ada@example.com",
		Password: "x",
		Role:     model.Learner,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       "Workplace Safety",
		Description: "Mandatory onboarding course",
		IsActive:    true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

// createTestQuiz attaches a five-question quiz with answer key
// [0,1,2,3,0], each question offering four options.
func createTestQuiz(t *testing.T, db *gorm.DB, courseID uint) *model.Quiz {
	t.Helper()
	key := []int{0, 1, 2, 3, 0}
	quiz := &model.Quiz{
		CourseID: courseID,
		Title:    "Final Quiz",
	}
	for i, correct := range key {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Question:      "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: correct,
			Order:         i + 1,
		})
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}
