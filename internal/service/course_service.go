package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCacheKey = "courses:catalog"
	catalogCacheTTL = 5 * time.Minute
)

// CourseService serves the catalog and admin authoring.
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
	Redis          *redis.Client
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage *StorageService,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
		Redis:          rdb,
	}
}

// ListActive returns the active catalog, cached briefly in Redis.
func (s *CourseService) ListActive(ctx context.Context) ([]model.Course, error) {
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, catalogCacheKey).Result(); err == nil {
			var courses []model.Course
			if err := json.Unmarshal([]byte(val), &courses); err == nil {
				return courses, nil
			}
		}
	}

	courses, err := s.CourseRepo.ListActive()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(courses); err == nil {
			s.Redis.Set(ctx, catalogCacheKey, payload, catalogCacheTTL)
		}
	}
	return courses, nil
}

// CourseDetail joins the course with the caller's enrollment and the
// quiz summary (questions omitted; those are fetched once unlocked).
type CourseDetail struct {
	Course     model.Course      `json:"course"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
	Quiz       *model.Quiz       `json:"quiz,omitempty"`
}

func (s *CourseService) GetDetail(courseID, userID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	detail := &CourseDetail{Course: *course}

	if enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		detail.Enrollment = enrollment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if quiz, err := s.QuizRepo.FindByCourse(courseID); err == nil {
		detail.Quiz = quiz
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return detail, nil
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *CourseService) Create(req CourseCreateRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return course, nil
}

func (s *CourseService) SetActive(courseID uint, active bool) error {
	err := s.CourseRepo.SetActive(courseID, active)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	s.invalidateCatalog()
	return nil
}

type QuizCreateRequest struct {
	Title        string              `json:"title" binding:"required"`
	PassingScore int                 `json:"passingScore"`
	Questions    []QuestionCreateReq `json:"questions" binding:"required"`
}

type QuestionCreateReq struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// AttachQuiz creates the course's final quiz. One quiz per course;
// quizzes are immutable once created.
func (s *CourseService) AttachQuiz(courseID uint, req QuizCreateRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, util.ErrInvalidQuizState
	}
	for _, q := range req.Questions {
		if len(q.Options) < 2 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, util.ErrInvalidInput
		}
	}

	quiz := &model.Quiz{
		CourseID:     courseID,
		Title:        req.Title,
		PassingScore: req.PassingScore,
	}
	for i, q := range req.Questions {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Order:         i + 1,
		})
	}

	if err := s.QuizRepo.CreateWithQuestions(quiz); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrInvalidQuizState
		}
		return nil, err
	}
	return quiz, nil
}

// UploadVideo stores a lesson video, probes its duration and attaches
// it to the course.
func (s *CourseService) UploadVideo(ctx context.Context, courseID uint, file *multipart.FileHeader) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Stage locally so ffprobe can read it before upload.
	tmp, err := os.CreateTemp("", "lesson-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	info, err := util.GetVideoInfo(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("invalid video upload: %w", err)
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("courses/%d/%s%s", courseID, uuid.New().String(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, objectName, tmp, info.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	if err := s.CourseRepo.UpdateVideo(courseID, url, info.Duration); err != nil {
		return nil, err
	}

	logger.Log.Info("lesson video attached",
		zap.Uint("courseId", courseID),
		zap.Float64("duration", info.Duration))

	course.VideoURL = url
	course.VideoDuration = info.Duration
	return course, nil
}

func (s *CourseService) invalidateCatalog() {
	if s.Redis != nil {
		s.Redis.Del(context.Background(), catalogCacheKey)
	}
}
