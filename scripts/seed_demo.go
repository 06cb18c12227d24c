// Seeds a demo admin account and a sample course with its final quiz.
//
// Intended for a fresh local database only; every insert is skipped if
// the row already exists.
//
// Usage: go run scripts/seed_demo.go

package main

import (
	"errors"
	"log"
	"os"
	"training_portal_backend/internal/config"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/pkg/database"
	"training_portal_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	if _, err := userRepo.FindByEmail("admin@example.com"); errors.Is(err, gorm.ErrRecordNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		admin := &model.User{
			FullName: "Portal Admin",
			Email:    "admin@example.com",
			Password: string(hash),
			Role:     model.Admin,
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		log.Println("created admin@example.com (password: admin12345)")
	} else if err != nil {
		log.Fatalf("failed to look up admin user: %v", err)
	}

	var course model.Course
	err = db.Where("title = ?", "Workplace Safety Essentials").First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		course = model.Course{
			Title:       "Workplace Safety Essentials",
			Description: "Mandatory onboarding course covering fire safety, first aid and incident reporting.",
			IsActive:    true,
		}
		if err := courseRepo.Create(&course); err != nil {
			log.Fatalf("failed to create demo course: %v", err)
		}
		log.Printf("created demo course %d", course.ID)
	} else if err != nil {
		log.Fatalf("failed to look up demo course: %v", err)
	}

	if _, err := quizRepo.FindByCourse(course.ID); errors.Is(err, gorm.ErrRecordNotFound) {
		quiz := &model.Quiz{
			CourseID: course.ID,
			Title:    "Workplace Safety Final Quiz",
			Questions: []model.QuizQuestion{
				{
					Question:      "What should you do first when you discover a fire?",
					Options:       []string{"Raise the alarm", "Collect your belongings", "Open the windows", "Finish your task"},
					CorrectAnswer: 0,
					Order:         1,
				},
				{
					Question:      "Where are incident reports filed?",
					Options:       []string{"With a colleague", "In the safety portal", "Nowhere", "On paper only"},
					CorrectAnswer: 1,
					Order:         2,
				},
				{
					Question:      "How often must fire extinguishers be inspected?",
					Options:       []string{"Never", "Every five years", "Annually", "Only after use"},
					CorrectAnswer: 2,
					Order:         3,
				},
			},
		}
		if err := quizRepo.CreateWithQuestions(quiz); err != nil {
			log.Fatalf("failed to create demo quiz: %v", err)
		}
		log.Printf("attached quiz %d to course %d", quiz.ID, course.ID)
	} else if err != nil {
		log.Fatalf("failed to look up demo quiz: %v", err)
	}

	log.Println("done")
}
