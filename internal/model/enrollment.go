package model

import "time"

// Enrollment links a user to a course and tracks watch progress.
// One row per (user, course); progress only ever moves forward and
// CompletedAt is written exactly once, when progress first reaches 100.
type Enrollment struct {
	BaseModel
	UserID             uint       `gorm:"not null;uniqueIndex:uq_enrollment_user_course" json:"userId"`
	CourseID           uint       `gorm:"not null;uniqueIndex:uq_enrollment_user_course" json:"courseId"`
	ProgressPercentage int        `gorm:"not null;default:0" json:"progressPercentage"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) Completed() bool {
	return e.ProgressPercentage >= 100
}
