package model

// Feedback is a course review: a 1-5 rating with an optional comment.
// One review per user per course.
type Feedback struct {
	BaseModel
	UserID   uint   `gorm:"not null;uniqueIndex:uq_feedback_user_course" json:"userId"`
	CourseID uint   `gorm:"not null;uniqueIndex:uq_feedback_user_course" json:"courseId"`
	Rating   int    `gorm:"not null" json:"rating"`
	Comment  string `gorm:"type:text" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}
