package model

import "gorm.io/datatypes"

// DefaultPassingScore applies when a quiz does not define its own threshold.
const DefaultPassingScore = 70

// Quiz is the final test of a course. Immutable once created.
type Quiz struct {
	BaseModel
	CourseID     uint           `gorm:"not null;uniqueIndex" json:"courseId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	PassingScore int            `gorm:"default:0" json:"passingScore"`
	Questions    []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Threshold is the single source of truth for the passing score.
func (q *Quiz) Threshold() int {
	if q.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return q.PassingScore
}

// QuizQuestion holds one multiple-choice question. Answers are matched
// to questions by position, so Order is significant.
type QuizQuestion struct {
	BaseModel
	QuizID        uint                         `gorm:"not null;index" json:"quizId"`
	Question      string                       `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string]  `json:"options"`
	CorrectAnswer int                          `gorm:"not null" json:"-"`
	Order         int                          `gorm:"not null;default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
