package model

import "gorm.io/datatypes"

// QuizAttempt records one scored submission. Attempts are never
// deduplicated; each row is immutable once created.
type QuizAttempt struct {
	BaseModel
	QuizID  uint                     `gorm:"not null;index:idx_attempt_quiz_user" json:"quizId"`
	UserID  uint                     `gorm:"not null;index:idx_attempt_quiz_user" json:"userId"`
	Answers datatypes.JSONSlice[int] `json:"answers"`
	Score   int                      `gorm:"not null" json:"score"`
	Passed  bool                     `gorm:"not null;default:false" json:"passed"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
