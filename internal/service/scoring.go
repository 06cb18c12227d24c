package service

import (
	"math"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/util"
)

// ValidateAnswers rejects a submission before anything is persisted.
// Every question must carry exactly one selected option index; a
// sentinel like -1 for "unanswered" is not accepted.
func ValidateAnswers(questions []model.QuizQuestion, answers []int) error {
	if len(questions) == 0 {
		return util.ErrInvalidQuizState
	}
	if len(answers) != len(questions) {
		return util.ErrInvalidQuizState
	}
	for i, a := range answers {
		if a < 0 || a >= len(questions[i].Options) {
			return util.ErrInvalidInput
		}
	}
	return nil
}

// ScoreAttempt grades answers against the question key by position and
// returns a 0-100 percentage, rounded half up. Pure; callers must have
// validated the submission first.
func ScoreAttempt(questions []model.QuizQuestion, answers []int) int {
	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}
