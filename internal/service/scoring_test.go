package service

import (
	"testing"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionsWithKey(key []int) []model.QuizQuestion {
	questions := make([]model.QuizQuestion, len(key))
	for i, correct := range key {
		questions[i] = model.QuizQuestion{
			Question:      "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: correct,
		}
	}
	return questions
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name    string
		key     []int
		answers []int
		want    int
	}{
		{"four of five correct", []int{0, 1, 2, 3, 0}, []int{0, 1, 0, 3, 0}, 80},
		{"all correct", []int{0, 1, 2}, []int{0, 1, 2}, 100},
		{"none correct", []int{0, 1, 2}, []int{1, 2, 0}, 0},
		{"one of three rounds half up", []int{0, 1, 2}, []int{0, 2, 1}, 33},
		{"two of three rounds half up", []int{0, 1, 2}, []int{0, 1, 0}, 67},
		{"half rounds up", []int{0, 0, 0, 0, 0, 0, 0, 0}, []int{0, 0, 0, 0, 1, 1, 1, 1}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAttempt(questionsWithKey(tt.key), tt.answers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreAttemptDeterministic(t *testing.T) {
	questions := questionsWithKey([]int{0, 1, 2, 3, 0})
	answers := []int{0, 1, 0, 3, 0}

	first := ScoreAttempt(questions, answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreAttempt(questions, answers))
	}
}

func TestValidateAnswers(t *testing.T) {
	questions := questionsWithKey([]int{0, 1, 2, 3, 0})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateAnswers(questions, []int{0, 1, 2, 3, 0}))
	})

	t.Run("zero questions", func(t *testing.T) {
		err := ValidateAnswers(nil, []int{})
		require.ErrorIs(t, err, util.ErrInvalidQuizState)
	})

	t.Run("answer count mismatch", func(t *testing.T) {
		err := ValidateAnswers(questions, []int{0, 1, 2, 3})
		require.ErrorIs(t, err, util.ErrInvalidQuizState)
	})

	t.Run("unanswered sentinel rejected", func(t *testing.T) {
		err := ValidateAnswers(questions, []int{0, 1, -1, 3, 0})
		require.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("option index out of range", func(t *testing.T) {
		err := ValidateAnswers(questions, []int{0, 1, 4, 3, 0})
		require.ErrorIs(t, err, util.ErrInvalidInput)
	})
}

func TestQuizThresholdDefault(t *testing.T) {
	quiz := &model.Quiz{}
	assert.Equal(t, model.DefaultPassingScore, quiz.Threshold())

	quiz.PassingScore = 85
	assert.Equal(t, 85, quiz.Threshold())
}
