package client

import (
	"math/rand/v2"

	"github.com/ferdian3456/envisiontech/internal/model"
)

// Question is one practice question with its answers shuffled for display.
type Question struct {
	Prompt      string
	Explanation string
	Answers     []string
	Correct     string

	selected string
}

// NewQuestion mixes the correct answer into the incorrect ones using rng. A nil rng uses
// the global source.
func NewQuestion(body model.PracticeQuestion, rng *rand.Rand) *Question {
	answers := make([]string, 0, len(body.Incorrect)+1)
	answers = append(answers, body.Incorrect...)
	answers = append(answers, body.Correct)

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	return &Question{
		Prompt:      body.Question,
		Explanation: body.Explanation,
		Answers:     answers,
		Correct:     body.Correct,
	}
}

// Answer records choice and reports whether it was correct.
func (question *Question) Answer(choice string) bool {
	question.selected = choice
	return question.IsCorrect()
}

func (question *Question) Answered() bool {
	return question.selected != ""
}

func (question *Question) Selected() string {
	return question.selected
}

func (question *Question) IsCorrect() bool {
	return question.selected != "" && question.selected == question.Correct
}
