package domain

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice question of a course quiz.
type Question struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int // never leaves the service layer
}

// QuizDefinition is the graded quiz attached to a course.
type QuizDefinition struct {
	CourseID             string
	Questions            []Question
	PassThresholdPercent int
	TimeLimitSeconds     int
}

// Validate checks the invariants a definition must hold before it can be graded.
// Failures are configuration bugs and are reported as INVALID_QUIZ_DEFINITION.
func (q *QuizDefinition) Validate() error {
	if strings.TrimSpace(q.CourseID) == "" {
		return NewInvalidQuizDefinitionError(q.CourseID, "course id is required")
	}
	if len(q.Questions) == 0 {
		return NewInvalidQuizDefinitionError(q.CourseID, "quiz has no questions")
	}
	if q.PassThresholdPercent < 0 || q.PassThresholdPercent > 100 {
		return NewInvalidQuizDefinitionError(q.CourseID, fmt.Sprintf("pass threshold %d is outside [0,100]", q.PassThresholdPercent))
	}
	if q.TimeLimitSeconds < 0 {
		return NewInvalidQuizDefinitionError(q.CourseID, "time limit cannot be negative")
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == "" {
			return NewInvalidQuizDefinitionError(q.CourseID, fmt.Sprintf("question at position %d has no id", i))
		}
		if _, dup := seen[question.ID]; dup {
			return NewInvalidQuizDefinitionError(q.CourseID, fmt.Sprintf("duplicate question id %s", question.ID))
		}
		seen[question.ID] = struct{}{}
		if len(question.Options) == 0 {
			return NewInvalidQuizDefinitionError(q.CourseID, fmt.Sprintf("question %s has no options", question.ID))
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			return NewInvalidQuizDefinitionError(q.CourseID, fmt.Sprintf("question %s correct index %d out of range", question.ID, question.CorrectIndex))
		}
	}
	return nil
}

// TotalQuestions returns the number of gradable questions.
func (q *QuizDefinition) TotalQuestions() int {
	return len(q.Questions)
}
