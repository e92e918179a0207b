package domain

import (
	"errors"
	"testing"
)

func validDefinition() *QuizDefinition {
	return &QuizDefinition{
		CourseID: "course-1",
		Questions: []Question{
			{ID: "q1", Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
			{ID: "q2", Prompt: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo"}, CorrectIndex: 0},
		},
		PassThresholdPercent: 70,
		TimeLimitSeconds:     600,
	}
}

func TestQuizDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *QuizDefinition)
		wantErr bool
	}{
		{"valid definition", func(q *QuizDefinition) {}, false},
		{"no questions", func(q *QuizDefinition) { q.Questions = nil }, true},
		{"missing course id", func(q *QuizDefinition) { q.CourseID = " " }, true},
		{"threshold above 100", func(q *QuizDefinition) { q.PassThresholdPercent = 101 }, true},
		{"negative threshold", func(q *QuizDefinition) { q.PassThresholdPercent = -1 }, true},
		{"zero threshold allowed", func(q *QuizDefinition) { q.PassThresholdPercent = 0 }, false},
		{"negative time limit", func(q *QuizDefinition) { q.TimeLimitSeconds = -5 }, true},
		{"question without options", func(q *QuizDefinition) { q.Questions[0].Options = nil }, true},
		{"correct index out of range", func(q *QuizDefinition) { q.Questions[1].CorrectIndex = 3 }, true},
		{"duplicate question ids", func(q *QuizDefinition) { q.Questions[1].ID = "q1" }, true},
		{"empty question id", func(q *QuizDefinition) { q.Questions[0].ID = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)
			err := def.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var domainErr *DomainError
				if !errors.As(err, &domainErr) || domainErr.Code != CodeInvalidQuizDefinition {
					t.Errorf("expected INVALID_QUIZ_DEFINITION, got %v", err)
				}
			}
		})
	}
}
