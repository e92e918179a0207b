package service

import "quiz-gate/internal/domain"

// GradeResult is the outcome of grading one set of answers.
type GradeResult struct {
	CorrectCount   int
	TotalQuestions int
	ScorePercent   int
	Passed         bool
}

// Grade compares answers with the definition's correct options. Unknown
// question ids are ignored and unanswered questions count as incorrect.
// The percentage is always derived from the integer correct count.
func Grade(def *domain.QuizDefinition, answers map[string]int) (*GradeResult, error) {
	if def == nil {
		return nil, domain.NewInvalidQuizDefinitionError("", "quiz definition is missing")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	correct := 0
	for _, q := range def.Questions {
		if selected, ok := answers[q.ID]; ok && selected == q.CorrectIndex {
			correct++
		}
	}

	total := def.TotalQuestions()
	score := domain.RoundPercent(correct, total)
	return &GradeResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		ScorePercent:   score,
		Passed:         score >= def.PassThresholdPercent,
	}, nil
}
