package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	selectQuizQuery = `SELECT COURSE_ID, PASS_THRESHOLD_PERCENT, TIME_LIMIT_SECONDS, CREATED_AT, UPDATED_AT
	          FROM quizzes WHERE COURSE_ID = :1`

	selectQuizQuestionsQuery = `SELECT ID, COURSE_ID, POSITION, PROMPT, OPTIONS, CORRECT_INDEX
	          FROM quiz_questions WHERE COURSE_ID = :1 ORDER BY POSITION ASC`
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

// GetQuizDefinition assembles the quiz and its ordered questions. It does not
// validate the result; an empty question list is returned as-is.
func (r *sqlxQuizRepository) GetQuizDefinition(ctx context.Context, courseID string) (*domain.QuizDefinition, error) {
	exec := GetExecutor(ctx, r.db)

	var quiz models.Quiz
	if err := exec.GetContext(ctx, &quiz, selectQuizQuery, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz for course %s: %w", courseID, err)
	}

	var questions []models.QuizQuestion
	if err := exec.SelectContext(ctx, &questions, selectQuizQuestionsQuery, courseID); err != nil {
		return nil, fmt.Errorf("failed to get questions for course %s: %w", courseID, err)
	}

	def := &domain.QuizDefinition{
		CourseID:             quiz.CourseID,
		PassThresholdPercent: quiz.PassThresholdPercent,
		TimeLimitSeconds:     quiz.TimeLimitSeconds,
		Questions:            make([]domain.Question, 0, len(questions)),
	}
	for _, q := range questions {
		def.Questions = append(def.Questions, domain.Question{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Options:      []string(q.Options),
			CorrectIndex: q.CorrectIndex,
		})
	}
	return def, nil
}
