package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	mergeQuizQuery = `MERGE INTO quizzes q
	          USING (SELECT :1 AS COURSE_ID, :2 AS PASS_THRESHOLD_PERCENT, :3 AS TIME_LIMIT_SECONDS, :4 AS UPDATED_AT FROM dual) src
	          ON (q.COURSE_ID = src.COURSE_ID)
	          WHEN MATCHED THEN UPDATE SET q.PASS_THRESHOLD_PERCENT = src.PASS_THRESHOLD_PERCENT, q.TIME_LIMIT_SECONDS = src.TIME_LIMIT_SECONDS, q.UPDATED_AT = src.UPDATED_AT
	          WHEN NOT MATCHED THEN INSERT (COURSE_ID, PASS_THRESHOLD_PERCENT, TIME_LIMIT_SECONDS, CREATED_AT, UPDATED_AT)
	          VALUES (src.COURSE_ID, src.PASS_THRESHOLD_PERCENT, src.TIME_LIMIT_SECONDS, src.UPDATED_AT, src.UPDATED_AT)`

	deleteQuizQuestionsQuery = `DELETE FROM quiz_questions WHERE COURSE_ID = :1`

	insertQuizQuestionQuery = `INSERT INTO quiz_questions (ID, COURSE_ID, POSITION, PROMPT, OPTIONS, CORRECT_INDEX)
	          VALUES (:1, :2, :3, :4, :5, :6)`

	mergeCourseVideoQuery = `MERGE INTO course_videos v
	          USING (SELECT :1 AS ID, :2 AS COURSE_ID, :3 AS POSITION, :4 AS TITLE FROM dual) src
	          ON (v.ID = src.ID)
	          WHEN MATCHED THEN UPDATE SET v.COURSE_ID = src.COURSE_ID, v.POSITION = src.POSITION, v.TITLE = src.TITLE
	          WHEN NOT MATCHED THEN INSERT (ID, COURSE_ID, POSITION, TITLE)
	          VALUES (src.ID, src.COURSE_ID, src.POSITION, src.TITLE)`
)

// sqlxCourseCatalogRepository implements domain.CourseCatalogWriter using sqlx.
// Callers wrap multi-statement writes in TransactionManager.WithTransaction.
type sqlxCourseCatalogRepository struct {
	db *sqlx.DB
}

// NewSQLXCourseCatalogRepository creates a new instance of sqlxCourseCatalogRepository.
func NewSQLXCourseCatalogRepository(db *sqlx.DB) domain.CourseCatalogWriter {
	return &sqlxCourseCatalogRepository{db: db}
}

func (r *sqlxCourseCatalogRepository) SaveQuizDefinition(ctx context.Context, def *domain.QuizDefinition) error {
	exec := GetExecutor(ctx, r.db)

	if _, err := exec.ExecContext(ctx, mergeQuizQuery,
		def.CourseID,
		def.PassThresholdPercent,
		def.TimeLimitSeconds,
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to save quiz for course %s: %w", def.CourseID, err)
	}

	if _, err := exec.ExecContext(ctx, deleteQuizQuestionsQuery, def.CourseID); err != nil {
		return fmt.Errorf("failed to clear questions for course %s: %w", def.CourseID, err)
	}

	for i, q := range def.Questions {
		if _, err := exec.ExecContext(ctx, insertQuizQuestionQuery,
			q.ID,
			def.CourseID,
			i,
			q.Prompt,
			models.StringSlice(q.Options),
			q.CorrectIndex,
		); err != nil {
			return fmt.Errorf("failed to save question %s for course %s: %w", q.ID, def.CourseID, err)
		}
	}
	return nil
}

func (r *sqlxCourseCatalogRepository) SaveCourseVideo(ctx context.Context, video *domain.CourseVideo) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, mergeCourseVideoQuery,
		video.ID,
		video.CourseID,
		video.Position,
		video.Title,
	)
	if err != nil {
		return fmt.Errorf("failed to save video %s for course %s: %w", video.ID, video.CourseID, err)
	}
	return nil
}
