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
	selectCourseVideosQuery = `SELECT ID, COURSE_ID, POSITION, TITLE
	          FROM course_videos WHERE COURSE_ID = :1 ORDER BY POSITION ASC`

	selectVideoProgressQuery = `SELECT USER_ID, VIDEO_ID, COURSE_ID, WATCHED_PERCENT, COMPLETED, UPDATED_AT
	          FROM video_progress WHERE USER_ID = :1 AND VIDEO_ID = :2`

	selectCourseProgressQuery = `SELECT USER_ID, VIDEO_ID, COURSE_ID, WATCHED_PERCENT, COMPLETED, UPDATED_AT
	          FROM video_progress WHERE USER_ID = :1 AND COURSE_ID = :2`

	mergeVideoProgressQuery = `MERGE INTO video_progress vp
	          USING (SELECT :1 AS USER_ID, :2 AS VIDEO_ID, :3 AS COURSE_ID, :4 AS WATCHED_PERCENT, :5 AS COMPLETED, :6 AS UPDATED_AT FROM dual) src
	          ON (vp.USER_ID = src.USER_ID AND vp.VIDEO_ID = src.VIDEO_ID)
	          WHEN MATCHED THEN UPDATE SET vp.WATCHED_PERCENT = src.WATCHED_PERCENT, vp.COMPLETED = src.COMPLETED, vp.UPDATED_AT = src.UPDATED_AT
	          WHEN NOT MATCHED THEN INSERT (USER_ID, VIDEO_ID, COURSE_ID, WATCHED_PERCENT, COMPLETED, UPDATED_AT)
	          VALUES (src.USER_ID, src.VIDEO_ID, src.COURSE_ID, src.WATCHED_PERCENT, src.COMPLETED, src.UPDATED_AT)`
)

// sqlxVideoProgressRepository implements domain.VideoProgressRepository using sqlx.
type sqlxVideoProgressRepository struct {
	db *sqlx.DB
}

// NewSQLXVideoProgressRepository creates a new instance of sqlxVideoProgressRepository.
func NewSQLXVideoProgressRepository(db *sqlx.DB) domain.VideoProgressRepository {
	return &sqlxVideoProgressRepository{db: db}
}

func toDomainVideoProgress(m *models.VideoProgress) *domain.VideoProgress {
	return &domain.VideoProgress{
		UserID:         m.UserID,
		CourseID:       m.CourseID,
		VideoID:        m.VideoID,
		WatchedPercent: m.WatchedPercent,
		Completed:      m.Completed != 0,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *sqlxVideoProgressRepository) ListCourseVideos(ctx context.Context, courseID string) ([]domain.CourseVideo, error) {
	var rows []models.CourseVideo
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, selectCourseVideosQuery, courseID); err != nil {
		return nil, fmt.Errorf("failed to list videos for course %s: %w", courseID, err)
	}
	videos := make([]domain.CourseVideo, len(rows))
	for i, v := range rows {
		videos[i] = domain.CourseVideo{ID: v.ID, CourseID: v.CourseID, Position: v.Position, Title: v.Title}
	}
	return videos, nil
}

// GetProgress returns (nil, nil) when the user never reported on the video.
func (r *sqlxVideoProgressRepository) GetProgress(ctx context.Context, userID, videoID string) (*domain.VideoProgress, error) {
	var m models.VideoProgress
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, selectVideoProgressQuery, userID, videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress for user %s video %s: %w", userID, videoID, err)
	}
	return toDomainVideoProgress(&m), nil
}

func (r *sqlxVideoProgressRepository) UpsertProgress(ctx context.Context, p *domain.VideoProgress) error {
	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, mergeVideoProgressQuery,
		p.UserID,
		p.VideoID,
		p.CourseID,
		p.WatchedPercent,
		boolToNumber(p.Completed),
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress for user %s video %s: %w", p.UserID, p.VideoID, err)
	}
	return nil
}

func (r *sqlxVideoProgressRepository) ListCourseProgress(ctx context.Context, userID, courseID string) ([]domain.VideoProgress, error) {
	var rows []models.VideoProgress
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, selectCourseProgressQuery, userID, courseID); err != nil {
		return nil, fmt.Errorf("failed to list progress for user %s course %s: %w", userID, courseID, err)
	}
	progress := make([]domain.VideoProgress, len(rows))
	for i := range rows {
		progress[i] = *toDomainVideoProgress(&rows[i])
	}
	return progress, nil
}
