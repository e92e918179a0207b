package service

import (
	"context"
	"fmt"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/logger"

	"go.uber.org/zap"
)

// VideoProgressService tracks lesson videos and issues a certificate once
// every video of a course is watched.
type VideoProgressService interface {
	RecordProgress(ctx context.Context, userID, courseID, videoID string, watchedPercent int, completed bool) (*domain.CourseProgress, error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error)
}

type videoProgressService struct {
	repo            domain.VideoProgressRepository
	txManager       domain.TransactionManager
	controller      QuizAttemptController
	clock           domain.Clock
	thresholdPct    int
	completionScore int
}

// NewVideoProgressService creates a new instance of videoProgressService.
func NewVideoProgressService(
	repo domain.VideoProgressRepository,
	txManager domain.TransactionManager,
	controller QuizAttemptController,
	clock domain.Clock,
	thresholdPercent int,
	completionScore int,
) VideoProgressService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &videoProgressService{
		repo:            repo,
		txManager:       txManager,
		controller:      controller,
		clock:           clock,
		thresholdPct:    thresholdPercent,
		completionScore: completionScore,
	}
}

func (s *videoProgressService) RecordProgress(ctx context.Context, userID, courseID, videoID string, watchedPercent int, completed bool) (*domain.CourseProgress, error) {
	if watchedPercent < 0 || watchedPercent > 100 {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("watched_percent", watchedPercent, 0, 100)}
	}

	var progress *domain.CourseProgress
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		videos, err := s.repo.ListCourseVideos(txCtx, courseID)
		if err != nil {
			return domain.NewInternalError("failed to list course videos", err)
		}
		if !containsVideo(videos, videoID) {
			return domain.NewNotFoundError(fmt.Sprintf("video %s not found in course %s", videoID, courseID))
		}

		report := domain.VideoProgress{
			UserID:         userID,
			CourseID:       courseID,
			VideoID:        videoID,
			WatchedPercent: watchedPercent,
			Completed:      completed,
			UpdatedAt:      s.clock.Now(),
		}
		existing, err := s.repo.GetProgress(txCtx, userID, videoID)
		if err != nil {
			return domain.NewInternalError("failed to read video progress", err)
		}
		if existing != nil {
			report = existing.Merge(report)
		}
		if err := s.repo.UpsertProgress(txCtx, &report); err != nil {
			return domain.NewInternalError("failed to save video progress", err)
		}

		watched, err := s.repo.ListCourseProgress(txCtx, userID, courseID)
		if err != nil {
			return domain.NewInternalError("failed to read course progress", err)
		}
		progress = summarizeProgress(userID, courseID, videos, watched, s.thresholdPct)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if progress.Completed {
		cert, err := s.controller.IssueCertificateIfEligible(ctx, userID, courseID, s.completionScore, domain.TriggerFullVideoCompletion)
		if err != nil {
			return nil, err
		}
		progress.Certificate = cert
		logger.Get().Info("Course completed through videos",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.String("certificate_trigger", string(cert.Trigger)))
	}
	return progress, nil
}

func (s *videoProgressService) GetCourseProgress(ctx context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	videos, err := s.repo.ListCourseVideos(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list course videos", err)
	}
	if len(videos) == 0 {
		return nil, domain.NewNotFoundError(fmt.Sprintf("course %s has no videos", courseID))
	}
	watched, err := s.repo.ListCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to read course progress", err)
	}
	progress := summarizeProgress(userID, courseID, videos, watched, s.thresholdPct)

	cert, err := s.controller.FindCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	progress.Certificate = cert
	return progress, nil
}

func containsVideo(videos []domain.CourseVideo, videoID string) bool {
	for _, v := range videos {
		if v.ID == videoID {
			return true
		}
	}
	return false
}

// summarizeProgress counts only videos that belong to the course. A course
// without videos is never complete.
func summarizeProgress(userID, courseID string, videos []domain.CourseVideo, watched []domain.VideoProgress, thresholdPct int) *domain.CourseProgress {
	byVideo := make(map[string]domain.VideoProgress, len(watched))
	for _, p := range watched {
		byVideo[p.VideoID] = p
	}

	done := 0
	for _, v := range videos {
		if p, ok := byVideo[v.ID]; ok && p.IsComplete(thresholdPct) {
			done++
		}
	}

	progress := &domain.CourseProgress{
		UserID:        userID,
		CourseID:      courseID,
		WatchedVideos: done,
		TotalVideos:   len(videos),
	}
	if len(videos) > 0 {
		progress.Percent = domain.RoundPercent(done, len(videos))
		progress.Completed = done == len(videos)
	}
	return progress
}
