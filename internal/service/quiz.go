package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-gate/internal/cache"
	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
	"quiz-gate/internal/logger"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizDefinitionService loads course quizzes for grading and for display.
type QuizDefinitionService interface {
	// Get returns the validated definition including correct answers.
	Get(ctx context.Context, courseID string) (*domain.QuizDefinition, error)
	// GetPublic returns the learner-facing view without correct answers.
	GetPublic(ctx context.Context, courseID string) (*dto.PublicQuizResponse, error)
	Invalidate(ctx context.Context, courseID string) error
}

type quizDefinitionService struct {
	repo  domain.QuizRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewQuizDefinitionService creates a new instance of quizDefinitionService.
// A nil cache disables caching; the repository is then read on every call.
func NewQuizDefinitionService(repo domain.QuizRepository, cache domain.Cache, ttl time.Duration) QuizDefinitionService {
	if cache == nil {
		logger.Get().Warn("QuizDefinitionService initialized without cache. Definitions will be read from the database on every call.")
	}
	return &quizDefinitionService{repo: repo, cache: cache, ttl: ttl}
}

func (s *quizDefinitionService) Get(ctx context.Context, courseID string) (*domain.QuizDefinition, error) {
	key := cache.QuizDefinitionKey(courseID)

	if def := s.readCache(ctx, key); def != nil {
		return def, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		return s.load(ctx, courseID, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Quiz definition load shared", zap.String("course_id", courseID))
	}
	return v.(*domain.QuizDefinition), nil
}

func (s *quizDefinitionService) load(ctx context.Context, courseID, key string) (*domain.QuizDefinition, error) {
	def, err := s.repo.GetQuizDefinition(ctx, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz definition", err)
	}
	if def == nil {
		return nil, domain.NewQuizNotFoundError(courseID)
	}
	if err := def.Validate(); err != nil {
		logger.Get().Error("Invalid quiz definition in database",
			zap.String("course_id", courseID),
			zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		data, err := json.Marshal(def)
		if err != nil {
			logger.Get().Error("Failed to marshal quiz definition for caching", zap.Error(err), zap.String("course_id", courseID))
			return def, nil
		}
		if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
			logger.Get().Warn("Failed to cache quiz definition", zap.Error(err), zap.String("key", key))
		}
	}
	return def, nil
}

// readCache returns nil on a miss or on any cache failure.
func (s *quizDefinitionService) readCache(ctx context.Context, key string) *domain.QuizDefinition {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Quiz definition cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil
	}

	var def domain.QuizDefinition
	if err := json.Unmarshal([]byte(data), &def); err != nil {
		logger.Get().Warn("Discarding corrupt quiz definition cache entry", zap.Error(err), zap.String("key", key))
		return nil
	}
	if err := def.Validate(); err != nil {
		return nil
	}
	return &def
}

func (s *quizDefinitionService) GetPublic(ctx context.Context, courseID string) (*dto.PublicQuizResponse, error) {
	def, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PublicQuizResponse{}
	if err := copier.Copy(resp, def); err != nil {
		return nil, domain.NewInternalError("failed to map quiz definition", err)
	}
	resp.TotalQuestions = def.TotalQuestions()
	return resp, nil
}

func (s *quizDefinitionService) Invalidate(ctx context.Context, courseID string) error {
	if s.cache == nil {
		return nil
	}
	key := cache.QuizDefinitionKey(courseID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return domain.NewInternalError("failed to invalidate quiz definition cache", err)
	}
	return nil
}
