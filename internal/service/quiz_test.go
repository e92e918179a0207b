package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quiz-gate/internal/cache"
	"quiz-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuizDefinitionService_Get(t *testing.T) {
	ctx := context.Background()
	ttl := 10 * time.Minute
	key := cache.QuizDefinitionKey("course1")
	def := buildQuiz("course1", 2, 50)
	cached, _ := json.Marshal(def)

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(MockQuizRepository)
		c := new(MockCache)
		c.On("Get", ctx, key).Return(string(cached), nil).Once()

		svc := NewQuizDefinitionService(repo, c, ttl)
		got, err := svc.Get(ctx, "course1")
		require.NoError(t, err)
		assert.Equal(t, def, got)
		repo.AssertNotCalled(t, "GetQuizDefinition", mock.Anything, mock.Anything)
		c.AssertExpectations(t)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		repo := new(MockQuizRepository)
		c := new(MockCache)
		c.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
		repo.On("GetQuizDefinition", ctx, "course1").Return(def, nil).Once()
		c.On("Set", ctx, key, string(cached), ttl).Return(nil).Once()

		svc := NewQuizDefinitionService(repo, c, ttl)
		got, err := svc.Get(ctx, "course1")
		require.NoError(t, err)
		assert.Equal(t, def, got)
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		repo := new(MockQuizRepository)
		c := new(MockCache)
		c.On("Get", ctx, key).Return("", errors.New("redis down")).Once()
		repo.On("GetQuizDefinition", ctx, "course1").Return(def, nil).Once()
		c.On("Set", ctx, key, mock.Anything, ttl).Return(errors.New("redis down")).Once()

		svc := NewQuizDefinitionService(repo, c, ttl)
		got, err := svc.Get(ctx, "course1")
		require.NoError(t, err)
		assert.Equal(t, def, got)
	})

	t.Run("missing quiz", func(t *testing.T) {
		repo := new(MockQuizRepository)
		repo.On("GetQuizDefinition", ctx, "nope").Return(nil, nil).Once()

		svc := NewQuizDefinitionService(repo, nil, ttl)
		_, err := svc.Get(ctx, "nope")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
	})

	t.Run("invalid definition is rejected and not cached", func(t *testing.T) {
		repo := new(MockQuizRepository)
		c := new(MockCache)
		empty := &domain.QuizDefinition{CourseID: "course1", PassThresholdPercent: 80}
		c.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
		repo.On("GetQuizDefinition", ctx, "course1").Return(empty, nil).Once()

		svc := NewQuizDefinitionService(repo, c, ttl)
		_, err := svc.Get(ctx, "course1")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeInvalidQuizDefinition, domainErr.Code)
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockQuizRepository)
		repo.On("GetQuizDefinition", ctx, "course1").Return(nil, errors.New("db down")).Once()

		svc := NewQuizDefinitionService(repo, nil, ttl)
		_, err := svc.Get(ctx, "course1")
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domain.CodeInternal, domainErr.Code)
	})
}

func TestQuizDefinitionService_GetPublic(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuizRepository)
	def := buildQuiz("course1", 3, 70)
	def.TimeLimitSeconds = 300
	repo.On("GetQuizDefinition", ctx, "course1").Return(def, nil).Once()

	svc := NewQuizDefinitionService(repo, nil, time.Minute)
	resp, err := svc.GetPublic(ctx, "course1")
	require.NoError(t, err)
	assert.Equal(t, "course1", resp.CourseID)
	assert.Equal(t, 70, resp.PassThresholdPercent)
	assert.Equal(t, 300, resp.TimeLimitSeconds)
	assert.Equal(t, 3, resp.TotalQuestions)
	require.Len(t, resp.Questions, 3)
	assert.Equal(t, "q1", resp.Questions[0].ID)
	assert.Equal(t, []string{"right", "wrong"}, resp.Questions[0].Options)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "correct")
}

func TestQuizDefinitionService_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := new(MockCache)
	c.On("Delete", ctx, cache.QuizDefinitionKey("course1")).Return(nil).Once()

	svc := NewQuizDefinitionService(new(MockQuizRepository), c, time.Minute)
	assert.NoError(t, svc.Invalidate(ctx, "course1"))
	c.AssertExpectations(t)

	assert.NoError(t, NewQuizDefinitionService(new(MockQuizRepository), nil, time.Minute).Invalidate(ctx, "course1"))
}
