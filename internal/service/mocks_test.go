package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetQuizDefinition(ctx context.Context, courseID string) (*domain.QuizDefinition, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDefinition), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockProgressStore ---
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) GetAttemptRecord(ctx context.Context, userID, courseID string) (*domain.AttemptRecord, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttemptRecord), args.Error(1)
}

func (m *MockProgressStore) UpsertAttemptRecord(ctx context.Context, record *domain.AttemptRecord, expectedAttemptsCount int) error {
	args := m.Called(ctx, record, expectedAttemptsCount)
	return args.Error(0)
}

func (m *MockProgressStore) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CertificateRecord), args.Error(1)
}

func (m *MockProgressStore) CreateCertificate(ctx context.Context, cert *domain.CertificateRecord) (*domain.CertificateRecord, error) {
	args := m.Called(ctx, cert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CertificateRecord), args.Error(1)
}

// --- MockVideoProgressRepository ---
type MockVideoProgressRepository struct {
	mock.Mock
}

func (m *MockVideoProgressRepository) ListCourseVideos(ctx context.Context, courseID string) ([]domain.CourseVideo, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CourseVideo), args.Error(1)
}

func (m *MockVideoProgressRepository) GetProgress(ctx context.Context, userID, videoID string) (*domain.VideoProgress, error) {
	args := m.Called(ctx, userID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoProgress), args.Error(1)
}

func (m *MockVideoProgressRepository) UpsertProgress(ctx context.Context, progress *domain.VideoProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockVideoProgressRepository) ListCourseProgress(ctx context.Context, userID, courseID string) ([]domain.VideoProgress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VideoProgress), args.Error(1)
}

// --- MockTransactionManager ---
// Runs fn directly with the given context.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- fakeClock ---
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- memoryProgressStore ---
// In-memory ProgressStore honouring the compare-and-swap and uniqueness rules.
type memoryProgressStore struct {
	mu          sync.Mutex
	records     map[string]domain.AttemptRecord
	certs       map[string]domain.CertificateRecord
	createCalls int
}

func newMemoryProgressStore() *memoryProgressStore {
	return &memoryProgressStore{
		records: make(map[string]domain.AttemptRecord),
		certs:   make(map[string]domain.CertificateRecord),
	}
}

func storeKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (s *memoryProgressStore) GetAttemptRecord(_ context.Context, userID, courseID string) (*domain.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[storeKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *memoryProgressStore) UpsertAttemptRecord(_ context.Context, record *domain.AttemptRecord, expectedAttemptsCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := storeKey(record.UserID, record.CourseID)
	current, ok := s.records[k]
	stored := 0
	if ok {
		stored = current.AttemptsCount
	}
	if (expectedAttemptsCount == 0 && ok) || stored != expectedAttemptsCount {
		return fmt.Errorf("stored count %d: %w", stored, domain.ErrConcurrencyConflict)
	}
	s.records[k] = *record
	return nil
}

func (s *memoryProgressStore) GetCertificate(_ context.Context, userID, courseID string) (*domain.CertificateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[storeKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *memoryProgressStore) CreateCertificate(_ context.Context, cert *domain.CertificateRecord) (*domain.CertificateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	k := storeKey(cert.UserID, cert.CourseID)
	if _, ok := s.certs[k]; ok {
		return nil, domain.ErrDuplicateCertificate
	}
	created := *cert
	if created.ID == "" {
		created.ID = fmt.Sprintf("cert-%d", s.createCalls)
	}
	s.certs[k] = created
	return &created, nil
}

func (s *memoryProgressStore) certificateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.certs)
}

// --- staticQuizDefinitions ---
type staticQuizDefinitions struct {
	defs map[string]*domain.QuizDefinition
}

func (s *staticQuizDefinitions) Get(_ context.Context, courseID string) (*domain.QuizDefinition, error) {
	def, ok := s.defs[courseID]
	if !ok {
		return nil, domain.NewQuizNotFoundError(courseID)
	}
	return def, nil
}

func (s *staticQuizDefinitions) GetPublic(context.Context, string) (*dto.PublicQuizResponse, error) {
	return nil, nil
}

func (s *staticQuizDefinitions) Invalidate(context.Context, string) error {
	return nil
}

// buildQuiz returns n questions whose correct option is always index 0.
func buildQuiz(courseID string, n, threshold int) *domain.QuizDefinition {
	def := &domain.QuizDefinition{CourseID: courseID, PassThresholdPercent: threshold}
	for i := 1; i <= n; i++ {
		def.Questions = append(def.Questions, domain.Question{
			ID:           fmt.Sprintf("q%d", i),
			Prompt:       fmt.Sprintf("Question %d", i),
			Options:      []string{"right", "wrong"},
			CorrectIndex: 0,
		})
	}
	return def
}

// answersWithCorrect answers the first k questions correctly and the rest wrongly.
func answersWithCorrect(def *domain.QuizDefinition, k int) map[string]int {
	answers := make(map[string]int, len(def.Questions))
	for i, q := range def.Questions {
		if i < k {
			answers[q.ID] = q.CorrectIndex
		} else {
			answers[q.ID] = q.CorrectIndex + 1
		}
	}
	return answers
}
