package domain

import "context"

// ProgressStore is the durable home of attempt ledgers and certificates.
// Implementations give last-write-wins semantics plus the two guarantees below.
type ProgressStore interface {
	// GetAttemptRecord returns (nil, nil) when the user has never submitted.
	GetAttemptRecord(ctx context.Context, userID, courseID string) (*AttemptRecord, error)

	// UpsertAttemptRecord writes record only if the stored AttemptsCount still
	// equals expectedAttemptsCount (0 meaning "no record yet"). Otherwise it
	// returns ErrConcurrencyConflict.
	UpsertAttemptRecord(ctx context.Context, record *AttemptRecord, expectedAttemptsCount int) error

	// GetCertificate returns (nil, nil) when none was issued.
	GetCertificate(ctx context.Context, userID, courseID string) (*CertificateRecord, error)

	// CreateCertificate returns ErrDuplicateCertificate when one already exists
	// for (UserID, CourseID).
	CreateCertificate(ctx context.Context, cert *CertificateRecord) (*CertificateRecord, error)
}

// QuizRepository loads quiz definitions.
type QuizRepository interface {
	// GetQuizDefinition returns (nil, nil) when the course has no quiz.
	GetQuizDefinition(ctx context.Context, courseID string) (*QuizDefinition, error)
}

// VideoProgressRepository persists per-video watch progress.
type VideoProgressRepository interface {
	ListCourseVideos(ctx context.Context, courseID string) ([]CourseVideo, error)
	GetProgress(ctx context.Context, userID, videoID string) (*VideoProgress, error)
	UpsertProgress(ctx context.Context, progress *VideoProgress) error
	ListCourseProgress(ctx context.Context, userID, courseID string) ([]VideoProgress, error)
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CourseCatalogWriter loads authored course content (quiz and videos).
type CourseCatalogWriter interface {
	// SaveQuizDefinition replaces the quiz of def.CourseID and all of its questions.
	SaveQuizDefinition(ctx context.Context, def *QuizDefinition) error
	SaveCourseVideo(ctx context.Context, video *CourseVideo) error
}
