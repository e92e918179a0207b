package domain

import "time"

const DefaultVideoWatchThresholdPercent = 90

// CourseVideo is one lesson video of a course.
type CourseVideo struct {
	ID       string
	CourseID string
	Position int
	Title    string
}

// VideoProgress tracks how much of a video a user has watched.
type VideoProgress struct {
	UserID         string
	CourseID       string
	VideoID        string
	WatchedPercent int
	Completed      bool
	UpdatedAt      time.Time
}

// IsComplete reports whether the video counts as watched for course completion.
func (p *VideoProgress) IsComplete(thresholdPercent int) bool {
	return p.Completed || p.WatchedPercent >= thresholdPercent
}

// Merge folds a new progress report into the stored one. Watched percent never
// regresses and the completed flag is sticky.
func (p *VideoProgress) Merge(next VideoProgress) VideoProgress {
	merged := *p
	if next.WatchedPercent > merged.WatchedPercent {
		merged.WatchedPercent = next.WatchedPercent
	}
	merged.Completed = merged.Completed || next.Completed
	merged.UpdatedAt = next.UpdatedAt
	return merged
}

// CourseProgress summarises a user's video progress across a course.
type CourseProgress struct {
	UserID        string
	CourseID      string
	WatchedVideos int
	TotalVideos   int
	Percent       int
	Completed     bool
	Certificate   *CertificateRecord
}
