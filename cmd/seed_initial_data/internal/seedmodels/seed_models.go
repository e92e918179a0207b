package seedmodels

import (
	"fmt"

	"quiz-gate/internal/domain"
)

// SeedQuestion defines one multiple-choice question in the JSON seed file.
type SeedQuestion struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// SeedVideo defines a course video in the JSON seed file.
type SeedVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SeedCourse defines a course with its quiz and videos.
type SeedCourse struct {
	CourseID             string         `json:"course_id"`
	PassThresholdPercent int            `json:"pass_threshold_percent"`
	TimeLimitSeconds     int            `json:"time_limit_seconds"`
	Questions            []SeedQuestion `json:"questions"`
	Videos               []SeedVideo    `json:"videos"`
}

// QuizDefinition converts the seed entry and validates it.
func (c SeedCourse) QuizDefinition() (*domain.QuizDefinition, error) {
	def := &domain.QuizDefinition{
		CourseID:             c.CourseID,
		PassThresholdPercent: c.PassThresholdPercent,
		TimeLimitSeconds:     c.TimeLimitSeconds,
		Questions:            make([]domain.Question, 0, len(c.Questions)),
	}
	for _, q := range c.Questions {
		def.Questions = append(def.Questions, domain.Question{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// CourseVideos returns the videos in file order.
func (c SeedCourse) CourseVideos() ([]domain.CourseVideo, error) {
	videos := make([]domain.CourseVideo, 0, len(c.Videos))
	seen := make(map[string]struct{}, len(c.Videos))
	for i, v := range c.Videos {
		if v.ID == "" {
			return nil, fmt.Errorf("course %s: video at position %d has no id", c.CourseID, i)
		}
		if _, dup := seen[v.ID]; dup {
			return nil, fmt.Errorf("course %s: duplicate video id %s", c.CourseID, v.ID)
		}
		seen[v.ID] = struct{}{}
		videos = append(videos, domain.CourseVideo{ID: v.ID, CourseID: c.CourseID, Position: i, Title: v.Title})
	}
	return videos, nil
}
