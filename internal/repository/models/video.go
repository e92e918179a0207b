package models

import "time"

// CourseVideo maps a row of COURSE_VIDEOS.
type CourseVideo struct {
	ID       string `db:"ID"`
	CourseID string `db:"COURSE_ID"`
	Position int    `db:"POSITION"`
	Title    string `db:"TITLE"`
}

// VideoProgress maps a row of VIDEO_PROGRESS.
type VideoProgress struct {
	UserID         string    `db:"USER_ID"`
	VideoID        string    `db:"VIDEO_ID"`
	CourseID       string    `db:"COURSE_ID"`
	WatchedPercent int       `db:"WATCHED_PERCENT"`
	Completed      int       `db:"COMPLETED"` // NUMBER(1)
	UpdatedAt      time.Time `db:"UPDATED_AT"`
}
