package dto

// VideoProgressRequest reports how far the learner got in one video.
type VideoProgressRequest struct {
	WatchedPercent int  `json:"watched_percent" validate:"min=0,max=100"`
	Completed      bool `json:"completed"`
}

// CourseProgressResponse summarises video completion for a course
// @Description Video progress across a course
type CourseProgressResponse struct {
	CourseID      string               `json:"course_id"`
	WatchedVideos int                  `json:"watched_videos"`
	TotalVideos   int                  `json:"total_videos"`
	Percent       int                  `json:"percent"`
	Completed     bool                 `json:"completed"`
	Certificate   *CertificateResponse `json:"certificate,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}
