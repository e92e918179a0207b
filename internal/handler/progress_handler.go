package handler

import (
	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
	"quiz-gate/internal/service"
	"quiz-gate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProgressHandler handles video progress requests
type ProgressHandler struct {
	videos    service.VideoProgressService
	validator *validation.Validator
}

// NewProgressHandler creates a new ProgressHandler instance
func NewProgressHandler(videos service.VideoProgressService, validator *validation.Validator) *ProgressHandler {
	return &ProgressHandler{videos: videos, validator: validator}
}

// RecordVideoProgress godoc
// @Summary Report video progress
// @Description Records how much of a video was watched. Finishing every video of a course issues a certificate.
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Param videoId path string true "Video ID"
// @Param request body dto.VideoProgressRequest true "Progress report"
// @Success 200 {object} dto.CourseProgressResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/videos/{videoId}/progress [post]
func (h *ProgressHandler) RecordVideoProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.VideoProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	progress, err := h.videos.RecordProgress(c.UserContext(), userID, c.Params("courseId"), c.Params("videoId"), req.WatchedPercent, req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(toCourseProgressResponse(progress))
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Description Returns video completion across the course
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseProgressResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/progress [get]
func (h *ProgressHandler) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	progress, err := h.videos.GetCourseProgress(c.UserContext(), userID, c.Params("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(toCourseProgressResponse(progress))
}
