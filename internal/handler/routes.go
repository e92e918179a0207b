package handler

import (
	"time"

	"quiz-gate/internal/middleware"
	"quiz-gate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Quiz     *QuizHandler
	Progress *ProgressHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API. Everything except /health requires a bearer token.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService, vm *middleware.ValidationMiddleware) {
	api := app.Group("/api")
	api.Get("/health", h.Health.Health)

	courses := api.Group("/courses/:courseId", middleware.Protected(authService), vm.ValidatePathIDs("courseId"))
	courses.Get("/quiz", h.Quiz.GetQuiz)
	courses.Get("/quiz/eligibility", h.Quiz.GetEligibility)
	courses.Post("/quiz/attempts", submitLimiter(), h.Quiz.SubmitAttempt)
	courses.Get("/certificate", h.Quiz.GetCertificate)
	courses.Get("/progress", h.Progress.GetCourseProgress)
	courses.Post("/videos/:videoId/progress", vm.ValidatePathIDs("videoId"), h.Progress.RecordVideoProgress)
}

// submitLimiter absorbs double-clicks and scripted resubmits per user and course.
func submitLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID, _ := middleware.UserID(c)
			return userID + ":" + c.Params("courseId")
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many submissions, slow down")
		},
	})
}
