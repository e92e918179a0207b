package handler

import (
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
)

func toCertificateResponse(cert *domain.CertificateRecord) *dto.CertificateResponse {
	if cert == nil {
		return nil
	}
	return &dto.CertificateResponse{
		ID:               cert.ID,
		CourseID:         cert.CourseID,
		ScorePercent:     cert.ScorePercent,
		Trigger:          string(cert.Trigger),
		VerificationCode: cert.VerificationCode,
		IssuedAt:         cert.IssuedAt,
	}
}

func toEligibilityResponse(res *domain.EligibilityResult, now time.Time) dto.EligibilityResponse {
	resp := dto.EligibilityResponse{
		Allowed:           res.Allowed,
		Reason:            string(res.Reason),
		State:             string(res.State),
		NextRetryAt:       res.NextRetryAt,
		AttemptsCount:     res.AttemptsCount,
		AttemptsRemaining: res.AttemptsRemaining,
		MaxAttempts:       res.MaxAttempts,
	}
	if res.NextRetryAt != nil {
		resp.RetryInSeconds = domain.SecondsRemaining(*res.NextRetryAt, now)
	}
	return resp
}

func toAttemptResultResponse(res *domain.AttemptResult) dto.AttemptResultResponse {
	return dto.AttemptResultResponse{
		ScorePercent:   res.ScorePercent,
		CorrectCount:   res.CorrectCount,
		TotalQuestions: res.TotalQuestions,
		Passed:         res.Passed,
		AttemptsCount:  res.AttemptsCount,
		Certificate:    toCertificateResponse(res.Certificate),
	}
}

func toCourseProgressResponse(p *domain.CourseProgress) dto.CourseProgressResponse {
	return dto.CourseProgressResponse{
		CourseID:      p.CourseID,
		WatchedVideos: p.WatchedVideos,
		TotalVideos:   p.TotalVideos,
		Percent:       p.Percent,
		Completed:     p.Completed,
		Certificate:   toCertificateResponse(p.Certificate),
	}
}
