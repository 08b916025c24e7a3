package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/moodz-app/moodz_api/dto"
)

type AuthMiddlewareInterface interface {
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type RateLimitMiddlewareInterface interface {
	Handle(override *dto.RateLimitOverride) fiber.Handler
	WithRateLimit(handler fiber.Handler, override *dto.RateLimitOverride) fiber.Handler
}

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)
}

type MoodServiceInterface interface {
	LogMood(userID string, req dto.CreateMoodLogRequest) (*dto.MoodLogResponse, error)
	GetHistory(userID string, limit int) (*dto.MoodHistoryResponse, error)
}

type ReportServiceInterface interface {
	ExportMoodLogs(userID string) (*dto.ExportResponse, error)
}

type JobServiceInterface interface {
	RunJob(name string) (interface{}, error)
	Jobs() []string
}

type RateLimitAdminInterface interface {
	Stats(topN int) (*dto.RateLimitStats, error)
	CleanupExpiredEntries() (int64, error)
	ResetKey(key string) error
}
