package main

import (
	"github.com/moodz-app/moodz_api/middleware"
	"github.com/moodz-app/moodz_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// @title Moodz API
// @version 1.0
// @description Mental wellness platform API
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MonitoringService{},

		&services.JWTService{},
		&services.AuthService{},
		&services.EmailService{},
		&services.NotificationService{},

		&services.RateLimitService{},
		&services.MoodService{},
		&services.ReportService{},
		&services.JobService{},

		&middleware.AuthMiddleware{},
		&middleware.RateLimitMiddleware{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
