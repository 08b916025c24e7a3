package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/moodz-app/moodz_api/docs"
	"github.com/moodz-app/moodz_api/services/handlers"
	"github.com/moodz-app/moodz_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc   *AuthService
	moodSvc   *MoodService
	reportSvc *ReportService
	jobSvc    *JobService
	rateSvc   *RateLimitService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

// Middleware services register themselves under these ids. The lookup goes
// through the container so this package does not import the middleware
// package, which imports this one.
const (
	authMiddlewareSvc      = "auth"
	rateLimitMiddlewareSvc = "rate_limit"
)

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.moodSvc = svc.Service(MOOD_SVC).(*MoodService)
	svc.reportSvc = svc.Service(REPORT_SVC).(*ReportService)
	svc.jobSvc = svc.Service(JOB_SVC).(*JobService)
	svc.rateSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)

	authMw := svc.Service(authMiddlewareSvc).(handlers.AuthMiddlewareInterface)
	rateMw := svc.Service(rateLimitMiddlewareSvc).(handlers.RateLimitMiddlewareInterface)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	moodHandler := handlers.NewMoodHandler(svc.moodSvc, svc.reportSvc)
	adminHandler := handlers.NewAdminHandler(svc.jobSvc, svc.rateSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Post("/register", rateMw.Handle(nil), authHandler.Register)
	v1.Post("/login", rateMw.Handle(nil), authHandler.Login)

	moods := v1.Group("/moods", authMw.RequiredAuth(), rateMw.Handle(nil))
	moods.Post("/", moodHandler.LogMood)
	moods.Get("/", moodHandler.GetHistory)
	moods.Post("/export", moodHandler.Export)

	jobs := v1.Group("/jobs", authMw.RequiredAuth(), authMw.RequireRole(shared.RoleAdmin), rateMw.Handle(nil))
	jobs.Get("/", adminHandler.ListJobs)
	jobs.Post("/:name/run", adminHandler.RunJob)

	admin := v1.Group("/admin", authMw.RequiredAuth(), authMw.RequireRole(shared.RoleAdmin), rateMw.Handle(nil))
	admin.Get("/rate-limits/stats", adminHandler.RateLimitStats)
	admin.Post("/rate-limits/cleanup", adminHandler.RateLimitCleanup)
	admin.Post("/rate-limits/reset", adminHandler.RateLimitReset)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(errors.New("page not found"), "Page not found")
	})

	svc.app = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
