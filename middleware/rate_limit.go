package middleware

import (
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/services"
	"github.com/moodz-app/moodz_api/shared"
)

// RateLimitMiddleware adapts the limiter core to the fiber request
// lifecycle: identity resolution from locals, 429 short-circuits and
// X-RateLimit-* headers on every decision.
type RateLimitMiddleware struct {
	context.DefaultService

	rateSvc *services.RateLimitService
}

const RATE_LIMIT_MIDDLEWARE_SVC = "rate_limit"

func (svc *RateLimitMiddleware) Id() string {
	return RATE_LIMIT_MIDDLEWARE_SVC
}

func (svc *RateLimitMiddleware) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitMiddleware) Start() error {
	svc.rateSvc = svc.Service(services.RATE_LIMIT_SVC).(*services.RateLimitService)
	return nil
}

// WithRateLimit wraps a handler. Denied requests get a 429 and never reach
// the handler; allowed ones get X-RateLimit-* headers attached after it.
func (svc *RateLimitMiddleware) WithRateLimit(handler fiber.Handler, override *dto.RateLimitOverride) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, deny, result := svc.RateLimit(c, override)

		setRateLimitHeaders(c, result)

		if !allowed {
			return deny()
		}

		return handler(c)
	}
}

// Handle is the route-group form of WithRateLimit.
func (svc *RateLimitMiddleware) Handle(override *dto.RateLimitOverride) fiber.Handler {
	return svc.WithRateLimit(func(c *fiber.Ctx) error {
		return c.Next()
	}, override)
}

// RateLimit is the inline variant for use inside a handler body. When the
// request is denied, deny writes the 429 response; callers branch on
// allowed and return deny() themselves.
func (svc *RateLimitMiddleware) RateLimit(c *fiber.Ctx, override *dto.RateLimitOverride) (allowed bool, deny func() error, result *dto.RateLimitResult) {
	opts := services.CheckOptions{Override: override}
	if userID, ok := c.Locals(shared.UserID).(string); ok {
		opts.UserID = userID
	}
	if role, ok := c.Locals(shared.UserRole).(string); ok {
		opts.Role = role
	}

	req := services.RequestContext{
		Path:         c.Path(),
		ForwardedFor: c.Get(fiber.HeaderXForwardedFor),
		RealIP:       c.Get("X-Real-IP"),
	}

	result = svc.rateSvc.Check(req, opts)
	if result.Allowed {
		return true, nil, result
	}

	return false, func() error {
		retryAfter := result.RetryAfterSeconds(time.Now())
		setRateLimitHeaders(c, result)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

		return c.Status(fiber.StatusTooManyRequests).JSON(dto.RateLimitExceededResponse{
			Error:      "Rate limit exceeded",
			Message:    result.Message,
			RetryAfter: retryAfter,
		})
	}, result
}

func setRateLimitHeaders(c *fiber.Ctx, result *dto.RateLimitResult) {
	if result == nil {
		return
	}
	c.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if result.ResetAt != nil {
		c.Set("X-RateLimit-Reset", result.ResetAt.UTC().Format(time.RFC3339))
	}
}
