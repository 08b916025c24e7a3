package middleware

import (
	"net/http"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"

	"github.com/moodz-app/moodz_api/services"
	"github.com/moodz-app/moodz_api/shared"
)

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc *services.JWTService
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	svc.jwtSvc = svc.Service(services.JWT_SVC).(*services.JWTService)
	return nil
}

// RequiredAuth verifies the bearer token and stores the caller's user id
// and role in locals for downstream handlers and the rate limiter.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// OptionalAuth resolves identity when a token is present but lets
// anonymous requests through. Rate limit keys then fall back to IP.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return c.Next()
		}

		if userID, role, err := svc.jwtSvc.VerifyJWTToken(token); err == nil && userID != "" {
			c.Locals(shared.UserID, userID)
			c.Locals(shared.UserRole, role)
		}
		return c.Next()
	}
}

// RequireRole gates a route on the caller's role, ADMIN passes everywhere.
func (svc *AuthMiddleware) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerRole, _ := c.Locals(shared.UserRole).(string)
		if callerRole != role && callerRole != shared.RoleAdmin {
			return shared.ResponseForbidden(c)
		}
		return c.Next()
	}
}
