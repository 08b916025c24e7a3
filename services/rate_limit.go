package services

import (
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RateLimitService decides whether requests are allowed and maintains the
// persisted counters. Store failures never block traffic: every decision
// path fails open with the full quota.
type RateLimitService struct {
	context.DefaultService

	policy *RateLimitPolicy
	repo   *repositories.RateLimitRepository

	dbSvc *PostgresService
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

// NewRateLimitCore builds a limiter outside the service container, with an
// explicit store and policy. Used by tests and by the container wiring.
func NewRateLimitCore(db *gorm.DB, policy *RateLimitPolicy) *RateLimitService {
	return &RateLimitService{
		policy: policy,
		repo:   repositories.NewRateLimitRepository(db),
	}
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.policy = DefaultRateLimitPolicy()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.dbSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.repo = repositories.NewRateLimitRepository(svc.dbSvc.Db())

	go svc.startCleanupTicker()

	return nil
}

func (svc *RateLimitService) Policy() *RateLimitPolicy {
	return svc.policy
}

// RequestContext carries the request attributes the limiter reads. The
// middleware extracts it from fiber; tests construct it directly.
type RequestContext struct {
	Path         string
	ForwardedFor string
	RealIP       string
}

// ClientIP prefers the first entry of X-Forwarded-For, then X-Real-IP,
// then the literal "unknown".
func (r RequestContext) ClientIP() string {
	if r.ForwardedFor != "" {
		ips := strings.Split(r.ForwardedFor, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}
	if r.RealIP != "" {
		return r.RealIP
	}
	return "unknown"
}

type CheckOptions struct {
	UserID   string
	Role     string
	Override *dto.RateLimitOverride
}

// GenerateRateLimitKey composes the counter identity. The user and both
// forms fall back to the ip form when no user id is present.
func GenerateRateLimitKey(identifier dto.Identifier, ip, userID, path string) string {
	switch identifier {
	case dto.IdentifierUser:
		if userID != "" {
			return "user:" + userID + ":" + path
		}
	case dto.IdentifierBoth:
		if userID != "" {
			return "user:" + userID + ":ip:" + ip + ":" + path
		}
	}
	return "ip:" + ip + ":" + path
}

// Check runs one limiter decision for the request.
//
// The window is fixed-window-with-reset: an entry whose windowStart
// predates now-window is reset to count=1 on the next request rather than
// decaying gradually.
func (svc *RateLimitService) Check(req RequestContext, opts CheckOptions) *dto.RateLimitResult {
	config := svc.policy.Merge(svc.policy.GetConfig(req.Path), opts.Override)
	limit := svc.policy.ApplyRoleMultiplier(config.Limit, opts.Role)
	key := GenerateRateLimitKey(config.Identifier, req.ClientIP(), opts.UserID, req.Path)

	now := time.Now()
	staleBefore := now.Add(-config.Window)
	expiresAt := now.Add(config.Window)

	entry, err := svc.repo.GetByKey(key)
	if err != nil {
		return svc.failOpen(key, limit, err)
	}

	// First request for this key
	if entry == nil {
		if err := svc.repo.Create(&model.RateLimitEntry{
			Key:          key,
			RequestCount: 1,
			WindowStart:  now,
			ExpiresAt:    expiresAt,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return svc.failOpen(key, limit, err)
		}

		recordRateLimitDecision("allow")
		return &dto.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   &expiresAt,
		}
	}

	// Window lapsed: reset to a fresh count of 1
	if entry.WindowStart.Before(staleBefore) {
		if err := svc.repo.Reset(key, now, expiresAt); err != nil {
			return svc.failOpen(key, limit, err)
		}

		recordRateLimitDecision("allow")
		return &dto.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   &expiresAt,
		}
	}

	// Saturated: deny until the window expires
	if entry.RequestCount >= limit {
		recordRateLimitDecision("deny")
		resetAt := entry.ExpiresAt
		return &dto.RateLimitResult{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   &resetAt,
			Message:   config.Message,
		}
	}

	if err := svc.repo.Increment(key, now); err != nil {
		return svc.failOpen(key, limit, err)
	}

	newCount := entry.RequestCount + 1
	remaining := limit - newCount
	if remaining < 0 {
		remaining = 0
	}

	recordRateLimitDecision("allow")
	resetAt := entry.ExpiresAt
	return &dto.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   &resetAt,
	}
}

// failOpen converts a store fault into an allow with the full quota.
// Availability wins over strict enforcement.
func (svc *RateLimitService) failOpen(key string, limit int, err error) *dto.RateLimitResult {
	log.WithFields(log.Fields{"key": key, "error": err.Error()}).
		Error("Rate limit store error, failing open")
	recordRateLimitDecision("error")

	return &dto.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
	}
}

// CleanupExpiredEntries deletes entries whose window has lapsed.
func (svc *RateLimitService) CleanupExpiredEntries() (int64, error) {
	swept, err := svc.repo.DeleteExpired(time.Now())
	if err != nil {
		return 0, err
	}
	rateLimitEntriesSwept.Add(float64(swept))
	return swept, nil
}

// Stats returns read-only limiter diagnostics.
func (svc *RateLimitService) Stats(topN int) (*dto.RateLimitStats, error) {
	now := time.Now()

	total, err := svc.repo.Count()
	if err != nil {
		return nil, err
	}
	expired, err := svc.repo.CountExpired(now)
	if err != nil {
		return nil, err
	}
	topKeys, err := svc.repo.TopKeys(topN)
	if err != nil {
		return nil, err
	}

	return &dto.RateLimitStats{
		TotalEntries:   total,
		ExpiredEntries: expired,
		TopKeys:        topKeys,
		Timestamp:      now,
	}, nil
}

// ResetKey removes the live counter for a key, lifting any active limit.
func (svc *RateLimitService) ResetKey(key string) error {
	return svc.repo.DeleteByKey(key)
}

func (svc *RateLimitService) startCleanupTicker() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		swept, err := svc.CleanupExpiredEntries()
		if err != nil {
			log.Printf("Rate limit cleanup error: %v", err)
			continue
		}
		log.Printf("Rate limit cleanup removed %d entries", swept)
	}
}
