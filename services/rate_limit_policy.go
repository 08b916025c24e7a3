package services

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/shared"
)

// RateLimitConfig is static per-route configuration, immutable at runtime.
type RateLimitConfig struct {
	Limit      int
	Window     time.Duration
	Identifier dto.Identifier
	Message    string
}

type patternConfig struct {
	pattern string
	config  RateLimitConfig
	regex   *regexp.Regexp
}

// RateLimitPolicy maps request paths to configs. Wildcard patterns are held
// in declaration order so that when two patterns could match the same path,
// the first declared wins.
type RateLimitPolicy struct {
	exact           map[string]RateLimitConfig
	wildcards       []patternConfig
	defaultConfig   RateLimitConfig
	roleMultipliers map[string]float64
}

func NewRateLimitPolicy(defaultConfig RateLimitConfig, roleMultipliers map[string]float64) *RateLimitPolicy {
	if roleMultipliers == nil {
		roleMultipliers = map[string]float64{}
	}
	return &RateLimitPolicy{
		exact:           make(map[string]RateLimitConfig),
		defaultConfig:   defaultConfig,
		roleMultipliers: roleMultipliers,
	}
}

// Add registers a path pattern. Patterns containing '*' are matched as
// regexes with each '*' standing for the rest of a path ('/api/admin/*'
// matches '/api/admin/users' and '/api/admin/reports/export' but not
// '/api/admin' itself). Registration order is match priority.
func (p *RateLimitPolicy) Add(pattern string, config RateLimitConfig) *RateLimitPolicy {
	if !strings.Contains(pattern, "*") {
		p.exact[pattern] = config
		return p
	}

	escaped := regexp.QuoteMeta(pattern)
	expr := "^" + strings.ReplaceAll(escaped, `\*`, ".*") + "$"
	p.wildcards = append(p.wildcards, patternConfig{
		pattern: pattern,
		config:  config,
		regex:   regexp.MustCompile(expr),
	})
	return p
}

// GetConfig resolves a request path: exact match first, then wildcard
// patterns in declaration order, then the default.
func (p *RateLimitPolicy) GetConfig(path string) RateLimitConfig {
	if config, ok := p.exact[path]; ok {
		return config
	}
	for _, pc := range p.wildcards {
		if pc.regex.MatchString(path) {
			return pc.config
		}
	}
	return p.defaultConfig
}

// ApplyRoleMultiplier scales a base limit by the caller's role. Unknown or
// empty roles keep the base limit.
func (p *RateLimitPolicy) ApplyRoleMultiplier(limit int, role string) int {
	multiplier, ok := p.roleMultipliers[role]
	if !ok {
		return limit
	}
	return int(math.Floor(float64(limit) * multiplier))
}

// Merge applies a partial override on top of a resolved config.
func (p *RateLimitPolicy) Merge(base RateLimitConfig, override *dto.RateLimitOverride) RateLimitConfig {
	if override == nil {
		return base
	}
	if override.Limit > 0 {
		base.Limit = override.Limit
	}
	if override.Window > 0 {
		base.Window = override.Window
	}
	if override.Identifier != "" {
		base.Identifier = override.Identifier
	}
	if override.Message != "" {
		base.Message = override.Message
	}
	return base
}

// DefaultRateLimitPolicy is the route table the service ships with.
func DefaultRateLimitPolicy() *RateLimitPolicy {
	p := NewRateLimitPolicy(
		RateLimitConfig{
			Limit:      100,
			Window:     15 * time.Minute,
			Identifier: dto.IdentifierIP,
			Message:    "Too many requests. Please try again later.",
		},
		map[string]float64{
			shared.RolePatient:   1,
			shared.RoleTherapist: 1.5,
			shared.RoleModerator: 2,
			shared.RoleAdmin:     2,
		},
	)

	p.Add("/api/v1/login", RateLimitConfig{
		Limit:      10,
		Window:     15 * time.Minute,
		Identifier: dto.IdentifierIP,
		Message:    "Too many login attempts. Please try again later.",
	})
	p.Add("/api/v1/register", RateLimitConfig{
		Limit:      5,
		Window:     15 * time.Minute,
		Identifier: dto.IdentifierIP,
		Message:    "Too many registration attempts. Please try again later.",
	})
	p.Add("/api/v1/moods", RateLimitConfig{
		Limit:      30,
		Window:     time.Minute,
		Identifier: dto.IdentifierBoth,
		Message:    "Too many mood check-ins. Please slow down.",
	})
	p.Add("/api/v1/forum/*", RateLimitConfig{
		Limit:      60,
		Window:     time.Minute,
		Identifier: dto.IdentifierUser,
		Message:    "Too many forum requests. Please slow down.",
	})
	p.Add("/api/v1/admin/*", RateLimitConfig{
		Limit:      120,
		Window:     time.Minute,
		Identifier: dto.IdentifierUser,
		Message:    "Too many admin requests. Please slow down.",
	})
	p.Add("/api/v1/jobs/*", RateLimitConfig{
		Limit:      20,
		Window:     time.Minute,
		Identifier: dto.IdentifierBoth,
		Message:    "Too many job triggers. Please slow down.",
	})

	return p
}
