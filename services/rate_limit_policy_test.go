package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moodz-app/moodz_api/dto"
	"github.com/moodz-app/moodz_api/shared"
)

func testPolicy() *RateLimitPolicy {
	return NewRateLimitPolicy(
		RateLimitConfig{Limit: 100, Window: 15 * time.Minute, Identifier: dto.IdentifierIP},
		map[string]float64{
			shared.RoleTherapist: 1.5,
			shared.RoleAdmin:     2,
		},
	)
}

func TestPolicyExactMatchWinsOverWildcard(t *testing.T) {
	p := testPolicy()
	p.Add("/api/admin/*", RateLimitConfig{Limit: 10, Window: time.Minute, Identifier: dto.IdentifierUser})
	p.Add("/api/admin/stats", RateLimitConfig{Limit: 99, Window: time.Minute, Identifier: dto.IdentifierUser})

	assert.Equal(t, 99, p.GetConfig("/api/admin/stats").Limit)
	assert.Equal(t, 10, p.GetConfig("/api/admin/users").Limit)
}

func TestPolicyWildcardMatchesNestedPaths(t *testing.T) {
	p := testPolicy()
	p.Add("/api/admin/*", RateLimitConfig{Limit: 10, Window: time.Minute, Identifier: dto.IdentifierUser})

	assert.Equal(t, 10, p.GetConfig("/api/admin/users").Limit)
	assert.Equal(t, 10, p.GetConfig("/api/admin/reports/export").Limit)
	assert.Equal(t, 100, p.GetConfig("/api/admin").Limit, "prefix itself is not covered by the wildcard")
	assert.Equal(t, 100, p.GetConfig("/api/other").Limit)
}

func TestPolicyWildcardDeclarationOrder(t *testing.T) {
	p := testPolicy()
	p.Add("/api/v1/forum/mod/*", RateLimitConfig{Limit: 5, Window: time.Minute, Identifier: dto.IdentifierUser})
	p.Add("/api/v1/forum/*", RateLimitConfig{Limit: 60, Window: time.Minute, Identifier: dto.IdentifierUser})

	assert.Equal(t, 5, p.GetConfig("/api/v1/forum/mod/queue").Limit)
	assert.Equal(t, 60, p.GetConfig("/api/v1/forum/posts").Limit)
}

func TestPolicyUnmatchedPathFallsBackToDefault(t *testing.T) {
	p := testPolicy()
	config := p.GetConfig("/api/v1/anything")

	assert.Equal(t, 100, config.Limit)
	assert.Equal(t, dto.IdentifierIP, config.Identifier)
}

func TestPolicyRoleMultiplierFloors(t *testing.T) {
	p := testPolicy()

	assert.Equal(t, 15, p.ApplyRoleMultiplier(10, shared.RoleTherapist))
	assert.Equal(t, 22, p.ApplyRoleMultiplier(15, shared.RoleTherapist), "22.5 rounds down")
	assert.Equal(t, 20, p.ApplyRoleMultiplier(10, shared.RoleAdmin))
	assert.Equal(t, 10, p.ApplyRoleMultiplier(10, shared.RolePatient), "unknown role keeps the base limit")
	assert.Equal(t, 10, p.ApplyRoleMultiplier(10, ""))
}

func TestPolicyMergeOverride(t *testing.T) {
	p := testPolicy()
	base := RateLimitConfig{Limit: 100, Window: 15 * time.Minute, Identifier: dto.IdentifierIP, Message: "base"}

	merged := p.Merge(base, nil)
	assert.Equal(t, base, merged)

	merged = p.Merge(base, &dto.RateLimitOverride{Limit: 5, Message: "custom"})
	assert.Equal(t, 5, merged.Limit)
	assert.Equal(t, 15*time.Minute, merged.Window, "zero fields keep base values")
	assert.Equal(t, dto.IdentifierIP, merged.Identifier)
	assert.Equal(t, "custom", merged.Message)

	merged = p.Merge(base, &dto.RateLimitOverride{Window: time.Minute, Identifier: dto.IdentifierBoth})
	assert.Equal(t, 100, merged.Limit)
	assert.Equal(t, time.Minute, merged.Window)
	assert.Equal(t, dto.IdentifierBoth, merged.Identifier)
}

func TestDefaultPolicyRouteTable(t *testing.T) {
	p := DefaultRateLimitPolicy()

	login := p.GetConfig("/api/v1/login")
	assert.Equal(t, 10, login.Limit)
	assert.Equal(t, 15*time.Minute, login.Window)
	assert.Equal(t, dto.IdentifierIP, login.Identifier)

	register := p.GetConfig("/api/v1/register")
	assert.Equal(t, 5, register.Limit)

	moods := p.GetConfig("/api/v1/moods")
	assert.Equal(t, 30, moods.Limit)
	assert.Equal(t, dto.IdentifierBoth, moods.Identifier)

	forum := p.GetConfig("/api/v1/forum/posts/123/replies")
	assert.Equal(t, 60, forum.Limit)
	assert.Equal(t, dto.IdentifierUser, forum.Identifier)

	fallback := p.GetConfig("/api/v1/sessions")
	assert.Equal(t, 100, fallback.Limit)
}
