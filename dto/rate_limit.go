package dto

import "time"

// Identifier selects how a rate-limit key is composed.
type Identifier string

const (
	IdentifierIP   Identifier = "ip"
	IdentifierUser Identifier = "user"
	IdentifierBoth Identifier = "both"
)

// RateLimitOverride is a caller-supplied partial config merged on top of
// the resolved route config, field by field. Zero values mean "keep base".
type RateLimitOverride struct {
	Limit      int
	Window     time.Duration
	Identifier Identifier
	Message    string
}

// RateLimitResult is the outcome of a single limiter decision.
type RateLimitResult struct {
	Allowed   bool       `json:"allowed"`
	Limit     int        `json:"limit"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// RetryAfterSeconds is the whole-second delay until ResetAt, floored at zero.
func (r *RateLimitResult) RetryAfterSeconds(now time.Time) int {
	if r.ResetAt == nil {
		return 0
	}
	secs := int(r.ResetAt.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

type RateLimitKeyStat struct {
	Key          string `json:"key"`
	RequestCount int    `json:"request_count"`
}

type RateLimitStats struct {
	TotalEntries   int64              `json:"total_entries"`
	ExpiredEntries int64              `json:"expired_entries"`
	TopKeys        []RateLimitKeyStat `json:"top_keys"`
	Timestamp      time.Time          `json:"timestamp"`
}
