package ratelimit

import "time"

// LimitConfig allows at most Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Policy maps scopes to the limits enforced for them.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// WritePolicy limits write requests to max per minute. A non-positive max yields an empty policy.
func WritePolicy(max int64) *Policy {
	policy := &Policy{Limits: map[Scope][]LimitConfig{}}
	if max > 0 {
		policy.Limits[ScopeWrite] = []LimitConfig{{Window: time.Minute, Max: max}}
	}

	return policy
}

// Empty reports whether the policy enforces nothing.
func (p *Policy) Empty() bool {
	return p == nil || len(p.Limits) == 0
}
