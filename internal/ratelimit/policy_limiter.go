package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// LimitExceeded reports the window a held-back request would have overrun.
type LimitExceeded struct {
	Scope  Scope
	Config LimitConfig
	Count  int64
}

func (e *LimitExceeded) Error() string {
	return fmt.Sprintf("%s scope: %d/%d requests in %s", e.Scope, e.Count, e.Config.Max, e.Config.Window)
}

// PolicyLimiter throttles the requests one visitor sends to the API.
// Counters are keyed by visitor token so processes sharing a Redis store share a budget.
type PolicyLimiter struct {
	store  Store
	policy *Policy
}

// NewPolicyLimiter throttles according to policy, counting in store.
func NewPolicyLimiter(store Store, policy *Policy) *PolicyLimiter {
	return &PolicyLimiter{store: store, policy: policy}
}

// Allow records one request for token under every scope the policy limits and
// reports false with the first exceeded limit once a window is full.
func (l *PolicyLimiter) Allow(ctx context.Context, token string, scopes []Scope) (bool, *LimitExceeded, error) {
	if l.policy.Empty() {
		return true, nil, nil
	}

	for _, scope := range scopes {
		exceeded, err := l.check(ctx, token, scope)
		if err != nil {
			return false, nil, fmt.Errorf("record %s request: %w", scope, err)
		}

		if exceeded != nil {
			return false, exceeded, nil
		}
	}

	return true, nil, nil
}

func (l *PolicyLimiter) check(ctx context.Context, token string, scope Scope) (*LimitExceeded, error) {
	for _, limit := range l.policy.Limits[scope] {
		count, err := l.store.Record(ctx, counterKey(token, scope, limit), limit.Window)
		if err != nil {
			return nil, err
		}

		if count > limit.Max {
			return &LimitExceeded{Scope: scope, Config: limit, Count: count}, nil
		}
	}

	return nil, nil
}

// counterKey is "<token>:<scope>:<window ms>", one counter per window length.
func counterKey(token string, scope Scope, limit LimitConfig) string {
	return strings.Join([]string{token, string(scope), strconv.FormatInt(limit.Window.Milliseconds(), 10)}, ":")
}
