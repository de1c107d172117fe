package session

import (
	"context"
	"fmt"

	"documind/internal/api"
)

// SetAPIBase stores the raw URL field and re-checks health against it.
func (s *Session) SetAPIBase(ctx context.Context, raw string) HealthStatus {
	s.mu.Lock()
	s.apiBase = raw
	s.mu.Unlock()

	return s.CheckHealth(ctx)
}

// CheckHealth makes one bounded GET {base}/health and updates the indicator
// and send availability. Concurrent checks are allowed; the last one to
// finish wins.
func (s *Session) CheckHealth(ctx context.Context) HealthStatus {
	s.mu.Lock()
	s.health = HealthChecking
	base := ResolveAPIBase(s.apiBase, s.origin)
	s.mu.Unlock()
	s.publish()

	hctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()
	err := s.client(base).Health(hctx)

	s.mu.Lock()
	switch se, isStatus := api.AsStatusError(err); {
	case err == nil:
		s.health = HealthOnline
		s.healthReason = ""
		s.status = "Connected"
		s.sendEnabled = true
	case isStatus:
		s.health = HealthOffline
		s.healthReason = fmt.Sprintf("HTTP %d from %s/health", se.Code, base)
		s.status = fmt.Sprintf("Error %d", se.Code)
		s.sendEnabled = false
	default:
		s.health = HealthOffline
		s.healthReason = describeError(err)
		s.status = "Disconnected"
		s.sendEnabled = false
	}
	health, reason := s.health, s.healthReason
	s.mu.Unlock()

	if health == HealthOnline {
		s.logger.Debug("Health check passed", "base", base)
	} else {
		s.logger.Warn("Health check failed", "base", base, "reason", reason)
	}
	s.publish()
	return health
}
