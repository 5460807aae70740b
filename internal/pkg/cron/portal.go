package cron

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper ends sessions idle for longer than the given duration.
type SessionSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

// TokenPruner forgets revoked tokens that can no longer verify anyway.
type TokenPruner interface {
	PruneRevoked() int
}

// PortalJobs are the portal's housekeeping tasks.
type PortalJobs struct {
	sessions    SessionSweeper
	tokens      TokenPruner
	sessionIdle time.Duration
}

func NewPortalJobs(sessions SessionSweeper, tokens TokenPruner, sessionIdle time.Duration) *PortalJobs {
	return &PortalJobs{
		sessions:    sessions,
		tokens:      tokens,
		sessionIdle: sessionIdle,
	}
}

// Register adds the jobs to s, each running every interval.
func (j *PortalJobs) Register(s *Scheduler, interval time.Duration) {
	s.AddJob("sweep_idle_sessions", interval, j.SweepIdleSessions)
	s.AddJob("prune_revoked_tokens", interval, j.PruneRevokedTokens)
}

func (j *PortalJobs) SweepIdleSessions(ctx context.Context) error {
	ended, err := j.sessions.Sweep(ctx, j.sessionIdle)
	if ended > 0 {
		slog.Info("Idle sessions ended", "count", ended)
	}
	return err
}

func (j *PortalJobs) PruneRevokedTokens(ctx context.Context) error {
	if pruned := j.tokens.PruneRevoked(); pruned > 0 {
		slog.Info("Revoked tokens pruned", "count", pruned)
	}
	return nil
}
