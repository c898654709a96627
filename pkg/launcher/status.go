package launcher

import (
	"context"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/latency"
	"github.com/glorpus-work/relictum/pkg/model"
	"github.com/glorpus-work/relictum/pkg/update"
)

// VerifyIntegrity checks the running build against the trust table.
func (l *Launcher) VerifyIntegrity(ctx context.Context) model.IntegrityResult {
	result := l.verifier.Check(ctx)
	logger.Debug("Integrity check finished", logger.Fields{"status": result.Status})
	return result
}

// CheckUpdate looks for a newer release.
func (l *Launcher) CheckUpdate(ctx context.Context) (update.Release, error) {
	return l.updates.Check(ctx)
}

// Ping measures the TCP connect time to the configured login server in
// milliseconds, or latency.Unreachable.
func (l *Launcher) Ping(ctx context.Context) int64 {
	return latency.Measure(ctx, l.cfg.Latency.Address, l.cfg.Latency.Timeout)
}
