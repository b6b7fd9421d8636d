package apply

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/gdmswitch/internal/gdmconf"
)

// DefaultTimeout bounds each apply step. It covers the polkit prompt.
const DefaultTimeout = 2 * time.Minute

// Writer persists config bytes to path.
type Writer interface {
	Write(ctx context.Context, path string, content []byte) error
}

// Restarter restarts the display manager.
type Restarter interface {
	Restart(ctx context.Context) error
}

// Applier writes a document and restarts the display manager as one unit.
type Applier struct {
	writer    Writer
	restarter Restarter
	timeout   time.Duration
	logger    *slog.Logger
}

// NewApplier creates an Applier. A zero timeout uses DefaultTimeout.
func NewApplier(writer Writer, restarter Restarter, timeout time.Duration, logger *slog.Logger) *Applier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{
		writer:    writer,
		restarter: restarter,
		timeout:   timeout,
		logger:    logger,
	}
}

// Apply writes doc to path, then restarts the display manager.
// The restart is never attempted when the write fails. A RestartFailed error
// means the new config is on disk but not yet active.
func (a *Applier) Apply(ctx context.Context, doc gdmconf.Document, path string) error {
	if err := a.write(ctx, doc, path); err != nil {
		a.logger.Error("config write failed", "path", path, "error", err)
		return err
	}
	a.logger.Info("config written", "path", path, "bytes", len(doc.Bytes()))

	if err := a.restart(ctx, path); err != nil {
		a.logger.Error("display manager restart failed", "path", path, "error", err)
		return err
	}
	a.logger.Info("display manager restart issued")
	return nil
}

func (a *Applier) write(ctx context.Context, doc gdmconf.Document, path string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.writer.Write(ctx, path, doc.Bytes()); err != nil {
		return stepError(ctx, stepWrite, path, err)
	}
	return nil
}

func (a *Applier) restart(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.restarter.Restart(ctx); err != nil {
		return stepError(ctx, stepRestart, path, err)
	}
	return nil
}
