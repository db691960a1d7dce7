package history

import (
	"context"
	"log/slog"

	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/telemetry/logging"
)

// Recorder stores reports as they are produced.
type Recorder struct {
	store  Storage
	logger *slog.Logger
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store Storage, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record stores report under source. Storage failures are logged and
// returned; they never change the validation result.
func (r *Recorder) Record(ctx context.Context, report *engine.Report, source string) error {
	entry := NewEntry(report, source)
	entry.RequestID = logging.GetRequestID(ctx)

	if err := r.store.Store(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "failed to store report", "report_id", report.ID, "error", err)
		return err
	}
	r.logger.DebugContext(ctx, "report stored", "report_id", report.ID, "source", source)
	return nil
}
