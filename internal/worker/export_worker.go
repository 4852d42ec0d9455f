// Package worker drains the export queue, appending transaction records to
// the backup spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/amqp"
	"financas/internal/ledger"
	"financas/internal/sheets"
)

// ExportWorker copies transaction records from the ledger to the backup
// spreadsheet. It is driven by AMQP messages, with a periodic sweep of the
// pending set as a safety net for lost messages.
type ExportWorker struct {
	store     ledger.ExportStore
	appender  sheets.RowAppender
	batchSize int
}

func NewExportWorker(store ledger.ExportStore, appender sheets.RowAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP. The
// message only identifies the record; the current row is loaded from the
// database so a stale message never exports stale data.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.RecordExportMessage) error {
	slog.InfoContext(ctx, "processing export message",
		"message_id", msg.MessageID,
		"kind", msg.Kind,
		"id", msg.ID,
		"version", msg.Version)

	return w.exportRecord(ctx, msg.Kind, msg.ID)
}

// ProcessPending exports records that are still marked pending. This is the
// backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize)
}

// StartupCheck drains a larger pending batch once at worker startup, to
// recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize*5)
}

// Run performs the startup check and then sweeps the pending set every
// interval until ctx ends.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.StartupCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "startup export check failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "pending export sweep failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) drainPending(ctx context.Context, limit int) error {
	pending, err := w.store.GetPendingExports(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending exports", "count", len(pending))

	exported := 0
	for _, p := range pending {
		if err := w.exportRecord(ctx, p.Kind, p.ID); err != nil {
			slog.ErrorContext(ctx, "failed to export record",
				"kind", p.Kind, "id", p.ID, "error", err)
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "pending export sweep completed",
		"total", len(pending), "exported", exported)
	return nil
}

func (w *ExportWorker) exportRecord(ctx context.Context, kind string, id int64) error {
	var (
		ref string
		err error
	)
	switch kind {
	case ledger.KindIncome:
		var rec ledger.IncomeRecord
		if rec, err = w.store.GetIncome(ctx, id); err == nil {
			ref, err = w.appender.AppendIncome(ctx, rec)
		}
	case ledger.KindExpense:
		var rec ledger.ExpenseRecord
		if rec, err = w.store.GetExpense(ctx, id); err == nil {
			ref, err = w.appender.AppendExpense(ctx, rec)
		}
	default:
		return fmt.Errorf("unknown record kind: %s", kind)
	}

	// Deleted between publish and consume: nothing to export, and the
	// message must not be requeued forever.
	if errors.Is(err, ledger.ErrNotFound) {
		slog.WarnContext(ctx, "record gone before export, dropping",
			"kind", kind, "id", id)
		return nil
	}

	if err != nil {
		if markErr := w.store.MarkExportError(ctx, kind, id); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark export error",
				"kind", kind, "id", id, "error", markErr)
		}
		return fmt.Errorf("export %s %d: %w", kind, id, err)
	}

	if err := w.store.MarkExported(ctx, kind, id); err != nil {
		// The append succeeded; the periodic sweep will retry the mark.
		slog.ErrorContext(ctx, "failed to mark record exported",
			"kind", kind, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "record exported",
		"kind", kind, "id", id, "sheets_ref", ref)
	return nil
}
