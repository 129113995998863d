// Package worker mirrors the local SQLite ledger into the spreadsheet and
// the names/catalog tabs back down.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"strichliste/internal/amqp"
	"strichliste/internal/ledger"
	"strichliste/internal/storage"
)

// Remote is the spreadsheet side of the sync: rows are appended to it and
// the names/catalog tabs are read from it.
type Remote interface {
	ledger.NameReader
	ledger.CatalogReader
	ledger.ChargeWriter
	ledger.PaymentWriter
}

// SyncWorker drains unsynced charges and payments from SQLite into the
// spreadsheet. Messages only tell it that work exists; the rows themselves
// come from the database, so redelivered messages are harmless.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	remote    Remote
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, remote Remote, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single sync message from AMQP. The ref is
// informational only: the worker drains everything pending of that kind, so
// a lost or duplicated message never loses or duplicates rows.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"kind", msg.Kind,
		"ref", msg.Ref)

	switch msg.Kind {
	case amqp.KindCharge:
		return w.pushCharges(ctx)
	case amqp.KindPayment:
		return w.pushPayments(ctx)
	default:
		return fmt.Errorf("unknown sync message kind %q", msg.Kind)
	}
}

// ProcessPending pushes any rows that have not been mirrored yet. This is a
// backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	if err := w.pushCharges(ctx); err != nil {
		return err
	}
	return w.pushPayments(ctx)
}

// StartupSyncCheck refreshes the local names/catalog mirror and drains rows
// that accumulated while the worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	if err := w.RefreshMirror(ctx); err != nil {
		slog.WarnContext(ctx, "Mirror refresh failed on startup, keeping local copy", "error", err)
	}
	return w.ProcessPending(ctx)
}

// RefreshMirror copies the names and catalog tabs from the spreadsheet into
// SQLite. Each tab is replaced independently; one failing tab does not block
// the other.
func (w *SyncWorker) RefreshMirror(ctx context.Context) error {
	var firstErr error

	names, err := w.remote.ListNames(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read names tab", "error", err)
		firstErr = fmt.Errorf("read names: %w", err)
	} else if err := w.storage.ReplaceNames(ctx, names); err != nil {
		firstErr = fmt.Errorf("replace names: %w", err)
	} else {
		slog.InfoContext(ctx, "Names mirrored to SQLite", "count", len(names))
	}

	catalog, err := w.remote.ListCatalog(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read catalog tab", "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("read catalog: %w", err)
		}
	} else if err := w.storage.ReplaceCatalog(ctx, catalog); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("replace catalog: %w", err)
		}
	} else {
		slog.InfoContext(ctx, "Catalog mirrored to SQLite", "count", len(catalog))
	}

	return firstErr
}

func (w *SyncWorker) pushCharges(ctx context.Context) error {
	pending, err := w.storage.UnsyncedCharges(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending charges: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Pushing pending charges", "count", len(pending))

	var firstErr error
	for _, p := range pending {
		if _, err := w.remote.RecordCharge(ctx, p.Charge); err != nil {
			slog.ErrorContext(ctx, "Failed to push charge",
				"ref", p.Ref,
				"person", p.Charge.Person,
				"error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("push charge %s: %w", p.Ref, err)
			}
			continue
		}
		if err := w.storage.MarkEntriesSynced(ctx, p.IDs); err != nil {
			// The push worked; the rows will be re-pushed and the sheet
			// gets duplicates, which is the lesser evil.
			slog.ErrorContext(ctx, "Failed to mark charge synced", "ref", p.Ref, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Charge mirrored to spreadsheet",
			"ref", p.Ref,
			"person", p.Charge.Person,
			"rows", len(p.IDs))
	}
	return firstErr
}

func (w *SyncWorker) pushPayments(ctx context.Context) error {
	pending, err := w.storage.UnsyncedPayments(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending payments: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Pushing pending payments", "count", len(pending))

	var firstErr error
	for _, p := range pending {
		if _, err := w.remote.RecordPayment(ctx, p.Payment); err != nil {
			slog.ErrorContext(ctx, "Failed to push payment",
				"ref", p.Ref,
				"person", p.Payment.Person,
				"error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("push payment %s: %w", p.Ref, err)
			}
			continue
		}
		if err := w.storage.MarkPaymentSynced(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark payment synced", "ref", p.Ref, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Payment mirrored to spreadsheet",
			"ref", p.Ref,
			"person", p.Payment.Person,
			"amount_cents", p.Payment.Amount.Cents)
	}
	return firstErr
}
