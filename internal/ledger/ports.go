// Package ledger declares the collaborator ports of the tally core: the four
// reads and two writes everything else is built on. Transport, format and
// auth live in the adapters.
package ledger

import (
	"context"

	"strichliste/internal/core"
)

// Ports for outbound adapters.
type (
	NameReader interface {
		ListNames(ctx context.Context) ([]string, error)
	}

	CatalogReader interface {
		ListCatalog(ctx context.Context) ([]core.CatalogItem, error)
	}

	EntryReader interface {
		ListEntries(ctx context.Context) ([]core.Entry, error)
	}

	PaymentReader interface {
		ListPayments(ctx context.Context) ([]core.PaymentRecord, error)
	}

	ChargeWriter interface {
		// RecordCharge appends one ledger row per line item. The returned
		// reference groups the rows of one submission.
		RecordCharge(ctx context.Context, c core.Charge) (ref string, err error)
	}

	PaymentWriter interface {
		RecordPayment(ctx context.Context, p core.Payment) (ref string, err error)
	}

	// Reader bundles the four snapshot fetches.
	Reader interface {
		NameReader
		CatalogReader
		EntryReader
		PaymentReader
	}

	// Writer bundles the two ledger writes.
	Writer interface {
		ChargeWriter
		PaymentWriter
	}

	// Store is a full ledger backend.
	Store interface {
		Reader
		Writer
	}
)
