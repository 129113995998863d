package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"strichliste/internal/core"
	"strichliste/internal/ledger"
)

// Snapshot is the last successfully loaded state of the four ledger tabs.
// Slices are read-only once published.
type Snapshot struct {
	Names    []string
	Catalog  []core.CatalogItem
	Entries  []core.Entry
	Payments []core.PaymentRecord
}

// SnapshotService fetches and holds ledger snapshots. Reload is best-effort:
// the four fetches run concurrently, each failure is logged and leaves the
// previous value of that slice in place, and no failure aborts the others.
type SnapshotService struct {
	reader ledger.Reader

	mu   sync.RWMutex
	snap Snapshot
}

func NewSnapshotService(reader ledger.Reader) *SnapshotService {
	return &SnapshotService{reader: reader}
}

// Snapshot returns the current snapshot.
func (s *SnapshotService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// BalanceFor computes a person's balance from the current snapshot.
func (s *SnapshotService) BalanceFor(person string) core.Balance {
	snap := s.Snapshot()
	return core.BalanceFor(person, snap.Entries, snap.Payments)
}

// Reload refreshes all four tabs. Names get sorted with German collation
// here; the collaborator returns them in sheet order.
func (s *SnapshotService) Reload(ctx context.Context) {
	var (
		names    []string
		catalog  []core.CatalogItem
		entries  []core.Entry
		payments []core.PaymentRecord

		nameErr, catalogErr, entryErr, paymentErr error
	)

	// Errors stay per-fetch; the group is only used to wait, never to
	// cancel the siblings.
	var g errgroup.Group
	g.Go(func() error { names, nameErr = s.reader.ListNames(ctx); return nil })
	g.Go(func() error { catalog, catalogErr = s.reader.ListCatalog(ctx); return nil })
	g.Go(func() error { entries, entryErr = s.reader.ListEntries(ctx); return nil })
	g.Go(func() error { payments, paymentErr = s.reader.ListPayments(ctx); return nil })
	_ = g.Wait()

	if nameErr == nil {
		sortGerman(names)
	}

	s.mu.Lock()
	if nameErr == nil {
		s.snap.Names = names
	}
	if catalogErr == nil {
		s.snap.Catalog = catalog
	}
	if entryErr == nil {
		s.snap.Entries = entries
	}
	if paymentErr == nil {
		s.snap.Payments = payments
	}
	s.mu.Unlock()

	for _, f := range []struct {
		tab string
		err error
	}{
		{"names", nameErr},
		{"catalog", catalogErr},
		{"entries", entryErr},
		{"payments", paymentErr},
	} {
		if f.err != nil {
			slog.WarnContext(ctx, "Snapshot fetch failed, keeping previous data",
				"tab", f.tab, "error", f.err)
		}
	}
}

func sortGerman(names []string) {
	collate.New(language.German).SortStrings(names)
}
