package storage

import (
	"context"
	"path/filepath"
	"testing"

	"strichliste/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordChargeRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ref, err := repo.RecordCharge(ctx, core.Charge{
		Person: "Anna",
		Items: []core.LineItem{
			{Title: "Bier", UnitPrice: core.Money{Cents: 350}, Quantity: 2},
			{Title: "Limo", UnitPrice: core.Money{Cents: 250}, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("record charge: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected a charge ref")
	}

	entries, err := repo.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(entries))
	}
	if entries[0].Person != "Anna" || entries[0].UnitPrice.Cents != 350 || entries[0].Quantity != 2 {
		t.Fatalf("unexpected row: %+v", entries[0])
	}
}

func TestRecordChargeValidates(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.RecordCharge(context.Background(), core.Charge{Person: "Anna"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestUnsyncedChargesGroupedByRef(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ref1, _ := repo.RecordCharge(ctx, core.Charge{Person: "Anna", Items: []core.LineItem{
		{Title: "Bier", UnitPrice: core.Money{Cents: 350}, Quantity: 2},
		{Title: "Limo", UnitPrice: core.Money{Cents: 250}, Quantity: 1},
	}})
	ref2, _ := repo.RecordCharge(ctx, core.Charge{Person: "Ben", Items: []core.LineItem{
		{Title: "Wasser", UnitPrice: core.Money{Cents: 100}, Quantity: 1},
	}})

	pending, err := repo.UnsyncedCharges(ctx, 10)
	if err != nil {
		t.Fatalf("unsynced charges: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(pending))
	}
	if pending[0].Ref != ref1 || len(pending[0].Charge.Items) != 2 || len(pending[0].IDs) != 2 {
		t.Fatalf("unexpected first charge: %+v", pending[0])
	}
	if pending[1].Ref != ref2 || pending[1].Charge.Person != "Ben" {
		t.Fatalf("unexpected second charge: %+v", pending[1])
	}

	if err := repo.MarkEntriesSynced(ctx, pending[0].IDs); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.UnsyncedCharges(ctx, 10)
	if err != nil {
		t.Fatalf("unsynced charges: %v", err)
	}
	if len(pending) != 1 || pending[0].Ref != ref2 {
		t.Fatalf("expected only the second charge pending, got %+v", pending)
	}
}

func TestPaymentsRoundTripAndSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.RecordPayment(ctx, core.Payment{Person: "Anna", Amount: core.Money{Cents: 1250}}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	payments, err := repo.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 || payments[0].Amount.Cents != 1250 {
		t.Fatalf("unexpected payments: %+v", payments)
	}

	pending, err := repo.UnsyncedPayments(ctx, 10)
	if err != nil {
		t.Fatalf("unsynced payments: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending payment, got %d", len(pending))
	}
	if err := repo.MarkPaymentSynced(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.UnsyncedPayments(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected no pending payments, got %d", len(pending))
	}
}

func TestReplaceNamesAndCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceNames(ctx, []string{"Ben", "Anna"}); err != nil {
		t.Fatalf("replace names: %v", err)
	}
	names, err := repo.ListNames(ctx)
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %v", names)
	}

	catalog := []core.CatalogItem{
		{Title: "Limo", UnitPrice: core.Money{Cents: 250}},
		{Title: "Bier", UnitPrice: core.Money{Cents: 350}, ImageRef: "bier.png"},
	}
	if err := repo.ReplaceCatalog(ctx, catalog); err != nil {
		t.Fatalf("replace catalog: %v", err)
	}
	got, err := repo.ListCatalog(ctx)
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	// Sheet order, not alphabetical.
	if len(got) != 2 || got[0].Title != "Limo" || got[1].ImageRef != "bier.png" {
		t.Fatalf("unexpected catalog: %+v", got)
	}

	// Replace is a full mirror, not a merge.
	if err := repo.ReplaceCatalog(ctx, catalog[:1]); err != nil {
		t.Fatalf("replace catalog: %v", err)
	}
	got, _ = repo.ListCatalog(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 item after mirror, got %d", len(got))
	}
}
