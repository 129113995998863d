package services

import (
	"context"
	"errors"
	"testing"

	"strichliste/internal/core"
	"strichliste/internal/session"
)

func newTestEnv(t *testing.T, fake *fakeLedger) (*session.Session, *SubmissionService) {
	t.Helper()
	if fake.catalog == nil {
		fake.catalog = []core.CatalogItem{
			{Title: "Bier", UnitPrice: core.Money{Cents: 350}},
			{Title: "Limo", UnitPrice: core.Money{Cents: 250}},
			{Title: "Wasser", UnitPrice: core.Money{Cents: 100}},
		}
	}
	sess := session.New()
	snapshots := NewSnapshotService(fake)
	snapshots.Reload(context.Background())
	return sess, NewSubmissionService(sess, fake, snapshots)
}

func TestSubmitChargeWithoutPerson(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.AdjustQuantity("Bier", 1)

	if _, err := svc.SubmitCharge(context.Background()); !errors.Is(err, core.ErrNoPersonSelected) {
		t.Fatalf("expected ErrNoPersonSelected, got %v", err)
	}
	if fake.writeCount() != 0 {
		t.Fatalf("validation failure must not reach the ledger")
	}
}

func TestEmptySubmissionRejectedInBothModes(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")

	if _, err := svc.SubmitCharge(context.Background()); !errors.Is(err, core.ErrNoItems) {
		t.Fatalf("charge-only: expected ErrNoItems, got %v", err)
	}
	if _, err := svc.SubmitChargeAndSettle(context.Background()); !errors.Is(err, core.ErrNoItems) {
		t.Fatalf("charge-and-settle: expected ErrNoItems, got %v", err)
	}
	if fake.writeCount() != 0 {
		t.Fatalf("no external call may be made for empty submissions")
	}
}

func TestIncompleteCustomPairRejected(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.SetCustomTitle("Brezn") // price never entered

	if _, err := svc.SubmitCharge(context.Background()); !errors.Is(err, core.ErrCustomPairIncomplete) {
		t.Fatalf("expected ErrCustomPairIncomplete, got %v", err)
	}
	if fake.writeCount() != 0 {
		t.Fatalf("validation failure must not reach the ledger")
	}
}

func TestSubmitChargeSuccessClearsAndReloads(t *testing.T) {
	fake := &fakeLedger{names: []string{"Anna"}}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Bier", 2)
	sess.SetCustomTitle("Brezn")
	sess.CustomPriceKey("9")
	sess.CustomPriceKey("0")

	reads := fake.readCount()
	ref, err := svc.SubmitCharge(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected charge ref")
	}
	if len(fake.charges) != 1 {
		t.Fatalf("expected 1 charge, got %d", len(fake.charges))
	}
	c := fake.charges[0]
	if len(c.Items) != 2 || c.Items[0].Title != "Bier" || c.Items[1].Title != "Brezn" {
		t.Fatalf("unexpected items: %+v", c.Items)
	}
	if c.Items[1].UnitPrice.Cents != 90 || c.Items[1].Quantity != 1 {
		t.Fatalf("custom item not built from draft: %+v", c.Items[1])
	}
	if sess.Person() != "" || len(sess.Quantities()) != 0 || !sess.Draft().IsEmpty() {
		t.Fatalf("session not cleared after success")
	}
	if fake.readCount() != reads+4 {
		t.Fatalf("expected a full reload (4 fetches), got %d extra", fake.readCount()-reads)
	}
	if sess.Phase() != session.PhaseIdle {
		t.Fatalf("phase must return to idle")
	}
}

func TestSubmitChargeFailureKeepsState(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Bier", 2)
	fake.chargeErr = errors.New("sheet unavailable")

	reads := fake.readCount()
	_, err := svc.SubmitCharge(context.Background())
	var chargeErr *ChargeError
	if !errors.As(err, &chargeErr) {
		t.Fatalf("expected ChargeError, got %v", err)
	}
	if sess.Person() != "Anna" || sess.Quantities()["Bier"] != 2 {
		t.Fatalf("entered selections must survive a failed charge")
	}
	if fake.readCount() != reads {
		t.Fatalf("no reload may run after a failed charge")
	}
	if sess.Phase() != session.PhaseIdle {
		t.Fatalf("phase must return to idle after failure")
	}
}

func TestSubmitChargeAndSettleAmount(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Limo", 2)   // 2 x 2.50
	sess.AdjustQuantity("Wasser", 1) // 1 x 1.00

	if _, err := svc.SubmitChargeAndSettle(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(fake.paid) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(fake.paid))
	}
	if fake.paid[0].Amount.Cents != 600 {
		t.Fatalf("settled amount = %d cents, want 600", fake.paid[0].Amount.Cents)
	}
	if fake.paid[0].Person != "Anna" {
		t.Fatalf("payment person = %q", fake.paid[0].Person)
	}
}

func TestSubmitChargeAndSettleChargeFailure(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Bier", 1)
	fake.chargeErr = errors.New("sheet unavailable")

	_, err := svc.SubmitChargeAndSettle(context.Background())
	var chargeErr *ChargeError
	if !errors.As(err, &chargeErr) {
		t.Fatalf("expected ChargeError, got %v", err)
	}
	if len(fake.paid) != 0 {
		t.Fatalf("payment must never be attempted after a failed charge")
	}
	if sess.Person() != "Anna" {
		t.Fatalf("state must survive a failed charge")
	}
}

func TestSubmitChargeAndSettlePartialFailure(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Bier", 2) // {titel: Bier, preis: 3.50, menge: 2}
	fake.payErr = errors.New("payment tab locked")

	reads := fake.readCount()
	_, err := svc.SubmitChargeAndSettle(context.Background())

	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	var chargeErr *ChargeError
	if errors.As(err, &chargeErr) {
		t.Fatalf("partial failure must not be reported as a charge failure")
	}
	if partial.ChargeRef == "" {
		t.Fatalf("partial error must carry the recorded charge ref")
	}
	if len(fake.charges) != 1 {
		t.Fatalf("the charge is durably recorded, got %d", len(fake.charges))
	}
	// The ledger changed, so the reload still runs and the state clears.
	if fake.readCount() != reads+4 {
		t.Fatalf("expected a reload after partial failure")
	}
	if sess.Person() != "" {
		t.Fatalf("session must be cleared after partial failure reload")
	}
}

func TestSubmitPayment(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)

	// No person selected.
	sess.PaymentKey("5")
	if _, err := svc.SubmitPayment(context.Background()); !errors.Is(err, core.ErrNoPersonSelected) {
		t.Fatalf("expected ErrNoPersonSelected, got %v", err)
	}

	// Zero amount.
	sess.SelectPerson("Anna")
	sess.ResetPayment()
	if _, err := svc.SubmitPayment(context.Background()); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if fake.writeCount() != 0 {
		t.Fatalf("validation failures must not reach the ledger")
	}

	// Success clears the keypad.
	for _, k := range []string{"1", "2", "5", "0"} {
		sess.PaymentKey(k)
	}
	if _, err := svc.SubmitPayment(context.Background()); err != nil {
		t.Fatalf("submit payment: %v", err)
	}
	if len(fake.paid) != 1 || fake.paid[0].Amount.Cents != 1250 {
		t.Fatalf("unexpected payment: %+v", fake.paid)
	}
	if sess.PaymentCents() != 0 {
		t.Fatalf("keypad must be cleared after success")
	}
}

func TestSubmitPaymentFailureKeepsAmount(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.PaymentKey("5")
	fake.payErr = errors.New("sheet unavailable")

	_, err := svc.SubmitPayment(context.Background())
	var payErr *PaymentError
	if !errors.As(err, &payErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if sess.PaymentCents() != 5 {
		t.Fatalf("entered amount must survive a failed payment")
	}
}

func TestSubmissionsMutuallyExclusive(t *testing.T) {
	fake := &fakeLedger{}
	sess, svc := newTestEnv(t, fake)
	sess.SelectPerson("Anna")
	sess.AdjustQuantity("Bier", 1)

	// Simulate an in-flight submission.
	if err := sess.Begin(session.PhaseSubmittingSettle); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.SubmitCharge(context.Background()); !errors.Is(err, session.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if fake.writeCount() != 0 {
		t.Fatalf("blocked submission must not reach the ledger")
	}
}
