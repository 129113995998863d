// Package services orchestrates submissions against the ledger and keeps the
// snapshot of its four tabs. It is the only part of the system with side
// effects; the core underneath it is pure.
package services

import (
	"context"
	"log/slog"
	"strings"

	"strichliste/internal/core"
	"strichliste/internal/ledger"
	"strichliste/internal/session"
)

// SubmissionService sequences the ledger writes of the three submission
// flows. Validation failures surface before any network effect; the session
// phase machine rejects a second submission while one is in flight.
type SubmissionService struct {
	sess      *session.Session
	writer    ledger.Writer
	snapshots *SnapshotService
}

func NewSubmissionService(sess *session.Session, writer ledger.Writer, snapshots *SnapshotService) *SubmissionService {
	return &SubmissionService{sess: sess, writer: writer, snapshots: snapshots}
}

// buildCharge assembles and validates the charge from the current session
// selections. No side effects; callers decide whether to begin a phase.
func (s *SubmissionService) buildCharge() (core.Charge, error) {
	person, quantities, draft := s.sess.Selections()
	if strings.TrimSpace(person) == "" {
		return core.Charge{}, core.ErrNoPersonSelected
	}
	items, err := core.BuildLineItems(s.snapshots.Snapshot().Catalog, quantities, draft)
	if err != nil {
		return core.Charge{}, err
	}
	if len(items) == 0 {
		return core.Charge{}, core.ErrNoItems
	}
	return core.Charge{Person: person, Items: items}, nil
}

// SubmitCharge records the pending selections as an open charge. On success
// the selections are cleared and a full reload runs; on failure everything
// stays as entered for a retry.
func (s *SubmissionService) SubmitCharge(ctx context.Context) (string, error) {
	charge, err := s.buildCharge()
	if err != nil {
		return "", err
	}
	if err := s.sess.Begin(session.PhaseSubmittingCharge); err != nil {
		return "", err
	}
	defer s.sess.Finish()

	ref, err := s.writer.RecordCharge(ctx, charge)
	if err != nil {
		return "", &ChargeError{Err: err}
	}
	slog.InfoContext(ctx, "Charge recorded",
		"person", charge.Person,
		"items", len(charge.Items),
		"total_cents", charge.Total().Cents,
		"ref", ref)

	s.Reload(ctx)
	return ref, nil
}

// SubmitChargeAndSettle records the charge and immediately records a payment
// over its exact total. The payment is only attempted once the charge write
// succeeded. A payment failure after a recorded charge is a PartialError:
// the ledger did change, so the reload still runs.
func (s *SubmissionService) SubmitChargeAndSettle(ctx context.Context) (string, error) {
	charge, err := s.buildCharge()
	if err != nil {
		return "", err
	}
	if err := s.sess.Begin(session.PhaseSubmittingSettle); err != nil {
		return "", err
	}
	defer s.sess.Finish()

	ref, err := s.writer.RecordCharge(ctx, charge)
	if err != nil {
		return "", &ChargeError{Err: err}
	}

	payment := core.Payment{Person: charge.Person, Amount: charge.Total()}
	if _, err := s.writer.RecordPayment(ctx, payment); err != nil {
		slog.ErrorContext(ctx, "Charge recorded but settling payment failed",
			"person", charge.Person,
			"amount_cents", payment.Amount.Cents,
			"charge_ref", ref,
			"error", err)
		s.Reload(ctx)
		return ref, &PartialError{ChargeRef: ref, Err: err}
	}

	slog.InfoContext(ctx, "Charge recorded and settled",
		"person", charge.Person,
		"amount_cents", payment.Amount.Cents,
		"ref", ref)
	s.Reload(ctx)
	return ref, nil
}

// SubmitPayment records the keypad amount as a standalone payment. On
// success the keypad is cleared and a full reload runs; on failure the
// entered amount stays for a retry.
func (s *SubmissionService) SubmitPayment(ctx context.Context) (string, error) {
	person := s.sess.Person()
	if strings.TrimSpace(person) == "" {
		return "", core.ErrNoPersonSelected
	}
	amount := s.sess.PaymentCents().Money()
	if amount.Cents <= 0 {
		return "", core.ErrInvalidAmount
	}
	if err := s.sess.Begin(session.PhaseSubmittingPayment); err != nil {
		return "", err
	}
	defer s.sess.Finish()

	ref, err := s.writer.RecordPayment(ctx, core.Payment{Person: person, Amount: amount})
	if err != nil {
		return "", &PaymentError{Err: err}
	}
	slog.InfoContext(ctx, "Payment recorded",
		"person", person,
		"amount_cents", amount.Cents,
		"ref", ref)

	s.sess.ResetPayment()
	s.Reload(ctx)
	return ref, nil
}

// Reload refreshes the snapshot and clears the pending selections, which is
// the unconditional rule on every reload — manual refresh included.
func (s *SubmissionService) Reload(ctx context.Context) {
	s.snapshots.Reload(ctx)
	s.sess.Clear()
}
