// Package session holds the mutable state of one kiosk session: the selected
// person, pending catalog quantities, the custom-item draft, the payment
// keypad and the submission phase.
package session

import (
	"errors"
	"sync"

	"strichliste/internal/core"
)

// Phase is the submission state machine. Exactly one submission may be in
// flight at a time; the three submitting phases are mutually exclusive with
// each other and with themselves.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmittingCharge
	PhaseSubmittingSettle
	PhaseSubmittingPayment
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmittingCharge:
		return "submitting_charge"
	case PhaseSubmittingSettle:
		return "submitting_settle"
	case PhaseSubmittingPayment:
		return "submitting_payment"
	default:
		return "unknown"
	}
}

var ErrSubmissionInFlight = errors.New("submission already in flight")

// Session is safe for concurrent use. Quantity and draft edits stay allowed
// while a submission is in flight; only starting another submission is
// blocked.
type Session struct {
	mu           sync.Mutex
	person       string
	quantities   map[string]int
	draft        core.CustomItemDraft
	paymentCents core.CentAmount
	phase        Phase
}

func New() *Session {
	return &Session{quantities: make(map[string]int)}
}

// SelectPerson sets (or with an empty name clears) the selected person.
func (s *Session) SelectPerson(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.person = name
}

func (s *Session) Person() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.person
}

// AdjustQuantity shifts the pending quantity of a catalog title by delta,
// flooring at zero. Zero entries are pruned; a quantity of zero is
// semantically absent. Returns the new quantity.
func (s *Session) AdjustQuantity(title string, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.quantities[title] + delta
	if q <= 0 {
		delete(s.quantities, title)
		return 0
	}
	s.quantities[title] = q
	return q
}

// Quantities returns a copy of the pending quantities.
func (s *Session) Quantities() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.quantities))
	for k, v := range s.quantities {
		out[k] = v
	}
	return out
}

func (s *Session) SetCustomTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Title = title
}

func (s *Session) SetCustomQuantity(q int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Quantity = q
}

// CustomPriceKey feeds one keypad key into the custom item's price. Returns
// false for keys the keypad does not handle.
func (s *Session) CustomPriceKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := core.ApplyKey(s.draft.PriceCents, key)
	s.draft.PriceCents = next
	return ok
}

func (s *Session) Draft() core.CustomItemDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// PaymentKey feeds one keypad key into the standalone payment amount.
func (s *Session) PaymentKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := core.ApplyKey(s.paymentCents, key)
	s.paymentCents = next
	return ok
}

func (s *Session) PaymentCents() core.CentAmount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentCents
}

// ResetPayment zeroes the payment keypad, the explicit action behind closing
// the payment surface or completing a payment.
func (s *Session) ResetPayment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentCents = 0
}

// Selections returns an atomic snapshot of everything a charge submission
// needs: the selected person, the pending quantities and the custom draft.
func (s *Session) Selections() (string, map[string]int, core.CustomItemDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := make(map[string]int, len(s.quantities))
	for k, v := range s.quantities {
		q[k] = v
	}
	return s.person, q, s.draft
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Begin transitions Idle into the given submitting phase. Any other current
// phase fails with ErrSubmissionInFlight, which is what disables all
// submission entry points while one is running.
func (s *Session) Begin(p Phase) error {
	if p == PhaseIdle {
		return errors.New("cannot begin idle phase")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrSubmissionInFlight
	}
	s.phase = p
	return nil
}

// Finish returns the session to Idle regardless of outcome.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
}

// Clear wipes person, quantities and draft. Runs unconditionally after every
// successful reload; failed submissions never reach it, so entered selections
// survive for a retry.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.person = ""
	s.quantities = make(map[string]int)
	s.draft = core.CustomItemDraft{}
}
