package services

import "fmt"

// ChargeError reports a rejected charge write. The entered selections are
// preserved for a retry and no reload happened.
type ChargeError struct {
	Err error
}

func (e *ChargeError) Error() string { return fmt.Sprintf("record charge: %v", e.Err) }
func (e *ChargeError) Unwrap() error { return e.Err }

// PaymentError reports a rejected standalone payment write. The entered
// amount is preserved for a retry.
type PaymentError struct {
	Err error
}

func (e *PaymentError) Error() string { return fmt.Sprintf("record payment: %v", e.Err) }
func (e *PaymentError) Unwrap() error { return e.Err }

// PartialError reports the one genuinely dangerous outcome: during a
// charge-and-settle submission the charge was durably recorded but the
// payment write failed. It must never be conflated with ChargeError — the
// ledger did change, a reload has already run, and the user has to be told
// the payment may need to be entered separately.
type PartialError struct {
	ChargeRef string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("charge %s recorded but payment failed: %v", e.ChargeRef, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
