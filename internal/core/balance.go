package core

// Balance is the reconciled tab of one person: everything ever charged,
// everything ever paid, and the difference.
type Balance struct {
	Charged     Money
	Paid        Money
	Outstanding Money
}

// BalanceFor derives a person's balance from the historical entries and
// payments. Person matching is exact string equality; no normalization.
// The result is recomputed on demand, never maintained incrementally —
// staleness is resolved by reloading the ledger snapshots.
func BalanceFor(person string, entries []Entry, payments []PaymentRecord) Balance {
	var charged, paid int64
	for _, e := range entries {
		if e.Person == person {
			charged += e.Total().Cents
		}
	}
	for _, p := range payments {
		if p.Person == person {
			paid += p.Amount.Cents
		}
	}
	return Balance{
		Charged:     Money{Cents: charged},
		Paid:        Money{Cents: paid},
		Outstanding: Money{Cents: charged - paid},
	}
}

// Settled reports whether the tab is closed. A negative outstanding amount
// means the person is in credit and still counts as settled.
func (b Balance) Settled() bool {
	return b.Outstanding.Cents <= 0
}
