package core

import (
	"testing"
	"time"
)

func TestBalanceForEmptyLedger(t *testing.T) {
	b := BalanceFor("Anna", nil, nil)
	if b.Charged.Cents != 0 || b.Paid.Cents != 0 || b.Outstanding.Cents != 0 {
		t.Fatalf("expected zero balance, got %+v", b)
	}
	if !b.Settled() {
		t.Fatalf("zero balance must be settled")
	}
}

func TestBalanceForAdditivity(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Date: day, Person: "Anna", Title: "Bier", UnitPrice: Money{Cents: 350}, Quantity: 2},
		{Date: day, Person: "Anna", Title: "Limo", UnitPrice: Money{Cents: 250}, Quantity: 1},
		{Date: day, Person: "Ben", Title: "Bier", UnitPrice: Money{Cents: 350}, Quantity: 5},
	}
	payments := []PaymentRecord{
		{Date: day, Person: "Anna", Amount: Money{Cents: 500}},
		{Date: day, Person: "Ben", Amount: Money{Cents: 2000}},
	}

	b := BalanceFor("Anna", entries, payments)
	if b.Charged.Cents != 950 {
		t.Fatalf("charged = %d, want 950", b.Charged.Cents)
	}
	if b.Paid.Cents != 500 {
		t.Fatalf("paid = %d, want 500", b.Paid.Cents)
	}
	if b.Outstanding.Cents != b.Charged.Cents-b.Paid.Cents {
		t.Fatalf("outstanding = %d, want charged-paid", b.Outstanding.Cents)
	}
	if b.Settled() {
		t.Fatalf("Anna still owes, must not be settled")
	}

	// Ben overpaid: negative outstanding counts as settled credit.
	ben := BalanceFor("Ben", entries, payments)
	if ben.Outstanding.Cents != -250 {
		t.Fatalf("Ben outstanding = %d, want -250", ben.Outstanding.Cents)
	}
	if !ben.Settled() {
		t.Fatalf("credit balance must count as settled")
	}
}

func TestBalanceForExactNameMatch(t *testing.T) {
	entries := []Entry{
		{Person: "anna", Title: "Bier", UnitPrice: Money{Cents: 350}, Quantity: 1},
		{Person: "Anna ", Title: "Bier", UnitPrice: Money{Cents: 350}, Quantity: 1},
	}
	if b := BalanceFor("Anna", entries, nil); b.Charged.Cents != 0 {
		t.Fatalf("name matching must be exact, got charged=%d", b.Charged.Cents)
	}
}
