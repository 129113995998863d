package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in integer euro cents. All arithmetic happens on
	// cents; decimals only appear at the sheet and JSON boundaries.
	Money struct {
		Cents int64
	}

	// CatalogItem is one orderable product, owned by the catalog sheet.
	CatalogItem struct {
		Title     string
		UnitPrice Money
		ImageRef  string
	}

	// LineItem is one position of a charge submission.
	LineItem struct {
		Title     string
		UnitPrice Money
		Quantity  int
	}

	// Charge records consumption of one or more line items against a
	// person's tab.
	Charge struct {
		Person string
		Items  []LineItem
	}

	// Payment records money handed in by a person.
	Payment struct {
		Person string
		Amount Money
	}

	// Entry is one historical charge row from the ledger, one row per
	// line item ever charged.
	Entry struct {
		Date      time.Time
		Person    string
		Title     string
		UnitPrice Money
		Quantity  int
	}

	// PaymentRecord is one historical payment row from the ledger.
	PaymentRecord struct {
		Date   time.Time
		Person string
		Amount Money
	}
)

var (
	ErrNoPersonSelected     = errors.New("no person selected")
	ErrNoItems              = errors.New("no items selected")
	ErrCustomPairIncomplete = errors.New("custom item needs both title and price")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyTitle           = errors.New("empty title")
	ErrInvalidQuantity      = errors.New("invalid quantity")
)

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Title) == "" {
		return ErrEmptyTitle
	}
	if li.UnitPrice.Cents < 0 {
		return ErrInvalidAmount
	}
	if li.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Total returns unit price times quantity.
func (li LineItem) Total() Money {
	return Money{Cents: li.UnitPrice.Cents * int64(li.Quantity)}
}

func (c Charge) Validate() error {
	if strings.TrimSpace(c.Person) == "" {
		return ErrNoPersonSelected
	}
	if len(c.Items) == 0 {
		return ErrNoItems
	}
	for _, li := range c.Items {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Total sums unit price times quantity over all items. The sum is taken in
// cents, so it is already exact to two decimals.
func (c Charge) Total() Money {
	var cents int64
	for _, li := range c.Items {
		cents += li.Total().Cents
	}
	return Money{Cents: cents}
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.Person) == "" {
		return ErrNoPersonSelected
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Total returns unit price times quantity for a historical entry.
func (e Entry) Total() Money {
	return Money{Cents: e.UnitPrice.Cents * int64(e.Quantity)}
}
