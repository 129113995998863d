package core

import "strings"

// CustomItemDraft is the one ad-hoc item a user may enter alongside catalog
// quantities. Title and price are a coupled pair: a submission with only one
// of the two is rejected.
type CustomItemDraft struct {
	Title      string
	PriceCents CentAmount
	Quantity   int
}

// IsEmpty reports whether the draft contributes nothing to a submission.
func (d CustomItemDraft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && d.PriceCents == 0
}

// Item returns the line item for a complete draft. The bool is false for an
// empty draft. An incomplete pair (title without price or price without
// title) yields ErrCustomPairIncomplete. A missing or non-positive quantity
// floors to 1 once the pair is complete.
func (d CustomItemDraft) Item() (LineItem, bool, error) {
	title := strings.TrimSpace(d.Title)
	hasTitle := title != ""
	hasPrice := d.PriceCents > 0
	switch {
	case !hasTitle && !hasPrice:
		return LineItem{}, false, nil
	case hasTitle != hasPrice:
		return LineItem{}, false, ErrCustomPairIncomplete
	}
	qty := d.Quantity
	if qty < 1 {
		qty = 1
	}
	return LineItem{Title: title, UnitPrice: d.PriceCents.Money(), Quantity: qty}, true, nil
}

// BuildLineItems assembles the line items of a submission: one item per
// catalog entry with a pending quantity above zero, in catalog order, plus
// the custom item last. An empty result is not an error here; rejecting an
// empty submission is the caller's rule and applies to both submission modes
// alike.
func BuildLineItems(catalog []CatalogItem, quantities map[string]int, draft CustomItemDraft) ([]LineItem, error) {
	items := make([]LineItem, 0, len(quantities)+1)
	for _, p := range catalog {
		if q := quantities[p.Title]; q > 0 {
			items = append(items, LineItem{Title: p.Title, UnitPrice: p.UnitPrice, Quantity: q})
		}
	}
	custom, ok, err := draft.Item()
	if err != nil {
		return nil, err
	}
	if ok {
		items = append(items, custom)
	}
	return items, nil
}
