package core

import (
	"errors"
	"testing"
)

var testCatalog = []CatalogItem{
	{Title: "Bier", UnitPrice: Money{Cents: 350}, ImageRef: "bier.png"},
	{Title: "Limo", UnitPrice: Money{Cents: 250}, ImageRef: "limo.png"},
	{Title: "Schnaps", UnitPrice: Money{Cents: 200}, ImageRef: "schnaps.png"},
}

func TestBuildLineItemsFromQuantities(t *testing.T) {
	items, err := BuildLineItems(testCatalog, map[string]int{"Limo": 1, "Bier": 2, "Schnaps": 0}, CustomItemDraft{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Catalog order, not map order.
	if items[0].Title != "Bier" || items[0].Quantity != 2 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Title != "Limo" || items[1].Quantity != 1 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestBuildLineItemsEmptyIsNotAnError(t *testing.T) {
	items, err := BuildLineItems(testCatalog, map[string]int{}, CustomItemDraft{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCustomPairIncomplete(t *testing.T) {
	cases := []struct {
		name  string
		draft CustomItemDraft
		fail  bool
	}{
		{"both empty", CustomItemDraft{}, false},
		{"title only", CustomItemDraft{Title: "Brezn"}, true},
		{"price only", CustomItemDraft{PriceCents: 150}, true},
		{"whitespace title with price", CustomItemDraft{Title: "   ", PriceCents: 150}, true},
		{"complete", CustomItemDraft{Title: "Brezn", PriceCents: 150}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildLineItems(testCatalog, nil, tc.draft)
			if tc.fail && !errors.Is(err, ErrCustomPairIncomplete) {
				t.Fatalf("expected ErrCustomPairIncomplete, got %v", err)
			}
			if !tc.fail && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCustomQuantityFloorsToOne(t *testing.T) {
	for _, qty := range []int{-3, 0, 1, 4} {
		items, err := BuildLineItems(nil, nil, CustomItemDraft{Title: "Brezn", PriceCents: 150, Quantity: qty})
		if err != nil {
			t.Fatalf("qty %d: unexpected error: %v", qty, err)
		}
		if len(items) != 1 {
			t.Fatalf("qty %d: expected 1 item, got %d", qty, len(items))
		}
		want := qty
		if want < 1 {
			want = 1
		}
		if items[0].Quantity != want {
			t.Fatalf("qty %d: got quantity %d, want %d", qty, items[0].Quantity, want)
		}
	}
}

func TestCustomItemAppendedLastWithTrimmedTitle(t *testing.T) {
	items, err := BuildLineItems(testCatalog, map[string]int{"Bier": 1},
		CustomItemDraft{Title: "  Brezn ", PriceCents: 150, Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	last := items[1]
	if last.Title != "Brezn" || last.UnitPrice.Cents != 150 || last.Quantity != 2 {
		t.Fatalf("unexpected custom item: %+v", last)
	}
}
