package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"strichliste/internal/core"
)

// Row parsing for the values matrices the Sheets API returns. Column
// positions are fixed per tab; rows that do not parse are skipped and
// counted, never fatal — a half-broken sheet should not take the kiosk down.

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseNames(values [][]any) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range values {
		name := safeGet(toStrings(row), 0)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// parseCatalog reads Titel, Preis, Bild.
func parseCatalog(values [][]any) (items []core.CatalogItem, skipped int) {
	for _, row := range values {
		cols := toStrings(row)
		title := safeGet(cols, 0)
		if title == "" {
			continue
		}
		cents, ok := parseEurosToCents(safeGet(cols, 1))
		if !ok {
			skipped++
			continue
		}
		items = append(items, core.CatalogItem{
			Title:     title,
			UnitPrice: core.Money{Cents: cents},
			ImageRef:  safeGet(cols, 2),
		})
	}
	return items, skipped
}

// parseEntries reads Datum, Name, Titel, Preis, Menge.
func parseEntries(values [][]any) (entries []core.Entry, skipped int) {
	for _, row := range values {
		cols := toStrings(row)
		if safeGet(cols, 1) == "" {
			continue
		}
		date, ok := parseDate(safeGet(cols, 0))
		if !ok {
			skipped++
			continue
		}
		cents, ok := parseEurosToCents(safeGet(cols, 3))
		if !ok {
			skipped++
			continue
		}
		qty, err := strconv.Atoi(safeGet(cols, 4))
		if err != nil || qty < 1 {
			skipped++
			continue
		}
		entries = append(entries, core.Entry{
			Date:      date,
			Person:    safeGet(cols, 1),
			Title:     safeGet(cols, 2),
			UnitPrice: core.Money{Cents: cents},
			Quantity:  qty,
		})
	}
	return entries, skipped
}

// parsePayments reads Datum, Name, Betrag.
func parsePayments(values [][]any) (payments []core.PaymentRecord, skipped int) {
	for _, row := range values {
		cols := toStrings(row)
		if safeGet(cols, 1) == "" {
			continue
		}
		date, ok := parseDate(safeGet(cols, 0))
		if !ok {
			skipped++
			continue
		}
		cents, ok := parseEurosToCents(safeGet(cols, 2))
		if !ok || cents <= 0 {
			skipped++
			continue
		}
		payments = append(payments, core.PaymentRecord{
			Date:   date,
			Person: safeGet(cols, 1),
			Amount: core.Money{Cents: cents},
		})
	}
	return payments, skipped
}

// parseDate tolerates the layouts that show up in sheet cells depending on
// how the row was written (API append vs. manual entry).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		dateLayout,
		"2006-01-02",
		"02.01.2006 15:04:05",
		"02.01.2006",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseEurosToCents converts a sheet cell to cents. Cells can carry a comma
// or dot separator and sometimes a currency suffix.
func parseEurosToCents(s string) (int64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		// Number cells can come back in scientific or grouped formats.
		if f, ferr := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); ferr == nil && f >= 0 {
			return int64(f*100.0 + 0.5), true
		}
		return 0, false
	}
	return cents, true
}
