// Package memory is an in-process ledger backend for tests and local
// development.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"strichliste/internal/core"
)

type Store struct {
	mu       sync.Mutex
	names    []string
	catalog  []core.CatalogItem
	entries  []core.Entry
	payments []core.PaymentRecord
	now      func() time.Time
}

func New(names []string, catalog []core.CatalogItem) *Store {
	return &Store{names: dedupe(names), catalog: catalog, now: time.Now}
}

// NewFromFiles seeds names and catalog from plain text files in base, falling
// back to a small demo set when the files are missing.
func NewFromFiles(base string) *Store {
	names := readLines(filepath.Join(base, "seed_names.txt"))
	if len(names) == 0 {
		names = []string{"Anna", "Ben", "Clara"}
	}
	var catalog []core.CatalogItem
	for _, line := range readLines(filepath.Join(base, "seed_catalog.txt")) {
		// Titel;Preis;Bild
		parts := strings.SplitN(line, ";", 3)
		if len(parts) < 2 {
			continue
		}
		cents, err := core.ParseDecimalToCents(parts[1])
		if err != nil {
			continue
		}
		item := core.CatalogItem{Title: strings.TrimSpace(parts[0]), UnitPrice: core.Money{Cents: cents}}
		if len(parts) == 3 {
			item.ImageRef = strings.TrimSpace(parts[2])
		}
		catalog = append(catalog, item)
	}
	if len(catalog) == 0 {
		catalog = []core.CatalogItem{
			{Title: "Bier", UnitPrice: core.Money{Cents: 350}},
			{Title: "Limo", UnitPrice: core.Money{Cents: 250}},
			{Title: "Wasser", UnitPrice: core.Money{Cents: 100}},
		}
	}
	return New(names, catalog)
}

func (s *Store) ListNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...), nil
}

func (s *Store) ListCatalog(_ context.Context) ([]core.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CatalogItem(nil), s.catalog...), nil
}

func (s *Store) ListEntries(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries...), nil
}

func (s *Store) ListPayments(_ context.Context) ([]core.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PaymentRecord(nil), s.payments...), nil
}

// RecordCharge appends one entry row per line item, all dated now.
func (s *Store) RecordCharge(_ context.Context, c core.Charge) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	for _, li := range c.Items {
		s.entries = append(s.entries, core.Entry{
			Date:      at,
			Person:    c.Person,
			Title:     li.Title,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		})
	}
	return "mem:" + uuid.NewString(), nil
}

func (s *Store) RecordPayment(_ context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, core.PaymentRecord{Date: s.now(), Person: p.Person, Amount: p.Amount})
	return "mem:" + uuid.NewString(), nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
