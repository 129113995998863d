// Package google implements the ledger ports against a Google Spreadsheet
// with Namen, Produkte, Eintraege and Zahlungen tabs.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"strichliste/internal/cache"
	"strichliste/internal/core"
	"strichliste/internal/ledger"
)

const (
	defaultNamesSheet    = "Namen"
	defaultCatalogSheet  = "Produkte"
	defaultEntriesSheet  = "Eintraege"
	defaultPaymentsSheet = "Zahlungen"

	// Entry and payment dates are written in this layout; reads tolerate a
	// few more (see parseDate).
	dateLayout = "2006-01-02 15:04:05"

	readCacheTTL = 5 * time.Minute
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	namesSheet    string
	catalogSheet  string
	entriesSheet  string
	paymentsSheet string

	// Names and catalog change rarely; entries and payments are never cached
	// because every submission appends to them.
	nameCache    *cache.LRUCache[[]string]
	catalogCache *cache.LRUCache[[]core.CatalogItem]

	now func() time.Time
}

// Ensure interface conformance
var _ ledger.Store = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials
// (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS). Optional tab names:
// SHEET_NAMES_TAB, SHEET_CATALOG_TAB, SHEET_ENTRIES_TAB, SHEET_PAYMENTS_TAB.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		namesSheet:    envOr("SHEET_NAMES_TAB", defaultNamesSheet),
		catalogSheet:  envOr("SHEET_CATALOG_TAB", defaultCatalogSheet),
		entriesSheet:  envOr("SHEET_ENTRIES_TAB", defaultEntriesSheet),
		paymentsSheet: envOr("SHEET_PAYMENTS_TAB", defaultPaymentsSheet),
		nameCache:     cache.NewLRUCache[[]string](1, readCacheTTL),
		catalogCache:  cache.NewLRUCache[[]core.CatalogItem](1, readCacheTTL),
		now:           time.Now,
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) readRange(ctx context.Context, sheetName, cols string) ([][]any, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", sheetName, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// ListNames implements ledger.NameReader. The first row is the header.
func (c *Client) ListNames(ctx context.Context) ([]string, error) {
	if names, ok := c.nameCache.Get(c.namesSheet); ok {
		return names, nil
	}
	values, err := c.readRange(ctx, c.namesSheet, "A2:A")
	if err != nil {
		return nil, err
	}
	names := parseNames(values)
	c.nameCache.Set(c.namesSheet, names)
	return names, nil
}

// ListCatalog implements ledger.CatalogReader.
func (c *Client) ListCatalog(ctx context.Context) ([]core.CatalogItem, error) {
	if catalog, ok := c.catalogCache.Get(c.catalogSheet); ok {
		return catalog, nil
	}
	values, err := c.readRange(ctx, c.catalogSheet, "A2:C")
	if err != nil {
		return nil, err
	}
	catalog, skipped := parseCatalog(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparseable catalog rows", "sheet", c.catalogSheet, "skipped", skipped)
	}
	c.catalogCache.Set(c.catalogSheet, catalog)
	return catalog, nil
}

// ListEntries implements ledger.EntryReader.
func (c *Client) ListEntries(ctx context.Context) ([]core.Entry, error) {
	values, err := c.readRange(ctx, c.entriesSheet, "A2:E")
	if err != nil {
		return nil, err
	}
	entries, skipped := parseEntries(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparseable entry rows", "sheet", c.entriesSheet, "skipped", skipped)
	}
	return entries, nil
}

// ListPayments implements ledger.PaymentReader.
func (c *Client) ListPayments(ctx context.Context) ([]core.PaymentRecord, error) {
	values, err := c.readRange(ctx, c.paymentsSheet, "A2:C")
	if err != nil {
		return nil, err
	}
	payments, skipped := parsePayments(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparseable payment rows", "sheet", c.paymentsSheet, "skipped", skipped)
	}
	return payments, nil
}

// RecordCharge implements ledger.ChargeWriter. One appended row per line
// item: Datum, Name, Titel, Preis, Menge.
func (c *Client) RecordCharge(ctx context.Context, charge core.Charge) (string, error) {
	if err := charge.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	at := c.now().Format(dateLayout)
	rows := make([][]any, 0, len(charge.Items))
	for _, li := range charge.Items {
		rows = append(rows, []any{at, charge.Person, li.Title, li.UnitPrice.String(), li.Quantity})
	}

	rng := fmt.Sprintf("%s!A:E", c.entriesSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.entriesSheet, err)
	}

	ref := uuid.NewString()
	slog.InfoContext(ctx, "Charge appended to sheet",
		"sheet", c.entriesSheet,
		"person", charge.Person,
		"items", len(charge.Items),
		"total_cents", charge.Total().Cents,
		"ref", ref)
	return ref, nil
}

// RecordPayment implements ledger.PaymentWriter. Row layout: Datum, Name,
// Betrag.
func (c *Client) RecordPayment(ctx context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{c.now().Format(dateLayout), p.Person, p.Amount.String()}
	rng := fmt.Sprintf("%s!A:C", c.paymentsSheet)
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.paymentsSheet, err)
	}

	ref := uuid.NewString()
	slog.InfoContext(ctx, "Payment appended to sheet",
		"sheet", c.paymentsSheet,
		"person", p.Person,
		"amount_cents", p.Amount.Cents,
		"ref", ref)
	return ref, nil
}
