package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"strichliste/internal/core"
	"strichliste/internal/services"
	"strichliste/internal/session"
)

const dateLayout = "2006-01-02 15:04:05"

type productJSON struct {
	Titel string `json:"titel"`
	Preis string `json:"preis"`
	Bild  string `json:"bild,omitempty"`
}

type entryJSON struct {
	Datum string `json:"datum"`
	Name  string `json:"name"`
	Titel string `json:"titel"`
	Preis string `json:"preis"`
	Menge int    `json:"menge"`
}

type paymentJSON struct {
	Datum  string `json:"datum"`
	Name   string `json:"name"`
	Betrag string `json:"betrag"`
}

type dataJSON struct {
	Namen     []string      `json:"namen"`
	Produkte  []productJSON `json:"produkte"`
	Eintraege []entryJSON   `json:"eintraege"`
	Zahlungen []paymentJSON `json:"zahlungen"`
}

type balanceJSON struct {
	Name      string `json:"name"`
	Verzehr   string `json:"verzehr"`
	Bezahlt   string `json:"bezahlt"`
	Offen     string `json:"offen"`
	Beglichen bool   `json:"beglichen"`
}

type draftJSON struct {
	Titel string `json:"titel"`
	Preis string `json:"preis"`
	Menge int    `json:"menge"`
}

type sessionJSON struct {
	Name    string         `json:"name"`
	Mengen  map[string]int `json:"mengen"`
	Eigenes draftJSON      `json:"eigenes"`
	Zahlung string         `json:"zahlung"`
	Phase   string         `json:"phase"`
}

type submitResultJSON struct {
	Status  string `json:"status"`
	Ref     string `json:"ref,omitempty"`
	Warnung string `json:"warnung,omitempty"`
}

type errorJSON struct {
	Fehler string `json:"fehler"`
}

func snapshotToJSON(snap services.Snapshot) dataJSON {
	out := dataJSON{
		Namen:     snap.Names,
		Produkte:  make([]productJSON, 0, len(snap.Catalog)),
		Eintraege: make([]entryJSON, 0, len(snap.Entries)),
		Zahlungen: make([]paymentJSON, 0, len(snap.Payments)),
	}
	if out.Namen == nil {
		out.Namen = []string{}
	}
	for _, item := range snap.Catalog {
		out.Produkte = append(out.Produkte, productJSON{
			Titel: item.Title,
			Preis: item.UnitPrice.String(),
			Bild:  item.ImageRef,
		})
	}
	for _, e := range snap.Entries {
		out.Eintraege = append(out.Eintraege, entryJSON{
			Datum: formatDate(e.Date),
			Name:  e.Person,
			Titel: e.Title,
			Preis: e.UnitPrice.String(),
			Menge: e.Quantity,
		})
	}
	for _, p := range snap.Payments {
		out.Zahlungen = append(out.Zahlungen, paymentJSON{
			Datum:  formatDate(p.Date),
			Name:   p.Person,
			Betrag: p.Amount.String(),
		})
	}
	return out
}

func sessionToJSON(sess *session.Session) sessionJSON {
	person, quantities, draft := sess.Selections()
	return sessionJSON{
		Name:   person,
		Mengen: quantities,
		Eigenes: draftJSON{
			Titel: draft.Title,
			Preis: draft.PriceCents.Money().String(),
			Menge: draft.Quantity,
		},
		Zahlung: sess.PaymentCents().Money().String(),
		Phase:   sess.Phase().String(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Fehler: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "ungültige Anfrage")
		return false
	}
	return true
}

// writeSubmitError maps submission failures onto status codes: anything the
// user can fix (validation, a submission already in flight) is 422, a failed
// ledger write is 502. Partial failures never reach here; they are a 200
// with a warning.
func writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var chargeErr *services.ChargeError
	var paymentErr *services.PaymentError
	switch {
	case errors.As(err, &chargeErr), errors.As(err, &paymentErr):
		slog.ErrorContext(r.Context(), "Ledger write failed", "error", err)
		writeError(w, http.StatusBadGateway, "Eintrag konnte nicht gespeichert werden")
	case errors.Is(err, session.ErrSubmissionInFlight):
		writeError(w, http.StatusUnprocessableEntity, "Es läuft bereits eine Übermittlung")
	case errors.Is(err, core.ErrNoPersonSelected):
		writeError(w, http.StatusUnprocessableEntity, "Kein Name ausgewählt")
	case errors.Is(err, core.ErrNoItems):
		writeError(w, http.StatusUnprocessableEntity, "Nichts ausgewählt")
	case errors.Is(err, core.ErrCustomPairIncomplete):
		writeError(w, http.StatusUnprocessableEntity, "Eigener Eintrag braucht Titel und Preis")
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "Ungültiger Betrag")
	default:
		slog.ErrorContext(r.Context(), "Submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Interner Fehler")
	}
}
