package http

import (
	"errors"
	"net/http"
	"strings"

	"strichliste/internal/services"
)

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, snapshotToJSON(s.snapshots.Snapshot()))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "Name fehlt")
		return
	}
	b := s.snapshots.BalanceFor(name)
	writeJSON(w, http.StatusOK, balanceJSON{
		Name:      name,
		Verzehr:   b.Charged.String(),
		Bezahlt:   b.Paid.String(),
		Offen:     b.Outstanding.String(),
		Beglichen: b.Settled(),
	})
}

// handleReload is the manual refresh. Like every reload it clears the
// pending selections, so the response carries the fresh snapshot for the
// frontend to re-render from scratch.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.submissions.Reload(r.Context())
	writeJSON(w, http.StatusOK, snapshotToJSON(s.snapshots.Snapshot()))
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

func (s *Server) handleSelectPerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.sess.SelectPerson(strings.TrimSpace(req.Name))
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

func (s *Server) handleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Titel string `json:"titel"`
		Delta int    `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Titel) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Titel fehlt")
		return
	}
	s.sess.AdjustQuantity(req.Titel, req.Delta)
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

// handleCustomDraft updates the custom item's title and/or quantity. Fields
// left out of the request stay untouched.
func (s *Server) handleCustomDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Titel *string `json:"titel"`
		Menge *int    `json:"menge"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Titel != nil {
		s.sess.SetCustomTitle(*req.Titel)
	}
	if req.Menge != nil {
		s.sess.SetCustomQuantity(*req.Menge)
	}
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

func (s *Server) handleCustomPriceKey(w http.ResponseWriter, r *http.Request) {
	s.handleKeypad(w, r, s.sess.CustomPriceKey)
}

func (s *Server) handlePaymentKey(w http.ResponseWriter, r *http.Request) {
	s.handleKeypad(w, r, s.sess.PaymentKey)
}

func (s *Server) handleKeypad(w http.ResponseWriter, r *http.Request, apply func(string) bool) {
	var req struct {
		Taste string `json:"taste"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !apply(req.Taste) {
		writeError(w, http.StatusUnprocessableEntity, "Unbekannte Taste")
		return
	}
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

func (s *Server) handleResetPayment(w http.ResponseWriter, r *http.Request) {
	s.sess.ResetPayment()
	writeJSON(w, http.StatusOK, sessionToJSON(s.sess))
}

func (s *Server) handleCharge(w http.ResponseWriter, r *http.Request) {
	ref, err := s.submissions.SubmitCharge(r.Context())
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResultJSON{Status: "ok", Ref: ref})
}

// handleChargeAndSettle reports a partial failure as a 200: the charge is in
// the ledger, only the settling payment is missing, and the frontend shows
// that as a warning rather than an error.
func (s *Server) handleChargeAndSettle(w http.ResponseWriter, r *http.Request) {
	ref, err := s.submissions.SubmitChargeAndSettle(r.Context())
	if err != nil {
		var partial *services.PartialError
		if errors.As(err, &partial) {
			writeJSON(w, http.StatusOK, submitResultJSON{
				Status:  "teilweise",
				Ref:     partial.ChargeRef,
				Warnung: "Verzehr gespeichert, Zahlung fehlgeschlagen",
			})
			return
		}
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResultJSON{Status: "ok", Ref: ref})
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	ref, err := s.submissions.SubmitPayment(r.Context())
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResultJSON{Status: "ok", Ref: ref})
}
