package http

import (
	"net/http"

	applog "financas/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	records, err := s.records.ListExpenses(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := make([]expenseResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, newExpenseResponse(rec))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.CreateExpense(r.Context(), uid, expense)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	s.logger.InfoContext(r.Context(), "expense created",
		applog.FieldUserID, uid,
		applog.FieldRecordID, rec.ID,
		"amount_cents", rec.Amount.Cents,
		"kind", string(rec.Kind))
	respondJSON(w, http.StatusCreated, newExpenseResponse(rec))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := parsePathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.UpdateExpense(r.Context(), uid, id, expense)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	respondJSON(w, http.StatusOK, newExpenseResponse(rec))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := parsePathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.records.DeleteExpense(r.Context(), uid, id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	w.WriteHeader(http.StatusNoContent)
}
