package http

import (
	"net/http"

	applog "financas/internal/log"
)

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	records, err := s.records.ListIncomes(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := make([]incomeResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, newIncomeResponse(rec))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	income, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.CreateIncome(r.Context(), uid, income)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	s.logger.InfoContext(r.Context(), "income created",
		applog.FieldUserID, uid,
		applog.FieldRecordID, rec.ID,
		"amount_cents", rec.Amount.Cents)
	respondJSON(w, http.StatusCreated, newIncomeResponse(rec))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
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

	var req incomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	income, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.UpdateIncome(r.Context(), uid, id, income)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	respondJSON(w, http.StatusOK, newIncomeResponse(rec))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
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

	if err := s.records.DeleteIncome(r.Context(), uid, id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	w.WriteHeader(http.StatusNoContent)
}
