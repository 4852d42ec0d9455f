package http

import (
	"net/http"

	applog "financas/internal/log"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	records, err := s.records.ListGoals(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := make([]goalResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, newGoalResponse(rec))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.CreateGoal(r.Context(), uid, goal)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	s.logger.InfoContext(r.Context(), "goal created",
		applog.FieldUserID, uid,
		applog.FieldRecordID, rec.ID,
		"target_cents", rec.Target.Cents)
	respondJSON(w, http.StatusCreated, newGoalResponse(rec))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
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

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := req.toDomain()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	rec, err := s.records.UpdateGoal(r.Context(), uid, id, goal)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	respondJSON(w, http.StatusOK, newGoalResponse(rec))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	if err := s.records.DeleteGoal(r.Context(), uid, id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateUser(uid)
	w.WriteHeader(http.StatusNoContent)
}
