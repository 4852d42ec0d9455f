package http

import (
	"net/http"
	"time"

	"financas/internal/core"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	now := time.Now()
	ref := core.NewDate(now.Year(), int(now.Month()), now.Day())
	key := uid + "/resumo/" + ref.YearMonth().Key()

	if cached, found := s.summaryCache.Get(key); found {
		respondJSON(w, http.StatusOK, newDashboardResponse(cached))
		return
	}

	summary, err := s.dashboards.Summary(r.Context(), uid, ref)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, newDashboardResponse(summary))
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ym, err := parseYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := uid + "/relatorio/" + ym.Key()

	if cached, found := s.reportCache.Get(key); found {
		respondJSON(w, http.StatusOK, newMonthlyReportResponse(cached))
		return
	}

	report, err := s.dashboards.Report(r.Context(), uid, ym)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.reportCache.Set(key, report)
	respondJSON(w, http.StatusOK, newMonthlyReportResponse(report))
}

func (s *Server) handleGoalsSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := sessionUID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key := uid + "/metas"

	if cached, found := s.goalsCache.Get(key); found {
		respondJSON(w, http.StatusOK, newGoalsSummaryResponse(cached))
		return
	}

	goals, err := s.dashboards.Goals(r.Context(), uid)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.goalsCache.Set(key, goals)
	respondJSON(w, http.StatusOK, newGoalsSummaryResponse(goals))
}
