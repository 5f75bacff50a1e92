package handlers

import (
	"net/http"

	"github.com/hoopstack/hoops-manager/middleware"
	"github.com/hoopstack/hoops-manager/services"
)

type ReportingHandler struct {
	reportingService services.ReportingService
}

func NewReportingHandler(rs services.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService: rs}
}

// report factors the shared auth + URL-parsing prologue of every chart
// endpoint; fetch runs the service call.
func (h *ReportingHandler) report(w http.ResponseWriter, r *http.Request, key string,
	fetch func(tournamentID, currentUserID int) (interface{}, error),
) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := fetch(tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{key: data}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReportingHandler) Standings(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "standings", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.TeamStandings(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) PointsDistribution(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "points_distribution", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.PointsDistribution(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "top_scorers", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.TopScorers(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) EfficiencyLeaders(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "efficiency_leaders", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.EfficiencyLeaders(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) MatchTrend(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "match_trend", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.MatchTrend(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) DoubleLeaders(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "double_leaders", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.DoubleLeaders(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) TeamRecords(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "team_records", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.TeamRecords(r.Context(), tournamentID, currentUserID)
	})
}

func (h *ReportingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "dashboard", func(tournamentID, currentUserID int) (interface{}, error) {
		return h.reportingService.Dashboard(r.Context(), tournamentID, currentUserID)
	})
}
