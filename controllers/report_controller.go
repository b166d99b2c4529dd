package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/services"
)

// ReportController handles user reports and the admin moderation views.
type ReportController struct {
	ReportService *services.ReportService
}

// NewReportController creates a new ReportController instance.
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// HandleSubmit files a report against another user.
func (rc *ReportController) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var request struct {
		TargetUserID string `json:"targetUserId"`
		Reason       string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	if err := rc.ReportService.Submit(r.Context(), claims.UserID, request.TargetUserID, request.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Report submitted"})
}

// HandleFlagged lists users at or above the report threshold. Admin only.
// An optional ?min= query overrides the threshold.
func (rc *ReportController) HandleFlagged(w http.ResponseWriter, r *http.Request) {
	min := 0
	if raw := r.URL.Query().Get("min"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, `{"error": "Invalid min parameter"}`, http.StatusBadRequest)
			return
		}
		min = parsed
	}

	flagged, err := rc.ReportService.FlaggedUsers(r.Context(), min)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"flagged": flagged})
}

// HandleSanction bans a reported user. Admin only.
func (rc *ReportController) HandleSanction(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := rc.ReportService.Sanction(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User banned"})
}
