package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/services"
	"github.com/hamboms/kbob-dating-app/utils"
)

// MatchController handles swiping and the derived match views.
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance.
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// HandleDiscovery returns the caller's swipe candidates.
func (mc *MatchController) HandleDiscovery(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	pool, err := mc.MatchService.DiscoveryPool(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": pool})
}

// HandleLike records a like and reports whether it completed a match. On
// a match the response carries the chat room id for the new pair.
func (mc *MatchController) HandleLike(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var request struct {
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	matched, err := mc.MatchService.RecordLikeAndCheckMatch(r.Context(), claims.UserID, request.TargetUserID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{"matched": matched}
	if matched {
		if roomID, err := utils.RoomID(claims.UserID, request.TargetUserID); err == nil {
			response["roomId"] = roomID
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleSkip records a skip.
func (mc *MatchController) HandleSkip(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var request struct {
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	if err := mc.MatchService.RecordSkip(r.Context(), claims.UserID, request.TargetUserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Skip recorded"})
}

// HandlePendingLikes returns who liked the caller in the last 24 hours.
func (mc *MatchController) HandlePendingLikes(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	pending, err := mc.MatchService.PendingLikes(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"likes": pending})
}

// HandleMatches returns the caller's current matches with their room ids.
func (mc *MatchController) HandleMatches(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	matches, err := mc.MatchService.Matches(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	type matchEntry struct {
		User   interface{} `json:"user"`
		RoomID string      `json:"roomId"`
	}
	entries := make([]matchEntry, 0, len(matches))
	for _, m := range matches {
		roomID, err := utils.RoomID(claims.UserID, m.UserID)
		if err != nil {
			continue
		}
		entries = append(entries, matchEntry{User: m, RoomID: roomID})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": entries})
}
