package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/services"
)

// ChatController handles chat history, sending and leaving.
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance.
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// HandleHistory returns the room's messages, oldest first.
func (cc *ChatController) HandleHistory(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	roomID := mux.Vars(r)["roomId"]

	messages, err := cc.ChatService.RoomHistory(r.Context(), roomID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleSend stores a message and broadcasts it to the room.
func (cc *ChatController) HandleSend(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	roomID := mux.Vars(r)["roomId"]

	var request struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	msg, err := cc.ChatService.SendMessage(r.Context(), roomID, claims.UserID, claims.Name, request.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// HandleLeave tears down the chat with a partner for both sides.
func (cc *ChatController) HandleLeave(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var request struct {
		PartnerUserID string `json:"partnerUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.LeaveChat(r.Context(), claims.UserID, request.PartnerUserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat closed"})
}
