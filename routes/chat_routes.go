package routes

import (
	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/controllers"
	"github.com/hamboms/kbob-dating-app/services"
)

// RegisterChatRoutes sets up chat routes under /api/chat.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, a *auth.Auth) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(a.RequireUser)

	chatRouter.HandleFunc("/leave", controller.HandleLeave).Methods("POST")
	chatRouter.HandleFunc("/{roomId}/messages", controller.HandleHistory).Methods("GET")
	chatRouter.HandleFunc("/{roomId}/messages", controller.HandleSend).Methods("POST")
}
