package routes

import (
	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/controllers"
	"github.com/hamboms/kbob-dating-app/services"
)

// RegisterMatchRoutes sets up swiping and match routes under /api/match.
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, a *auth.Auth) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()
	matchRouter.Use(a.RequireUser)

	matchRouter.HandleFunc("/discovery", controller.HandleDiscovery).Methods("GET")
	matchRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	matchRouter.HandleFunc("/skip", controller.HandleSkip).Methods("POST")
	matchRouter.HandleFunc("/pending", controller.HandlePendingLikes).Methods("GET")
	matchRouter.HandleFunc("/matches", controller.HandleMatches).Methods("GET")
}
