package routes

import (
	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/controllers"
	"github.com/hamboms/kbob-dating-app/services"
)

// RegisterUserRoutes sets up account and profile routes under /api.
func RegisterUserRoutes(r *mux.Router, userService *services.UserService, a *auth.Auth, secureCookies bool) {
	controller := controllers.NewUserController(userService, a.Secret, secureCookies)

	// Public routes: anyone can sign up, verify and log in.
	r.HandleFunc("/api/signup", controller.HandleSignup).Methods("POST")
	r.HandleFunc("/api/verify", controller.HandleVerify).Methods("GET")
	r.HandleFunc("/api/login", controller.HandleLogin).Methods("POST")
	r.HandleFunc("/api/logout", controller.HandleLogout).Methods("POST")

	// Everything under /api/users requires a session.
	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.Use(a.RequireUser)
	userRouter.HandleFunc("/me", controller.HandleMe).Methods("GET")
	userRouter.HandleFunc("/me", controller.HandleUpdateProfile).Methods("PUT")
	userRouter.HandleFunc("/me", controller.HandleDeleteAccount).Methods("DELETE")
	userRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
}
