package routes

import (
	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/controllers"
	"github.com/hamboms/kbob-dating-app/services"
)

// RegisterReportRoutes sets up reporting under /api/report and the admin
// moderation views under /api/admin.
func RegisterReportRoutes(r *mux.Router, reportService *services.ReportService, a *auth.Auth) {
	controller := controllers.NewReportController(reportService)

	reportRouter := r.PathPrefix("/api/report").Subrouter()
	reportRouter.Use(a.RequireUser)
	reportRouter.HandleFunc("", controller.HandleSubmit).Methods("POST")

	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(a.RequireAdmin)
	adminRouter.HandleFunc("/flagged", controller.HandleFlagged).Methods("GET")
	adminRouter.HandleFunc("/sanction/{userId}", controller.HandleSanction).Methods("POST")
}
