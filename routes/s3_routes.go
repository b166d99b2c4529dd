package routes

import (
	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/controllers"
	"github.com/hamboms/kbob-dating-app/services"
)

// RegisterS3Routes sets up presigned URL routes under /api/s3.
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, a *auth.Auth) {
	controller := controllers.NewS3Controller(s3Service)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.Use(a.RequireUser)

	s3Router.HandleFunc("/generate-presigned-url", controller.HandleGeneratePresignedURL).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.HandleGetReadURL).Methods("GET")
}
