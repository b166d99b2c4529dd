package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/hamboms/kbob-dating-app/services"
)

// S3Controller hands out presigned URLs for profile image upload and read.
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new S3Controller instance.
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// HandleGeneratePresignedURL returns a presigned upload URL for a new
// profile image.
func (sc *S3Controller) HandleGeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if request.FileName == "" || request.FileType == "" {
		http.Error(w, `{"error": "fileName and fileType are required"}`, http.StatusBadRequest)
		return
	}

	url, key, err := sc.S3Service.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// HandleGetReadURL returns a presigned read URL for an uploaded image.
func (sc *S3Controller) HandleGetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	url, err := sc.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
