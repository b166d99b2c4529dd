package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/services"
)

// UserController handles signup, verification, sessions and profiles.
type UserController struct {
	UserService *services.UserService
	JWTSecret   []byte
	// SecureCookies should be true behind TLS.
	SecureCookies bool
}

// NewUserController creates a new UserController instance.
func NewUserController(userService *services.UserService, jwtSecret []byte, secureCookies bool) *UserController {
	return &UserController{UserService: userService, JWTSecret: jwtSecret, SecureCookies: secureCookies}
}

// HandleSignup registers a new account and triggers the verification mail.
func (uc *UserController) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var request services.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	user, err := uc.UserService.Signup(r.Context(), request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Signup successful, please check your inbox to verify your email",
		"userId":  user.UserID,
	})
}

// HandleVerify consumes the emailed verification token.
func (uc *UserController) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := uc.UserService.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified, you can log in now"})
}

// HandleLogin checks credentials and sets the session cookie.
func (uc *UserController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	user, err := uc.UserService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.IssueToken(uc.JWTSecret, user)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(auth.TokenTTL),
		HttpOnly: true,
		Secure:   uc.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// HandleLogout clears the session cookie.
func (uc *UserController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   uc.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// HandleMe returns the caller's own account.
func (uc *UserController) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	user, err := uc.UserService.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile replaces the caller's editable profile fields.
func (uc *UserController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var request models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	user, err := uc.UserService.UpdateProfile(r.Context(), claims.UserID, request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGetProfile returns another user's public card.
func (uc *UserController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	profile, err := uc.UserService.GetPublic(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteAccount purges the caller's account and everything tied
// to it, then clears the session cookie.
func (uc *UserController) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	if err := uc.UserService.DeleteAccount(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   uc.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
