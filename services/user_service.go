package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/store"
	"github.com/hamboms/kbob-dating-app/utils"
)

// UserService owns the account lifecycle: signup with email verification,
// login checks, profile edits and the full account purge.
type UserService struct {
	Users    store.UserStore
	Deleted  store.DeletedUserStore
	Ledger   store.InteractionStore
	Messages store.MessageStore
	Reports  store.ReportStore
	Mail     EmailSender

	// BaseURL is the public origin used to build verification links.
	BaseURL string

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// SignupRequest carries the fields collected by the registration form.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Bio      string `json:"bio"`
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Signup creates an unverified account and dispatches the verification
// mail. If the mail cannot be sent the freshly created row is removed
// again so the address stays free for a retry.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", models.ErrInvalidInput)
	}
	if req.Age < 18 {
		return nil, fmt.Errorf("%w: you must be at least 18", models.ErrInvalidInput)
	}

	if _, err := s.Users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	if tombstone, err := s.Deleted.Get(ctx, req.Email); err == nil {
		deletedAt := models.ParseTime(tombstone.DeletedAt)
		if now.Sub(deletedAt) < models.RejoinCooldown {
			return nil, fmt.Errorf("%w: this email deleted an account recently, try again later", models.ErrConflict)
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	user := &models.User{
		UserID:            uuid.NewString(),
		Name:              req.Name,
		Age:               req.Age,
		Gender:            req.Gender,
		Bio:               req.Bio,
		Email:             req.Email,
		PasswordHash:      string(hash),
		EmailVerified:     false,
		VerificationToken: token,
		TokenExpires:      models.FormatTime(now.Add(models.VerificationTokenTTL)),
		CreatedAt:         models.FormatTime(now),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationURL := s.BaseURL + "/api/verify?token=" + token
	if err := s.Mail.SendVerificationEmail(ctx, user.Email, user.Name, verificationURL); err != nil {
		// Roll the row back so a retry does not hit the duplicate check.
		if delErr := s.Users.Delete(ctx, user.UserID); delErr != nil {
			log.Printf("Failed to roll back user %s after mail failure: %v", user.UserID, delErr)
		}
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}
	return user, nil
}

// VerifyEmail flips the account to verified when presented with a live
// token. Expired or unknown tokens are indistinguishable to the caller.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", models.ErrInvalidInput)
	}
	user, err := s.Users.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if models.ParseTime(user.TokenExpires).Before(s.now()) {
		return fmt.Errorf("%w: verification token expired", models.ErrNotFound)
	}
	return s.Users.MarkVerified(ctx, user.UserID)
}

// Login validates credentials and returns the account. Banned and
// unverified accounts are rejected even with a correct password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, fmt.Errorf("%w: this account has been suspended", models.ErrForbidden)
	}
	if !user.EmailVerified {
		return nil, fmt.Errorf("%w: please verify your email first", models.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}
	return user, nil
}

// Get returns the full account row for its owner.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// GetPublic returns another user's public card.
func (s *UserService) GetPublic(ctx context.Context, userID string) (models.PublicProfile, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return models.PublicProfile{}, err
	}
	return user.Public(), nil
}

// UpdateProfile replaces the editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if upd.Age < 18 {
		return nil, fmt.Errorf("%w: age must be at least 18", models.ErrInvalidInput)
	}
	if err := s.Users.UpdateProfile(ctx, userID, upd); err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, userID)
}

// DeleteAccount removes the account and everything attached to it. The
// steps are ordered so a retry after a partial failure still converges:
// the tombstone lands first and the user row goes last.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.Deleted.Put(ctx, user.Email, s.now()); err != nil {
		return fmt.Errorf("failed to record deletion: %w", err)
	}

	// Collect candidate rooms from the ledger before its rows disappear,
	// plus rooms found on the messages table itself. The ledger alone is
	// not enough: likes expire after 24h while the chat keeps going, so
	// a room can outlive every like row that created it.
	rooms := map[string]struct{}{}
	partners, err := s.Ledger.ListPartners(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to enumerate chat partners: %w", err)
	}
	for _, partner := range partners {
		roomID, err := utils.RoomID(userID, partner)
		if err != nil {
			continue
		}
		rooms[roomID] = struct{}{}
	}
	stored, err := s.Messages.ListRoomsWithUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to enumerate chat rooms: %w", err)
	}
	for _, roomID := range stored {
		rooms[roomID] = struct{}{}
	}
	for roomID := range rooms {
		if err := s.Messages.DeleteRoom(ctx, roomID); err != nil {
			return fmt.Errorf("failed to delete messages for room %s: %w", roomID, err)
		}
	}

	if err := s.Ledger.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}
	if err := s.Reports.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
