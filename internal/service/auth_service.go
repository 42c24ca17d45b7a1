package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tradeup/internal/credentials"
	"tradeup/internal/models"
	"tradeup/internal/repository"
	"tradeup/internal/security"
	"tradeup/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles authentication business logic. Access is granted
// through short-lived JWTs; long-lived refresh sessions live in the
// database so they can be revoked.
type AuthService struct {
	userRepo        *repository.UserRepository
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new user account with a generated display name
func (s *AuthService) Register(email, password string) (*models.User, error) {
	// Validate inputs
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	// Check if email already exists
	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// Hash password
	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName, err := generateDisplayName()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(uuid.New().String(), email, passwordHash, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and opens a refresh session
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	// OAuth accounts have no password to check
	if user.PasswordHash == "" || !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// LoginOAuth finds or creates the account linked to an OAuth identity and
// opens a refresh session
func (s *AuthService) LoginOAuth(provider, subject, email string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	if user == nil {
		// Link to an existing account with the same verified email if one
		// exists, otherwise create a fresh account
		if email != "" {
			user, err = s.userRepo.GetUserByEmail(email)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
			}
		}
		if user == nil {
			displayName, err := generateDisplayName()
			if err != nil {
				return nil, nil, err
			}
			user, err = s.userRepo.CreateOAuthUser(uuid.New().String(), email, displayName, provider, subject)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	session, err := s.openSession(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

func generateDisplayName() (string, error) {
	name, err := credentials.GenerateDisplayName()
	if err != nil {
		return "", fmt.Errorf("failed to generate display name: %w", err)
	}
	return name, nil
}

func (s *AuthService) openSession(userID string) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// IssueAccessToken signs a short-lived access token for a valid session
func (s *AuthService) IssueAccessToken(sessionID string, now time.Time) (string, *models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return "", nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		// Expired sessions are dead weight, remove eagerly
		_ = s.userRepo.DeleteSession(sessionID)
		return "", nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrSessionNotFound
	}

	token, err := s.tokens.Issue(user.ID, now)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyAccessToken checks a bearer token and returns the user ID
func (s *AuthService) VerifyAccessToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// Logout revokes a refresh session
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes expired refresh sessions
func (s *AuthService) CleanupExpiredSessions() error {
	return s.userRepo.DeleteExpiredSessions()
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(userID)
}

// UpdateDisplayName validates and changes the user's leaderboard name
func (s *AuthService) UpdateDisplayName(userID, name string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	return s.userRepo.UpdateDisplayName(userID, name)
}
