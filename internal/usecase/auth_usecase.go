package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/partledger/internal/domain"
)

// AuthUseCase handles operator login sessions.
type AuthUseCase struct {
	userRepo   UserRepository
	sessions   SessionStore
	tokens     TokenManager
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthUseCase creates a new AuthUseCase. A non-positive ttl selects DefaultSessionTTL.
func NewAuthUseCase(userRepo UserRepository, sessions SessionStore, tokens TokenManager, sessionTTL time.Duration) *AuthUseCase {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthUseCase{
		userRepo:   userRepo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token   string
	Session *domain.Session
}

// Login verifies credentials and opens a new session.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}

	if err := uc.sessions.Create(ctx, session, uc.sessionTTL); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(session)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, err
	}

	return &LoginResult{Token: token, Session: session}, nil
}

// Logout destroys the session behind token. Unknown sessions are ignored.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	sessionID, err := uc.tokens.Verify(token)
	if err != nil {
		return err
	}

	err = uc.sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Authenticate resolves a token to its live session.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if session.IsExpired(uc.now()) {
		return nil, domain.ErrExpiredToken
	}

	return session, nil
}

// CreateUser registers a new operator with a bcrypt password hash.
func (uc *AuthUseCase) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		HashedPassword: string(hashed),
		CreatedAt:      uc.now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// EnsureUser creates the user unless it already exists.
func (uc *AuthUseCase) EnsureUser(ctx context.Context, username, password string) error {
	_, err := uc.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	_, err = uc.CreateUser(ctx, username, password)
	if errors.Is(err, domain.ErrDuplicateUser) {
		return nil
	}
	return err
}
