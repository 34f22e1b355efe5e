package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"github.com/tajoco/contacts/internal/dto"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/mail"
	"github.com/tajoco/contacts/internal/model"
	ctxutil "github.com/tajoco/contacts/pkg/context"
	"github.com/tajoco/contacts/pkg/logger"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the auth service needs. Lookups
// return (nil, nil) when the user is absent.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateRefreshToken(ctx context.Context, userID uint, token *string) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email string, url string) error
}

// UserCache is a best-effort snapshot cache keyed by email.
type UserCache interface {
	Get(ctx context.Context, email string) (*model.User, bool)
	Set(ctx context.Context, user *model.User)
	Delete(ctx context.Context, email string)
}

// EmailEnqueuer hands a mail message to background delivery.
type EmailEnqueuer interface {
	Enqueue(msg mail.Message) bool
}

// AuthService orchestrates signup, login, token refresh, email confirmation
// and current-user resolution.
type AuthService struct {
	store   UserStore
	cache   UserCache
	mailQ   EmailEnqueuer
	tokens  *TokenService
	hasher  *PasswordHasher
	baseURL string
}

func NewAuthService(store UserStore, cache UserCache, mailQ EmailEnqueuer, tokens *TokenService, hasher *PasswordHasher, baseURL string) *AuthService {
	return &AuthService{
		store:   store,
		cache:   cache,
		mailQ:   mailQ,
		tokens:  tokens,
		hasher:  hasher,
		baseURL: baseURL,
	}
}

// Signup registers a new, unconfirmed user and queues the confirmation mail.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Signup")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		logger.InfoWithContext(ctx, "Signup rejected, account exists").
			String("email", email).
			Log()
		return nil, apperrors.ErrAccountExists
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Password: digest,
		Avatar:   gravatarURL(email),
	}

	if err := s.store.Create(ctx, user); err != nil {
		// two concurrent signups can both pass the lookup above, the
		// unique index on email decides the loser
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAccountExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.enqueueConfirmation(ctx, user)

	logger.InfoWithContext(ctx, "User signed up").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return userResponse(user), nil
}

// Login verifies credentials and issues a fresh access+refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidEmail
	}
	if !user.Confirmed {
		return nil, apperrors.ErrNotConfirmed
	}
	if !s.hasher.Verify(password, user.Password) {
		logger.WarnWithContext(ctx, "Login failed, password mismatch").
			String("email", user.Email).
			Log()
		return nil, apperrors.ErrInvalidPassword
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User logged in").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	return pair, nil
}

// Refresh rotates the token pair. A refresh token that does not match the
// stored one clears it, forcing a fresh login.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Refresh")

	email, err := s.tokens.Decode(refreshToken, ScopeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		logger.WarnWithContext(ctx, "Refresh token mismatch, clearing stored token").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		if err := s.store.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			logger.ErrorWithContext(ctx, "Failed to clear refresh token").
				Uint("user_id", user.ID).
				Err(err).
				Log()
		}
		return nil, apperrors.ErrUnauthorized
	}

	return s.issuePair(ctx, user)
}

// ConfirmEmail flips the user to confirmed. The call is idempotent:
// alreadyConfirmed reports a repeat confirmation.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ConfirmEmail")

	email, err := s.tokens.Decode(token, ScopeEmail)
	if err != nil {
		return false, apperrors.WrapError(apperrors.ErrVerification, err)
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return false, apperrors.ErrVerification
	}

	if user.Confirmed {
		return true, nil
	}

	if err := s.store.ConfirmEmail(ctx, email); err != nil {
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Delete(ctx, email)

	logger.InfoWithContext(ctx, "Email confirmed").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return false, nil
}

// RequestConfirmation re-sends the confirmation mail for an existing
// unconfirmed account. Unknown addresses are silently accepted so the
// endpoint does not leak account existence.
func (s *AuthService) RequestConfirmation(ctx context.Context, email string) (alreadyConfirmed bool, err error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RequestConfirmation")

	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return false, nil
	}
	if user.Confirmed {
		return true, nil
	}

	s.enqueueConfirmation(ctx, user)
	return false, nil
}

// CurrentUser resolves the user behind an access token, preferring the
// session cache over the datastore.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CurrentUser")

	email, err := s.tokens.Decode(accessToken, ScopeAccess)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUnauthorized, err)
	}

	if user, ok := s.cache.Get(ctx, email); ok {
		return user, nil
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}

	s.cache.Set(ctx, user)
	return user, nil
}

// UpdateAvatar stores a new avatar URL and invalidates the cached snapshot.
func (s *AuthService) UpdateAvatar(ctx context.Context, email, url string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateAvatar")

	if err := s.store.UpdateAvatar(ctx, email, url); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Delete(ctx, email)

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return userResponse(user), nil
}

// issuePair mints a fresh access+refresh pair and persists the refresh
// token, invalidating every previously issued one.
func (s *AuthService) issuePair(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	access, err := s.tokens.IssueAccess(user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refresh, err := s.tokens.IssueRefresh(user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.UpdateRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) enqueueConfirmation(ctx context.Context, user *model.User) {
	token, err := s.tokens.IssueVerification(user.Email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue verification token").
			String("email", user.Email).
			Err(err).
			Log()
		return
	}

	s.mailQ.Enqueue(mail.Message{
		To:       user.Email,
		Username: user.Username,
		Token:    token,
		BaseURL:  s.baseURL,
	})
}

func userResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Confirmed: user.Confirmed,
		CreatedAt: user.CreatedAt,
	}
}

// gravatarURL derives the avatar URL for an email, nil when the address is
// empty.
func gravatarURL(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	url := fmt.Sprintf("https://www.gravatar.com/avatar/%x", md5.Sum([]byte(email)))
	return &url
}
