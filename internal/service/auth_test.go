package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tajoco/contacts/internal/dto"
	apperrors "github.com/tajoco/contacts/internal/errors"
	"github.com/tajoco/contacts/internal/mail"
	"github.com/tajoco/contacts/internal/model"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users     map[string]*model.User
	nextID    uint
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	for _, user := range s.users {
		if user.ID == userID {
			user.RefreshToken = token
			return nil
		}
	}
	return errors.New("user not found")
}

func (s *fakeUserStore) ConfirmEmail(ctx context.Context, email string) error {
	user, ok := s.users[email]
	if !ok {
		return errors.New("user not found")
	}
	user.Confirmed = true
	return nil
}

func (s *fakeUserStore) UpdateAvatar(ctx context.Context, email string, url string) error {
	user, ok := s.users[email]
	if !ok {
		return errors.New("user not found")
	}
	user.Avatar = &url
	return nil
}

type fakeUserCache struct {
	entries map[string]*model.User
	sets    int
	deletes int
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[string]*model.User)}
}

func (c *fakeUserCache) Get(ctx context.Context, email string) (*model.User, bool) {
	user, ok := c.entries[email]
	return user, ok
}

func (c *fakeUserCache) Set(ctx context.Context, user *model.User) {
	c.sets++
	c.entries[user.Email] = user
}

func (c *fakeUserCache) Delete(ctx context.Context, email string) {
	c.deletes++
	delete(c.entries, email)
}

type fakeMailQueue struct {
	messages []mail.Message
}

func (q *fakeMailQueue) Enqueue(msg mail.Message) bool {
	q.messages = append(q.messages, msg)
	return true
}

type authFixture struct {
	svc    *AuthService
	store  *fakeUserStore
	cache  *fakeUserCache
	mailQ  *fakeMailQueue
	tokens *TokenService
	hasher *PasswordHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tokens, err := NewTokenService(testJWTConfig())
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	store := newFakeUserStore()
	cache := newFakeUserCache()
	mailQ := &fakeMailQueue{}
	hasher := NewPasswordHasher()

	return &authFixture{
		svc:    NewAuthService(store, cache, mailQ, tokens, hasher, "http://localhost:8000"),
		store:  store,
		cache:  cache,
		mailQ:  mailQ,
		tokens: tokens,
		hasher: hasher,
	}
}

func (f *authFixture) seedUser(t *testing.T, email, password string, confirmed bool) *model.User {
	t.Helper()

	digest, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &model.User{
		Username:  "tester",
		Email:     email,
		Password:  digest,
		Confirmed: confirmed,
	}
	if err := f.store.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "tester",
		Email:    "New@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Failed to sign up: %v", err)
	}

	if user.Email != "new@example.com" {
		t.Errorf("Expected normalized email new@example.com, got %s", user.Email)
	}
	if user.Confirmed {
		t.Error("Expected new user to be unconfirmed")
	}
	if user.Avatar == nil || !strings.HasPrefix(*user.Avatar, "https://www.gravatar.com/avatar/") {
		t.Errorf("Expected gravatar avatar URL, got %v", user.Avatar)
	}

	stored, _ := f.store.GetByEmail(context.Background(), "new@example.com")
	if stored == nil {
		t.Fatal("Expected user to be persisted")
	}
	if stored.Password == "secret123" {
		t.Error("Expected password to be hashed")
	}

	if len(f.mailQ.messages) != 1 {
		t.Fatalf("Expected 1 confirmation mail, got %d", len(f.mailQ.messages))
	}
	msg := f.mailQ.messages[0]
	if msg.To != "new@example.com" {
		t.Errorf("Expected mail to new@example.com, got %s", msg.To)
	}
	email, err := f.tokens.Decode(msg.Token, ScopeEmail)
	if err != nil {
		t.Fatalf("Expected verification token in mail, got error: %v", err)
	}
	if email != "new@example.com" {
		t.Errorf("Expected token subject new@example.com, got %s", email)
	}
}

func TestSignupAccountExists(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "taken@example.com", "secret123", true)

	_, err := f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "tester",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, apperrors.ErrAccountExists) {
		t.Errorf("Expected ErrAccountExists, got %v", err)
	}
	if len(f.mailQ.messages) != 0 {
		t.Errorf("Expected no mail on conflict, got %d", len(f.mailQ.messages))
	}
}

func TestSignupDuplicateKeyOnCreate(t *testing.T) {
	f := newAuthFixture(t)

	// Simulates losing a check-then-create race, the lookup saw no
	// account but the unique index rejects the insert
	f.store.createErr = gorm.ErrDuplicatedKey

	_, err := f.svc.Signup(context.Background(), &dto.SignupRequest{
		Username: "tester",
		Email:    "racer@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, apperrors.ErrAccountExists) {
		t.Errorf("Expected ErrAccountExists, got %v", err)
	}
	if len(f.mailQ.messages) != 0 {
		t.Errorf("Expected no mail on conflict, got %d", len(f.mailQ.messages))
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", true)
	f.seedUser(t, "pending@example.com", "secret123", false)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  *apperrors.DomainError
	}{
		{name: "Unknown email", email: "nobody@example.com", password: "secret123", wantErr: apperrors.ErrInvalidEmail},
		{name: "Unconfirmed account", email: "pending@example.com", password: "secret123", wantErr: apperrors.ErrNotConfirmed},
		{name: "Wrong password", email: "user@example.com", password: "wrong", wantErr: apperrors.ErrInvalidPassword},
		{name: "Success", email: "user@example.com", password: "secret123", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := f.svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to log in: %v", err)
			}
			if tokens.TokenType != "bearer" {
				t.Errorf("Expected token_type bearer, got %s", tokens.TokenType)
			}

			stored, _ := f.store.GetByEmail(context.Background(), tt.email)
			if stored.RefreshToken == nil || *stored.RefreshToken != tokens.RefreshToken {
				t.Error("Expected issued refresh token to be persisted")
			}
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", true)

	first, err := f.svc.Login(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}

	second, err := f.svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}

	if second.RefreshToken == first.RefreshToken {
		t.Error("Expected rotation to issue a new refresh token")
	}

	stored, _ := f.store.GetByEmail(context.Background(), "user@example.com")
	if stored.RefreshToken == nil || *stored.RefreshToken != second.RefreshToken {
		t.Error("Expected stored refresh token to be rotated")
	}

	// The pre-rotation token must be dead
	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for replayed token, got %v", err)
	}
}

func TestRefreshMismatchClearsStoredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", true)

	if _, err := f.svc.Login(context.Background(), "user@example.com", "secret123"); err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}

	// Valid token for the user, but not the stored one
	stray, err := f.tokens.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	_, err = f.svc.Refresh(context.Background(), stray)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}

	stored, _ := f.store.GetByEmail(context.Background(), "user@example.com")
	if stored.RefreshToken != nil {
		t.Error("Expected stored refresh token to be cleared")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", true)

	access, err := f.tokens.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	_, err = f.svc.Refresh(context.Background(), access)
	if !errors.Is(err, apperrors.ErrInvalidScope) {
		t.Errorf("Expected ErrInvalidScope, got %v", err)
	}
}

func TestConfirmEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", false)

	token, err := f.tokens.IssueVerification("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	already, err := f.svc.ConfirmEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("Failed to confirm email: %v", err)
	}
	if already {
		t.Error("Expected first confirmation to report not already confirmed")
	}

	stored, _ := f.store.GetByEmail(context.Background(), "user@example.com")
	if !stored.Confirmed {
		t.Error("Expected user to be confirmed")
	}

	already, err = f.svc.ConfirmEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("Expected repeat confirmation to succeed, got %v", err)
	}
	if !already {
		t.Error("Expected repeat confirmation to report already confirmed")
	}
}

func TestConfirmEmailBadToken(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "Garbage token", token: func() string { return "garbage" }},
		{name: "Wrong scope", token: func() string {
			token, _ := f.tokens.IssueAccess("user@example.com")
			return token
		}},
		{name: "Unknown user", token: func() string {
			token, _ := f.tokens.IssueVerification("nobody@example.com")
			return token
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ConfirmEmail(context.Background(), tt.token())
			if !errors.Is(err, apperrors.ErrVerification) {
				t.Errorf("Expected ErrVerification, got %v", err)
			}
		})
	}
}

func TestRequestConfirmation(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "pending@example.com", "secret123", false)
	f.seedUser(t, "done@example.com", "secret123", true)

	already, err := f.svc.RequestConfirmation(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Expected unknown address to be accepted, got %v", err)
	}
	if already {
		t.Error("Expected unknown address to report not confirmed")
	}
	if len(f.mailQ.messages) != 0 {
		t.Errorf("Expected no mail for unknown address, got %d", len(f.mailQ.messages))
	}

	already, err = f.svc.RequestConfirmation(context.Background(), "done@example.com")
	if err != nil {
		t.Fatalf("Failed to request confirmation: %v", err)
	}
	if !already {
		t.Error("Expected confirmed account to report already confirmed")
	}

	if _, err := f.svc.RequestConfirmation(context.Background(), "pending@example.com"); err != nil {
		t.Fatalf("Failed to request confirmation: %v", err)
	}
	if len(f.mailQ.messages) != 1 {
		t.Errorf("Expected 1 mail for unconfirmed account, got %d", len(f.mailQ.messages))
	}
}

func TestCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "user@example.com", "secret123", true)

	access, err := f.tokens.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	user, err := f.svc.CurrentUser(context.Background(), access)
	if err != nil {
		t.Fatalf("Failed to resolve current user: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("Expected user@example.com, got %s", user.Email)
	}
	if f.cache.sets != 1 {
		t.Errorf("Expected cache fill on miss, got %d sets", f.cache.sets)
	}

	// Second lookup served from cache
	if _, err := f.svc.CurrentUser(context.Background(), access); err != nil {
		t.Fatalf("Failed to resolve current user: %v", err)
	}
	if f.cache.sets != 1 {
		t.Errorf("Expected cache hit on second lookup, got %d sets", f.cache.sets)
	}
}

func TestCurrentUserUnknown(t *testing.T) {
	f := newAuthFixture(t)

	access, err := f.tokens.IssueAccess("ghost@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	_, err = f.svc.CurrentUser(context.Background(), access)
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateAvatarInvalidatesCache(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "user@example.com", "secret123", true)
	f.cache.Set(context.Background(), seeded)

	updated, err := f.svc.UpdateAvatar(context.Background(), "user@example.com", "https://cdn.example.com/a.png")
	if err != nil {
		t.Fatalf("Failed to update avatar: %v", err)
	}
	if updated.Avatar == nil || *updated.Avatar != "https://cdn.example.com/a.png" {
		t.Errorf("Expected updated avatar URL, got %v", updated.Avatar)
	}
	if f.cache.deletes == 0 {
		t.Error("Expected cached snapshot to be invalidated")
	}
}
