package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tajoco/contacts/config"
	"github.com/tajoco/contacts/internal/mail"
	"github.com/tajoco/contacts/internal/model"
	"github.com/tajoco/contacts/internal/service"
	"gorm.io/gorm"
)

type stubUserStore struct {
	user *model.User
	err  error
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.user, s.err
}

func (s *stubUserStore) Create(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserStore) UpdateRefreshToken(ctx context.Context, userID uint, token *string) error {
	return nil
}

func (s *stubUserStore) ConfirmEmail(ctx context.Context, email string) error { return nil }

func (s *stubUserStore) UpdateAvatar(ctx context.Context, email string, url string) error {
	return nil
}

type noopUserCache struct{}

func (noopUserCache) Get(ctx context.Context, email string) (*model.User, bool) { return nil, false }
func (noopUserCache) Set(ctx context.Context, user *model.User)                 {}
func (noopUserCache) Delete(ctx context.Context, email string)                  {}

type noopMailQueue struct{}

func (noopMailQueue) Enqueue(msg mail.Message) bool { return true }

func authTestRouter(t *testing.T, store *stubUserStore) (*gin.Engine, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := service.NewTokenService(config.JWTConfig{
		Secret:           "test-secret",
		SigningAlgorithm: "HS256",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		VerifyTTL:        24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	authService := service.NewAuthService(store, noopUserCache{}, noopMailQueue{}, tokens, service.NewPasswordHasher(), "http://localhost:8000")
	m := NewJWTMiddleware(authService)

	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func TestRequireAuth(t *testing.T) {
	user := &model.User{Model: gorm.Model{ID: 1}, Email: "user@example.com", Confirmed: true}

	tests := []struct {
		name       string
		store      *stubUserStore
		authHeader func(tokens *service.TokenService) string
		wantCode   int
	}{
		{
			name:       "Missing header",
			store:      &stubUserStore{user: user},
			authHeader: func(*service.TokenService) string { return "" },
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "Malformed header",
			store:      &stubUserStore{user: user},
			authHeader: func(*service.TokenService) string { return "Token abc" },
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:       "Garbage token",
			store:      &stubUserStore{user: user},
			authHeader: func(*service.TokenService) string { return "Bearer not-a-token" },
			wantCode:   http.StatusUnauthorized,
		},
		{
			name:  "Unknown user",
			store: &stubUserStore{},
			authHeader: func(tokens *service.TokenService) string {
				token, _ := tokens.IssueAccess("user@example.com")
				return "Bearer " + token
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "Datastore failure",
			store: &stubUserStore{err: errors.New("connection refused")},
			authHeader: func(tokens *service.TokenService) string {
				token, _ := tokens.IssueAccess("user@example.com")
				return "Bearer " + token
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:  "Valid token",
			store: &stubUserStore{user: user},
			authHeader: func(tokens *service.TokenService) string {
				token, _ := tokens.IssueAccess("user@example.com")
				return "Bearer " + token
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, tokens := authTestRouter(t, tt.store)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header := tt.authHeader(tokens); header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}
