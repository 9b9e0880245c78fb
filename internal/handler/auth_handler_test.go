package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/pkg/response"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	if s.registerErr != nil {
		return "", s.registerErr
	}
	return "signed-token", nil
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "signed-token", nil
}

func (s *stubAuthService) IssueToken(principal *domain.Principal) (string, error) {
	return "signed-token", nil
}

func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (*domain.Principal, error) {
	return nil, domain.ErrInvalidToken
}

func authRouter(svc *stubAuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created with token", func(t *testing.T) {
		router := authRouter(&stubAuthService{})
		w := postJSON(router, "/auth/register", `{"username":"alice","password":"secret1","age":30}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var body dto.TokenResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal token: %v", err)
		}
		if body.Token != "signed-token" {
			t.Errorf("token = %q", body.Token)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		router := authRouter(&stubAuthService{registerErr: domain.ErrUserAlreadyExists})
		w := postJSON(router, "/auth/register", `{"username":"alice","password":"secret1","age":30}`)

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
		}
		var body response.ErrorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal error body: %v", err)
		}
		if body.Message != "Username already exists" || body.Error != "Conflict" {
			t.Errorf("envelope = %+v", body)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		router := authRouter(&stubAuthService{})
		w := postJSON(router, "/auth/register", `{"username":"alice"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns the token", func(t *testing.T) {
		router := authRouter(&stubAuthService{})
		w := postJSON(router, "/auth/login", `{"username":"alice","password":"secret1"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var body dto.TokenResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal token: %v", err)
		}
		if body.Token != "signed-token" {
			t.Errorf("token = %q", body.Token)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		router := authRouter(&stubAuthService{loginErr: domain.ErrInvalidCredentials})
		w := postJSON(router, "/auth/login", `{"username":"alice","password":"wrong-1"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		var body response.ErrorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal error body: %v", err)
		}
		if body.Message != "Invalid username or password" {
			t.Errorf("message = %q", body.Message)
		}
	})
}
