package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users         map[string]*domain.UserWithRole
	usernameIndex map[string]*domain.UserWithRole
	createError   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:         make(map[string]*domain.UserWithRole),
		usernameIndex: make(map[string]*domain.UserWithRole),
	}
}

func (r *mockUserRepository) add(user *domain.UserWithRole) {
	r.users[user.ID] = user
	r.usernameIndex[user.Username] = user
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if r.createError != nil {
		return r.createError
	}
	r.add(&domain.UserWithRole{User: *user, RoleName: domain.RoleCustomer})
	return nil
}

func (r *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, exists := r.usernameIndex[username]
	return exists, nil
}

func (r *mockUserRepository) GetByUsernameWithRole(ctx context.Context, username string) (*domain.UserWithRole, error) {
	return r.usernameIndex[username], nil
}

func (r *mockUserRepository) GetByIDWithRole(ctx context.Context, id string) (*domain.UserWithRole, error) {
	return r.users[id], nil
}

// mockRoleRepository is a mock implementation of RoleRepository
type mockRoleRepository struct {
	roles map[string]*domain.Role
}

func newMockRoleRepository() *mockRoleRepository {
	customer := &domain.Role{
		ID:          "role-customer",
		Name:        domain.RoleCustomer,
		Permissions: []string{"view:movies", "create:ticket"},
	}
	return &mockRoleRepository{roles: map[string]*domain.Role{customer.ID: customer}}
}

func (r *mockRoleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Role, int64, error) {
	return nil, 0, nil
}

func (r *mockRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.roles[id], nil
}

func (r *mockRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *mockRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	role, _ := r.GetByName(ctx, name)
	return role != nil, nil
}

func (r *mockRoleRepository) Create(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	r.roles[role.ID] = role
	return nil
}

func (r *mockRoleRepository) Update(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	r.roles[role.ID] = role
	return nil
}

func (r *mockRoleRepository) Delete(ctx context.Context, id string) error {
	delete(r.roles, id)
	return nil
}

func newTestAuthService(userRepo *mockUserRepository, ttl time.Duration) AuthService {
	return NewAuthService(userRepo, newMockRoleRepository(), &AuthServiceConfig{
		JWTSecret:         "test-secret-key",
		AccessTokenExpiry: ttl,
		BcryptCost:        bcrypt.MinCost,
	})
}

func TestAuthService_Register(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := newTestAuthService(userRepo, time.Hour)

	t.Run("successful registration", func(t *testing.T) {
		req := &dto.RegisterRequest{
			Username: "alice",
			Password: "secret123",
			Age:      30,
		}

		token, err := svc.Register(context.Background(), req)
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if token == "" {
			t.Fatal("Register() returned empty token")
		}

		principal, err := svc.VerifyToken(context.Background(), token)
		if err != nil {
			t.Fatalf("VerifyToken() on registration token: %v", err)
		}
		if principal.Username != "alice" {
			t.Errorf("Register() token Username = %v, want alice", principal.Username)
		}

		user := userRepo.usernameIndex["alice"]
		if user == nil {
			t.Fatal("Register() did not store the user")
		}
		if user.PasswordHash == "secret123" {
			t.Error("Register() stored the password in clear")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
			t.Errorf("Register() password hash does not verify: %v", err)
		}
		if user.RoleID != "role-customer" {
			t.Errorf("Register() RoleID = %v, want role-customer", user.RoleID)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		req := &dto.RegisterRequest{
			Username: "alice",
			Password: "another123",
			Age:      25,
		}

		_, err := svc.Register(context.Background(), req)
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			t.Errorf("Register() error = %v, want %v", err, domain.ErrUserAlreadyExists)
		}
	})

	t.Run("unknown explicit role", func(t *testing.T) {
		req := &dto.RegisterRequest{
			Username: "bob",
			Password: "secret123",
			Age:      40,
			RoleID:   "no-such-role",
		}

		_, err := svc.Register(context.Background(), req)
		if !errors.Is(err, domain.ErrRoleNotFound) {
			t.Errorf("Register() error = %v, want %v", err, domain.ErrRoleNotFound)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	userRepo := newMockUserRepository()
	svc := newTestAuthService(userRepo, time.Hour)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	userRepo.add(&domain.UserWithRole{
		User: domain.User{
			ID:           "user-1",
			Username:     "carol",
			PasswordHash: string(hashed),
			Age:          28,
			RoleID:       "role-customer",
		},
		RoleName:    domain.RoleCustomer,
		Permissions: []string{"view:movies", "create:ticket"},
	})

	t.Run("successful login", func(t *testing.T) {
		token, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "carol", Password: "secret123"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token == "" {
			t.Fatal("Login() returned empty token")
		}
		if strings.Count(token, ".") != 2 {
			t.Errorf("Login() token is not a three-segment JWT: %q", token)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "carol", Password: "wrong"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, domain.ErrInvalidCredentials)
		}
	})

	t.Run("non-existent user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "secret123"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want %v", err, domain.ErrInvalidCredentials)
		}
	})
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(newMockUserRepository(), time.Hour)

	principal := &domain.Principal{
		ID:       "user-1",
		Username: "carol",
		Age:      28,
		Role: domain.RoleClaim{
			Name:        domain.RoleCustomer,
			Permissions: []string{"view:movies", "create:ticket"},
		},
	}

	token, err := svc.IssueToken(principal)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	got, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	if got.ID != principal.ID || got.Username != principal.Username || got.Age != principal.Age {
		t.Errorf("VerifyToken() identity = %+v, want %+v", got, principal)
	}
	if got.Role.Name != domain.RoleCustomer {
		t.Errorf("VerifyToken() Role.Name = %v, want %v", got.Role.Name, domain.RoleCustomer)
	}
	if len(got.Role.Permissions) != 2 || got.Role.Permissions[0] != "view:movies" {
		t.Errorf("VerifyToken() permissions = %v, want the issued snapshot", got.Role.Permissions)
	}
	if got.IssuedAt == 0 || got.ExpiresAt == 0 {
		t.Errorf("VerifyToken() iat/exp not set: iat=%d exp=%d", got.IssuedAt, got.ExpiresAt)
	}
	if got.ExpiresAt-got.IssuedAt != int64(time.Hour/time.Second) {
		t.Errorf("VerifyToken() lifetime = %d seconds, want 3600", got.ExpiresAt-got.IssuedAt)
	}
}

func TestAuthService_VerifyToken_Rejections(t *testing.T) {
	svc := newTestAuthService(newMockUserRepository(), time.Hour)

	principal := &domain.Principal{
		ID:       "user-1",
		Username: "carol",
		Role:     domain.RoleClaim{Name: domain.RoleCustomer},
	}

	t.Run("expired token", func(t *testing.T) {
		expiredSvc := newTestAuthService(newMockUserRepository(), -time.Hour)
		token, err := expiredSvc.IssueToken(principal)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}

		_, err = svc.VerifyToken(context.Background(), token)
		if !errors.Is(err, domain.ErrTokenExpired) {
			t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrTokenExpired)
		}
	})

	t.Run("zero exp is expired, not eternal", func(t *testing.T) {
		claims := &tokenClaims{Principal: *principal}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}

		_, err = svc.VerifyToken(context.Background(), token)
		if !errors.Is(err, domain.ErrTokenExpired) {
			t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrTokenExpired)
		}
	})

	t.Run("forged signature", func(t *testing.T) {
		otherSvc := NewAuthService(newMockUserRepository(), newMockRoleRepository(), &AuthServiceConfig{
			JWTSecret:         "a-different-secret",
			AccessTokenExpiry: time.Hour,
		})
		token, err := otherSvc.IssueToken(principal)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}

		_, err = svc.VerifyToken(context.Background(), token)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrInvalidToken)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := svc.IssueToken(principal)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		_, err = svc.VerifyToken(context.Background(), strings.Join(parts, "."))
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrInvalidToken)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken(context.Background(), "not-a-token")
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("VerifyToken() error = %v, want %v", err, domain.ErrInvalidToken)
		}
	})
}
