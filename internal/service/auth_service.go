package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/repository"
	"github.com/kittipat/movietix/pkg/telemetry"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BcryptCost        int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register registers a new user under the Customer role (or an explicit
	// role id) and issues a signed token for the new account
	Register(ctx context.Context, req *dto.RegisterRequest) (string, error)
	// Login authenticates a user and issues a signed token
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	// IssueToken signs a credential carrying the principal snapshot
	IssueToken(principal *domain.Principal) (string, error)
	// VerifyToken checks a credential's signature and expiry and returns the
	// embedded principal. This is the authoritative check; any local decode
	// of the payload is only a pre-screen.
	VerifyToken(ctx context.Context, token string) (*domain.Principal, error)
}

// tokenClaims carries the principal verbatim as the JWT payload
type tokenClaims struct {
	domain.Principal
}

// GetExpirationTime never returns nil: a zero exp is the epoch, long past,
// so a credential without a real expiry is rejected as expired rather than
// treated as eternal.
func (c *tokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c *tokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c *tokenClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c *tokenClaims) GetIssuer() (string, error)              { return "", nil }
func (c *tokenClaims) GetSubject() (string, error)             { return c.ID, nil }
func (c *tokenClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	config   *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenExpiry == 0 {
		config.AccessTokenExpiry = time.Hour
	}
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		config:   config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("username", req.Username))

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if exists {
		span.SetStatus(codes.Error, "username taken")
		return "", domain.ErrUserAlreadyExists
	}

	roleID := req.RoleID
	if roleID == "" {
		role, err := s.roleRepo.GetByName(ctx, domain.RoleCustomer)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		if role == nil {
			span.SetStatus(codes.Error, "default role missing")
			return "", domain.ErrRoleNotFound
		}
		roleID = role.ID
	} else {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		if role == nil {
			span.SetStatus(codes.Error, "role not found")
			return "", domain.ErrRoleNotFound
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Age:          req.Age,
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	created, err := s.userRepo.GetByIDWithRole(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if created == nil {
		span.SetStatus(codes.Error, "user not found after create")
		return "", domain.ErrUserNotFound
	}

	token, err := s.IssueToken(created.Principal())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return token, nil
}

// Login authenticates a user and issues a token whose payload snapshots the
// user's role and permissions as they are right now
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("username", req.Username))

	user, err := s.userRepo.GetByUsernameWithRole(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.Principal())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return token, nil
}

// IssueToken signs the principal as an HS256 JWT with a fixed lifetime
func (s *authService) IssueToken(principal *domain.Principal) (string, error) {
	now := time.Now()
	claims := &tokenClaims{Principal: *principal}
	claims.Principal.IssuedAt = now.Unix()
	claims.Principal.ExpiresAt = now.Add(s.config.AccessTokenExpiry).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyToken checks signature and expiry and returns the embedded principal
func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*domain.Principal, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.verify_token")
	defer span.End()

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, domain.ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		span.SetStatus(codes.Error, "invalid token")
		return nil, domain.ErrInvalidToken
	}

	span.SetAttributes(attribute.String("user_id", claims.ID))
	span.SetStatus(codes.Ok, "")
	return &claims.Principal, nil
}
