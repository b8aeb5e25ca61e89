package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNotApproved    = errors.New("account pending approval")
)

// AuthService 注册/登录。密码只存 SHA-256 摘要；登录换取 HS256 JWT，
// claims 携带 user_id 和 role，供 HTTP 层做 capability 检查。
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ParseToken(token string) (*Claims, error)
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	FullName string
	Phone    string // optional
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Claims JWT 载荷
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users  repository.UsersRepository
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewAuthService(users repository.UsersRepository, secret string, ttl time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// HashPassword password_hash 只依赖密码本身。
func HashPassword(password string) []byte {
	h := sha256.Sum256([]byte(password))
	return h[:]
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := s.users.CreateUser(ctx, domain.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: HashPassword(req.Password),
		Role:         req.Role,
		FullName:     req.FullName,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.UserID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	want := HashPassword(req.Password)
	if subtle.ConstantTimeCompare(user.PasswordHash, want) != 1 {
		return nil, ErrBadCredentials
	}
	// admin 账户无需审批，其它角色必须先过管理员审批
	if !user.Approved && user.Role != domain.RoleAdmin {
		return nil, ErrNotApproved
	}

	now := time.Now()
	claims := Claims{
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
