package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/jwt"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, redis *redis.Client) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
	}
}

// Register creates a new account. Identity is the (email, role) pair, so the
// same email may register once per role.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if !user.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	existing, _ := s.userRepo.GetByEmailAndRole(ctx, email, user.Role(req.Role))
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         user.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		// Concurrent registration of the same (email, role) pair loses
		// against the unique constraint.
		if err == user.ErrAlreadyExists {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates a user against the (email, role) pair
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmailAndRole(ctx, email, user.Role(req.Role))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	if _, err := s.jwtService.ValidateRefreshToken(refreshToken); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Rotation: the old token is spent whether or not issuing succeeds.
	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns the authenticated account
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}, nil
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, jwt.HashRefreshToken(refreshToken), u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		},
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers. Only hash(refresh) is stored server-side; the raw token
// lives with the client.
func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, userID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	if s.redis == nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
