package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/config"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// VerificationCodes stores pending email verification codes with expiry.
type VerificationCodes interface {
	Put(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// AuthService coordinates registration, verification and login flows.
type AuthService struct {
	users      repository.UserRepository
	agents     repository.AgentRepository
	codes      VerificationCodes
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	AgentRepo repository.AgentRepository
	Codes     VerificationCodes
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		agents:     deps.AgentRepo,
		codes:      deps.Codes,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes an agent signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Bio      string
}

// Register creates an unverified user together with a PENDING agent record
// and stores a verification code for the email.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Agent, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if err != pgx.ErrNoRows {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleAgent,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	slug, err := uniqueSlug(ctx, s.agents, input.Name)
	if err != nil {
		return nil, nil, err
	}
	agent := &domain.Agent{
		UserID:         &user.ID,
		Name:           input.Name,
		Slug:           slug,
		Email:          input.Email,
		Phone:          input.Phone,
		Bio:            input.Bio,
		CommissionRate: 0.5,
		Status:         domain.AgentStatusPending,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, nil, err
	}

	code := verificationCode()
	if err := s.codes.Put(ctx, user.Email, code); err != nil {
		return nil, nil, err
	}
	// a real deployment mails this; the dev setup reads it from the logs
	s.logger.Info("verification code issued", zap.String("email", user.Email), zap.String("code", code))

	return user, agent, nil
}

// VerifyEmail consumes a verification code and marks the user verified.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	stored, err := s.codes.Get(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return apperrors.NewForbidden("invalid or expired verification code")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.codes.Delete(ctx, user.Email)
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Verified {
		return nil, "", time.Time{}, apperrors.NewForbidden("email not verified")
	}
	if user.Role == domain.RoleAgent {
		agent, err := s.agents.GetByUserID(ctx, user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return nil, "", time.Time{}, err
		}
		if agent != nil {
			switch agent.Status {
			case domain.AgentStatusPending:
				return nil, "", time.Time{}, apperrors.NewForbidden("account pending approval")
			case domain.AgentStatusInactive:
				return nil, "", time.Time{}, apperrors.NewForbidden("account deactivated")
			}
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func verificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
