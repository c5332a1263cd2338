package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/config"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

const defaultCommissionRate = 0.5

// AgentService manages the agent roster lifecycle: creation, approval,
// rejection, deactivation, reactivation and removal, together with the
// cascades each transition implies on users and assigned clients.
type AgentService struct {
	repos      *repository.Registry
	uow        repository.UnitOfWork
	dispatcher events.Dispatcher
	cfg        config.Config
	logger     *zap.Logger
	now        func() time.Time
}

// AgentDependencies bundles requirements for the agent service.
type AgentDependencies struct {
	Repos      *repository.Registry
	UnitOfWork repository.UnitOfWork
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewAgentService constructs the service.
func NewAgentService(cfg config.Config, deps AgentDependencies) *AgentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AgentService{
		repos:      deps.Repos,
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		logger:     logger,
		now:        now,
	}
}

// AgentInput carries writable agent profile fields.
type AgentInput struct {
	Name           string
	Email          string
	Phone          string
	Bio            string
	CommissionRate *float64
}

// CreateAgent inserts an agent directly in ACTIVE status. Used by admins
// adding producers who never go through self-registration; no login is
// created until the agent is linked to a user.
func (s *AgentService) CreateAgent(ctx context.Context, input AgentInput) (*domain.Agent, error) {
	slug, err := uniqueSlug(ctx, s.repos.Agents, input.Name)
	if err != nil {
		return nil, err
	}
	joinDate := s.now()
	agent := &domain.Agent{
		Name:           input.Name,
		Slug:           slug,
		Email:          input.Email,
		Phone:          input.Phone,
		Bio:            input.Bio,
		CommissionRate: defaultCommissionRate,
		Status:         domain.AgentStatusActive,
		JoinDate:       &joinDate,
	}
	if input.CommissionRate != nil {
		agent.CommissionRate = *input.CommissionRate
	}
	if err := s.repos.Agents.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// UpdateProfile merges profile fields onto an agent. Commission rate changes
// are only honored when allowCommission is set, keeping agents from editing
// their own split.
func (s *AgentService) UpdateProfile(ctx context.Context, id string, input AgentInput, allowCommission bool) (*domain.Agent, error) {
	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	agent.Name = input.Name
	agent.Email = input.Email
	agent.Phone = input.Phone
	agent.Bio = input.Bio
	if allowCommission && input.CommissionRate != nil {
		agent.CommissionRate = *input.CommissionRate
	}
	if err := s.repos.Agents.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// Approve moves a PENDING agent to ACTIVE, stamps the join date and promotes
// the linked login to the chosen role, AGENT or SUB_ADMIN.
func (s *AgentService) Approve(ctx context.Context, id string, role domain.Role) (*domain.Agent, error) {
	title := ""
	switch role {
	case "", domain.RoleAgent:
		role = domain.RoleAgent
		title = "Insurance Agent"
	case domain.RoleSubAdmin:
		title = "Sub Admin"
	default:
		return nil, apperrors.NewValidationError("role must be AGENT or SUB_ADMIN", map[string]any{"role": role})
	}

	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.Status != domain.AgentStatusPending {
		return nil, apperrors.NewConflict("agent is not pending approval", map[string]any{"status": agent.Status})
	}

	agent.Status = domain.AgentStatusActive
	joinDate := s.now()
	agent.JoinDate = &joinDate

	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Agents.Update(ctx, agent); err != nil {
			return err
		}
		if agent.UserID == nil {
			return nil
		}
		user, err := r.Users.GetByID(ctx, *agent.UserID)
		if err != nil {
			return err
		}
		user.Role = role
		user.Title = title
		user.Verified = true
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if agent.UserID != nil {
		s.publish(ctx, events.Event{
			Type: events.EventAgentApproved,
			Payload: events.AgentApprovedPayload{
				AgentID:     agent.ID,
				AgentUserID: *agent.UserID,
				Role:        role,
			},
		})
	}
	s.logger.Info("agent approved", zap.String("agent_id", agent.ID))
	return agent, nil
}

// Reject moves a PENDING agent to INACTIVE without touching the login.
func (s *AgentService) Reject(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.Status != domain.AgentStatusPending {
		return nil, apperrors.NewConflict("agent is not pending approval", map[string]any{"status": agent.Status})
	}
	agent.Status = domain.AgentStatusInactive
	if err := s.repos.Agents.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// Deactivate removes an ACTIVE agent's login, unassigns their clients and
// parks the record as INACTIVE. The whole cascade commits atomically.
func (s *AgentService) Deactivate(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.Status != domain.AgentStatusActive {
		return nil, apperrors.NewConflict("agent is not active", map[string]any{"status": agent.Status})
	}

	userID := agent.UserID
	agent.Status = domain.AgentStatusInactive
	agent.UserID = nil

	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		if _, err := r.Clients.UnassignAgent(ctx, agent.ID); err != nil {
			return err
		}
		if err := r.Agents.Update(ctx, agent); err != nil {
			return err
		}
		if userID != nil {
			return r.Users.Delete(ctx, *userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("agent deactivated", zap.String("agent_id", agent.ID))
	return agent, nil
}

// Reactivate brings an INACTIVE agent back as ACTIVE with a fresh login on
// the configured temporary password.
func (s *AgentService) Reactivate(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.Status != domain.AgentStatusInactive {
		return nil, apperrors.NewConflict("agent is not inactive", map[string]any{"status": agent.Status})
	}

	hash, err := auth.HashPassword(s.cfg.Auth.ReactivatePassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         agent.Name,
		Email:        agent.Email,
		PasswordHash: hash,
		Role:         domain.RoleAgent,
		Title:        "Insurance Agent",
		Verified:     true,
	}

	agent.Status = domain.AgentStatusActive
	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		agent.UserID = &user.ID
		return r.Agents.Update(ctx, agent)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("agent reactivated", zap.String("agent_id", agent.ID))
	return agent, nil
}

// Delete permanently removes an INACTIVE agent along with any linked login,
// unassigning whatever clients still point at the record.
func (s *AgentService) Delete(ctx context.Context, id string) error {
	agent, err := s.getAgent(ctx, id)
	if err != nil {
		return err
	}
	if agent.Status != domain.AgentStatusInactive {
		return apperrors.NewConflict("only inactive agents can be deleted", map[string]any{"status": agent.Status})
	}

	return s.uow.Run(ctx, func(r *repository.Registry) error {
		if _, err := r.Clients.UnassignAgent(ctx, agent.ID); err != nil {
			return err
		}
		if agent.UserID != nil {
			if err := r.Users.Delete(ctx, *agent.UserID); err != nil && err != pgx.ErrNoRows {
				return err
			}
		}
		return r.Agents.Delete(ctx, agent.ID)
	})
}

// GetAgent fetches one agent by id.
func (s *AgentService) GetAgent(ctx context.Context, id string) (*domain.Agent, error) {
	return s.getAgent(ctx, id)
}

// GetAgentBySlug fetches one agent by its public slug.
func (s *AgentService) GetAgentBySlug(ctx context.Context, slug string) (*domain.Agent, error) {
	agent, err := s.repos.Agents.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("agent", map[string]any{"slug": slug})
		}
		return nil, err
	}
	return agent, nil
}

// ListAgents returns agents, optionally narrowed by status.
func (s *AgentService) ListAgents(ctx context.Context, statuses []domain.AgentStatus) ([]domain.Agent, error) {
	return s.repos.Agents.List(ctx, statuses)
}

func (s *AgentService) getAgent(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.repos.Agents.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, err
	}
	return agent, nil
}

func (s *AgentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// makeSlug lowercases the name and collapses runs of non-alphanumerics into
// single hyphens.
func makeSlug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug derives a slug from the name, appending a numeric suffix until
// no existing agent claims it.
func uniqueSlug(ctx context.Context, agents repository.AgentRepository, name string) (string, error) {
	base := makeSlug(name)
	if base == "" {
		base = "agent"
	}
	slug := base
	for i := 2; ; i++ {
		_, err := agents.GetBySlug(ctx, slug)
		if err == pgx.ErrNoRows {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
