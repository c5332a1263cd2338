package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/config"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/observability"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// PolicyService manages policy records and the renewal scan that turns
// approaching end dates into agent notifications.
type PolicyService struct {
	repos      *repository.Registry
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	window     time.Duration
	now        func() time.Time
}

// PolicyDependencies bundles requirements for the policy service.
type PolicyDependencies struct {
	Repos      *repository.Registry
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewPolicyService constructs the service.
func NewPolicyService(cfg config.Config, deps PolicyDependencies) *PolicyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PolicyService{
		repos:      deps.Repos,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		window:     cfg.Renewal.Window(),
		now:        now,
	}
}

// PolicyInput carries writable policy fields.
type PolicyInput struct {
	ClientID      string
	PolicyNumber  string
	PolicyType    string
	AnnualPremium float64
	Status        domain.PolicyStatus
	StartDate     time.Time
	EndDate       time.Time
}

// CreatePolicy inserts a policy for an existing client.
func (s *PolicyService) CreatePolicy(ctx context.Context, input PolicyInput) (*domain.Policy, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if _, err := s.repos.Clients.GetByID(ctx, input.ClientID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": input.ClientID})
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.PolicyStatusActive
	}
	policy := &domain.Policy{
		ClientID:      input.ClientID,
		PolicyNumber:  input.PolicyNumber,
		PolicyType:    input.PolicyType,
		AnnualPremium: input.AnnualPremium,
		Status:        status,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	}
	if err := s.repos.Policies.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// UpdatePolicy merges fields onto an existing policy.
func (s *PolicyService) UpdatePolicy(ctx context.Context, id string, input PolicyInput) (*domain.Policy, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.ClientID != policy.ClientID {
		return nil, apperrors.NewValidationError("policies cannot move between clients", nil)
	}

	policy.PolicyNumber = input.PolicyNumber
	policy.PolicyType = input.PolicyType
	policy.AnnualPremium = input.AnnualPremium
	if input.Status != "" {
		policy.Status = input.Status
	}
	policy.StartDate = input.StartDate
	policy.EndDate = input.EndDate
	if err := s.repos.Policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// DeletePolicy removes a policy.
func (s *PolicyService) DeletePolicy(ctx context.Context, id string) error {
	if err := s.repos.Policies.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("policy", map[string]any{"policy_id": id})
		}
		return err
	}
	return nil
}

// GetPolicy fetches one policy.
func (s *PolicyService) GetPolicy(ctx context.Context, id string) (*domain.Policy, error) {
	policy, err := s.repos.Policies.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("policy", map[string]any{"policy_id": id})
		}
		return nil, err
	}
	return policy, nil
}

// ListByClient lists a client's policies.
func (s *PolicyService) ListByClient(ctx context.Context, clientID string) ([]domain.Policy, error) {
	return s.repos.Policies.ListByClient(ctx, clientID)
}

// CheckRenewals scans for active policies ending inside the renewal window
// and raises a renewal event per policy whose agent has not been told yet.
// Dedup keys on (agent user, RENEWAL_DUE, policy), so rerunning the scan is
// free of duplicates. Returns the number of new notices raised.
func (s *PolicyService) CheckRenewals(ctx context.Context) (int, error) {
	from := s.now()
	to := from.Add(s.window)
	expiring, err := s.repos.Policies.ListExpiring(ctx, from, to)
	if err != nil {
		return 0, err
	}

	raised := 0
	for i := range expiring {
		policy := &expiring[i]
		client, err := s.repos.Clients.GetByID(ctx, policy.ClientID)
		if err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return raised, err
		}
		if client.AgentID == nil {
			continue
		}
		agent, err := s.repos.Agents.GetByID(ctx, *client.AgentID)
		if err != nil {
			if err == pgx.ErrNoRows {
				continue
			}
			return raised, err
		}
		if agent.UserID == nil {
			continue
		}

		exists, err := s.repos.Notifications.RenewalExists(ctx, *agent.UserID, policy.ID)
		if err != nil {
			return raised, err
		}
		if exists {
			continue
		}

		if err := s.publish(ctx, events.Event{
			Type: events.EventPolicyRenewalDue,
			Payload: events.PolicyRenewalDuePayload{
				PolicyID:     policy.ID,
				PolicyNumber: policy.PolicyNumber,
				ClientID:     client.ID,
				ClientName:   client.FullName(),
				AgentUserID:  *agent.UserID,
				EndDate:      policy.EndDate,
			},
		}); err != nil {
			return raised, err
		}
		raised++
		if s.metrics != nil {
			s.metrics.RenewalNotices.Inc()
		}
	}

	if raised > 0 {
		s.logger.Info("renewal scan complete", zap.Int("notices", raised))
	}
	return raised, nil
}

func (s *PolicyService) validate(input PolicyInput) error {
	if input.ClientID == "" {
		return apperrors.NewValidationError("client_id is required", nil)
	}
	if input.PolicyNumber == "" {
		return apperrors.NewValidationError("policy_number is required", nil)
	}
	if input.AnnualPremium < 0 {
		return apperrors.NewValidationError("annual_premium cannot be negative", nil)
	}
	if !input.EndDate.IsZero() && !input.StartDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return apperrors.NewValidationError("end_date precedes start_date", nil)
	}
	return nil
}

func (s *PolicyService) publish(ctx context.Context, event events.Event) error {
	if s.dispatcher == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	return s.dispatcher.Publish(ctx, event)
}
