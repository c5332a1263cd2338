package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/observability"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// LeadService owns the client table and the lead lifecycle: creation,
// assignment, conversion and deletion, keeping the per-agent lead and client
// counters reconciled on every transition.
type LeadService struct {
	repos      *repository.Registry
	uow        repository.UnitOfWork
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// LeadDependencies bundles requirements for the lead service.
type LeadDependencies struct {
	Repos      *repository.Registry
	UnitOfWork repository.UnitOfWork
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Now        func() time.Time
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LeadService{
		repos:      deps.Repos,
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		now:        now,
	}
}

// ClientInput carries writable client fields.
type ClientInput struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	DateOfBirth  *time.Time
	AgentID      *string
	SSN          string
	BankName     string
	BankAccount  string
	MedicalNotes string
}

// CreateLead inserts a client with status LEAD. When an agent is given the
// agent's lead counter moves up and exactly one notification is emitted.
func (s *LeadService) CreateLead(ctx context.Context, input ClientInput) (*domain.Client, error) {
	var agent *domain.Agent
	if input.AgentID != nil {
		var err error
		agent, err = s.repos.Agents.GetByID(ctx, *input.AgentID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": *input.AgentID})
			}
			return nil, err
		}
	}

	client := &domain.Client{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		DateOfBirth:  input.DateOfBirth,
		Status:       domain.ClientStatusLead,
		AgentID:      input.AgentID,
		JoinDate:     s.now(),
		SSN:          input.SSN,
		BankName:     input.BankName,
		BankAccount:  input.BankAccount,
		MedicalNotes: input.MedicalNotes,
	}

	err := s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Clients.Create(ctx, client); err != nil {
			return err
		}
		if client.AgentID != nil {
			return r.Agents.AddLeads(ctx, *client.AgentID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if agent != nil {
		s.publishAssigned(ctx, client, agent)
	}
	return client, nil
}

// UpdateClient merges fields onto an existing client. Assignment changes on a
// LEAD move the lead counter: off the previous agent, onto the new one.
func (s *LeadService) UpdateClient(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	client, err := s.repos.Clients.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": id})
		}
		return nil, err
	}

	oldAgentID := client.AgentID
	newAgentID := input.AgentID

	var newAgent *domain.Agent
	if newAgentID != nil && (oldAgentID == nil || *oldAgentID != *newAgentID) {
		newAgent, err = s.repos.Agents.GetByID(ctx, *newAgentID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": *newAgentID})
			}
			return nil, err
		}
	}

	client.FirstName = input.FirstName
	client.LastName = input.LastName
	client.Email = input.Email
	client.Phone = input.Phone
	client.Address = input.Address
	client.DateOfBirth = input.DateOfBirth
	client.AgentID = newAgentID
	client.SSN = input.SSN
	client.BankName = input.BankName
	client.BankAccount = input.BankAccount
	client.MedicalNotes = input.MedicalNotes

	counterMove := client.Status == domain.ClientStatusLead && !sameAgent(oldAgentID, newAgentID)

	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Clients.Update(ctx, client); err != nil {
			return err
		}
		if !counterMove {
			return nil
		}
		if oldAgentID != nil {
			if err := r.Agents.AddLeads(ctx, *oldAgentID, -1); err != nil {
				return err
			}
		}
		if newAgentID != nil {
			return r.Agents.AddLeads(ctx, *newAgentID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if counterMove && newAgent != nil {
		s.publishAssigned(ctx, client, newAgent)
	}
	return client, nil
}

// AssignLead assigns or reassigns a lead to an agent.
func (s *LeadService) AssignLead(ctx context.Context, clientID, agentID string) (*domain.Client, error) {
	client, err := s.repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": clientID})
		}
		return nil, err
	}
	input := clientToInput(client)
	input.AgentID = &agentID
	return s.UpdateClient(ctx, client.ID, input)
}

// ConvertLead moves a LEAD to ACTIVE. The transition is guarded: converting
// a client that is not a lead is a conflict, so repeated calls cannot
// double-count.
func (s *LeadService) ConvertLead(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": clientID})
		}
		return nil, err
	}
	if client.Status != domain.ClientStatusLead {
		return nil, apperrors.NewConflict("client is not a lead", map[string]any{"status": client.Status})
	}

	client.Status = domain.ClientStatusActive
	err = s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Clients.Update(ctx, client); err != nil {
			return err
		}
		if client.AgentID != nil {
			return r.Agents.AddClients(ctx, *client.AgentID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.LeadsConverted.Inc()
	}
	if client.AgentID != nil {
		if agent, err := s.repos.Agents.GetByID(ctx, *client.AgentID); err == nil && agent.UserID != nil {
			s.publish(ctx, events.Event{
				Type: events.EventLeadConverted,
				Payload: events.LeadConvertedPayload{
					ClientID:    client.ID,
					ClientName:  client.FullName(),
					AgentID:     agent.ID,
					AgentUserID: *agent.UserID,
				},
			})
		}
	}
	return client, nil
}

// DeleteClient removes a client. A still-unconverted lead gives its agent's
// lead counter back; deleting a converted client leaves counters alone.
func (s *LeadService) DeleteClient(ctx context.Context, id string) error {
	client, err := s.repos.Clients.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("client", map[string]any{"client_id": id})
		}
		return err
	}

	return s.uow.Run(ctx, func(r *repository.Registry) error {
		if err := r.Clients.Delete(ctx, client.ID); err != nil {
			return err
		}
		if client.Status == domain.ClientStatusLead && client.AgentID != nil {
			return r.Agents.AddLeads(ctx, *client.AgentID, -1)
		}
		return nil
	})
}

// GetClient fetches one client.
func (s *LeadService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.repos.Clients.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"client_id": id})
		}
		return nil, err
	}
	return client, nil
}

// ListClients returns clients matching the filter.
func (s *LeadService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	return s.repos.Clients.List(ctx, filter)
}

func (s *LeadService) publishAssigned(ctx context.Context, client *domain.Client, agent *domain.Agent) {
	if s.metrics != nil {
		s.metrics.LeadsAssigned.Inc()
	}
	if agent.UserID == nil {
		return
	}
	s.publish(ctx, events.Event{
		Type: events.EventLeadAssigned,
		Payload: events.LeadAssignedPayload{
			ClientID:    client.ID,
			ClientName:  client.FullName(),
			AgentID:     agent.ID,
			AgentUserID: *agent.UserID,
		},
	})
}

func (s *LeadService) publish(ctx context.Context, event events.Event) {
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

func sameAgent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clientToInput(client *domain.Client) ClientInput {
	return ClientInput{
		FirstName:    client.FirstName,
		LastName:     client.LastName,
		Email:        client.Email,
		Phone:        client.Phone,
		Address:      client.Address,
		DateOfBirth:  client.DateOfBirth,
		AgentID:      client.AgentID,
		SSN:          client.SSN,
		BankName:     client.BankName,
		BankAccount:  client.BankAccount,
		MedicalNotes: client.MedicalNotes,
	}
}
