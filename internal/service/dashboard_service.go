package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
)

// RenewalScanner raises renewal notices for policies expiring soon.
type RenewalScanner interface {
	CheckRenewals(ctx context.Context) (int, error)
}

// DashboardService assembles the landing-page summary for a logged-in user.
type DashboardService struct {
	repos    *repository.Registry
	renewals RenewalScanner
	logger   *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(repos *repository.Registry, renewals RenewalScanner, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repos: repos, renewals: renewals, logger: logger}
}

// DashboardSummary is the aggregate view behind the dashboard endpoint.
type DashboardSummary struct {
	Leads               int
	ActiveClients       int
	InactiveClients     int
	ActiveAgents        int
	PendingAgents       int
	OpenTasks           int
	UnreadNotifications int
	UnreadMessages      int
}

// Summary gathers counts scoped to the actor: staff see agency-wide client
// numbers, agents see only their own book.
func (s *DashboardService) Summary(ctx context.Context, actor *domain.User, agent *domain.Agent) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	// A stale scan must not block the dashboard.
	if s.renewals != nil {
		if _, err := s.renewals.CheckRenewals(ctx); err != nil {
			s.logger.Warn("renewal scan failed", zap.Error(err))
		}
	}

	if actor.Role.IsStaff() {
		counts, err := s.repos.Clients.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		summary.Leads = counts[domain.ClientStatusLead]
		summary.ActiveClients = counts[domain.ClientStatusActive]
		summary.InactiveClients = counts[domain.ClientStatusInactive]

		for _, status := range []struct {
			status domain.AgentStatus
			dst    *int
		}{
			{domain.AgentStatusActive, &summary.ActiveAgents},
			{domain.AgentStatusPending, &summary.PendingAgents},
		} {
			agents, err := s.repos.Agents.List(ctx, []domain.AgentStatus{status.status})
			if err != nil {
				return nil, err
			}
			*status.dst = len(agents)
		}
	} else if agent != nil {
		summary.Leads = agent.Leads
		summary.ActiveClients = agent.ClientCount
	}

	tasks, err := s.repos.Tasks.ListByUser(ctx, actor.ID, true)
	if err != nil {
		return nil, err
	}
	summary.OpenTasks = len(tasks)

	notifications, err := s.repos.Notifications.ListByUser(ctx, actor.ID, true)
	if err != nil {
		return nil, err
	}
	summary.UnreadNotifications = len(notifications)

	inbox, err := s.repos.Messages.ListInbox(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, msg := range inbox {
		if !msg.IsRead {
			summary.UnreadMessages++
		}
	}
	return summary, nil
}
