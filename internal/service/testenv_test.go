package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/agency-crm/internal/config"
	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/repository"
	"github.com/spec-kit/agency-crm/internal/repository/memory"
)

// testEnv wires the full service graph over the in-memory store with
// notification handlers subscribed, mirroring the production wiring in
// cmd/api.
type testEnv struct {
	store         *memory.Store
	repos         *repository.Registry
	dispatcher    events.Dispatcher
	clock         *fakeClock
	auth          *AuthService
	leads         *LeadService
	agents        *AgentService
	messages      *MessageService
	policies      *PolicyService
	performance   *PerformanceService
	notifications *NotificationService
	tasks         *TaskService
	agency        *AgencyService
	dashboard     *DashboardService
	codes         *fakeCodes
	cfg           config.Config
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeCodes struct {
	codes map[string]string
}

func (f *fakeCodes) Put(_ context.Context, email, code string) error {
	f.codes[email] = code
	return nil
}

func (f *fakeCodes) Get(_ context.Context, email string) (string, error) {
	return f.codes[email], nil
}

func (f *fakeCodes) Delete(_ context.Context, email string) error {
	delete(f.codes, email)
	return nil
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	repos := store.Registry()
	uow := store.UnitOfWork()
	dispatcher := events.NewInMemoryDispatcher()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codes := &fakeCodes{codes: make(map[string]string)}
	logger := zap.NewNop()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret",
			AccessTokenTTLMinutes:  60,
			VerificationTTLMinutes: 15,
			BcryptCost:             4,
			ReactivatePassword:     "Temp1234!",
		},
		Renewal: config.RenewalConfig{WindowDays: 30, ScanIntervalMins: 60},
	}

	env := &testEnv{
		store:      store,
		repos:      repos,
		dispatcher: dispatcher,
		clock:      clock,
		codes:      codes,
		cfg:        cfg,
	}
	env.auth = NewAuthService(cfg, AuthDependencies{
		UserRepo:  repos.Users,
		AgentRepo: repos.Agents,
		Codes:     codes,
		Logger:    logger,
	})
	env.leads = NewLeadService(LeadDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Now:        clock.Now,
	})
	env.agents = NewAgentService(cfg, AgentDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        clock.Now,
	})
	env.messages = NewMessageService(MessageDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        clock.Now,
	})
	env.policies = NewPolicyService(cfg, PolicyDependencies{
		Repos:      repos,
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        clock.Now,
	})
	env.performance = NewPerformanceService(repos.Agents, repos.Policies)
	env.notifications = NewNotificationService(repos.Notifications, logger)
	env.notifications.RegisterHandlers(dispatcher)
	env.tasks = NewTaskService(repos.Tasks)
	env.agency = NewAgencyService(repos)
	env.dashboard = NewDashboardService(repos, env.policies, logger)
	return env
}

// seedUser inserts a verified user directly into the store.
func (env *testEnv) seedUser(t testingT, name, email string, role domain.Role) *domain.User {
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Verified:     true,
	}
	if err := env.repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// seedActiveAgent inserts an ACTIVE agent linked to a fresh user.
func (env *testEnv) seedActiveAgent(t testingT, name string) *domain.Agent {
	user := env.seedUser(t, name, slugEmail(name), domain.RoleAgent)
	joinDate := env.clock.Now()
	agent := &domain.Agent{
		UserID:         &user.ID,
		Name:           name,
		Slug:           makeSlug(name),
		Email:          user.Email,
		CommissionRate: 0.5,
		Status:         domain.AgentStatusActive,
		JoinDate:       &joinDate,
	}
	if err := env.repos.Agents.Create(context.Background(), agent); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return agent
}

func slugEmail(name string) string {
	return makeSlug(name) + "@example.com"
}

type testingT interface {
	Fatalf(format string, args ...any)
}
