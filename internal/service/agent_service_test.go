package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func registerPendingAgent(t *testing.T, env *testEnv, name, email string) (*domain.User, *domain.Agent) {
	t.Helper()
	user, agent, err := env.auth.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusPending, agent.Status)
	return user, agent
}

func TestApprovePromotesUserAndNotifies(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user, agent := registerPendingAgent(t, env, "New Agent", "new.agent@example.com")

	approved, err := env.agents.Approve(ctx, agent.ID, domain.RoleAgent)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusActive, approved.Status)
	require.NotNil(t, approved.JoinDate)
	require.Equal(t, env.clock.Now(), *approved.JoinDate)

	gotUser, err := env.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, gotUser.Verified)
	require.Equal(t, domain.RoleAgent, gotUser.Role)
	require.Equal(t, "Insurance Agent", gotUser.Title)

	notifs, err := env.notifications.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, domain.NotificationAgentApproved, notifs[0].Type)
}

func TestApprovePromotesToSubAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user, agent := registerPendingAgent(t, env, "Future Sub", "future.sub@example.com")

	approved, err := env.agents.Approve(ctx, agent.ID, domain.RoleSubAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusActive, approved.Status)

	gotUser, err := env.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSubAdmin, gotUser.Role)
	require.Equal(t, "Sub Admin", gotUser.Title)
}

func TestApproveRejectsUnknownRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, agent := registerPendingAgent(t, env, "Odd Role", "odd.role@example.com")

	_, err := env.agents.Approve(ctx, agent.ID, domain.RoleAdmin)
	require.Error(t, err)

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusPending, got.Status)
}

func TestApproveNonPendingConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Already Active")

	_, err := env.agents.Approve(ctx, agent.ID, domain.RoleAgent)
	require.Error(t, err)
}

func TestRejectLeavesLoginUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user, agent := registerPendingAgent(t, env, "Rejected Agent", "rejected@example.com")

	rejected, err := env.agents.Reject(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusInactive, rejected.Status)

	_, err = env.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestDeactivateCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Leaving Agent")
	userID := *agent.UserID

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Orphan", AgentID: &agent.ID})
	require.NoError(t, err)

	deactivated, err := env.agents.Deactivate(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusInactive, deactivated.Status)
	require.Nil(t, deactivated.UserID)

	_, err = env.repos.Users.GetByID(ctx, userID)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	gotClient, err := env.repos.Clients.GetByID(ctx, client.ID)
	require.NoError(t, err)
	require.Nil(t, gotClient.AgentID)
}

func TestReactivateCreatesFreshLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Returning Agent")

	_, err := env.agents.Deactivate(ctx, agent.ID)
	require.NoError(t, err)

	reactivated, err := env.agents.Reactivate(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgentStatusActive, reactivated.Status)
	require.NotNil(t, reactivated.UserID)

	user, err := env.repos.Users.GetByID(ctx, *reactivated.UserID)
	require.NoError(t, err)
	require.True(t, user.Verified)
	require.Equal(t, domain.RoleAgent, user.Role)
}

func TestDeleteRequiresInactive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Protected Agent")

	require.Error(t, env.agents.Delete(ctx, agent.ID))

	_, err := env.agents.Deactivate(ctx, agent.ID)
	require.NoError(t, err)
	require.NoError(t, env.agents.Delete(ctx, agent.ID))

	_, err = env.repos.Agents.GetByID(ctx, agent.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUpdateProfileCommissionGate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Split Agent")

	rate := 0.7
	input := AgentInput{Name: agent.Name, Email: agent.Email, CommissionRate: &rate}

	updated, err := env.agents.UpdateProfile(ctx, agent.ID, input, false)
	require.NoError(t, err)
	require.InDelta(t, 0.5, updated.CommissionRate, 1e-9)

	updated, err = env.agents.UpdateProfile(ctx, agent.ID, input, true)
	require.NoError(t, err)
	require.InDelta(t, 0.7, updated.CommissionRate, 1e-9)
}

func TestUniqueSlugSuffixes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.agents.CreateAgent(ctx, AgentInput{Name: "John Smith"})
	require.NoError(t, err)
	require.Equal(t, "john-smith", first.Slug)

	second, err := env.agents.CreateAgent(ctx, AgentInput{Name: "John  Smith!"})
	require.NoError(t, err)
	require.Equal(t, "john-smith-2", second.Slug)
}

func TestMakeSlug(t *testing.T) {
	require.Equal(t, "jane-o-brien", makeSlug("  Jane O'Brien "))
	require.Equal(t, "agent-007", makeSlug("Agent 007"))
	require.Equal(t, "", makeSlug("!!!"))
}
