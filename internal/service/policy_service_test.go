package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func seedPolicy(t *testing.T, env *testEnv, clientID string, endsIn time.Duration, premium float64) *domain.Policy {
	t.Helper()
	policy, err := env.policies.CreatePolicy(context.Background(), PolicyInput{
		ClientID:      clientID,
		PolicyNumber:  "POL-" + clientID[:8],
		PolicyType:    "term-life",
		AnnualPremium: premium,
		StartDate:     env.clock.Now().AddDate(-1, 0, 0),
		EndDate:       env.clock.Now().Add(endsIn),
	})
	require.NoError(t, err)
	return policy
}

func TestCheckRenewalsNotifiesOnceWithinWindow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)

	policy := seedPolicy(t, env, client.ID, 10*24*time.Hour, 1200)
	seedPolicy(t, env, client.ID, 90*24*time.Hour, 900) // outside the 30 day window

	raised, err := env.policies.CheckRenewals(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, raised)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)

	var renewal *domain.Notification
	for i := range notifs {
		if notifs[i].Type == domain.NotificationRenewalDue {
			renewal = &notifs[i]
		}
	}
	require.NotNil(t, renewal)
	require.NotNil(t, renewal.PolicyID)
	require.Equal(t, policy.ID, *renewal.PolicyID)
	require.Equal(t, "policy/"+policy.ID, renewal.Link)

	// rerunning the scan must not duplicate the notice
	raised, err = env.policies.CheckRenewals(ctx)
	require.NoError(t, err)
	require.Zero(t, raised)
}

func TestCheckRenewalsSkipsUnassignedClients(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Unassigned"})
	require.NoError(t, err)
	seedPolicy(t, env, client.ID, 5*24*time.Hour, 500)

	raised, err := env.policies.CheckRenewals(ctx)
	require.NoError(t, err)
	require.Zero(t, raised)
}

func TestCheckRenewalsSkipsAgentsWithoutLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// roster-only agent, no linked user
	agent, err := env.agents.CreateAgent(ctx, AgentInput{Name: "No Login"})
	require.NoError(t, err)

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)
	seedPolicy(t, env, client.ID, 5*24*time.Hour, 500)

	raised, err := env.policies.CheckRenewals(ctx)
	require.NoError(t, err)
	require.Zero(t, raised)
}

func TestPolicyValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")
	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)

	_, err = env.policies.CreatePolicy(ctx, PolicyInput{ClientID: client.ID})
	require.Error(t, err) // missing policy number

	_, err = env.policies.CreatePolicy(ctx, PolicyInput{
		ClientID:      client.ID,
		PolicyNumber:  "POL-1",
		AnnualPremium: -10,
	})
	require.Error(t, err)

	_, err = env.policies.CreatePolicy(ctx, PolicyInput{
		ClientID:     client.ID,
		PolicyNumber: "POL-1",
		StartDate:    env.clock.Now(),
		EndDate:      env.clock.Now().Add(-time.Hour),
	})
	require.Error(t, err)

	_, err = env.policies.CreatePolicy(ctx, PolicyInput{
		ClientID:     "00000000-0000-0000-0000-000000000000",
		PolicyNumber: "POL-1",
	})
	require.Error(t, err) // unknown client
}

func TestPolicyCannotMoveBetweenClients(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")
	first, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "First", AgentID: &agent.ID})
	require.NoError(t, err)
	second, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Second", AgentID: &agent.ID})
	require.NoError(t, err)

	policy := seedPolicy(t, env, first.ID, 60*24*time.Hour, 800)

	_, err = env.policies.UpdatePolicy(ctx, policy.ID, PolicyInput{
		ClientID:     second.ID,
		PolicyNumber: policy.PolicyNumber,
		StartDate:    policy.StartDate,
		EndDate:      policy.EndDate,
	})
	require.Error(t, err)
}

func TestPerformanceSplitsPremiumByRate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)

	seedPolicy(t, env, client.ID, 200*24*time.Hour, 1000)
	seedPolicy(t, env, client.ID, 300*24*time.Hour, 500)

	// cancelled policies do not count
	cancelled := seedPolicy(t, env, client.ID, 400*24*time.Hour, 9999)
	_, err = env.policies.UpdatePolicy(ctx, cancelled.ID, PolicyInput{
		ClientID:      client.ID,
		PolicyNumber:  cancelled.PolicyNumber,
		AnnualPremium: cancelled.AnnualPremium,
		Status:        domain.PolicyStatusCancelled,
		StartDate:     cancelled.StartDate,
		EndDate:       cancelled.EndDate,
	})
	require.NoError(t, err)

	perf, err := env.performance.ForAgent(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 2, perf.ActivePolicies)
	require.InDelta(t, 1500.0, perf.TotalPremium, 1e-9)
	require.InDelta(t, 750.0, perf.CommissionEarned, 1e-9)
	require.InDelta(t, 750.0, perf.AgencyOverride, 1e-9)
}
