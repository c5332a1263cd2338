package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func TestCreateLeadAssignedIncrementsCounterAndNotifies(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{
		FirstName: "Sam",
		LastName:  "Lee",
		AgentID:   &agent.ID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ClientStatusLead, client.Status)

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Leads)
	require.Equal(t, 0, got.ClientCount)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, domain.NotificationLeadAssigned, notifs[0].Type)
	require.Equal(t, "client/"+client.ID, notifs[0].Link)
}

func TestCreateLeadUnassignedTouchesNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	_, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Solo"})
	require.NoError(t, err)

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Leads)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)
	require.Empty(t, notifs)
}

func TestConvertLeadMovesClientCountNotLeads(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)

	converted, err := env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ClientStatusActive, converted.Status)

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Leads)
	require.Equal(t, 1, got.ClientCount)
	require.InDelta(t, 1.0, got.ConversionRate, 1e-9)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
}

func TestConvertLeadTwiceConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)

	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.Error(t, err)

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.ClientCount)
}

func TestReassignLeadMovesCounterBetweenAgents(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	first := env.seedActiveAgent(t, "First Agent")
	second := env.seedActiveAgent(t, "Second Agent")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &first.ID})
	require.NoError(t, err)

	_, err = env.leads.AssignLead(ctx, client.ID, second.ID)
	require.NoError(t, err)

	gotFirst, err := env.repos.Agents.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 0, gotFirst.Leads)

	gotSecond, err := env.repos.Agents.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, 1, gotSecond.Leads)

	notifs, err := env.notifications.List(ctx, *second.UserID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, domain.NotificationLeadAssigned, notifs[0].Type)
}

func TestDeleteUnconvertedLeadDecrementsCounter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)

	require.NoError(t, env.leads.DeleteClient(ctx, client.ID))

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Leads)
}

func TestDeleteConvertedClientLeavesCountersAlone(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)

	require.NoError(t, env.leads.DeleteClient(ctx, client.ID))

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Leads)
	require.Equal(t, 1, got.ClientCount)
}

func TestLeadCounterNeverGoesNegative(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	require.NoError(t, env.repos.Agents.AddLeads(ctx, agent.ID, -5))

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Leads)
	require.Zero(t, got.ConversionRate)
}

// Walks the conversion-rate arithmetic through a realistic book: 10 leads
// with 8 conversions, then one more lead, then one more conversion.
func TestConversionRateScenario(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	var clients []*domain.Client
	for i := 0; i < 10; i++ {
		client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Lead", AgentID: &agent.ID})
		require.NoError(t, err)
		clients = append(clients, client)
	}
	for i := 0; i < 8; i++ {
		_, err := env.leads.ConvertLead(ctx, clients[i].ID)
		require.NoError(t, err)
	}

	got, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 10, got.Leads)
	require.Equal(t, 8, got.ClientCount)
	require.InDelta(t, 0.8, got.ConversionRate, 1e-9)

	extra, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Extra", AgentID: &agent.ID})
	require.NoError(t, err)

	got, err = env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 11, got.Leads)
	require.InDelta(t, 8.0/11.0, got.ConversionRate, 1e-9)

	_, err = env.leads.ConvertLead(ctx, extra.ID)
	require.NoError(t, err)

	got, err = env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	require.Equal(t, 9, got.ClientCount)
	require.InDelta(t, 9.0/11.0, got.ConversionRate, 1e-9)
}

func TestUpdateClientOnOtherMissingAgentFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	missing := "00000000-0000-0000-0000-000000000000"
	_, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &missing})
	require.Error(t, err)
}
