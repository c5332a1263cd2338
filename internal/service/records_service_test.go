package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func TestTaskOwnershipGuard(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	owner := env.seedUser(t, "Owner", "owner@example.com", domain.RoleSubAdmin)
	other := env.seedUser(t, "Other", "other@example.com", domain.RoleSubAdmin)

	task, err := env.tasks.CreateTask(ctx, owner, TaskInput{Title: "call the Smiths"})
	require.NoError(t, err)

	_, err = env.tasks.UpdateTask(ctx, other, task.ID, TaskInput{Title: "hijacked"})
	require.Error(t, err)
	require.Error(t, env.tasks.DeleteTask(ctx, other, task.ID))

	updated, err := env.tasks.UpdateTask(ctx, owner, task.ID, TaskInput{Title: "call the Smiths", Completed: true})
	require.NoError(t, err)
	require.True(t, updated.Completed)

	// admins can manage anyone's tasks
	require.NoError(t, env.tasks.DeleteTask(ctx, admin, task.ID))
}

func TestListTasksOpenOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", "owner@example.com", domain.RoleSubAdmin)

	_, err := env.tasks.CreateTask(ctx, owner, TaskInput{Title: "open item"})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, owner, TaskInput{Title: "done item", Completed: true})
	require.NoError(t, err)

	all, err := env.tasks.ListTasks(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	open, err := env.tasks.ListTasks(ctx, owner, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "open item", open[0].Title)
}

func TestLogInteractionRequiresClient(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)

	_, err := env.agency.LogInteraction(ctx, admin, InteractionInput{
		ClientID: "00000000-0000-0000-0000-000000000000",
		Summary:  "phantom call",
	})
	require.Error(t, err)

	agent := env.seedActiveAgent(t, "Jane Producer")
	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)

	in, err := env.agency.LogInteraction(ctx, admin, InteractionInput{
		ClientID: client.ID,
		Kind:     "call",
		Summary:  "quoted a term-life policy",
	})
	require.NoError(t, err)
	require.Equal(t, admin.ID, in.UserID)

	log, err := env.agency.ListInteractions(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, log, 1)
}

func TestLicenseLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	lic, err := env.agency.AddLicense(ctx, LicenseInput{
		AgentID:         agent.ID,
		State:           "TX",
		LicenseNumber:   "TX-12345",
		LineOfAuthority: "life",
		ExpiresAt:       env.clock.Now().AddDate(2, 0, 0),
	})
	require.NoError(t, err)

	licenses, err := env.agency.ListLicenses(ctx, agent.ID)
	require.NoError(t, err)
	require.Len(t, licenses, 1)

	require.NoError(t, env.agency.RemoveLicense(ctx, lic.ID))
	licenses, err = env.agency.ListLicenses(ctx, agent.ID)
	require.NoError(t, err)
	require.Empty(t, licenses)
}

func TestCalendarNotesRangeScopedToOwner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.seedUser(t, "Owner", "owner@example.com", domain.RoleSubAdmin)
	other := env.seedUser(t, "Other", "other@example.com", domain.RoleSubAdmin)

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := env.agency.AddCalendarNote(ctx, owner, day, "renewal review")
	require.NoError(t, err)
	_, err = env.agency.AddCalendarNote(ctx, other, day, "someone else's note")
	require.NoError(t, err)
	_, err = env.agency.AddCalendarNote(ctx, owner, day.AddDate(0, 2, 0), "far future")
	require.NoError(t, err)

	notes, err := env.agency.ListCalendarNotes(ctx, owner, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "renewal review", notes[0].Note)
}

func TestTestimonialPublishedFilter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")

	_, err := env.agency.AddTestimonial(ctx, TestimonialInput{
		AgentID: &agent.ID, Author: "Happy Client", Quote: "saved us a fortune", Published: true,
	})
	require.NoError(t, err)
	draft, err := env.agency.AddTestimonial(ctx, TestimonialInput{
		Author: "Pending Client", Quote: "still thinking",
	})
	require.NoError(t, err)

	published, err := env.agency.ListTestimonials(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)

	_, err = env.agency.UpdateTestimonial(ctx, draft.ID, TestimonialInput{
		Author: draft.Author, Quote: draft.Quote, Published: true,
	})
	require.NoError(t, err)

	published, err = env.agency.ListTestimonials(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 2)
}

func TestDashboardSummaryByRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	agentUser, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	lead, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Lead", AgentID: &agent.ID})
	require.NoError(t, err)
	converted, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Client", AgentID: &agent.ID})
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, converted.ID)
	require.NoError(t, err)
	_ = lead

	_, err = env.tasks.CreateTask(ctx, admin, TaskInput{Title: "review pipeline"})
	require.NoError(t, err)

	adminSummary, err := env.dashboard.Summary(ctx, admin, nil)
	require.NoError(t, err)
	require.Equal(t, 1, adminSummary.Leads)
	require.Equal(t, 1, adminSummary.ActiveClients)
	require.Equal(t, 1, adminSummary.ActiveAgents)
	require.Equal(t, 1, adminSummary.OpenTasks)

	freshAgent, err := env.repos.Agents.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	agentSummary, err := env.dashboard.Summary(ctx, agentUser, freshAgent)
	require.NoError(t, err)
	require.Equal(t, 2, agentSummary.Leads)
	require.Equal(t, 1, agentSummary.ActiveClients)
	require.Equal(t, 2, agentSummary.UnreadNotifications)
}

func TestDashboardTriggersRenewalScan(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")

	client, err := env.leads.CreateLead(ctx, ClientInput{FirstName: "Sam", AgentID: &agent.ID})
	require.NoError(t, err)
	_, err = env.leads.ConvertLead(ctx, client.ID)
	require.NoError(t, err)
	seedPolicy(t, env, client.ID, 10*24*time.Hour, 1200)

	_, err = env.dashboard.Summary(ctx, admin, nil)
	require.NoError(t, err)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)
	var renewals int
	for _, n := range notifs {
		if n.Type == domain.NotificationRenewalDue {
			renewals++
		}
	}
	require.Equal(t, 1, renewals)
}
