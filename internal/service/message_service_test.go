package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func TestSendMessageNotifiesReceiver(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")

	msg, err := env.messages.Send(ctx, admin, *agent.UserID, "welcome aboard")
	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusActive, msg.Status)
	require.False(t, msg.Broadcast)

	inbox, err := env.messages.Inbox(ctx, *agent.UserID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	notifs, err := env.notifications.List(ctx, *agent.UserID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, domain.NotificationNewMessage, notifs[0].Type)
	require.Equal(t, "messages/"+admin.ID, notifs[0].Link)
}

func TestSendToSelfRejected(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)

	_, err := env.messages.Send(context.Background(), admin, admin.ID, "hi me")
	require.Error(t, err)
}

func TestBroadcastReachesActiveAgentsAndSubAdmins(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	sub := env.seedUser(t, "Sub Admin", "sub@example.com", domain.RoleSubAdmin)
	a1 := env.seedActiveAgent(t, "Agent One")
	a2 := env.seedActiveAgent(t, "Agent Two")

	// pending registration must not receive the broadcast
	registerPendingAgent(t, env, "Pending Agent", "pending@example.com")

	count, err := env.messages.Broadcast(ctx, admin, "all hands")
	require.NoError(t, err)
	require.Equal(t, 3, count)

	for _, userID := range []string{sub.ID, *a1.UserID, *a2.UserID} {
		inbox, err := env.messages.Inbox(ctx, userID)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		require.True(t, inbox[0].Broadcast)

		notifs, err := env.notifications.List(ctx, userID, false)
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		require.Equal(t, domain.NotificationNewMessage, notifs[0].Type)
	}
}

func TestBroadcastRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	agent := env.seedActiveAgent(t, "Jane Producer")
	agentUser, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)
	sub := env.seedUser(t, "Sub Admin", "sub@example.com", domain.RoleSubAdmin)

	_, err = env.messages.Broadcast(ctx, agentUser, "nope")
	require.Error(t, err)

	_, err = env.messages.Broadcast(ctx, sub, "still no")
	require.Error(t, err)

	inbox, err := env.messages.Inbox(ctx, *agent.UserID)
	require.NoError(t, err)
	require.Empty(t, inbox)
}

func TestEditInsideWindowOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")

	msg, err := env.messages.Send(ctx, admin, *agent.UserID, "tpyo")
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	edited, err := env.messages.Edit(ctx, admin, msg.ID, "typo fixed")
	require.NoError(t, err)
	require.True(t, edited.Edited)
	require.Equal(t, "typo fixed", edited.Body)

	env.clock.Advance(2 * time.Minute)
	_, err = env.messages.Edit(ctx, admin, msg.ID, "too late")
	require.Error(t, err)
}

func TestEditBySomeoneElseForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	receiver, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	msg, err := env.messages.Send(ctx, admin, receiver.ID, "original")
	require.NoError(t, err)

	_, err = env.messages.Edit(ctx, receiver, msg.ID, "hijack")
	require.Error(t, err)
}

func TestSenderTrashInsideDayHardDeletes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")

	msg, err := env.messages.Send(ctx, admin, *agent.UserID, "retract me")
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	require.NoError(t, env.messages.Trash(ctx, admin, msg.ID))

	_, err = env.repos.Messages.GetByID(ctx, msg.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSenderTrashAfterDaySoftTrashes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")

	msg, err := env.messages.Send(ctx, admin, *agent.UserID, "old news")
	require.NoError(t, err)

	env.clock.Advance(25 * time.Hour)
	require.NoError(t, env.messages.Trash(ctx, admin, msg.ID))

	got, err := env.repos.Messages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusTrashed, got.Status)
	require.NotNil(t, got.TrashedBy)
	require.Equal(t, admin.ID, *got.TrashedBy)
}

func TestReceiverTrashAlwaysSoft(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	receiver, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	msg, err := env.messages.Send(ctx, admin, receiver.ID, "unwanted")
	require.NoError(t, err)

	require.NoError(t, env.messages.Trash(ctx, receiver, msg.ID))

	got, err := env.repos.Messages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusTrashed, got.Status)
}

func TestTrashByStrangerForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	stranger := env.seedUser(t, "Stranger", "stranger@example.com", domain.RoleAgent)

	msg, err := env.messages.Send(ctx, admin, *agent.UserID, "private")
	require.NoError(t, err)

	require.Error(t, env.messages.Trash(ctx, stranger, msg.ID))
}

func TestRestoreOnlyByTrasherOrAdmin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	sub := env.seedUser(t, "Sub Admin", "sub@example.com", domain.RoleSubAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	receiver, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	msg, err := env.messages.Send(ctx, sub, receiver.ID, "hello")
	require.NoError(t, err)
	require.NoError(t, env.messages.Trash(ctx, receiver, msg.ID))

	// the sender did not trash it, so the sender cannot restore
	_, err = env.messages.Restore(ctx, sub, msg.ID)
	require.Error(t, err)

	restored, err := env.messages.Restore(ctx, receiver, msg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusActive, restored.Status)
	require.Nil(t, restored.TrashedBy)

	// admin may restore anything
	require.NoError(t, env.messages.Trash(ctx, receiver, msg.ID))
	_, err = env.messages.Restore(ctx, admin, msg.ID)
	require.NoError(t, err)
}

func TestPurgeAdminOnlyAndTrashedOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	sub := env.seedUser(t, "Sub Admin", "sub@example.com", domain.RoleSubAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	receiver, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	msg, err := env.messages.Send(ctx, sub, receiver.ID, "purge target")
	require.NoError(t, err)

	require.Error(t, env.messages.Purge(ctx, sub, msg.ID))
	require.Error(t, env.messages.Purge(ctx, admin, msg.ID))

	require.NoError(t, env.messages.Trash(ctx, receiver, msg.ID))
	require.NoError(t, env.messages.Purge(ctx, admin, msg.ID))

	_, err = env.repos.Messages.GetByID(ctx, msg.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMarkReadReceiverOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := env.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin)
	agent := env.seedActiveAgent(t, "Jane Producer")
	receiver, err := env.repos.Users.GetByID(ctx, *agent.UserID)
	require.NoError(t, err)

	msg, err := env.messages.Send(ctx, admin, receiver.ID, "read me")
	require.NoError(t, err)

	require.Error(t, env.messages.MarkRead(ctx, admin, msg.ID))
	require.NoError(t, env.messages.MarkRead(ctx, receiver, msg.ID))

	got, err := env.repos.Messages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	require.True(t, got.IsRead)
}
