package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func TestRegisterCreatesPendingAgentAndCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, agent, err := env.auth.Register(ctx, RegisterInput{
		Name:     "New Agent",
		Email:    "new.agent@example.com",
		Password: "password123",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	require.False(t, user.Verified)
	require.Equal(t, domain.RoleAgent, user.Role)
	require.Equal(t, domain.AgentStatusPending, agent.Status)
	require.Equal(t, "new-agent", agent.Slug)
	require.NotNil(t, agent.UserID)
	require.Equal(t, user.ID, *agent.UserID)

	code, err := env.codes.Get(ctx, user.Email)
	require.NoError(t, err)
	require.Len(t, code, 6)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, RegisterInput{
		Name: "First", Email: "dup@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, _, err = env.auth.Register(ctx, RegisterInput{
		Name: "Second", Email: "dup@example.com", Password: "password123",
	})
	require.Error(t, err)
}

func TestRegisterNormalizesMixedCaseEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, agent, err := env.auth.Register(ctx, RegisterInput{
		Name: "Mixed Case", Email: "MiXeD@Example.COM", Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "mixed@example.com", user.Email)
	require.Equal(t, "mixed@example.com", agent.Email)

	// the code must live under the lowercase key VerifyEmail looks up
	code, err := env.codes.Get(ctx, "mixed@example.com")
	require.NoError(t, err)
	require.NoError(t, env.auth.VerifyEmail(ctx, "MiXeD@Example.COM", code))

	got, err := env.repos.Users.GetByEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
	require.True(t, got.Verified)

	// duplicate detection ignores case too
	_, _, err = env.auth.Register(ctx, RegisterInput{
		Name: "Copy Cat", Email: "mixed@EXAMPLE.com", Password: "password123",
	})
	require.Error(t, err)
}

func TestVerifyEmailConsumesCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, _, err := env.auth.Register(ctx, RegisterInput{
		Name: "New Agent", Email: "verify@example.com", Password: "password123",
	})
	require.NoError(t, err)

	require.Error(t, env.auth.VerifyEmail(ctx, user.Email, "WRONG1"))

	code, err := env.codes.Get(ctx, user.Email)
	require.NoError(t, err)
	require.NoError(t, env.auth.VerifyEmail(ctx, user.Email, code))

	got, err := env.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Verified)

	// the code is single-use
	require.Error(t, env.auth.VerifyEmail(ctx, user.Email, code))
}

func TestLoginLifecycleGates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, agent, err := env.auth.Register(ctx, RegisterInput{
		Name: "Gated Agent", Email: "gated@example.com", Password: "password123",
	})
	require.NoError(t, err)

	// unverified
	_, _, _, err = env.auth.Login(ctx, user.Email, "password123")
	require.Error(t, err)

	code, err := env.codes.Get(ctx, user.Email)
	require.NoError(t, err)
	require.NoError(t, env.auth.VerifyEmail(ctx, user.Email, code))

	// verified but still pending approval
	_, _, _, err = env.auth.Login(ctx, user.Email, "password123")
	require.Error(t, err)

	_, err = env.agents.Approve(ctx, agent.ID, domain.RoleAgent)
	require.NoError(t, err)

	loggedIn, token, expiresAt, err := env.auth.Login(ctx, user.Email, "password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(env.clock.Now()))

	// wrong password stays a 401 regardless of state
	_, _, _, err = env.auth.Login(ctx, user.Email, "nope")
	require.Error(t, err)
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	env := newTestEnv()
	_, _, _, err := env.auth.Login(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, agent, err := env.auth.Register(ctx, RegisterInput{
		Name: "Pass Agent", Email: "pass@example.com", Password: "password123",
	})
	require.NoError(t, err)
	code, err := env.codes.Get(ctx, user.Email)
	require.NoError(t, err)
	require.NoError(t, env.auth.VerifyEmail(ctx, user.Email, code))
	_, err = env.agents.Approve(ctx, agent.ID, domain.RoleAgent)
	require.NoError(t, err)

	require.Error(t, env.auth.ChangePassword(ctx, user.ID, "wrong", "newpassword1"))
	require.NoError(t, env.auth.ChangePassword(ctx, user.ID, "password123", "newpassword1"))

	_, _, _, err = env.auth.Login(ctx, user.Email, "newpassword1")
	require.NoError(t, err)
}
