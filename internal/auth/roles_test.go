package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-crm/internal/domain"
)

func guardApp(guard fiber.Handler, role domain.Role) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals(principalKey, &Principal{User: &domain.User{Role: role}})
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func guardStatus(t *testing.T, guard fiber.Handler, role domain.Role) int {
	t.Helper()
	resp, err := guardApp(guard, role).Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAdminBlocksSubAdmin(t *testing.T) {
	require.Equal(t, http.StatusOK, guardStatus(t, RequireAdmin(), domain.RoleAdmin))
	require.Equal(t, http.StatusForbidden, guardStatus(t, RequireAdmin(), domain.RoleSubAdmin))
	require.Equal(t, http.StatusForbidden, guardStatus(t, RequireAdmin(), domain.RoleAgent))
}

func TestRequireStaffAdmitsSubAdmin(t *testing.T) {
	require.Equal(t, http.StatusOK, guardStatus(t, RequireStaff(), domain.RoleAdmin))
	require.Equal(t, http.StatusOK, guardStatus(t, RequireStaff(), domain.RoleSubAdmin))
	require.Equal(t, http.StatusForbidden, guardStatus(t, RequireStaff(), domain.RoleAgent))
}

func TestGuardsRejectAnonymous(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, guardStatus(t, RequireAdmin(), ""))
	require.Equal(t, http.StatusUnauthorized, guardStatus(t, RequireAuthenticated(), ""))
}
