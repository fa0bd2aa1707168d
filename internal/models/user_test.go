package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserPasswordRoundTrip(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("secret123"))
	require.NotEqual(t, "secret123", user.PasswordHash)
	require.True(t, user.CheckPassword("secret123"))
	require.False(t, user.CheckPassword("secret124"))
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleSupervisor, RoleStudent, RoleUser} {
		require.True(t, IsValidRole(role), role)
	}
	require.False(t, IsValidRole("owner"))
	require.False(t, IsValidRole(""))
}
