package authutils

import (
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	user := dbmodels.User{Name: "Employee A", Role: models.EmployeeRole}
	user.ID = 42

	t.Run(`round trip`, func(t *testing.T) {
		p := NewInstance("secret", 0)
		token, err := p.GetToken(user)
		require.NoError(t, err)

		authUser, err := p.ParseToken(token)
		require.NoError(t, err)
		require.Equal(t, models.AuthUser{ID: 42, Role: models.EmployeeRole}, authUser)
	})

	t.Run(`seven day validity by default`, func(t *testing.T) {
		p := NewInstance("secret", 0).(impl)
		issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		p.now = func() time.Time { return issued }
		token, err := p.GetToken(user)
		require.NoError(t, err)

		parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		require.NoError(t, err)
		exp, err := parsed.Claims.GetExpirationTime()
		require.NoError(t, err)
		require.Equal(t, issued.Add(7*24*time.Hour).Unix(), exp.Unix())
	})

	t.Run(`expired token`, func(t *testing.T) {
		p := NewInstance("secret", time.Hour).(impl)
		p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := p.GetToken(user)
		require.NoError(t, err)
		_, err = p.ParseToken(token)
		require.Error(t, err)
	})

	t.Run(`foreign signature`, func(t *testing.T) {
		token, err := NewInstance("other", 0).GetToken(user)
		require.NoError(t, err)
		_, err = NewInstance("secret", 0).ParseToken(token)
		require.Error(t, err)
	})

	t.Run(`claims without role`, func(t *testing.T) {
		_, err := UserFromClaims(jwt.MapClaims{"sub": "5"})
		require.Error(t, err)
		_, err = UserFromClaims(jwt.MapClaims{"sub": "abc", "role": "MANAGER"})
		require.Error(t, err)
		authUser, err := UserFromClaims(jwt.MapClaims{"sub": "5", "role": "MANAGER"})
		require.NoError(t, err)
		require.Equal(t, uint(5), authUser.ID)
	})
}
