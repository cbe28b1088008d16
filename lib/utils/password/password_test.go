package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPassword(t *testing.T) {
	p := NewInstance(bcrypt.MinCost)

	hash, err := p.Hash("password")
	require.NoError(t, err)
	require.NotEqual(t, "password", hash)
	require.True(t, p.Verify(hash, "password"))
	require.False(t, p.Verify(hash, "Password"))
	require.False(t, p.Verify("not-a-hash", "password"))

	t.Run(`out of range cost falls back to default`, func(t *testing.T) {
		require.Equal(t, bcrypt.DefaultCost, NewInstance(0).(impl).cost)
		require.Equal(t, bcrypt.DefaultCost, NewInstance(100).(impl).cost)
	})
}
