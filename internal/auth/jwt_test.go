package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultapi/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("alice", secret, time.Hour)
	require.NoError(t, err)

	username, err := UsernameFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestUsernameFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("alice", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = UsernameFromToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUsernameFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("alice", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = UsernameFromToken(tok, []byte("secret-b"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUsernameFromToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := UsernameFromToken("not-a-token", []byte("secret"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
