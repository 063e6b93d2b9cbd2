package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	sealed, err := Seal([]byte(`{"access_token":"tok"}`), "short-secret")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "tok")

	plain, err := Open(sealed, "short-secret")
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"tok"}`, string(plain))

	_, err = Open(sealed, "other-secret")
	assert.Error(t, err)

	_, err = Open("AAAA", "short-secret")
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestStateToken(t *testing.T) {
	token, err := GenerateStateToken("secret", "facebook", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateStateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "facebook", claims.Platform)
	assert.NotEmpty(t, claims.ID)

	_, err = ValidateStateToken("wrong", token)
	assert.Error(t, err)
}

func TestStateTokenExpired(t *testing.T) {
	token, err := GenerateStateToken("secret", "threads", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateStateToken("secret", token)
	assert.Error(t, err)
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(16)
	require.NoError(t, err)
	b, err := GenerateRandomKey(16)
	require.NoError(t, err)
	assert.Len(t, a, 22)
	assert.NotEqual(t, a, b)
}
