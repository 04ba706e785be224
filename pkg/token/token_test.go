package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 5*time.Hour)

	signed, exp, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f1", "traveler")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	assert.WithinDuration(t, time.Now().UTC().Add(5*time.Hour), exp, time.Minute)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "64f1b0c2e4a5d6b7c8d9e0f1", claims.UserID)
	assert.Equal(t, "traveler", claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	signed, _, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f1", "admin")
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Hour)
	other := NewIssuer("secret-b", time.Hour)

	signed, _, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f1", "operator")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestVerifyMissingClaims(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	signed, _, err := issuer.Issue("", "")
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.Error(t, err)
}
