package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)

	// Validity window is fixed at 24h.
	ttl := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, TokenTTL.Seconds(), ttl.Seconds(), 60)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(TransferCodeLen)
	require.NoError(t, err)
	require.Len(t, code, TransferCodeLen)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
