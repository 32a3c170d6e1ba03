package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/page-delivery-service/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("session-secret", 60)
	account := &domain.Account{ID: "acc-1", Plan: domain.AccountPlanPremium}

	token, expiresAt, err := tm.GenerateToken(account)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, domain.AccountPlanPremium, claims.Plan)
}

func TestTokenManager_ForeignSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	parser := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken(&domain.Account{ID: "acc-1", Plan: domain.AccountPlanFree})
	require.NoError(t, err)

	_, err = parser.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("session-secret", 60)

	_, err := tm.ParseToken("not.a.jwt")
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "hunter3"))
}
