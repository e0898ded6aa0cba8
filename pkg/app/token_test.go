package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTokenManager(expiry time.Duration) TokenManager {
	return NewTokenManager(TokenConfig{
		SecretKey: "test-secret",
		Expiry:    expiry,
	})
}

func TestTokenGenerateAndParse(t *testing.T) {
	tm := newTestTokenManager(time.Hour)

	token, err := tm.Generate("member-alice", "org-1", []string{"admin", "member"})
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.Parse(token)
	assert.Nil(t, err)
	assert.Equal(t, "member-alice", claims.MemberID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, []string{"admin", "member"}, claims.Roles)
	assert.Equal(t, "member-alice", claims.Subject)
}

func TestTokenParseWrongKey(t *testing.T) {
	tm := newTestTokenManager(time.Hour)
	other := NewTokenManager(TokenConfig{SecretKey: "other-secret"})

	token, err := tm.Generate("member-alice", "org-1", nil)
	assert.Nil(t, err)

	_, err = other.Parse(token)
	assert.NotNil(t, err)
}

func TestTokenExpired(t *testing.T) {
	tm := newTestTokenManager(-time.Minute)

	token, err := tm.Generate("member-alice", "org-1", nil)
	assert.Nil(t, err)

	err = tm.Validate(token)
	assert.NotNil(t, err)
}
