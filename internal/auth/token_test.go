package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/contacts-service/internal/auth"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", time.Hour, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	token, expiresAt, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.Parse(token, auth.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, auth.PurposeAccess, claims.Purpose)
	assert.Empty(t, claims.PasswordHash)
}

func TestConfirmTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.IssueConfirmToken("a@x.com")
	require.NoError(t, err)

	claims, err := tm.Parse(token, auth.PurposeEmailConfirm)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
}

func TestResetTokenCarriesEmbeddedHash(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.IssueResetToken("a@x.com", "$2a$12$fakehash")
	require.NoError(t, err)

	claims, err := tm.Parse(token, auth.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "$2a$12$fakehash", claims.PasswordHash)
}

func TestParseRejectsPurposeMismatch(t *testing.T) {
	tm := newTestTokenManager()

	confirmToken, err := tm.IssueConfirmToken("a@x.com")
	require.NoError(t, err)
	accessToken, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		purpose auth.TokenPurpose
	}{
		{name: "confirm token as access", token: confirmToken, purpose: auth.PurposeAccess},
		{name: "access token as confirm", token: accessToken, purpose: auth.PurposeEmailConfirm},
		{name: "access token as reset", token: accessToken, purpose: auth.PurposePasswordReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Parse(tt.token, tt.purpose)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestParseRejectsResetTokenWithoutHash(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.IssueResetToken("a@x.com", "")
	require.NoError(t, err)

	_, err = tm.Parse(token, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := newTestTokenManager()

	token, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = tm.Parse(tampered, auth.PurposeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("other-secret", time.Hour, time.Hour).IssueAccessToken("alice")
	require.NoError(t, err)

	_, err = newTestTokenManager().Parse(token, auth.PurposeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Millisecond, time.Millisecond)

	token, _, err := tm.IssueAccessToken("alice")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.Parse(token, auth.PurposeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newTestTokenManager().Parse("not.a.jwt", auth.PurposeAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
