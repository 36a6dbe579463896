package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/contacts-service/internal/auth"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "secret1"},
		{name: "max length password", password: "twelve-chars"},
		{name: "unicode password", password: "пароль"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password, 4)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, auth.ComparePassword(hash, tt.password))
		})
	}
}

func TestComparePassword(t *testing.T) {
	hash, err := auth.HashPassword("secret1", 4)
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  bool
	}{
		{name: "matching password", hash: hash, password: "secret1", wantErr: false},
		{name: "wrong password", hash: hash, password: "secret2", wantErr: true},
		{name: "mutated hash", hash: hash + "x", password: "secret1", wantErr: true},
		{name: "malformed digest", hash: "not-a-bcrypt-hash", password: "secret1", wantErr: true},
		{name: "empty digest", hash: "", password: "secret1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ComparePassword(tt.hash, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := auth.HashPassword("secret1", 4)
	require.NoError(t, err)
	second, err := auth.HashPassword("secret1", 4)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
