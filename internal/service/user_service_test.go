package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStoresLowercaseUsernameAndHash(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ username, password string }{
		{"Alice", "pw123"},
		{"  BOB  ", "correct horse battery staple"},
		{"Ünïcode", "p"},
	} {
		user, err := f.users.Register(f.ctx, tc.username, tc.password)
		require.NoError(t, err)

		want := strings.ToLower(strings.TrimSpace(tc.username))
		assert.Equal(t, want, user.Username)
		assert.Empty(t, user.PasswordHash, "returned user must not carry the hash")
		assert.NotEmpty(t, user.ID)

		stored, err := f.userRepo.GetByUsername(f.ctx, want)
		require.NoError(t, err)
		assert.NotEqual(t, tc.password, stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(tc.password)))
	}
}

func TestRegisterRejectsDuplicateIgnoringCase(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(f.ctx, "alice", "pw123")
	require.NoError(t, err)

	_, err = f.users.Register(f.ctx, "ALICE", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]struct{ username, password string }{
		"empty username":     {"   ", "pw123"},
		"long username":      {strings.Repeat("a", 51), "pw123"},
		"empty password":     {"alice", ""},
		"oversized password": {"alice", strings.Repeat("x", 73)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.users.Register(f.ctx, tc.username, tc.password)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	_, err := f.users.Register(f.ctx, strings.Repeat("a", 50), "pw123")
	assert.NoError(t, err, "50 characters is the limit, not over it")
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	registered, err := f.users.Register(f.ctx, "alice", "pw123")
	require.NoError(t, err)

	user, err := f.users.Authenticate(f.ctx, "ALICE", "pw123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, wrongPassword := f.users.Authenticate(f.ctx, "alice", "nope")
	_, unknownUser := f.users.Authenticate(f.ctx, "mallory", "pw123")
	_, empty := f.users.Authenticate(f.ctx, "", "")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.ErrorIs(t, empty, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	registered, err := f.users.Register(f.ctx, "alice", "pw123")
	require.NoError(t, err)

	user, err := f.users.GetByID(f.ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}
