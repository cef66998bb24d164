package credential

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLocalCreateAndVerify(t *testing.T) {
	ctx := context.Background()
	l := NewLocalWithCost(bcrypt.MinCost)

	uid, err := l.CreateUser(ctx, Input{Email: "A@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	got, err := l.VerifyPassword(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	_, err = l.VerifyPassword(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = l.VerifyPassword(ctx, "nobody@x.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLocalRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	l := NewLocalWithCost(bcrypt.MinCost)

	_, err := l.CreateUser(ctx, Input{UID: "u1", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = l.CreateUser(ctx, Input{Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, ErrExists)

	_, err = l.CreateUser(ctx, Input{UID: "u1", Email: "b@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrExists)
}

func TestLocalRejectsLongPasswords(t *testing.T) {
	l := NewLocalWithCost(bcrypt.MinCost)

	_, err := l.CreateUser(context.Background(), Input{Email: "a@x.com", Password: strings.Repeat("p", 73)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = l.CreateUser(context.Background(), Input{Email: "a@x.com", Password: strings.Repeat("p", 72)})
	assert.NoError(t, err)
}
