package seed_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/d9705996/ideaportal/internal/dbtest"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/seed"
	"github.com/d9705996/ideaportal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	st := store.New(dbtest.Open(t))
	ctx := context.Background()
	opts := seed.AdminOptions{ID: "idp|root", Email: "root@example.com"}

	require.NoError(t, seed.EnsureAdmin(ctx, st, opts, newNullLogger()))
	require.NoError(t, seed.EnsureAdmin(ctx, st, opts, newNullLogger()))

	u, err := st.GetUser(ctx, "idp|root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	n, err := st.CountUsersWithRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEnsureAdmin_PromotesExistingUser(t *testing.T) {
	st := store.New(dbtest.Open(t))
	ctx := context.Background()
	require.NoError(t, st.CreateUser(ctx, &model.User{ID: "idp|ann", Email: "ann@example.com"}))

	require.NoError(t, seed.EnsureAdmin(ctx, st, seed.AdminOptions{ID: "idp|ann"}, newNullLogger()))

	u, err := st.GetUser(ctx, "idp|ann")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "ann@example.com", u.Email)
}

func TestEnsureAdmin_NoIDIsNoop(t *testing.T) {
	st := store.New(dbtest.Open(t))
	require.NoError(t, seed.EnsureAdmin(context.Background(), st, seed.AdminOptions{}, newNullLogger()))

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
