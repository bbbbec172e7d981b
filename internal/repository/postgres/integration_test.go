//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/accountd/accountd/internal/model"
	repo "github.com/accountd/accountd/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "accountd_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/accountd_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(i int) model.User {
	return model.User{
		Name:         fmt.Sprintf("User %d", i),
		Username:     fmt.Sprintf("user%d", i),
		Email:        fmt.Sprintf("user%d@example.com", i),
		PasswordHash: "$2a$04$digest",
		Role:         model.RoleUser,
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	saved, err := ur.Create(ctx, newUser(1))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.Equal(t, model.RoleUser, saved.Role)
	require.False(t, saved.CreatedAt.IsZero())

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup := newUser(1)
		dup.Username = "someoneelse"
		_, err := ur.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		dup := newUser(1)
		dup.Email = "someoneelse@example.com"
		_, err := ur.Create(ctx, dup)
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("get by id and email", func(t *testing.T) {
		byID, err := ur.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		require.Equal(t, saved.Email, byID.Email)

		byEmail, err := ur.GetByEmail(ctx, saved.Email)
		require.NoError(t, err)
		require.Equal(t, saved.ID, byEmail.ID)

		_, err = ur.GetByID(ctx, saved.ID+10000)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("partial profile update", func(t *testing.T) {
		name := "Renamed"
		updated, err := ur.UpdateProfile(ctx, saved.ID, model.UpdateProfileParams{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "Renamed", updated.Name)
		// Untouched fields keep their values.
		require.Equal(t, saved.Username, updated.Username)
		require.True(t, updated.UpdatedAt.After(saved.UpdatedAt) || updated.UpdatedAt.Equal(saved.UpdatedAt))
	})

	t.Run("role update", func(t *testing.T) {
		updated, err := ur.UpdateRole(ctx, saved.ID, model.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, model.RoleAdmin, updated.Role)
	})

	t.Run("delete", func(t *testing.T) {
		victim, err := ur.Create(ctx, newUser(2))
		require.NoError(t, err)

		require.NoError(t, ur.Delete(ctx, victim.ID))
		require.ErrorIs(t, ur.Delete(ctx, victim.ID), model.ErrNotFound)
		_, err = ur.GetByID(ctx, victim.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_Pagination(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	for i := 100; i < 125; i++ {
		_, err := ur.Create(ctx, newUser(i))
		require.NoError(t, err)
	}

	_, total, err := ur.ListPage(ctx, 0, 1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, total, int64(25))

	t.Run("second page", func(t *testing.T) {
		users, total, err := ur.ListPage(ctx, 10, 10)
		require.NoError(t, err)
		require.Len(t, users, 10)
		require.GreaterOrEqual(t, total, int64(25))
		// Pages are ordered by ascending id and do not overlap.
		for i := 1; i < len(users); i++ {
			require.Greater(t, users[i].ID, users[i-1].ID)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		users, n, err := ur.ListPage(ctx, int(total)+100, 10)
		require.NoError(t, err)
		require.Empty(t, users)
		require.Equal(t, total, n)
	})

	t.Run("filter by username substring", func(t *testing.T) {
		users, total, err := ur.ListPageByUsername(ctx, 0, 50, "user10")
		require.NoError(t, err)
		require.NotEmpty(t, users)
		require.Equal(t, int64(len(users)), total)
		for _, u := range users {
			require.Contains(t, u.Username, "user10")
		}
	})

	t.Run("list all", func(t *testing.T) {
		users, err := ur.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(users), 25)
	})
}
