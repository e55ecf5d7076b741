package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
	"expense-api/internal/repository/sqlite"
)

type fixture struct {
	ctx      context.Context
	db       *sql.DB
	userRepo repository.UserRepository
	users    UserService
	expenses ExpenseService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	expenseRepo := sqlite.NewExpenseRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, expenseRepo.Init(ctx))

	return &fixture{
		ctx:      ctx,
		db:       db,
		userRepo: userRepo,
		users:    &userService{users: userRepo, cost: bcrypt.MinCost},
		expenses: NewExpenseService(expenseRepo),
	}
}

func (f *fixture) identity(t *testing.T, username string) domain.Identity {
	t.Helper()
	user, err := f.users.Register(f.ctx, username, "pw123")
	require.NoError(t, err)
	return domain.Identity{UserID: user.ID, Username: user.Username}
}

func ptr[T any](v T) *T {
	return &v
}
