package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
)

func TestBuildExpenseQuery(t *testing.T) {
	owner := primitive.NewObjectID()

	query, ok := buildExpenseQuery(domain.ExpenseFilter{OwnerID: owner.Hex()})
	require.True(t, ok)
	assert.Equal(t, bson.M{"user": owner}, query)

	query, ok = buildExpenseQuery(domain.ExpenseFilter{
		OwnerID:  owner.Hex(),
		Category: "Food",
		Search:   "a.b (lunch)",
	})
	require.True(t, ok)
	assert.Equal(t, owner, query["user"])
	assert.Equal(t, "Food", query["category"])
	assert.Equal(t, primitive.Regex{Pattern: `a\.b \(lunch\)`, Options: "i"}, query["description"])

	_, ok = buildExpenseQuery(domain.ExpenseFilter{OwnerID: "not-an-object-id"})
	assert.False(t, ok)
}

func TestOwnedFilter(t *testing.T) {
	owner, id := primitive.NewObjectID(), primitive.NewObjectID()

	filter, ok := ownedFilter(owner.Hex(), id.Hex())
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": id, "user": owner}, filter)

	_, ok = ownedFilter(owner.Hex(), "123")
	assert.False(t, ok)
	_, ok = ownedFilter("", id.Hex())
	assert.False(t, ok)
}

// openTestDatabase connects to EXPENSE_TEST_MONGO_URI and returns a throwaway database.
func openTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("EXPENSE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("EXPENSE_TEST_MONGO_URI not set, skipping mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("expense_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := openTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	expenses := NewExpenseRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, expenses.Init(ctx))

	alice := &domain.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, alice))
	bob := &domain.User{Username: "bob", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, bob))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"}), repository.ErrDuplicate)

	found, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
	_, err = users.GetByUsername(ctx, "carol")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	for i := 1; i <= 7; i++ {
		require.NoError(t, expenses.Create(ctx, &domain.Expense{
			OwnerID:     alice.ID,
			Description: fmt.Sprintf("Lunch %d", i),
			Category:    domain.CategoryFood,
			BaseAmount:  10,
			TaxAmount:   1,
		}))
	}

	page, total, err := expenses.List(ctx, domain.ExpenseFilter{OwnerID: alice.ID, Offset: 5, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Lunch 2", page[0].Description)

	_, total, err = expenses.List(ctx, domain.ExpenseFilter{OwnerID: alice.ID, Search: "LUNCH 7", Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = expenses.List(ctx, domain.ExpenseFilter{OwnerID: bob.ID, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	target := page[0]
	_, err = expenses.Get(ctx, bob.ID, target.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, expenses.Delete(ctx, bob.ID, target.ID), repository.ErrNotFound)

	target.Description = "Dinner"
	require.NoError(t, expenses.Update(ctx, &target))
	got, err := expenses.Get(ctx, alice.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Description)

	require.NoError(t, expenses.Delete(ctx, alice.ID, target.ID))
	_, err = expenses.Get(ctx, alice.ID, target.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
