package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
)

type expenseDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	User           primitive.ObjectID `bson:"user"`
	Description    string             `bson:"description"`
	Category       string             `bson:"category"`
	IsReimbursable bool               `bson:"is_reimbursable"`
	BaseAmount     float64            `bson:"base_amount"`
	TaxAmount      float64            `bson:"tax_amount"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d expenseDocument) toDomain() domain.Expense {
	return domain.Expense{
		ID:             d.ID.Hex(),
		OwnerID:        d.User.Hex(),
		Description:    d.Description,
		Category:       domain.Category(d.Category),
		IsReimbursable: d.IsReimbursable,
		BaseAmount:     d.BaseAmount,
		TaxAmount:      d.TaxAmount,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ExpenseRepository stores expenses in the "expenses" collection.
type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) repository.ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(expensesCollection)}
}

func (r *ExpenseRepository) Init(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create expenses index: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	owner, err := primitive.ObjectIDFromHex(expense.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", expense.OwnerID, err)
	}

	now := time.Now().UTC()
	doc := expenseDocument{
		ID:             primitive.NewObjectID(),
		User:           owner,
		Description:    expense.Description,
		Category:       string(expense.Category),
		IsReimbursable: expense.IsReimbursable,
		BaseAmount:     expense.BaseAmount,
		TaxAmount:      expense.TaxAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert expense: %w", err)
	}

	expense.ID = doc.ID.Hex()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return nil
}

func (r *ExpenseRepository) Get(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var doc expenseDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo find expense: %w", err)
	}
	expense := doc.toDomain()
	return &expense, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	filter, ok := ownedFilter(expense.OwnerID, expense.ID)
	if !ok {
		return repository.ErrNotFound
	}
	expense.UpdatedAt = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"description":     expense.Description,
		"category":        string(expense.Category),
		"is_reimbursable": expense.IsReimbursable,
		"base_amount":     expense.BaseAmount,
		"tax_amount":      expense.TaxAmount,
		"updated_at":      expense.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("mongo update expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, ok := ownedFilter(ownerID, id)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, int64, error) {
	query, ok := buildExpenseQuery(filter)
	if !ok {
		return []domain.Expense{}, 0, nil
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo count expenses: %w", err)
	}

	expenses := []domain.Expense{}
	if total == 0 || int64(filter.Offset) >= total {
		return expenses, total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []expenseDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("mongo decode expenses: %w", err)
	}
	for _, doc := range docs {
		expenses = append(expenses, doc.toDomain())
	}
	return expenses, total, nil
}

// buildExpenseQuery renders filter as a conjunctive document query. ok is
// false when the owner id cannot match any document.
func buildExpenseQuery(filter domain.ExpenseFilter) (bson.M, bool) {
	owner, err := primitive.ObjectIDFromHex(filter.OwnerID)
	if err != nil {
		return nil, false
	}

	query := bson.M{"user": owner}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["description"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.Search),
			Options: "i",
		}
	}
	return query, true
}

func ownedFilter(ownerID, id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user": owner}, true
}
