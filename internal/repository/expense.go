package repository

import (
	"context"
	"errors"

	"expense-api/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches, including records that
	// exist but belong to another owner and identifiers of the wrong shape.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// ExpenseRepository exposes owner-scoped persistence for expenses. Every
// lookup and mutation matches on both id and owner.
type ExpenseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, expense *domain.Expense) error
	Get(ctx context.Context, ownerID, id string) (*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, ownerID, id string) error
	// List returns the requested window of matching expenses, newest first,
	// together with the total number of matches ignoring the window.
	List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, int64, error)
}
