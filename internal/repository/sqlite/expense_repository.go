package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
)

const createExpensesTable = `
CREATE TABLE IF NOT EXISTS expenses (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'Other',
	is_reimbursable INTEGER NOT NULL DEFAULT 0,
	base_amount REAL NOT NULL,
	tax_amount REAL NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_expenses_user_created ON expenses(user_id, created_at DESC);
`

const expenseColumns = `id, user_id, description, category, is_reimbursable, base_amount, tax_amount, created_at, updated_at`

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createExpensesTable); err != nil {
		return fmt.Errorf("create expenses table: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	now := time.Now().UTC()
	expense.ID = uuid.NewString()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (`+expenseColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID,
		expense.OwnerID,
		expense.Description,
		string(expense.Category),
		expense.IsReimbursable,
		expense.BaseAmount,
		expense.TaxAmount,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		expense.ID = ""
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) Get(ctx context.Context, ownerID, id string) (*domain.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+expenseColumns+`
FROM expenses
WHERE id=? AND user_id=?`,
		id,
		ownerID,
	)
	return scanExpense(row)
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	if _, err := uuid.Parse(expense.ID); err != nil {
		return repository.ErrNotFound
	}
	expense.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE expenses
SET description=?, category=?, is_reimbursable=?, base_amount=?, tax_amount=?, updated_at=?
WHERE id=? AND user_id=?`,
		expense.Description,
		string(expense.Category),
		expense.IsReimbursable,
		expense.BaseAmount,
		expense.TaxAmount,
		expense.UpdatedAt,
		expense.ID,
		expense.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(res, "update expense")
}

func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res, "delete expense")
}

func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]domain.Expense, int64, error) {
	where, args := buildExpenseWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	expenses := []domain.Expense{}
	if total == 0 || int64(filter.Offset) >= total {
		return expenses, total, nil
	}

	// rowid breaks ties between rows created within the same timestamp
	query := `
SELECT ` + expenseColumns + `
FROM expenses
WHERE ` + where + `
ORDER BY created_at DESC, rowid DESC
LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, total, nil
}

// buildExpenseWhere renders the conjunctive WHERE clause for filter.
func buildExpenseWhere(filter domain.ExpenseFilter) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{filter.OwnerID}

	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		clauses = append(clauses, "instr("+foldFunc+"(description), ?) > 0")
		args = append(args, strings.ToLower(filter.Search))
	}

	return strings.Join(clauses, " AND "), args
}

func requireAffected(res sql.Result, op string) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanExpense(scanner interface {
	Scan(dest ...any) error
}) (*domain.Expense, error) {
	var (
		expense  domain.Expense
		category string
	)
	if err := scanner.Scan(
		&expense.ID,
		&expense.OwnerID,
		&expense.Description,
		&category,
		&expense.IsReimbursable,
		&expense.BaseAmount,
		&expense.TaxAmount,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	expense.Category = domain.Category(category)
	return &expense, nil
}
