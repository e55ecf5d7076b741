package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"expense-api/internal/domain"
	"expense-api/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5

	maxDescriptionLength = 200
)

// ExpenseInput carries client supplied expense fields. Nil means the field was
// not supplied, which matters for partial updates.
type ExpenseInput struct {
	Description    *string
	Category       *string
	IsReimbursable *bool
	BaseAmount     *float64
	TaxAmount      *float64
}

// ListParams are the raw list controls. Values below 1 fall back to defaults.
type ListParams struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// ExpenseService coordinates owner-scoped expense operations.
type ExpenseService interface {
	Create(ctx context.Context, owner domain.Identity, input ExpenseInput) (*domain.Expense, error)
	Get(ctx context.Context, owner domain.Identity, id string) (*domain.Expense, error)
	Update(ctx context.Context, owner domain.Identity, id string, input ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, owner domain.Identity, id string) error
	List(ctx context.Context, owner domain.Identity, params ListParams) (*domain.ExpensePage, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) Create(ctx context.Context, owner domain.Identity, input ExpenseInput) (*domain.Expense, error) {
	if input.Description == nil {
		return nil, invalid("description", "is required")
	}
	if input.BaseAmount == nil {
		return nil, invalid("baseAmount", "is required")
	}
	if input.TaxAmount == nil {
		return nil, invalid("taxAmount", "is required")
	}

	expense := &domain.Expense{
		OwnerID:  owner.UserID,
		Category: domain.CategoryOther,
	}
	if err := applyInput(expense, input); err != nil {
		return nil, err
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Get(ctx context.Context, owner domain.Identity, id string) (*domain.Expense, error) {
	expense, err := s.expenses.Get(ctx, owner.UserID, strings.TrimSpace(id))
	if err != nil {
		return nil, translateNotFound(err)
	}
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, owner domain.Identity, id string, input ExpenseInput) (*domain.Expense, error) {
	expense, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := applyInput(expense, input); err != nil {
		return nil, err
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, translateNotFound(err)
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, owner domain.Identity, id string) error {
	if err := s.expenses.Delete(ctx, owner.UserID, strings.TrimSpace(id)); err != nil {
		return translateNotFound(err)
	}
	return nil
}

func (s *expenseService) List(ctx context.Context, owner domain.Identity, params ListParams) (*domain.ExpensePage, error) {
	page, limit := normalizePaging(params.Page, params.Limit)

	filter := domain.ExpenseFilter{
		OwnerID: owner.UserID,
		Search:  strings.TrimSpace(params.Search),
		Offset:  offsetFor(page, limit),
		Limit:   limit,
	}
	if raw := strings.TrimSpace(params.Category); raw != "" {
		// unknown categories stay as given and match nothing
		filter.Category = raw
		if category, ok := domain.ParseCategory(raw); ok {
			filter.Category = string(category)
		}
	}

	items, total, err := s.expenses.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Expense{}
	}

	return &domain.ExpensePage{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
		TotalCount:  total,
	}, nil
}

// applyInput validates and copies the supplied fields onto expense.
func applyInput(expense *domain.Expense, input ExpenseInput) error {
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return invalid("description", "is required")
		}
		if utf8.RuneCountInString(description) > maxDescriptionLength {
			return invalid("description", "cannot be more than %d characters", maxDescriptionLength)
		}
		expense.Description = description
	}
	if input.Category != nil {
		category, ok := domain.ParseCategory(*input.Category)
		if !ok {
			return invalid("category", "must be one of: Food, Travel, Office Supplies, or Other")
		}
		expense.Category = category
	}
	if input.IsReimbursable != nil {
		expense.IsReimbursable = *input.IsReimbursable
	}
	if input.BaseAmount != nil {
		if err := validateAmount("baseAmount", *input.BaseAmount); err != nil {
			return err
		}
		expense.BaseAmount = *input.BaseAmount
	}
	if input.TaxAmount != nil {
		if err := validateAmount("taxAmount", *input.TaxAmount); err != nil {
			return err
		}
		expense.TaxAmount = *input.TaxAmount
	}
	return nil
}

func validateAmount(field string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return invalid(field, "must be a finite number")
	}
	if amount < 0 {
		return invalid(field, "cannot be negative")
	}
	return nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

func offsetFor(page, limit int) int {
	offset := (page - 1) * limit
	if offset < 0 || offset/limit != page-1 {
		// overflow on absurd page numbers
		return math.MaxInt
	}
	return offset
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total-1)/int64(limit) + 1)
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
