package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTravel         Category = "Travel"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryOther          Category = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryOfficeSupplies,
	CategoryOther,
}

// ParseCategory matches value against the known categories ignoring case and
// surrounding whitespace, returning the canonical spelling.
func ParseCategory(value string) (Category, bool) {
	value = strings.TrimSpace(value)
	for _, c := range Categories {
		if strings.EqualFold(value, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	ID             string
	OwnerID        string
	Description    string
	Category       Category
	IsReimbursable bool
	BaseAmount     float64
	TaxAmount      float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalAmount is base plus tax. It is never stored.
func (e Expense) TotalAmount() float64 {
	return decimal.NewFromFloat(e.BaseAmount).
		Add(decimal.NewFromFloat(e.TaxAmount)).
		InexactFloat64()
}

// ExpenseFilter is the store-level query produced for a list request.
// OwnerID is always set; Category and Search are optional.
type ExpenseFilter struct {
	OwnerID  string
	Category string
	Search   string
	Offset   int
	Limit    int
}

// ExpensePage is one page of a filtered expense listing.
type ExpensePage struct {
	Items       []Expense
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}
