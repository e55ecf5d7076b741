package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expense-api/internal/domain"
	"expense-api/internal/service"
)

type expenseRequest struct {
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	IsReimbursable *bool    `json:"isReimbursable"`
	BaseAmount     *float64 `json:"baseAmount"`
	TaxAmount      *float64 `json:"taxAmount"`
}

func (r expenseRequest) toInput() service.ExpenseInput {
	return service.ExpenseInput{
		Description:    r.Description,
		Category:       r.Category,
		IsReimbursable: r.IsReimbursable,
		BaseAmount:     r.BaseAmount,
		TaxAmount:      r.TaxAmount,
	}
}

type ExpenseResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	IsReimbursable bool    `json:"isReimbursable"`
	BaseAmount     float64 `json:"baseAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"totalAmount"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type ExpensePageResponse struct {
	Items       []ExpenseResponse `json:"items"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	TotalCount  int64             `json:"totalCount"`
}

func (h *Handler) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload"})
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), identityFrom(c), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expenseToResponse(*expense))
}

func (h *Handler) listExpenses(c *gin.Context) {
	params := service.ListParams{
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	page, err := h.expenses.List(c.Request.Context(), identityFrom(c), params)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := ExpensePageResponse{
		Items:       make([]ExpenseResponse, len(page.Items)),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalCount:  page.TotalCount,
	}
	for i := range page.Items {
		resp.Items[i] = expenseToResponse(page.Items[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getExpense(c *gin.Context) {
	expense, err := h.expenses.Get(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenseToResponse(*expense))
}

func (h *Handler) updateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload"})
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), identityFrom(c), c.Param("id"), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenseToResponse(*expense))
}

func (h *Handler) deleteExpense(c *gin.Context) {
	id := c.Param("id")
	if err := h.expenses.Delete(c.Request.Context(), identityFrom(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted": id,
		"message": "expense deleted successfully",
	})
}

// queryInt returns 0 for missing or non-numeric values so the service applies its defaults.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func expenseToResponse(expense domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:             expense.ID,
		UserID:         expense.OwnerID,
		Description:    expense.Description,
		Category:       string(expense.Category),
		IsReimbursable: expense.IsReimbursable,
		BaseAmount:     expense.BaseAmount,
		TaxAmount:      expense.TaxAmount,
		TotalAmount:    expense.TotalAmount(),
		CreatedAt:      formatTime(expense.CreatedAt),
		UpdatedAt:      formatTime(expense.UpdatedAt),
	}
}
