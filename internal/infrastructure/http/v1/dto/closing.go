package dto

import (
	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/closing"
)

// ClosingExpense is one categorized spend entered in the closing form.
type ClosingExpense struct {
	CategoryID string          `json:"categoryId" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// SubmitClosingRequest carries the actual counts for the day close. All
// four counts are mandatory: an omitted count is a data-entry mistake,
// not a zero.
type SubmitClosingRequest struct {
	ActualStock *decimal.Decimal `json:"actualStock" binding:"required"`
	ActualBirds *int             `json:"actualBirds" binding:"required"`

	CountryActualStock *decimal.Decimal `json:"countryActualStock" binding:"required"`
	CountryActualBirds *int             `json:"countryActualBirds" binding:"required"`

	Expenses []ClosingExpense `json:"expenses"`
}

// ToInput converts the request to a service input, rejecting missing
// counts and malformed expense category IDs.
func (r *SubmitClosingRequest) ToInput() (closing.SubmitInput, error) {
	switch {
	case r.ActualStock == nil:
		return closing.SubmitInput{}, missingCount("actualStock")
	case r.ActualBirds == nil:
		return closing.SubmitInput{}, missingCount("actualBirds")
	case r.CountryActualStock == nil:
		return closing.SubmitInput{}, missingCount("countryActualStock")
	case r.CountryActualBirds == nil:
		return closing.SubmitInput{}, missingCount("countryActualBirds")
	}

	in := closing.SubmitInput{
		ActualStock:        *r.ActualStock,
		ActualBirds:        *r.ActualBirds,
		CountryActualStock: *r.CountryActualStock,
		CountryActualBirds: *r.CountryActualBirds,
	}
	for _, e := range r.Expenses {
		categoryID, err := id.Parse(e.CategoryID)
		if err != nil {
			return closing.SubmitInput{}, apperror.NewValidation("invalid expense category id").
				WithDetail("categoryId", e.CategoryID)
		}
		in.Expenses = append(in.Expenses, closing.ExpenseInput{
			CategoryID: categoryID,
			Amount:     e.Amount,
		})
	}
	return in, nil
}

func missingCount(field string) error {
	return apperror.NewValidation(field + " is required").
		WithDetail("field", field)
}
