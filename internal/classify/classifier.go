// Package classify maps transaction descriptions to (category, place)
// labels. Resolution prefers the user's cached label for an identical
// description, then heuristic rules, and only then the external
// classifier, so an already-resolved description never costs a call.
package classify

import "context"

// Category tags a transaction's purpose. The classifier must return one of
// the closed enumeration below; heuristic rules may additionally emit the
// literals CategoryMyAccountTransfer and CategoryPayroll.
type Category string

const (
	CategoryIncome            Category = "income"
	CategoryInvestment        Category = "investment"
	CategoryCashTransfer      Category = "cash_transfer"
	CategoryCreditCardPayment Category = "credit_card_payment"
	CategoryInterest          Category = "interest"
	CategoryTax               Category = "tax"
	CategoryGrocery           Category = "grocery"
	CategoryDelivery          Category = "delivery"
	CategoryDineOut           Category = "dine_out"
	CategoryTransportation    Category = "transportation"
	CategorySubscription      Category = "subscription"
	CategoryHousing           Category = "housing"
	CategoryHealthcare        Category = "healthcare"
	CategoryInsurance         Category = "insurance"
	CategoryShopping          Category = "shopping"
	CategoryLeisure           Category = "leisure"
	CategoryOther             Category = "other"

	// outside the classifier's closed enumeration, emitted by rules only
	CategoryMyAccountTransfer Category = "my_account_transfer"
	CategoryPayroll           Category = "payroll"
)

// categories is the closed enumeration the external classifier may use.
var categories = []Category{
	CategoryIncome, CategoryInvestment, CategoryCashTransfer,
	CategoryCreditCardPayment, CategoryInterest, CategoryTax,
	CategoryGrocery, CategoryDelivery, CategoryDineOut,
	CategoryTransportation, CategorySubscription, CategoryHousing,
	CategoryHealthcare, CategoryInsurance, CategoryShopping,
	CategoryLeisure, CategoryOther,
}

// Valid reports whether c belongs to the closed enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Categories returns the closed enumeration, for prompt building.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Result is what a classification produces: a category and, when the
// description names one, a place.
type Result struct {
	Category Category
	Place    *string
}

// Classifier is the injected capability behind the gateway's last-resort
// step. Implementations must surface malformed output as an error, never
// as a silent default.
type Classifier interface {
	Classify(ctx context.Context, description string) (Result, error)
}
