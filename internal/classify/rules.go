package classify

import "strings"

// Rules are the cheap description heuristics tried before the external
// classifier. They are deterministic and never produce a place.
type Rules struct {
	// PaymentPhrases mark credit-card bill payments. Shared with the
	// parser's sign-normalization exclusion list.
	PaymentPhrases []string
}

// Match applies the rules in fixed order and reports whether one fired.
func (r Rules) Match(description string) (Result, bool) {
	lower := strings.ToLower(description)

	switch {
	case containsAny(lower, r.PaymentPhrases):
		return Result{Category: CategoryCreditCardPayment}, true
	case strings.Contains(lower, "online banking transfer"),
		strings.Contains(lower, "online banking payment"):
		return Result{Category: CategoryMyAccountTransfer}, true
	case strings.Contains(lower, "zelle"), strings.Contains(lower, "venmo"):
		return Result{Category: CategoryCashTransfer}, true
	case strings.Contains(lower, "payroll"):
		return Result{Category: CategoryPayroll}, true
	}

	return Result{}, false
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
