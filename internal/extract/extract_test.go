package extract

import (
	"testing"

	"finsight/internal/store"
)

var symbols = []string{"$", "₩"}

func TestScanFirstPage_AccountDigits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // "" means nil
	}{
		{
			"masked account line",
			"ACME BANK\nAccount Number:   XXXX XXXX XXXX 1234\nStatement Period",
			"1234",
		},
		{
			"lowercase number label",
			"Account number: ending in 9876",
			"9876",
		},
		{
			"first matching line wins",
			"Account Number: XXXX 1111\nAccount Number: XXXX 2222",
			"1111",
		},
		{
			"trailing text after digits breaks the match",
			"Account Number: 1234 (primary)",
			"",
		},
		{
			"no account line",
			"ACME BANK\nStatement Period 03/01 - 03/31",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last4, _ := ScanFirstPage(tt.text, symbols)
			if tt.want == "" {
				if last4 != nil {
					t.Errorf("last4 = %q, want nil", *last4)
				}
				return
			}
			if last4 == nil || *last4 != tt.want {
				t.Errorf("last4 = %v, want %q", last4, tt.want)
			}
		})
	}
}

func TestScanFirstPage_CurrencyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // "" means nil
	}{
		{"dollar only", "Balance $1,234.56", "$"},
		{"won only", "Balance ₩1,234,560", "₩"},
		{"both present resolves by priority order", "₩500 converted from $1.00", "$"},
		{"neither", "Balance 1,234.56", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, currency := ScanFirstPage(tt.text, symbols)
			if tt.want == "" {
				if currency != nil {
					t.Errorf("currency = %q, want nil", *currency)
				}
				return
			}
			if currency == nil || *currency != tt.want {
				t.Errorf("currency = %v, want %q", currency, tt.want)
			}
		})
	}
}

func TestNewStatement(t *testing.T) {
	cur := "$"
	res := &Result{PageCount: 4, RawText: "text", Currency: &cur}

	st := NewStatement(res, store.KindCreditCard, "march.pdf", 7)
	if st.Kind != store.KindCreditCard || st.SourceName != "march.pdf" || st.UserID != 7 {
		t.Errorf("statement header fields wrong: %+v", st)
	}
	if st.PageCount != 4 || st.RawText != "text" {
		t.Errorf("statement content fields wrong: %+v", st)
	}
	if st.Currency == nil || *st.Currency != "$" {
		t.Errorf("currency = %v", st.Currency)
	}
	if st.AccountLast4 != nil {
		t.Errorf("AccountLast4 = %v, want nil", st.AccountLast4)
	}
}
