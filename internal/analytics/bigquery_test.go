package analytics

import (
	"testing"
	"time"

	"finsight/internal/store"
)

func TestRowFromStore(t *testing.T) {
	place := "Springfield"
	cur := "$"
	last4 := "4242"

	r := store.TransactionRow{
		TransactionID: 42,
		Date:          time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Description:   "Trader Joes 123",
		Amount:        -45.10,
		Category:      "grocery",
		Place:         &place,
		Kind:          store.KindCreditCard,
		Currency:      &cur,
		AccountLast4:  &last4,
	}

	exportedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	row := rowFromStore(r, 7, exportedAt)

	if row.TransactionID != "42" || row.UserID != "7" {
		t.Errorf("IDs = (%s, %s)", row.TransactionID, row.UserID)
	}
	if row.Date.Year != 2024 || row.Date.Month != time.March || row.Date.Day != 14 {
		t.Errorf("Date = %v", row.Date)
	}
	if row.Amount != -45.10 || row.Description != "Trader Joes 123" {
		t.Errorf("row = %+v", row)
	}
	if !row.Category.Valid || row.Category.StringVal != "grocery" {
		t.Errorf("Category = %+v", row.Category)
	}
	if !row.Place.Valid || row.Place.StringVal != "Springfield" {
		t.Errorf("Place = %+v", row.Place)
	}
	if row.AccountKind != "credit_card" {
		t.Errorf("AccountKind = %q", row.AccountKind)
	}
	if !row.ExportedTS.Equal(exportedAt) {
		t.Errorf("ExportedTS = %v", row.ExportedTS)
	}
}

func TestRowFromStore_UnlabeledRow(t *testing.T) {
	r := store.TransactionRow{
		TransactionID: 1,
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:   "Pending Charge",
		Amount:        -5.00,
		Kind:          store.KindBankAccount,
	}

	row := rowFromStore(r, 1, time.Now())
	if row.Category.Valid || row.Place.Valid || row.Currency.Valid || row.AccountLast4.Valid {
		t.Errorf("nullable fields should be invalid: %+v", row)
	}
}
