package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(v string) *string { return &v }

func TestFindOrCreateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1, created, err := s.FindOrCreateUser(ctx, "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("FindOrCreateUser: %v", err)
	}
	if !created {
		t.Error("expected first call to create the user")
	}

	u2, created, err := s.FindOrCreateUser(ctx, "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("FindOrCreateUser second call: %v", err)
	}
	if created {
		t.Error("expected second call to reuse the existing user")
	}
	if u1.ID != u2.ID {
		t.Errorf("user IDs differ: %d vs %d", u1.ID, u2.ID)
	}

	// A different name pair is a different user.
	u3, created, err := s.FindOrCreateUser(ctx, "Ada", "Byron")
	if err != nil {
		t.Fatalf("FindOrCreateUser third call: %v", err)
	}
	if !created || u3.ID == u1.ID {
		t.Error("expected a distinct user for a distinct name pair")
	}
}

func TestStatementDedupKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _, err := s.FindOrCreateUser(ctx, "Grace", "Hopper")
	if err != nil {
		t.Fatal(err)
	}

	st := &Statement{
		Kind:         KindCreditCard,
		SourceName:   "jan.pdf",
		PageCount:    3,
		RawText:      "raw statement text",
		Currency:     strPtr("$"),
		AccountLast4: strPtr("1234"),
		UserID:       u.ID,
	}
	if err := s.CreateStatement(ctx, st); err != nil {
		t.Fatal(err)
	}

	byAccount, err := s.FindStatementByAccount(ctx, u.ID, "jan.pdf", strPtr("1234"))
	if err != nil {
		t.Fatal(err)
	}
	if byAccount == nil || byAccount.ID != st.ID {
		t.Error("expected lookup by (user, name, last4) to find the statement")
	}

	byText, err := s.FindStatementByText(ctx, u.ID, "raw statement text")
	if err != nil {
		t.Fatal(err)
	}
	if byText == nil || byText.ID != st.ID {
		t.Error("expected lookup by (user, raw text) to find the statement")
	}

	// Another user never sees it.
	other, _, err := s.FindOrCreateUser(ctx, "Margaret", "Hamilton")
	if err != nil {
		t.Fatal(err)
	}
	miss, err := s.FindStatementByText(ctx, other.ID, "raw statement text")
	if err != nil {
		t.Fatal(err)
	}
	if miss != nil {
		t.Error("statement dedup leaked across users")
	}

	// Statements without account digits match on NULL.
	st2 := &Statement{Kind: KindBankAccount, SourceName: "feb.pdf", RawText: "other", UserID: u.ID}
	if err := s.CreateStatement(ctx, st2); err != nil {
		t.Fatal(err)
	}
	byNil, err := s.FindStatementByAccount(ctx, u.ID, "feb.pdf", nil)
	if err != nil {
		t.Fatal(err)
	}
	if byNil == nil || byNil.ID != st2.ID {
		t.Error("expected NULL last4 to match a digitless statement")
	}
}

func TestLabelSharingByDescription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _, _ := s.FindOrCreateUser(ctx, "Alan", "Turing")
	st := &Statement{Kind: KindCreditCard, SourceName: "a.pdf", RawText: "t", UserID: u.ID}
	if err := s.CreateStatement(ctx, st); err != nil {
		t.Fatal(err)
	}

	label := &Label{Category: "grocery", Place: strPtr("Trader Joe's"), UserID: u.ID}
	if err := s.CreateLabel(ctx, label); err != nil {
		t.Fatal(err)
	}

	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	t1 := &Transaction{Date: day, Description: "Trader Joe's #512", Amount: -42.10, UserID: u.ID, StatementID: st.ID, LabelID: &label.ID}
	t2 := &Transaction{Date: day.AddDate(0, 0, 1), Description: "Trader Joe's #512", Amount: -13.37, UserID: u.ID, StatementID: st.ID}
	for _, tx := range []*Transaction{t1, t2} {
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	cached, err := s.FirstLabeledByDescription(ctx, u.ID, "Trader Joe's #512")
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.Label == nil || cached.Label.ID != label.ID {
		t.Fatal("expected a labeled transaction with the shared label preloaded")
	}

	if err := s.AttachLabel(ctx, t2.ID, cached.Label.ID); err != nil {
		t.Fatal(err)
	}

	// Updating the shared label is observed through both transactions.
	label.Category = "dine_out"
	if err := s.SaveLabel(ctx, label); err != nil {
		t.Fatal(err)
	}

	rows, err := s.TransactionsInRange(ctx, u.ID, day, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Category != "dine_out" {
			t.Errorf("row %d category = %q, want dine_out", row.TransactionID, row.Category)
		}
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _, _ := s.FindOrCreateUser(ctx, "Katherine", "Johnson")
	st := &Statement{Kind: KindBankAccount, SourceName: "b.pdf", RawText: "text", UserID: u.ID}
	if err := s.CreateStatement(ctx, st); err != nil {
		t.Fatal(err)
	}
	label := &Label{Category: "income", UserID: u.ID}
	if err := s.CreateLabel(ctx, label); err != nil {
		t.Fatal(err)
	}
	tx := &Transaction{Date: time.Now(), Description: "Payroll Acme", Amount: 1000, UserID: u.ID, StatementID: st.ID, LabelID: &label.ID}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}

	gone, err := s.FindUser(ctx, "Katherine", "Johnson")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Error("user still present after delete")
	}

	var n int64
	if err := s.db.Model(&Transaction{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected transactions to cascade, %d left", n)
	}
	if err := s.db.Model(&Statement{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected statements to cascade, %d left", n)
	}
	if err := s.db.Model(&Label{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected labels to cascade, %d left", n)
	}
}

func TestCommentsAndDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, _, _ := s.FindOrCreateUser(ctx, "Annie", "Easley")

	if _, err := s.CreateComment(ctx, u.ID, "march", time.Now(), "spent too much on coffee"); err != nil {
		t.Fatal(err)
	}
	comments, err := s.ListComments(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].Title != "march" {
		t.Errorf("comments = %+v", comments)
	}

	st := &Statement{Kind: KindBankAccount, SourceName: "c.pdf", RawText: "x", UserID: u.ID}
	if err := s.CreateStatement(ctx, st); err != nil {
		t.Fatal(err)
	}
	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{d1, d2} {
		tx := &Transaction{Date: d, Description: "X", Amount: 1, UserID: u.ID, StatementID: st.ID}
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatal(err)
		}
	}

	dates, err := s.TransactionDates(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 || !dates[0].Before(dates[1]) {
		t.Errorf("dates not ascending: %v", dates)
	}
}
