package notionexport

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"finsight/internal/store"
)

// fakeNotion keeps pages in memory and behaves like one database.
type fakeNotion struct {
	pages   map[string]notionapi.Properties // page ID -> properties
	created int
	deleted int
	nextID  int
}

func newFakeNotion() *fakeNotion {
	return &fakeNotion{pages: map[string]notionapi.Properties{}}
}

func (f *fakeNotion) CreatePage(_ context.Context, _ string, props notionapi.Properties) (*notionapi.Page, error) {
	f.nextID++
	f.created++
	id := fmt.Sprintf("page-%d", f.nextID)
	f.pages[id] = props
	return &notionapi.Page{ID: notionapi.ObjectID(id)}, nil
}

func (f *fakeNotion) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp := &notionapi.DatabaseQueryResponse{}
	for id, props := range f.pages {
		page := notionapi.Page{ID: notionapi.ObjectID(id), Properties: notionapi.Properties{}}
		// Echo the Transaction ID back the way the API returns it: as a
		// rich-text property with PlainText populated.
		if raw, ok := props["Transaction ID"]; ok {
			rt := raw.(notionapi.RichTextProperty)
			echoed := &notionapi.RichTextProperty{}
			for _, t := range rt.RichText {
				echoed.RichText = append(echoed.RichText, notionapi.RichText{PlainText: t.Text.Content})
			}
			page.Properties["Transaction ID"] = echoed
		}
		resp.Results = append(resp.Results, page)
	}
	return resp, nil
}

func (f *fakeNotion) DeletePage(_ context.Context, pageID string) error {
	delete(f.pages, pageID)
	f.deleted++
	return nil
}

func seedRows(t *testing.T, s *store.Store, n int) uint {
	t.Helper()
	ctx := context.Background()

	u, _, err := s.FindOrCreateUser(ctx, "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("FindOrCreateUser: %v", err)
	}
	st := &store.Statement{Kind: store.KindBankAccount, SourceName: "seed.pdf", UserID: u.ID}
	if err := s.CreateStatement(ctx, st); err != nil {
		t.Fatalf("CreateStatement: %v", err)
	}

	for i := 0; i < n; i++ {
		tx := &store.Transaction{
			Date:        time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
			Description: fmt.Sprintf("Merchant %d", i),
			Amount:      float64(10 + i),
			UserID:      u.ID,
			StatementID: st.ID,
		}
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		label := &store.Label{Category: "shopping", UserID: u.ID}
		if err := s.CreateLabel(ctx, label); err != nil {
			t.Fatalf("CreateLabel: %v", err)
		}
		if err := s.AttachLabel(ctx, tx.ID, label.ID); err != nil {
			t.Fatalf("AttachLabel: %v", err)
		}
	}
	return u.ID
}

func TestExportIsIdempotent(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	userID := seedRows(t, s, 3)
	notion := newFakeNotion()
	exp := NewExporter(s, notion, "db-1")

	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	if err := exp.Export(ctx, userID, start, end); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if notion.created != 3 {
		t.Errorf("created = %d, want 3", notion.created)
	}

	if err := exp.Export(ctx, userID, start, end); err != nil {
		t.Fatalf("second export: %v", err)
	}
	if notion.created != 3 {
		t.Errorf("created after second export = %d, want 3 (no duplicates)", notion.created)
	}
	if notion.deleted != 0 {
		t.Errorf("deleted = %d, want 0", notion.deleted)
	}
}

func TestExportArchivesStalePages(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	userID := seedRows(t, s, 2)
	notion := newFakeNotion()
	// A page from a previous run whose transaction no longer exists.
	notion.pages["stale-page"] = notionapi.Properties{
		"Transaction ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: "99999"}},
			},
		},
	}

	exp := NewExporter(s, notion, "db-1")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	if err := exp.Export(context.Background(), userID, start, end); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if notion.deleted != 1 {
		t.Errorf("deleted = %d, want 1", notion.deleted)
	}
	if notion.created != 2 {
		t.Errorf("created = %d, want 2", notion.created)
	}
}
