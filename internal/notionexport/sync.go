// Package notionexport mirrors a user's labeled transactions into a Notion
// database. The Transaction ID property keys idempotency: re-running an
// export creates only the pages that are missing and archives pages whose
// transaction no longer exists.
package notionexport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jomei/notionapi"

	"finsight/internal/logger"
	"finsight/internal/store"
)

// Exporter pushes transaction snapshots into one Notion database.
type Exporter struct {
	store      *store.Store
	notion     NotionService
	databaseID string
}

// NewExporter wires the exporter.
func NewExporter(st *store.Store, notion NotionService, databaseID string) *Exporter {
	return &Exporter{store: st, notion: notion, databaseID: databaseID}
}

// Export mirrors the user's transactions in [start, end] into Notion.
// Individual page failures are logged and skipped so one bad row doesn't
// abort the run.
func (e *Exporter) Export(ctx context.Context, userID uint, start, end time.Time) error {
	log := logger.FromContext(ctx)

	rows, err := e.store.TransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}
	log.Info().Int("transactions", len(rows)).Msg("exporting transactions to Notion")

	pages, err := e.queryAllPages(ctx)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}

	valid := make(map[string]bool, len(rows))
	for _, row := range rows {
		valid[strconv.FormatUint(uint64(row.TransactionID), 10)] = true
	}

	existing := make(map[string]bool, len(pages))
	var archived int
	for _, page := range pages {
		txID := pageTransactionID(page)
		if txID != "" && valid[txID] {
			existing[txID] = true
			continue
		}
		if err := e.notion.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().Err(err).Str("page_id", string(page.ID)).Msg("failed to archive stale page")
			continue
		}
		archived++
	}

	var created, skipped int
	for _, row := range rows {
		txID := strconv.FormatUint(uint64(row.TransactionID), 10)
		if existing[txID] {
			skipped++
			continue
		}

		page, err := e.notion.CreatePage(ctx, e.databaseID, rowToProperties(row))
		if err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Msg("failed to create Notion page")
			continue
		}
		log.Debug().
			Str("transaction_id", txID).
			Str("page_id", string(page.ID)).
			Msg("created Notion page")
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("archived", archived).
		Int("total", len(rows)).
		Msg("Notion export completed")
	return nil
}

// queryAllPages pages through the whole Notion database.
func (e *Exporter) queryAllPages(ctx context.Context) ([]notionapi.Page, error) {
	var all []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{PageSize: 100}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := e.notion.QueryDatabase(ctx, e.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		all = append(all, resp.Results...)
		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return all, nil
}
