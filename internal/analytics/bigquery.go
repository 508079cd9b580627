// Package analytics pushes labeled transactions into BigQuery for
// long-term reporting. The warehouse is write-mostly; CategoryTotals is
// the one read path, backing spending summaries.
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"finsight/internal/logger"
	"finsight/internal/store"
)

const dateFormat = "2006-01-02"

// Row is the warehouse schema for one labeled transaction.
type Row struct {
	TransactionID string              `bigquery:"transaction_id"`
	UserID        string              `bigquery:"user_id"`
	Date          civil.Date          `bigquery:"transaction_date"`
	Description   string              `bigquery:"description"`
	Amount        float64             `bigquery:"amount"`
	Category      bigquery.NullString `bigquery:"category"`
	Place         bigquery.NullString `bigquery:"place"`
	AccountKind   string              `bigquery:"account_kind"`
	Currency      bigquery.NullString `bigquery:"currency"`
	AccountLast4  bigquery.NullString `bigquery:"account_last4"`
	ExportedTS    time.Time           `bigquery:"exported_ts"`
}

// CategoryTotal is one line of the spending summary.
type CategoryTotal struct {
	Category string  `bigquery:"category"`
	Total    float64 `bigquery:"total"`
	Count    int64   `bigquery:"count"`
}

// Exporter writes transaction rows into one dataset table.
type Exporter struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewExporter creates an exporter over the given project, dataset and
// table. Credentials come from the environment.
func NewExporter(ctx context.Context, project, dataset, table string) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: bigquery client: %w", err)
	}
	return &Exporter{client: client, dataset: dataset, table: table}, nil
}

// Close releases the underlying client.
func (e *Exporter) Close() error {
	return e.client.Close()
}

// Export streams the user's transactions in [start, end] into the table.
func (e *Exporter) Export(ctx context.Context, st *store.Store, userID uint, start, end time.Time) (int, error) {
	log := logger.FromContext(ctx)

	rows, err := st.TransactionsInRange(ctx, userID, start, end)
	if err != nil {
		return 0, fmt.Errorf("Export: %w", err)
	}
	if len(rows) == 0 {
		log.Info().Msg("no transactions in range, nothing to export")
		return 0, nil
	}

	now := time.Now().UTC()
	out := make([]*Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowFromStore(r, userID, now))
	}

	inserter := e.client.Dataset(e.dataset).Table(e.table).Inserter()
	if err := inserter.Put(ctx, out); err != nil {
		return 0, fmt.Errorf("Export: inserting rows: %w", err)
	}

	log.Info().
		Int("rows", len(out)).
		Str("dataset", e.dataset).
		Str("table", e.table).
		Msg("transactions exported to BigQuery")
	return len(out), nil
}

// CategoryTotals sums exported spend per category for one user and date
// range, largest absolute total first.
func (e *Exporter) CategoryTotals(ctx context.Context, userID uint, start, end time.Time) ([]CategoryTotal, error) {
	q := e.client.Query(fmt.Sprintf(`
		SELECT
			IFNULL(category, 'unlabeled') AS category,
			SUM(amount) AS total,
			COUNT(*) AS count
		FROM %s.%s
		WHERE user_id = @user_id
		  AND transaction_date >= @start_date
		  AND transaction_date <= @end_date
		GROUP BY category
		ORDER BY ABS(SUM(amount)) DESC
	`, e.dataset, e.table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: strconv.FormatUint(uint64(userID), 10)},
		{Name: "start_date", Value: start.Format(dateFormat)},
		{Name: "end_date", Value: end.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("CategoryTotals: query read: %w", err)
	}

	var totals []CategoryTotal
	for {
		var t CategoryTotal
		err := it.Next(&t)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CategoryTotals: iter next: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, nil
}

// rowFromStore maps one store row onto the warehouse schema.
func rowFromStore(r store.TransactionRow, userID uint, exportedAt time.Time) *Row {
	row := &Row{
		TransactionID: strconv.FormatUint(uint64(r.TransactionID), 10),
		UserID:        strconv.FormatUint(uint64(userID), 10),
		Date:          civil.DateOf(r.Date),
		Description:   r.Description,
		Amount:        r.Amount,
		AccountKind:   string(r.Kind),
		ExportedTS:    exportedAt,
	}
	if r.Category != "" {
		row.Category = bigquery.NullString{StringVal: r.Category, Valid: true}
	}
	if r.Place != nil {
		row.Place = bigquery.NullString{StringVal: *r.Place, Valid: true}
	}
	if r.Currency != nil {
		row.Currency = bigquery.NullString{StringVal: *r.Currency, Valid: true}
	}
	if r.AccountLast4 != nil {
		row.AccountLast4 = bigquery.NullString{StringVal: *r.AccountLast4, Valid: true}
	}
	return row
}
