// Package ingest runs the statement pipeline: extract a PDF, dedup it,
// parse its transactions and label every row. A batch is all-or-nothing;
// any failure rolls the whole upload back, including a freshly created
// user.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"finsight/internal/classify"
	"finsight/internal/extract"
	"finsight/internal/logger"
	"finsight/internal/parse"
	"finsight/internal/store"
)

// Upload is one document handed to a batch.
type Upload struct {
	Kind       store.StatementKind
	SourceName string
	Data       []byte
}

// Report summarizes what a batch did.
type Report struct {
	BatchID      string
	UserID       uint
	UserCreated  bool
	Statements   int
	Duplicates   int
	Transactions int
}

// Ingestor wires the pipeline steps together.
type Ingestor struct {
	store      *store.Store
	gateway    *classify.Gateway
	extractCfg extract.Config
	parseCfg   parse.Config

	// extractFn is swapped out in tests; everything downstream of
	// extraction works on plain text.
	extractFn func(data []byte, cfg extract.Config) (*extract.Result, error)
}

// New builds an ingestor over the given store and label gateway.
func New(st *store.Store, gateway *classify.Gateway, extractCfg extract.Config, parseCfg parse.Config) *Ingestor {
	return &Ingestor{
		store:      st,
		gateway:    gateway,
		extractCfg: extractCfg,
		parseCfg:   parseCfg,
		extractFn:  extract.Bytes,
	}
}

// IngestBatch processes a user's uploads inside one database transaction.
// Duplicate statements are skipped, not errors; everything else aborts and
// rolls back the batch.
func (i *Ingestor) IngestBatch(ctx context.Context, firstName, lastName string, uploads []Upload) (*Report, error) {
	log := logger.FromContext(ctx)

	report := &Report{BatchID: uuid.NewString()}
	log.Info().
		Str("batch_id", report.BatchID).
		Int("documents", len(uploads)).
		Msg("starting ingest batch")

	err := i.store.WithTx(ctx, func(tx *store.Store) error {
		user, created, err := tx.FindOrCreateUser(ctx, firstName, lastName)
		if err != nil {
			return fmt.Errorf("IngestBatch: %w", err)
		}
		report.UserID = user.ID
		report.UserCreated = created

		gateway := i.gateway.WithStore(tx)

		for _, up := range uploads {
			ingested, count, err := i.ingestOne(ctx, tx, gateway, user.ID, up)
			if err != nil {
				return err
			}
			if !ingested {
				report.Duplicates++
				continue
			}
			report.Statements++
			report.Transactions += count
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("batch_id", report.BatchID).Msg("ingest batch rolled back")
		return nil, err
	}

	log.Info().
		Str("batch_id", report.BatchID).
		Uint("user_id", report.UserID).
		Int("statements", report.Statements).
		Int("duplicates", report.Duplicates).
		Int("transactions", report.Transactions).
		Msg("ingest batch committed")
	return report, nil
}

// ingestOne runs one document through the pipeline. The bool result is
// false when the statement was a duplicate and skipped.
func (i *Ingestor) ingestOne(ctx context.Context, tx *store.Store, gateway *classify.Gateway, userID uint, up Upload) (bool, int, error) {
	log := logger.FromContext(ctx)

	res, err := i.extractFn(up.Data, i.extractCfg)
	if err != nil {
		return false, 0, fmt.Errorf("ingestOne: %q: %w", up.SourceName, err)
	}

	dup, err := i.isDuplicate(ctx, tx, userID, up.SourceName, res)
	if err != nil {
		return false, 0, err
	}
	if dup {
		log.Info().Str("source", up.SourceName).Msg("statement already ingested, skipping")
		return false, 0, nil
	}

	st := extract.NewStatement(res, up.Kind, up.SourceName, userID)
	if err := tx.CreateStatement(ctx, st); err != nil {
		return false, 0, fmt.Errorf("ingestOne: %q: %w", up.SourceName, err)
	}

	drafts, err := parse.Statement(res.RawText, up.Kind, i.parseCfg)
	if err != nil {
		return false, 0, fmt.Errorf("ingestOne: %q: %w", up.SourceName, err)
	}
	log.Debug().
		Str("source", up.SourceName).
		Int("pages", res.PageCount).
		Int("transactions", len(drafts)).
		Msg("statement parsed")

	for _, d := range drafts {
		row := &store.Transaction{
			Date:        d.Date,
			Description: d.Description,
			Amount:      d.Amount,
			UserID:      userID,
			StatementID: st.ID,
		}
		if err := tx.CreateTransaction(ctx, row); err != nil {
			return false, 0, fmt.Errorf("ingestOne: %q: %w", up.SourceName, err)
		}
		if err := gateway.Label(ctx, row); err != nil {
			return false, 0, fmt.Errorf("ingestOne: %q: %w", up.SourceName, err)
		}
	}

	return true, len(drafts), nil
}

// isDuplicate checks both dedup keys: (user, source name, account last-4)
// and (user, raw text). Either match means the document is already in.
func (i *Ingestor) isDuplicate(ctx context.Context, tx *store.Store, userID uint, sourceName string, res *extract.Result) (bool, error) {
	byAccount, err := tx.FindStatementByAccount(ctx, userID, sourceName, res.AccountLast4)
	if err != nil {
		return false, fmt.Errorf("isDuplicate: %w", err)
	}
	if byAccount != nil {
		return true, nil
	}

	byText, err := tx.FindStatementByText(ctx, userID, res.RawText)
	if err != nil {
		return false, fmt.Errorf("isDuplicate: %w", err)
	}
	return byText != nil, nil
}
