package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CreateTransaction persists a new transaction row.
func (s *Store) CreateTransaction(ctx context.Context, tx *Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("CreateTransaction: %w", err)
	}
	return nil
}

// AttachLabel points a transaction at a label. This is the only mutation a
// transaction sees after creation.
func (s *Store) AttachLabel(ctx context.Context, transactionID, labelID uint) error {
	err := s.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", transactionID).
		Update("label_id", labelID).Error
	if err != nil {
		return fmt.Errorf("AttachLabel: %w", err)
	}
	return nil
}

// FirstLabeledByDescription returns a transaction of the user with the exact
// description and a non-nil label, with the label preloaded. Nil when the
// description has never been labeled, which is the cache-miss case.
func (s *Store) FirstLabeledByDescription(ctx context.Context, userID uint, description string) (*Transaction, error) {
	var tx Transaction
	err := s.db.WithContext(ctx).
		Preload("Label").
		Where("user_id = ? AND description = ? AND label_id IS NOT NULL", userID, description).
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FirstLabeledByDescription: %w", err)
	}
	return &tx, nil
}

// FirstByDescription returns any transaction of the user with the exact
// description, label preloaded if present. Nil when none exists.
func (s *Store) FirstByDescription(ctx context.Context, userID uint, description string) (*Transaction, error) {
	var tx Transaction
	err := s.db.WithContext(ctx).
		Preload("Label").
		Where("user_id = ? AND description = ?", userID, description).
		First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FirstByDescription: %w", err)
	}
	return &tx, nil
}

// TransactionsInRange returns the user's transactions between start and end
// inclusive, joined with label and statement metadata, ordered by date. This
// is the tabular snapshot the validation UI shows and the correction path
// diffs.
func (s *Store) TransactionsInRange(ctx context.Context, userID uint, start, end time.Time) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := s.db.WithContext(ctx).
		Model(&Transaction{}).
		Select(`transactions.id AS transaction_id,
			transactions.date,
			transactions.description,
			transactions.amount,
			labels.category,
			labels.place,
			statements.kind,
			statements.currency,
			statements.account_last4`).
		Joins("LEFT JOIN labels ON labels.id = transactions.label_id").
		Joins("JOIN statements ON statements.id = transactions.statement_id").
		Where("transactions.user_id = ? AND transactions.date >= ? AND transactions.date <= ?", userID, start, end).
		Order("transactions.date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionsInRange: %w", err)
	}
	return rows, nil
}

// TransactionDates returns every transaction date of the user in ascending
// order, duplicates included. Drives the UI's date-range selector.
func (s *Store) TransactionDates(ctx context.Context, userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := s.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ?", userID).
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("TransactionDates: %w", err)
	}
	return dates, nil
}
