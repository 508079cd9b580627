package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FindStatementByAccount looks a statement up by (user, source name, last-4
// digits). Returns nil when no match. Together with FindStatementByText this
// forms the statement dedup check; the two keys are treated as equivalent
// "already ingested" signals.
func (s *Store) FindStatementByAccount(ctx context.Context, userID uint, sourceName string, last4 *string) (*Statement, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND source_name = ?", userID, sourceName)
	if last4 == nil {
		q = q.Where("account_last4 IS NULL")
	} else {
		q = q.Where("account_last4 = ?", *last4)
	}

	var st Statement
	err := q.First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindStatementByAccount: %w", err)
	}
	return &st, nil
}

// FindStatementByText looks a statement up by (user, raw extracted text).
// Returns nil when no match.
func (s *Store) FindStatementByText(ctx context.Context, userID uint, rawText string) (*Statement, error) {
	var st Statement
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND raw_text = ?", userID, rawText).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindStatementByText: %w", err)
	}
	return &st, nil
}

// CreateStatement persists a new statement row.
func (s *Store) CreateStatement(ctx context.Context, st *Statement) error {
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return fmt.Errorf("CreateStatement: %w", err)
	}
	return nil
}
