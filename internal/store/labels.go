package store

import (
	"context"
	"fmt"
)

// CreateLabel persists a new label row.
func (s *Store) CreateLabel(ctx context.Context, l *Label) error {
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("CreateLabel: %w", err)
	}
	return nil
}

// SaveLabel updates an existing label in place. Every transaction pointing
// at it observes the change; corrections never clone labels.
func (s *Store) SaveLabel(ctx context.Context, l *Label) error {
	if err := s.db.WithContext(ctx).Save(l).Error; err != nil {
		return fmt.Errorf("SaveLabel: %w", err)
	}
	return nil
}
