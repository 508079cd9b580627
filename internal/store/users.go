package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// FindUser returns the user with the exact (first, last) name pair,
// or nil when no such user exists.
func (s *Store) FindUser(ctx context.Context, firstName, lastName string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindUser: %w", err)
	}
	return &u, nil
}

// FindOrCreateUser resolves the natural key (first, last) to an existing
// user or creates one. The second return value reports whether a row was
// created by this call.
func (s *Store) FindOrCreateUser(ctx context.Context, firstName, lastName string) (*User, bool, error) {
	u, err := s.FindUser(ctx, firstName, lastName)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		return u, false, nil
	}

	created := &User{FirstName: firstName, LastName: lastName}
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, false, fmt.Errorf("FindOrCreateUser: create: %w", err)
	}
	return created, true, nil
}

// GetUserByID retrieves a user by primary key, nil if absent.
func (s *Store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return &u, nil
}

// DeleteUser removes a user row. Statements, transactions, labels and
// comments go with it through the cascading foreign keys.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&User{}, id).Error; err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	return nil
}
