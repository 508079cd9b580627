package store

import (
	"context"
	"fmt"
	"time"
)

// CreateComment stores a free-text reflection for the user. The date is
// truncated to the day.
func (s *Store) CreateComment(ctx context.Context, userID uint, title string, date time.Time, body string) (*Comment, error) {
	c := &Comment{
		Title:  title,
		Body:   body,
		Date:   date.Truncate(24 * time.Hour),
		UserID: userID,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("CreateComment: %w", err)
	}
	return c, nil
}

// ListComments returns all comments of the user.
func (s *Store) ListComments(ctx context.Context, userID uint) ([]Comment, error) {
	var comments []Comment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("ListComments: %w", err)
	}
	return comments, nil
}
