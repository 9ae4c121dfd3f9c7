// Package activity stores and lists auth activity journal entries.
package activity

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/db/models"
)

// DefaultLimit caps List results when no limit is given.
const DefaultLimit = 20

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrEmailEmpty is returned when listing without an email.
	ErrEmailEmpty = errors.New("email cannot be empty")
	// ErrTypeEmpty is returned when recording an event without a type.
	ErrTypeEmpty = errors.New("activity type cannot be empty")
)

// Record stores one event.
func Record(ctx context.Context, db *gorm.DB, ev auth.ActivityEvent) (*models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if ev.Type == "" {
		return nil, ErrTypeEmpty
	}

	entry := &models.Activity{
		Type:       string(ev.Type),
		UserID:     ev.UserID,
		Email:      ev.Email,
		Detail:     ev.Detail,
		OccurredAt: ev.OccurredAt.UTC(),
	}

	if result := db.WithContext(ctx).Create(entry); result.Error != nil {
		return nil, result.Error
	}

	return entry, nil
}

// ListByEmail returns the newest entries of one account, at most limit.
func ListByEmail(ctx context.Context, db *gorm.DB, email string, limit int) ([]models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if email == "" {
		return nil, ErrEmailEmpty
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	var entries []models.Activity

	result := db.WithContext(ctx).
		Where("email = ?", email).
		Order("occurred_at desc, id desc").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Sink returns an auth.ActivitySink writing to db.
func Sink(db *gorm.DB) auth.ActivitySink {
	return auth.ActivitySinkFunc(func(ctx context.Context, ev auth.ActivityEvent) error {
		_, err := Record(ctx, db, ev)
		return err
	})
}
