package prefs

import (
	"context"

	"github.com/google/uuid"
)

// Store is a per-user string key-value preference store.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID, key string) (string, error)
	Set(ctx context.Context, userID uuid.UUID, key, value string) error
	Delete(ctx context.Context, userID uuid.UUID, key string) error
}

// Keys used by the calendar sync preference gate.
const (
	KeyCalendarSyncEnabled = "calendar_sync_enabled"
	KeyCalendarID          = "tacmed_calendar_id"
)
