package calendar

import (
	"context"
	"errors"
	"time"
)

// Reminder offsets applied to every visit event, in minutes before start.
var DefaultReminderOffsets = []int{-60, -15}

var (
	// ErrPermissionDenied is returned when the calendar account rejects access.
	ErrPermissionDenied = errors.New("calendar permission denied")
	// ErrCalendarNotFound is returned when a stored calendar identifier no longer resolves.
	ErrCalendarNotFound = errors.New("calendar not found")
	// ErrEventNotFound is returned when an event identifier no longer resolves.
	ErrEventNotFound = errors.New("calendar event not found")
)

// Event is a calendar entry derived from a visit.
type Event struct {
	ID              string    `json:"id,omitempty"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Location        string    `json:"location,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ReminderOffsets []int     `json:"reminder_offsets,omitempty"`
}

// Calendar identifies a named calendar on the provider.
type Calendar struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Provider abstracts the external calendar service. Every operation is
// independently fallible; callers treat failures as non-fatal.
type Provider interface {
	// CheckAccess reports whether the provider grants calendar access for the
	// given account. A denial returns ErrPermissionDenied.
	CheckAccess(ctx context.Context, account string) error
	FindCalendar(ctx context.Context, account, id string) (*Calendar, error)
	FindCalendarByTitle(ctx context.Context, account, title string) (*Calendar, error)
	CreateCalendar(ctx context.Context, account, title string) (*Calendar, error)
	CreateEvent(ctx context.Context, account, calendarID string, event *Event) (string, error)
	DeleteEvent(ctx context.Context, account, eventID string) error
}
