package calendarsync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tacmedikal/fieldtrack-api/internal/model"
	"github.com/tacmedikal/fieldtrack-api/pkg/calendar"
	apperrors "github.com/tacmedikal/fieldtrack-api/pkg/errors"
	"github.com/tacmedikal/fieldtrack-api/pkg/logger"
	"github.com/tacmedikal/fieldtrack-api/pkg/metrics"
	"github.com/tacmedikal/fieldtrack-api/pkg/prefs"
)

// CalendarTitle is the dedicated calendar created for visit events.
const CalendarTitle = "TacMed Visits"

const eventDuration = time.Hour

// Service owns the calendar sync preference gate and visit event
// materialization. Sync stays off until the user enables it and the provider
// grants access; a denied permission never flips the flag.
type Service struct {
	provider calendar.Provider
	prefs    prefs.Store
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(provider calendar.Provider, store prefs.Store, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		provider: provider,
		prefs:    store,
		logger:   log,
		metrics:  m,
	}
}

// Settings returns the current sync state for the user.
func (s *Service) Settings(ctx context.Context, sess *model.Session) (*model.CalendarSettings, error) {
	enabled, err := s.syncEnabled(ctx, sess)
	if err != nil {
		return nil, err
	}

	settings := &model.CalendarSettings{SyncEnabled: enabled}
	if enabled {
		id, err := s.prefs.Get(ctx, sess.UserID, prefs.KeyCalendarID)
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar id: %w", err)
		}
		settings.CalendarID = id
	}
	return settings, nil
}

// Enable turns sync on. It verifies provider access first and resolves the
// dedicated calendar, creating one only when neither the stored id nor the
// title lookup finds it. On permission denial the flag stays false.
func (s *Service) Enable(ctx context.Context, sess *model.Session) (*model.CalendarSettings, error) {
	if err := s.provider.CheckAccess(ctx, sess.Email); err != nil {
		if errors.Is(err, calendar.ErrPermissionDenied) {
			s.logger.Warn("calendar access denied", "user_id", sess.UserID.String())
			return nil, apperrors.Forbidden("calendar access was not granted", err)
		}
		return nil, fmt.Errorf("failed to check calendar access: %w", err)
	}

	cal, err := s.ensureCalendar(ctx, sess)
	if err != nil {
		return nil, err
	}

	if err := s.prefs.Set(ctx, sess.UserID, prefs.KeyCalendarSyncEnabled, "true"); err != nil {
		return nil, fmt.Errorf("failed to enable calendar sync: %w", err)
	}

	return &model.CalendarSettings{SyncEnabled: true, CalendarID: cal.ID}, nil
}

// Disable turns sync off. The resolved calendar id is kept so re-enabling
// reuses the same calendar instead of creating another.
func (s *Service) Disable(ctx context.Context, sess *model.Session) (*model.CalendarSettings, error) {
	if err := s.prefs.Set(ctx, sess.UserID, prefs.KeyCalendarSyncEnabled, "false"); err != nil {
		return nil, fmt.Errorf("failed to disable calendar sync: %w", err)
	}
	return &model.CalendarSettings{SyncEnabled: false}, nil
}

// EventForVisit builds the calendar event for a visit: a one-hour block
// starting at the visit time with reminders at 60 and 15 minutes before.
// The location is the customer address, falling back to the customer name.
func EventForVisit(visit *model.Visit, customerAddress string) *calendar.Event {
	notes := fmt.Sprintf("Doctor: Dr. %s\nPurpose: %s", visit.DoctorName, visit.Purpose)
	if visit.Notes != "" {
		notes += "\n\nNotes: " + visit.Notes
	}

	location := customerAddress
	if location == "" {
		location = visit.CustomerName
	}

	return &calendar.Event{
		Title:           "Visit: " + visit.CustomerName,
		Start:           visit.VisitDate,
		End:             visit.VisitDate.Add(eventDuration),
		Location:        location,
		Notes:           notes,
		ReminderOffsets: calendar.DefaultReminderOffsets,
	}
}

// CreateEvent materializes a visit on the user's calendar and returns the
// provider event id. It returns ("", nil) when sync is disabled.
func (s *Service) CreateEvent(ctx context.Context, sess *model.Session, visit *model.Visit, customerAddress string) (string, error) {
	enabled, err := s.syncEnabled(ctx, sess)
	if err != nil {
		return "", err
	}
	if !enabled {
		return "", nil
	}

	s.metrics.CalendarSyncAttempts.Inc()

	cal, err := s.ensureCalendar(ctx, sess)
	if err != nil {
		s.metrics.CalendarSyncFailures.Inc()
		return "", err
	}

	eventID, err := s.provider.CreateEvent(ctx, sess.Email, cal.ID, EventForVisit(visit, customerAddress))
	if err != nil {
		s.metrics.CalendarSyncFailures.Inc()
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return eventID, nil
}

// DeleteEvent removes a visit event. A missing event is not an error.
func (s *Service) DeleteEvent(ctx context.Context, sess *model.Session, eventID string) error {
	if eventID == "" {
		return nil
	}
	if err := s.provider.DeleteEvent(ctx, sess.Email, eventID); err != nil {
		if errors.Is(err, calendar.ErrEventNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

func (s *Service) syncEnabled(ctx context.Context, sess *model.Session) (bool, error) {
	raw, err := s.prefs.Get(ctx, sess.UserID, prefs.KeyCalendarSyncEnabled)
	if err != nil {
		return false, fmt.Errorf("failed to read calendar sync flag: %w", err)
	}
	if raw == "" {
		return false, nil
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, nil
	}
	return enabled, nil
}

// ensureCalendar resolves the dedicated calendar: stored id first, then a
// title lookup, then creation. A stale stored id is replaced transparently.
func (s *Service) ensureCalendar(ctx context.Context, sess *model.Session) (*calendar.Calendar, error) {
	storedID, err := s.prefs.Get(ctx, sess.UserID, prefs.KeyCalendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar id: %w", err)
	}

	if storedID != "" {
		cal, err := s.provider.FindCalendar(ctx, sess.Email, storedID)
		if err == nil {
			return cal, nil
		}
		if !errors.Is(err, calendar.ErrCalendarNotFound) {
			return nil, fmt.Errorf("failed to look up calendar: %w", err)
		}
		s.logger.Warn("stored calendar id is stale", "user_id", sess.UserID.String(), "calendar_id", storedID)
	}

	cal, err := s.provider.FindCalendarByTitle(ctx, sess.Email, CalendarTitle)
	if errors.Is(err, calendar.ErrCalendarNotFound) {
		cal, err = s.provider.CreateCalendar(ctx, sess.Email, CalendarTitle)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar: %w", err)
	}

	if err := s.prefs.Set(ctx, sess.UserID, prefs.KeyCalendarID, cal.ID); err != nil {
		return nil, fmt.Errorf("failed to store calendar id: %w", err)
	}
	return cal, nil
}
