package calendar

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is an in-process Provider used in tests and local development.
// Accounts listed in DeniedAccounts fail the access check; a non-nil EventErr
// makes every event write fail.
type MemoryProvider struct {
	mu             sync.Mutex
	DeniedAccounts map[string]bool
	EventErr       error
	calendars      map[string]*Calendar
	events         map[string]*Event
	createCalls    int
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		DeniedAccounts: make(map[string]bool),
		calendars:      make(map[string]*Calendar),
		events:         make(map[string]*Event),
	}
}

func (p *MemoryProvider) CheckAccess(_ context.Context, account string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.DeniedAccounts[account] {
		return ErrPermissionDenied
	}
	return nil
}

func (p *MemoryProvider) FindCalendar(_ context.Context, _ string, id string) (*Calendar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cal, ok := p.calendars[id]
	if !ok {
		return nil, ErrCalendarNotFound
	}
	return cal, nil
}

func (p *MemoryProvider) FindCalendarByTitle(_ context.Context, _ string, title string) (*Calendar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cal := range p.calendars {
		if cal.Title == title {
			return cal, nil
		}
	}
	return nil, ErrCalendarNotFound
}

func (p *MemoryProvider) CreateCalendar(_ context.Context, _ string, title string) (*Calendar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cal := &Calendar{ID: uuid.New().String(), Title: title}
	p.calendars[cal.ID] = cal
	p.createCalls++
	return cal, nil
}

func (p *MemoryProvider) CreateEvent(_ context.Context, _ string, calendarID string, event *Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.EventErr != nil {
		return "", p.EventErr
	}
	if _, ok := p.calendars[calendarID]; !ok {
		return "", ErrCalendarNotFound
	}
	stored := *event
	stored.ID = uuid.New().String()
	p.events[stored.ID] = &stored
	return stored.ID, nil
}

func (p *MemoryProvider) DeleteEvent(_ context.Context, _ string, eventID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.events[eventID]; !ok {
		return ErrEventNotFound
	}
	delete(p.events, eventID)
	return nil
}

// RemoveCalendar simulates a calendar deleted outside the app.
func (p *MemoryProvider) RemoveCalendar(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.calendars, id)
}

// CreateCalendarCalls reports how many calendars were created.
func (p *MemoryProvider) CreateCalendarCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createCalls
}

// Event returns a stored event by id.
func (p *MemoryProvider) Event(id string) (*Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev, ok := p.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, ErrEventNotFound)
	}
	copied := *ev
	return &copied, nil
}
