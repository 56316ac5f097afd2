package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GatewayProvider talks to the mobile calendar gateway, the service that
// brokers device-calendar access for signed-in accounts.
type GatewayProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewGatewayProvider(cfg GatewayConfig) *GatewayProvider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &GatewayProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *GatewayProvider) CheckAccess(ctx context.Context, account string) error {
	resp, err := p.do(ctx, http.MethodGet, fmt.Sprintf("/accounts/%s/access", url.PathEscape(account)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		return ErrPermissionDenied
	default:
		return fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}
}

func (p *GatewayProvider) FindCalendar(ctx context.Context, account, id string) (*Calendar, error) {
	path := fmt.Sprintf("/accounts/%s/calendars/%s", url.PathEscape(account), url.PathEscape(id))
	resp, err := p.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCalendarNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}

	var cal Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return &cal, nil
}

func (p *GatewayProvider) FindCalendarByTitle(ctx context.Context, account, title string) (*Calendar, error) {
	path := fmt.Sprintf("/accounts/%s/calendars?title=%s", url.PathEscape(account), url.QueryEscape(title))
	resp, err := p.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCalendarNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}

	var cals []Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cals); err != nil {
		return nil, fmt.Errorf("failed to decode calendars: %w", err)
	}
	if len(cals) == 0 {
		return nil, ErrCalendarNotFound
	}
	return &cals[0], nil
}

func (p *GatewayProvider) CreateCalendar(ctx context.Context, account, title string) (*Calendar, error) {
	body := map[string]string{"title": title}
	path := fmt.Sprintf("/accounts/%s/calendars", url.PathEscape(account))
	resp, err := p.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}

	var cal Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return &cal, nil
}

func (p *GatewayProvider) CreateEvent(ctx context.Context, account, calendarID string, event *Event) (string, error) {
	path := fmt.Sprintf("/accounts/%s/calendars/%s/events", url.PathEscape(account), url.PathEscape(calendarID))
	resp, err := p.do(ctx, http.MethodPost, path, event)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrCalendarNotFound
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}

	var created Event
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode event: %w", err)
	}
	return created.ID, nil
}

func (p *GatewayProvider) DeleteEvent(ctx context.Context, account, eventID string) error {
	path := fmt.Sprintf("/accounts/%s/events/%s", url.PathEscape(account), url.PathEscape(eventID))
	resp, err := p.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrEventNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("calendar gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *GatewayProvider) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar gateway request failed: %w", err)
	}
	return resp, nil
}
