package calendar

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Publisher hands generated events to a calendar backend.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MockPublisher records events in memory. It is the no-credentials path and
// doubles as the event log behind Upcoming.
type MockPublisher struct {
	events []Event
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event.
func (m *MockPublisher) Publish(ctx context.Context, event Event) error {
	m.events = append(m.events, event)
	return nil
}

// Upcoming returns recorded events starting within the next days, sorted by
// start time.
func (m *MockPublisher) Upcoming(days int) []Event {
	cutoff := time.Now().AddDate(0, 0, days)

	var upcoming []Event
	for _, event := range m.events {
		if event.StartAt.Before(cutoff) {
			upcoming = append(upcoming, event)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartAt.Before(upcoming[j].StartAt)
	})
	return upcoming
}

// httpPublisher posts events to a calendar API, authenticating with a
// short-lived token minted from an "id:hexsecret" credential pair.
type httpPublisher struct {
	baseURL     string
	credentials string
	httpClient  *http.Client
}

// NewHTTPPublisher creates the live calendar adapter.
func NewHTTPPublisher(baseURL, credentials string) Publisher {
	return &httpPublisher{
		baseURL:     baseURL,
		credentials: credentials,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Publish sends the event to the calendar API.
func (p *httpPublisher) Publish(ctx context.Context, event Event) error {
	token, err := p.createToken()
	if err != nil {
		return fmt.Errorf("failed to create calendar token: %w", err)
	}

	body, err := json.Marshal(map[string]Event{"event": event})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	url := strings.TrimSuffix(p.baseURL, "/") + "/events"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar api error: status %d", resp.StatusCode)
	}
	return nil
}

// createToken generates a short-lived JWT from the credential pair.
func (p *httpPublisher) createToken() (string, error) {
	keyParts := strings.Split(p.credentials, ":")
	if len(keyParts) != 2 {
		return "", fmt.Errorf("invalid calendar credentials format: expected id:secret")
	}

	id := keyParts[0]
	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"aud": "/calendar/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
