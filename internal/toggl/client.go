// Package toggl implements the Toggl Track v9 API client: authentication,
// rate-limit bookkeeping and error classification.
package toggl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"togglbar/internal/core/model"
	"togglbar/internal/format"
)

// DefaultBaseURL is the Toggl Track v9 API root.
const DefaultBaseURL = "https://api.track.toggl.com/api/v9"

const (
	headerQuotaRemaining = "X-Toggl-Quota-Remaining"
	headerQuotaResetsIn  = "X-Toggl-Quota-Resets-In"

	createdWith = "TogglBar"
)

// Config contains runtime options for Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Now        func() time.Time
	Logger     *slog.Logger
}

// Client talks to the Toggl Track API on behalf of a single account.
// Every response, successful or not, refreshes the shared rate-limit
// snapshot before the status code is inspected.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger

	mu        sync.Mutex
	rateLimit model.RateLimitInfo
	subs      []chan model.RateLimitInfo
	closed    bool
}

// New creates a Client authenticated with the provided API key.
func New(apiKey string, config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    config.BaseURL,
		httpClient: config.HTTPClient,
		now:        config.Now,
		logger:     config.Logger,
		rateLimit:  model.RateLimitInfo{Limit: model.DefaultRateLimit},
	}
}

// RateLimit returns the latest rate-limit snapshot.
func (client *Client) RateLimit() model.RateLimitInfo {
	client.mu.Lock()
	defer client.mu.Unlock()
	return client.rateLimit
}

// SubscribeRateLimit registers an observer channel for rate-limit updates.
// Subscribing to a closed client returns an already-closed channel.
func (client *Client) SubscribeRateLimit(buffer int) <-chan model.RateLimitInfo {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.RateLimitInfo, buffer)
	client.mu.Lock()
	if client.closed {
		client.mu.Unlock()
		close(ch)
		return ch
	}
	client.subs = append(client.subs, ch)
	client.mu.Unlock()
	return ch
}

// Close closes all observer channels so forwarding goroutines terminate.
// Called when the client is replaced; requests in flight after Close no
// longer publish rate-limit updates.
func (client *Client) Close() {
	client.mu.Lock()
	if client.closed {
		client.mu.Unlock()
		return
	}
	client.closed = true
	subs := client.subs
	client.subs = nil
	for _, ch := range subs {
		close(ch)
	}
	client.mu.Unlock()
}

// GetMe fetches the authenticated user profile with related data, including
// the project list used for display-name resolution.
func (client *Client) GetMe(ctx context.Context) (*model.User, error) {
	var user *model.User
	query := url.Values{"with_related_data": {"true"}}
	if err := client.request(ctx, http.MethodGet, "/me", query, nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCurrentEntry fetches the running time entry. A nil entry with a nil
// error means nothing is running.
func (client *Client) GetCurrentEntry(ctx context.Context) (*model.TimeEntry, error) {
	var entry *model.TimeEntry
	if err := client.request(ctx, http.MethodGet, "/me/time_entries/current", nil, nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntries fetches all time entries in the [startDate, endDate) range.
// Dates use the "yyyy-MM-dd" form.
func (client *Client) GetEntries(ctx context.Context, startDate, endDate string) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	query := url.Values{
		"start_date": {startDate},
		"end_date":   {endDate},
	}
	if err := client.request(ctx, http.MethodGet, "/me/time_entries", query, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// StopEntry stops the running time entry and returns its closed form.
func (client *Client) StopEntry(ctx context.Context, workspaceID, entryID int64) (*model.TimeEntry, error) {
	var entry *model.TimeEntry
	endpoint := fmt.Sprintf("/workspaces/%d/time_entries/%d/stop", workspaceID, entryID)
	if err := client.request(ctx, http.MethodPatch, endpoint, nil, nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

type createEntryRequest struct {
	WorkspaceID int64   `json:"workspace_id"`
	CreatedWith string  `json:"created_with"`
	Duration    int64   `json:"duration"`
	Start       string  `json:"start"`
	Description *string `json:"description,omitempty"`
	ProjectID   *int64  `json:"project_id,omitempty"`
}

// CreateEntry starts a new running time entry beginning now.
func (client *Client) CreateEntry(ctx context.Context, workspaceID int64, projectID *int64, description *string) (*model.TimeEntry, error) {
	payload := createEntryRequest{
		WorkspaceID: workspaceID,
		CreatedWith: createdWith,
		Duration:    -1,
		Start:       client.now().UTC().Format(time.RFC3339),
		Description: description,
		ProjectID:   projectID,
	}

	var entry *model.TimeEntry
	endpoint := fmt.Sprintf("/workspaces/%d/time_entries", workspaceID)
	if err := client.request(ctx, http.MethodPost, endpoint, nil, payload, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// request runs the fixed response pipeline shared by every call: execute,
// publish rate-limit headers, classify the status code, decode the body.
func (client *Client) request(ctx context.Context, method, endpoint string, query url.Values, payload, out any) error {
	httpRequest, err := client.buildRequest(ctx, method, endpoint, query, payload)
	if err != nil {
		return err
	}

	client.logger.Debug("toggl api request", "method", method, "url", httpRequest.URL.String())

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Kind: KindNetwork, Err: err}
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return &Error{Kind: KindNetwork, Err: err}
		}
		return &Error{Kind: KindUnknown, Err: err}
	}
	defer response.Body.Close()

	body, readErr := io.ReadAll(response.Body)

	info := client.publishRateLimit(response.Header)

	if err := client.classifyStatus(response.StatusCode, body, info); err != nil {
		return err
	}
	// A success status whose body cannot be read through is structurally
	// unusable rather than a transport-level failure.
	if readErr != nil {
		return &Error{Kind: KindInvalidResponse, Err: readErr}
	}

	return decodeBody(body, out)
}

func (client *Client) buildRequest(ctx context.Context, method, endpoint string, query url.Values, payload any) (*http.Request, error) {
	requestURL, err := url.Parse(client.baseURL + endpoint)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, Err: err}
	}
	if len(query) > 0 {
		requestURL.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, requestURL.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, Err: err}
	}

	// Toggl uses basic auth with the literal password "api_token".
	httpRequest.SetBasicAuth(client.apiKey, "api_token")
	if payload != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}

	return httpRequest, nil
}

func (client *Client) classifyStatus(statusCode int, body []byte, info model.RateLimitInfo) error {
	switch {
	case statusCode >= 200 && statusCode <= 299:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, StatusCode: statusCode}
	case statusCode == http.StatusPaymentRequired || statusCode == http.StatusTooManyRequests:
		return &Error{
			Kind:          KindRateLimited,
			StatusCode:    statusCode,
			ResetEstimate: format.ResetEstimate(info.ResetAt, client.now()),
		}
	default:
		return &Error{Kind: KindHTTP, StatusCode: statusCode, Body: string(body)}
	}
}

func decodeBody(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if len(body) == 0 {
		return &Error{Kind: KindDecoding, Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecoding, Err: err}
	}
	return nil
}

// publishRateLimit parses the quota headers and unconditionally replaces the
// shared snapshot, even when some headers are missing or the response is an
// error.
func (client *Client) publishRateLimit(header http.Header) model.RateLimitInfo {
	now := client.now()
	info := model.RateLimitInfo{
		Limit:         model.DefaultRateLimit,
		LastUpdatedAt: now,
	}

	if raw := header.Get(headerQuotaRemaining); raw != "" {
		if remaining, err := strconv.Atoi(raw); err == nil {
			info.Remaining = &remaining
		}
	}
	if raw := header.Get(headerQuotaResetsIn); raw != "" {
		if resetsIn, err := strconv.ParseFloat(raw, 64); err == nil {
			resetAt := now.Add(time.Duration(resetsIn * float64(time.Second)))
			info.ResetAt = &resetAt
		}
	}

	// Sends stay under the lock: they are non-blocking, and Close must not
	// be able to close a channel between the snapshot and the send.
	client.mu.Lock()
	client.rateLimit = info
	for _, ch := range client.subs {
		select {
		case ch <- info:
		default:
		}
	}
	client.mu.Unlock()

	if info.IsLow() {
		client.logger.Warn("toggl api quota low",
			"remaining", *info.Remaining,
			"limit", info.Limit)
	}

	return info
}
