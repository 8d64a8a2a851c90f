// Package remote is the client of the dashboard analytics API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"

	"golang.org/x/net/context/ctxhttp"
)

// Dashboard endpoints.
const (
	EndpointSummary     = "summary"
	EndpointExpenses    = "expenses"
	EndpointInvestments = "investments"
	EndpointGoals       = "goals"
	EndpointHistory     = "history"
	EndpointAnalytics   = "analytics"
)

// DefaultBaseURL is where the API listens in a local setup.
const DefaultBaseURL = "http://127.0.0.1:8000"

const maxBodyBytes = 8 << 20

// Client calls the dashboard API. Deadlines come from the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a Client for baseURL. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logging.OrDefault(logger),
	}
}

func (c *Client) Summary(ctx context.Context, userID, fileID string) (*models.SummaryPayload, error) {
	var out models.SummaryPayload
	if err := c.dashboard(ctx, EndpointSummary, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Expenses(ctx context.Context, userID, fileID string) (*models.ExpensesPayload, error) {
	var out models.ExpensesPayload
	if err := c.dashboard(ctx, EndpointExpenses, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Investments(ctx context.Context, userID, fileID string) (*models.InvestmentsPayload, error) {
	var out models.InvestmentsPayload
	if err := c.dashboard(ctx, EndpointInvestments, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Goals(ctx context.Context, userID, fileID string) (*models.GoalsPayload, error) {
	var out models.GoalsPayload
	if err := c.dashboard(ctx, EndpointGoals, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context, userID, fileID string) (*models.HistoryPayload, error) {
	var out models.HistoryPayload
	if err := c.dashboard(ctx, EndpointHistory, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analytics(ctx context.Context, userID, fileID string) (*models.AnalyticsPayload, error) {
	var out models.AnalyticsPayload
	if err := c.dashboard(ctx, EndpointAnalytics, userID, fileID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask sends a free-text question to the assistant and returns its JSON
// answer untouched.
func (c *Client) Ask(ctx context.Context, query, userID string) (json.RawMessage, error) {
	body, err := json.Marshal(models.AskRequest{Query: query, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("encode ask request: %w", err)
	}

	resp, err := ctxhttp.Post(ctx, c.httpClient, c.baseURL+"/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: "ask", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &DecodeError{Endpoint: "ask", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = "failed to get response"
		}
		return nil, &AskError{Message: msg}
	}

	if !json.Valid(data) {
		return nil, &DecodeError{Endpoint: "ask", Err: fmt.Errorf("body is not JSON")}
	}
	return json.RawMessage(data), nil
}

func (c *Client) dashboard(ctx context.Context, endpoint, userID, fileID string, out any) error {
	start := time.Now()
	logger := c.logger.WithFields(
		logging.F(logging.FieldEndpoint, endpoint),
		logging.F(logging.FieldUser, userID))

	q := url.Values{}
	if fileID != "" {
		q.Set("file_id", fileID)
	}
	if userID != "" {
		q.Set("user_id", userID)
	}
	u := c.baseURL + "/dashboard/" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	resp, err := ctxhttp.Get(ctx, c.httpClient, u)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	// Headers arrived: a body that cannot be read is a bad response, not a
	// failed request.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}

	logger.Debug("Fetched dashboard data",
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}
