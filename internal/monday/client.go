// Package monday implements the deal and change-log fetchers over the monday.com GraphQL API.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
	"golang.org/x/time/rate"
)

// ErrGraphQL is wrapped by every error reported in a GraphQL errors array.
var ErrGraphQL = errors.New("monday graphql error")

// APIVersion is sent with every request.
const APIVersion = "2024-10"

// Options configures a Client.
type Options struct {
	URL            string
	Token          string
	BoardID        string
	ItemsPageLimit int
	PageDelay      time.Duration // Spacing between items pages; 0 disables pacing
	ActiveLabel    string        // Board status label mapped to schema.StatusActive
	Columns        map[string]string
	HTTPClient     *http.Client
}

// Client fetches deals and activity logs of one board.
type Client struct {
	url         string
	token       string
	boardID     string
	itemsLimit  int
	activeLabel string
	columns     ColumnMap
	limiter     *rate.Limiter
	http        *http.Client
}

var _ contract.Source = &Client{} // Compile-time check

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.PageDelay > 0 {
		limit = rate.Every(opts.PageDelay)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	itemsLimit := opts.ItemsPageLimit
	if itemsLimit <= 0 {
		itemsLimit = contract.DefaultItemsPageLimit
	}
	activeLabel := opts.ActiveLabel
	if activeLabel == "" {
		activeLabel = schema.StatusActive
	}
	return &Client{
		url:         opts.URL,
		token:       opts.Token,
		boardID:     opts.BoardID,
		itemsLimit:  itemsLimit,
		activeLabel: activeLabel,
		columns:     NewColumnMap(opts.Columns),
		limiter:     rate.NewLimiter(limit, 1),
		http:        httpClient,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	ErrorMessage string `json:"error_message"`
}

// do posts one GraphQL query and decodes its data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", APIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("monday api status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gql gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gql.Errors) > 0 {
		msgs := make([]string, 0, len(gql.Errors))
		for _, e := range gql.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}
	if gql.ErrorMessage != "" {
		return fmt.Errorf("%w: %s", ErrGraphQL, gql.ErrorMessage)
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrGraphQL)
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
