// Package rest stores saved ranges and todo lists in a Supabase-style
// PostgREST service.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/saved"
)

const (
	defaultTimeout = 10 * time.Second
	apiPrefix      = "/rest/v1/"

	tableRanges = "saved_ranges"
	tableTodos  = "todo_lists"
)

// ErrStatus is returned for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// Client implements saved.Repository over PostgREST.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ saved.Repository = (*Client)(nil)

// New creates a client for the service at baseURL. A zero timeout uses the
// default.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// rangeRow is the wire shape of a saved range. Dates are ISO-8601 strings.
type rangeRow struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	PlusDays  *int      `json:"plus_days"`
	Deducted  []string  `json:"deducted"`
	Added     []string  `json:"added"`
	CreatedAt time.Time `json:"created_at"`
}

type todoRow struct {
	RangeID string           `json:"range_id"`
	DateKey string           `json:"date_key"`
	Tasks   []saved.TodoTask `json:"tasks"`
}

func toRow(r *saved.SavedRange) rangeRow {
	row := rangeRow{
		ID:        r.ID,
		Title:     r.Title,
		Start:     calendar.DateKey(r.Start),
		End:       calendar.DateKey(r.End),
		PlusDays:  r.PlusDays,
		Deducted:  r.Deducted,
		Added:     r.Added,
		CreatedAt: r.CreatedAt,
	}
	if row.Deducted == nil {
		row.Deducted = []string{}
	}
	if row.Added == nil {
		row.Added = []string{}
	}
	return row
}

func (row rangeRow) toSaved() (*saved.SavedRange, error) {
	start, ok := calendar.ParseISODate(row.Start)
	if !ok {
		return nil, fmt.Errorf("invalid start %q for range %s", row.Start, row.ID)
	}
	end, ok := calendar.ParseISODate(row.End)
	if !ok {
		return nil, fmt.Errorf("invalid end %q for range %s", row.End, row.ID)
	}
	r := &saved.SavedRange{
		ID:        row.ID,
		Title:     row.Title,
		Start:     start,
		End:       end,
		PlusDays:  row.PlusDays,
		Deducted:  row.Deducted,
		Added:     row.Added,
		CreatedAt: row.CreatedAt,
	}
	if r.Deducted == nil {
		r.Deducted = []string{}
	}
	if r.Added == nil {
		r.Added = []string{}
	}
	return r, nil
}

// ListSavedRanges returns every saved range, oldest first.
func (c *Client) ListSavedRanges(ctx context.Context) ([]*saved.SavedRange, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.asc")

	var rows []rangeRow
	if err := c.do(ctx, http.MethodGet, tableRanges, q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("listing saved ranges: %w", err)
	}

	ranges := make([]*saved.SavedRange, 0, len(rows))
	for _, row := range rows {
		r, err := row.toSaved()
		if err != nil {
			logger.Warn("skipping malformed saved range", "id", row.ID, "err", err)
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// GetSavedRange returns one saved range.
func (c *Client) GetSavedRange(ctx context.Context, id string) (*saved.SavedRange, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	var rows []rangeRow
	if err := c.do(ctx, http.MethodGet, tableRanges, q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("getting saved range: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}
	return rows[0].toSaved()
}

// CreateSavedRange inserts a new saved range.
func (c *Client) CreateSavedRange(ctx context.Context, r *saved.SavedRange) error {
	row := toRow(r)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	if err := c.do(ctx, http.MethodPost, tableRanges, nil, row, nil, nil); err != nil {
		return fmt.Errorf("creating saved range: %w", err)
	}
	return nil
}

// UpdateSavedRange sends only the fields set in patch.
func (c *Client) UpdateSavedRange(ctx context.Context, id string, patch saved.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	body := map[string]any{}
	if patch.Start != nil {
		body["start"] = calendar.DateKey(*patch.Start)
	}
	if patch.End != nil {
		body["end"] = calendar.DateKey(*patch.End)
	}
	if patch.Deducted != nil {
		body["deducted"] = *patch.Deducted
	}
	if patch.Added != nil {
		body["added"] = *patch.Added
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	headers := map[string]string{"Prefer": "return=representation"}

	var rows []rangeRow
	if err := c.do(ctx, http.MethodPatch, tableRanges, q, body, headers, &rows); err != nil {
		return fmt.Errorf("updating saved range: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}
	return nil
}

// DeleteSavedRange removes a saved range and its todo lists.
func (c *Client) DeleteSavedRange(ctx context.Context, id string) error {
	todos := url.Values{}
	todos.Set("range_id", "eq."+id)
	if err := c.do(ctx, http.MethodDelete, tableTodos, todos, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting todo lists: %w", err)
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	headers := map[string]string{"Prefer": "return=representation"}

	var rows []rangeRow
	if err := c.do(ctx, http.MethodDelete, tableRanges, q, nil, headers, &rows); err != nil {
		return fmt.Errorf("deleting saved range: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", saved.ErrNotFound, id)
	}
	return nil
}

// LoadTodoTasks returns the todo list of one day.
func (c *Client) LoadTodoTasks(ctx context.Context, rangeID, dateKey string) ([]saved.TodoTask, error) {
	q := url.Values{}
	q.Set("select", "tasks")
	q.Set("range_id", "eq."+rangeID)
	q.Set("date_key", "eq."+dateKey)

	var rows []todoRow
	if err := c.do(ctx, http.MethodGet, tableTodos, q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("loading todo tasks: %w", err)
	}
	if len(rows) == 0 || rows[0].Tasks == nil {
		return []saved.TodoTask{}, nil
	}
	return rows[0].Tasks, nil
}

// SaveTodoTasks upserts the todo list of one day.
func (c *Client) SaveTodoTasks(ctx context.Context, rangeID, dateKey string, tasks []saved.TodoTask) error {
	if tasks == nil {
		tasks = []saved.TodoTask{}
	}
	q := url.Values{}
	q.Set("on_conflict", "range_id,date_key")
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}

	row := todoRow{RangeID: rangeID, DateKey: dateKey, Tasks: tasks}
	if err := c.do(ctx, http.MethodPost, tableTodos, q, row, headers, nil); err != nil {
		return fmt.Errorf("saving todo tasks: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do performs one request against a table and decodes the JSON response
// into result when non-nil.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, headers map[string]string, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	u := c.baseURL + apiPrefix + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Debug("rest request", "method", method, "table", table)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
