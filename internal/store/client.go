package store

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

	"bolavila/config"

	logger "github.com/Bparsons0904/goLogger"
)

const requestTimeout = 15 * time.Second

// Client talks to the PostgREST-style record store that holds bookings,
// inspections, and inspection tasks. Rows are addressed by table name plus
// column filters of the form col=eq.value.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	log        logger.Logger
}

func New(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:    strings.TrimRight(cfg.StoreURL, "/"),
		serviceKey: cfg.StoreServiceKey,
		log:        logger.New("store"),
	}
}

// Query builds the filter/projection portion of a store request.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(column, value string) *Query {
	q.values.Set(column, "eq."+value)
	return q
}

// Select restricts the returned columns.
func (q *Query) Select(columns ...string) *Query {
	q.values.Set("select", strings.Join(columns, ","))
	return q
}

// Order sets the result ordering, e.g. "id.asc".
func (q *Query) Order(order string) *Query {
	q.values.Set("order", order)
	return q
}

func (q *Query) encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}

// Select fetches rows from a table and decodes them into out, which must
// be a pointer to a slice. A missing table yields ErrStoreUnavailable.
func (c *Client) Select(ctx context.Context, table string, query *Query, out any) error {
	body, _, err := c.do(ctx, http.MethodGet, table, query, nil)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, out)
}

// Insert creates a single row. An id collision yields ErrConflict.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	_, _, err := c.do(ctx, http.MethodPost, table, nil, row)
	return err
}

// Update patches the rows matched by query with the given fields and
// returns how many rows were touched. Zero matched rows yields
// ErrScopeMismatch.
func (c *Client) Update(ctx context.Context, table string, query *Query, fields any) (int, error) {
	body, _, err := c.do(ctx, http.MethodPatch, table, query, fields)
	if err != nil {
		return 0, err
	}

	count, err := rowCount(body)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrScopeMismatch
	}
	return count, nil
}

// Delete removes the rows matched by query and returns how many rows were
// removed. Zero matched rows yields ErrScopeMismatch.
func (c *Client) Delete(ctx context.Context, table string, query *Query) (int, error) {
	body, _, err := c.do(ctx, http.MethodDelete, table, query, nil)
	if err != nil {
		return 0, err
	}

	count, err := rowCount(body)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrScopeMismatch
	}
	return count, nil
}

func (c *Client) do(
	ctx context.Context,
	method string,
	table string,
	query *Query,
	payload any,
) ([]byte, int, error) {
	log := c.log.Function("do")

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, table)
	if encoded := query.encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, log.Err("failed to marshal request payload", err, "table", table)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, log.Err("failed to create request", err, "table", table)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, log.Err("store request failed", err, "table", table, "method", method)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, log.Err("failed to read response body", err, "table", table)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		if err == ErrStoreUnavailable {
			log.Warn("store table unavailable, treating as empty",
				"table", table, "statusCode", resp.StatusCode)
		}
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// classifyStatus maps store responses onto the engine's error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusNotFound:
		return ErrStoreUnavailable
	case status == http.StatusBadRequest && isMissingRelation(body):
		return ErrStoreUnavailable
	default:
		detail := string(body)
		if len(detail) > 200 {
			detail = detail[:200]
		}
		return fmt.Errorf("store error: HTTP %d: %s", status, detail)
	}
}

// isMissingRelation detects the store's "relation does not exist" error,
// which it reports with a 400 rather than a 404 on some deployments.
func isMissingRelation(body []byte) bool {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return payload.Code == "42P01" || strings.Contains(payload.Message, "does not exist")
}

func rowCount(body []byte) (int, error) {
	if len(body) == 0 {
		return 0, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("unexpected store response: %w", err)
	}
	return len(rows), nil
}
