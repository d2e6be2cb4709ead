package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/errilaz/grimo/internal/client"
	"github.com/errilaz/grimo/internal/query"
)

// HTTP sends intents to a grimo middleware as JSON.
type HTTP struct {
	base   string
	client *http.Client
}

var _ client.Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport rooted at baseURL. A nil client uses
// http.DefaultClient.
func NewHTTP(baseURL string, c *http.Client) *HTTP {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTP{base: strings.TrimRight(baseURL, "/"), client: c}
}

// StatusError is a non-2xx response from the middleware.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("grimo: remote returned %d: %s", e.StatusCode, e.Message)
}

func (t *HTTP) Select(ctx context.Context, q query.SelectQuery) (query.Result, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return query.Result{}, fmt.Errorf("failed to encode select: %w", err)
	}
	return t.do(ctx, http.MethodGet, "/select?query="+url.QueryEscape(string(data)), nil)
}

func (t *HTTP) Insert(ctx context.Context, c query.InsertCommand) (query.Result, error) {
	return t.send(ctx, http.MethodPost, "/insert", c)
}

func (t *HTTP) Update(ctx context.Context, c query.UpdateCommand) (query.Result, error) {
	return t.send(ctx, http.MethodPatch, "/update", c)
}

func (t *HTTP) Delete(ctx context.Context, c query.DeleteCommand) (query.Result, error) {
	return t.send(ctx, http.MethodDelete, "/delete", c)
}

func (t *HTTP) Call(ctx context.Context, c query.CallCommand) ([]query.Row, error) {
	res, err := t.send(ctx, http.MethodPost, "/call", c)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

func (t *HTTP) send(ctx context.Context, method, path string, body any) (query.Result, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return query.Result{}, fmt.Errorf("failed to encode request: %w", err)
	}
	return t.do(ctx, method, path, bytes.NewReader(data))
}

func (t *HTTP) do(ctx context.Context, method, path string, body io.Reader) (query.Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.base+path, body)
	if err != nil {
		return query.Result{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return query.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return query.Result{}, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	var res query.Result
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return query.Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}
