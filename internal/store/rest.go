package store

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

	"github.com/buger/jsonparser"
)

// REST is a Client for a hosted table API speaking the PostgREST dialect
// under <endpoint>/rest/v1/<table>.
type REST struct {
	base   *url.URL
	key    string
	client *http.Client
	now    func() time.Time
}

func NewREST(endpoint, key string, client *http.Client) (*REST, error) {
	if key == "" {
		return nil, errors.New("store: access key is required for the hosted backend")
	}
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("store: invalid endpoint %q", endpoint)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &REST{base: u, key: key, client: client, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (c *REST) Close() error { return nil }

func (c *REST) Select(ctx context.Context, table string, q Query, dest interface{}) error {
	if err := checkQuery("select", table, q); err != nil {
		return err
	}
	params := c.params(table, selectList(table), q.Filters)
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}
	body, err := c.do(ctx, "select", http.MethodGet, table, params, nil)
	if err != nil {
		return err
	}
	if err := decodeStrict(body, dest); err != nil {
		return newError(KindInvalid, "select", table, err)
	}
	return nil
}

func (c *REST) Insert(ctx context.Context, table string, values Values, dest interface{}) error {
	if err := checkValues("insert", table, values, true); err != nil {
		return err
	}
	body, err := c.do(ctx, "insert", http.MethodPost, table, c.params(table, selectList(table), nil), values)
	if err != nil {
		return err
	}
	return c.decodeFirst("insert", table, body, dest)
}

func (c *REST) Update(ctx context.Context, table string, filters []Filter, values Values, dest interface{}) error {
	if err := checkQuery("update", table, Query{Filters: filters}); err != nil {
		return err
	}
	if err := checkValues("update", table, values, false); err != nil {
		return err
	}
	row := make(Values, len(values)+1)
	for k, v := range values {
		row[k] = v
	}
	row[ColumnUpdatedAt] = c.now()
	body, err := c.do(ctx, "update", http.MethodPatch, table, c.params(table, selectList(table), filters), row)
	if err != nil {
		return err
	}
	return c.decodeFirst("update", table, body, dest)
}

func (c *REST) Delete(ctx context.Context, table string, filters []Filter) error {
	if err := checkQuery("delete", table, Query{Filters: filters}); err != nil {
		return err
	}
	body, err := c.do(ctx, "delete", http.MethodDelete, table, c.params(table, ColumnID, filters), nil)
	if err != nil {
		return err
	}
	deleted := 0
	_, err = jsonparser.ArrayEach(body, func([]byte, jsonparser.ValueType, int, error) { deleted++ })
	if err != nil {
		return newError(KindInvalid, "delete", table, err)
	}
	if deleted == 0 {
		return newError(KindNotFound, "delete", table, nil)
	}
	return nil
}

func (c *REST) params(table, cols string, filters []Filter) url.Values {
	params := url.Values{}
	params.Set("select", cols)
	for _, f := range filters {
		params.Add(f.Column, filterExpr(f))
	}
	return params
}

func (c *REST) do(ctx context.Context, op, method, table string, params url.Values, payload interface{}) ([]byte, error) {
	u := *c.base
	u.Path = u.Path + "/rest/v1/" + table
	u.RawQuery = params.Encode()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, newError(KindInvalid, op, table, err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, newError(KindInvalid, op, table, err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(KindUnavailable, op, table, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindUnavailable, op, table, err)
	}
	if resp.StatusCode >= 300 {
		return nil, classifyResponse(op, table, resp.StatusCode, body)
	}
	return body, nil
}

func (c *REST) decodeFirst(op, table string, body []byte, dest interface{}) error {
	first, _, _, err := jsonparser.Get(body, "[0]")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return newError(KindNotFound, op, table, nil)
	}
	if err != nil {
		return newError(KindInvalid, op, table, err)
	}
	if dest == nil {
		return nil
	}
	if err := decodeStrict(first, dest); err != nil {
		return newError(KindInvalid, op, table, err)
	}
	return nil
}

// classifyResponse maps an error response body ({"code","message","details"})
// onto a store error kind.
func classifyResponse(op, table string, status int, body []byte) error {
	code, _ := jsonparser.GetString(body, "code")
	msg, _ := jsonparser.GetString(body, "message")
	if msg == "" {
		msg = http.StatusText(status)
	}
	err := fmt.Errorf("%d %s", status, msg)
	if code != "" {
		err = fmt.Errorf("%d %s (%s)", status, msg, code)
	}
	switch {
	case status == http.StatusNotFound || code == "PGRST116":
		return newError(KindNotFound, op, table, err)
	case status == http.StatusConflict || code == "23505" || code == "23503":
		return newError(KindConflict, op, table, err)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return newError(KindInvalid, op, table, err)
	}
	return newError(KindUnavailable, op, table, err)
}

func decodeStrict(data []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func filterExpr(f Filter) string {
	if f.Op == OpIn {
		vs := f.Value.([]interface{})
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = quoteListItem(formatValue(v))
		}
		return "in.(" + strings.Join(parts, ",") + ")"
	}
	return string(f.Op) + "." + formatValue(f.Value)
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func quoteListItem(s string) string {
	if strings.ContainsAny(s, `,()"`) {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
