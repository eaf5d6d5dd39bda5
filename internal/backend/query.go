package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type cardinality int

const (
	many cardinality = iota
	single
	maybeSingle
)

// Query is a PostgREST read request under construction
type Query struct {
	client *Client
	table  string
	params url.Values
	order  []string
	card   cardinality
}

// Select sets the returned columns. No columns means all of them.
func (q *Query) Select(columns ...string) *Query {
	if len(columns) == 0 {
		q.params.Set("select", "*")
		return q
	}
	q.params.Set("select", strings.Join(columns, ","))
	return q
}

// Eq filters rows where field equals value
func (q *Query) Eq(field string, value any) *Query {
	q.params.Add(field, "eq."+formatValue(value))
	return q
}

// Order appends a sort key. Repeated calls build a compound key.
func (q *Query) Order(field string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, field+"."+dir)
	return q
}

// Limit caps the number of rows returned
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Or adds a disjunction, passed verbatim inside or=(...)
func (q *Query) Or(expr string) *Query {
	q.params.Add("or", "("+expr+")")
	return q
}

// Single expects exactly one row and decodes it as an object
func (q *Query) Single() *Query {
	q.card = single
	return q
}

// MaybeSingle expects zero or one row. Zero rows leave dest untouched.
func (q *Query) MaybeSingle() *Query {
	q.card = maybeSingle
	return q
}

// Encode renders the query string sent to the server
func (q *Query) Encode() string {
	params := url.Values{}
	for k, v := range q.params {
		params[k] = append([]string(nil), v...)
	}
	if params.Get("select") == "" {
		params.Set("select", "*")
	}
	if len(q.order) > 0 {
		params.Set("order", strings.Join(q.order, ","))
	}
	return params.Encode()
}

// URL returns the full request url
func (q *Query) URL() string {
	return q.client.baseURL + restPath + q.table + "?" + q.Encode()
}

// Execute runs the query and decodes the result into dest
func (q *Query) Execute(ctx context.Context, dest any) error {
	header := http.Header{}
	if q.card == single {
		header.Set("Accept", mediaSingleObject)
		return q.client.do(ctx, http.MethodGet, q.URL(), header, nil, dest)
	}

	if q.card == many {
		return q.client.do(ctx, http.MethodGet, q.URL(), header, nil, dest)
	}

	var rows []json.RawMessage
	if err := q.client.do(ctx, http.MethodGet, q.URL(), header, nil, &rows); err != nil {
		return err
	}
	switch len(rows) {
	case 0:
		return nil
	case 1:
		if err := json.Unmarshal(rows[0], dest); err != nil {
			return fmt.Errorf("failed to decode %s row: %w", q.table, err)
		}
		return nil
	default:
		return &APIError{
			Status:  http.StatusNotAcceptable,
			Code:    CodeNoSingleRow,
			Message: "JSON object requested, multiple (or no) rows returned",
			Details: fmt.Sprintf("The result contains %d rows", len(rows)),
		}
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
