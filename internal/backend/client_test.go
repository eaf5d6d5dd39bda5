package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", "anon-key", opts...)
	require.NoError(t, err)
	return c
}

func urlQuery(raw string) (url.Values, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return u.Query(), nil
}

func TestNewClientValidatesInput(t *testing.T) {
	_, err := NewClient("not a url", "key")
	assert.Error(t, err)

	_, err = NewClient("https://example.supabase.co", "")
	assert.Error(t, err)

	c, err := NewClient(" https://example.supabase.co/ ", "key")
	require.NoError(t, err)
	assert.Equal(t, "https://example.supabase.co", c.BaseURL())
}

func TestQueryRendersPostgRESTParameters(t *testing.T) {
	c, err := NewClient("https://example.supabase.co", "key")
	require.NoError(t, err)

	q := c.From("listings").
		Select("id", "title", "created_at").
		Eq("is_active", true).
		Order("created_at", false).
		Order("id", false).
		Limit(10).
		Or("created_at.lt.2024-01-10T00:00:00Z,and(created_at.eq.2024-01-10T00:00:00Z,id.lt.42)")

	params, err := urlQuery(q.URL())
	require.NoError(t, err)
	assert.Equal(t, "id,title,created_at", params.Get("select"))
	assert.Equal(t, "eq.true", params.Get("is_active"))
	assert.Equal(t, "created_at.desc,id.desc", params.Get("order"))
	assert.Equal(t, "10", params.Get("limit"))
	assert.Equal(t, "(created_at.lt.2024-01-10T00:00:00Z,and(created_at.eq.2024-01-10T00:00:00Z,id.lt.42))", params.Get("or"))
}

func TestQueryDefaultsToAllColumns(t *testing.T) {
	c, err := NewClient("https://example.supabase.co", "key")
	require.NoError(t, err)

	params, err := urlQuery(c.From("profiles").Eq("id", "abc").URL())
	require.NoError(t, err)
	assert.Equal(t, "*", params.Get("select"))
	assert.Equal(t, "eq.abc", params.Get("id"))
	assert.Empty(t, params.Get("order"))
}

func TestExecuteSendsHeadersAndDecodesRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/listings", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`[{"id":2,"title":"b"},{"id":1,"title":"a"}]`))
	}, WithTokenSource(func() string { return "user-token" }))

	var rows []row
	ctx := WithRequestID(context.Background(), "req-1")
	require.NoError(t, c.From("listings").Select("id", "title").Execute(ctx, &rows))
	assert.Equal(t, []row{{2, "b"}, {1, "a"}}, rows)
}

func TestBearerFallsBackToAnonKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`[]`))
	}, WithTokenSource(func() string { return "" }))

	var rows []row
	require.NoError(t, c.From("listings").Execute(context.Background(), &rows))
	assert.Empty(t, rows)
}

func TestSingleRequestsObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"id":7,"title":"seven"}`))
	})

	var got row
	require.NoError(t, c.From("listings").Eq("id", 7).Single().Execute(context.Background(), &got))
	assert.Equal(t, row{7, "seven"}, got)
}

func TestSingleNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"code":"PGRST116","details":"The result contains 0 rows","hint":null,"message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	var got row
	err := c.From("listings").Eq("id", 7).Single().Execute(context.Background(), &got)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotAcceptable, apiErr.Status)
	assert.Equal(t, "The result contains 0 rows", apiErr.Details)
}

func TestMaybeSingle(t *testing.T) {
	body := `[]`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(body))
	})
	ctx := context.Background()

	var missing *row
	require.NoError(t, c.From("listings").Eq("id", 1).MaybeSingle().Execute(ctx, &missing))
	assert.Nil(t, missing)

	body = `[{"id":1,"title":"one"}]`
	var found *row
	require.NoError(t, c.From("listings").Eq("id", 1).MaybeSingle().Execute(ctx, &found))
	require.NotNil(t, found)
	assert.Equal(t, "one", found.Title)

	body = `[{"id":1},{"id":2}]`
	var many *row
	err := c.From("listings").MaybeSingle().Execute(ctx, &many)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestInsertPostsRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/listings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var got map[string]any
		assert.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "Golf", got["title"])
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.Insert(context.Background(), "listings", map[string]any{"title": "Golf"}, nil))
}

func TestInsertReturnsRepresentation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":99,"title":"Golf"}`))
	})

	var created row
	require.NoError(t, c.Insert(context.Background(), "listings", row{Title: "Golf"}, &created))
	assert.Equal(t, 99, created.ID)
}

func TestAuthErrorDecoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	err := c.Auth(context.Background(), http.MethodPost, "token?grant_type=password", "", map[string]string{"email": "a@b.c"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", Message(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.False(t, IsNotFound(err))
}

func TestGoTrueNumericCodeDecoding(t *testing.T) {
	err := decodeAPIError(http.StatusUnprocessableEntity, []byte(`{"code":422,"error_code":"weak_password","msg":"Password should be at least 6 characters"}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "weak_password", apiErr.Code)
	assert.Equal(t, "Password should be at least 6 characters", apiErr.Message)
}

func TestPlainTextErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream err", http.StatusBadGateway)
	})

	err := c.From("listings").Execute(context.Background(), &[]row{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, "upstream err", Message(err))
}

func TestClientTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	err := c.From("listings").Execute(context.Background(), &[]row{})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestInvalidJSONResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})

	var rows []row
	assert.Error(t, c.From("listings").Execute(context.Background(), &rows))
}
