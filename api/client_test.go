package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client whose waits are recorded instead of slept
func newTestClient(t *testing.T, baseURL string, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()

	client, err := New(baseURL, "test-token", zerolog.Nop(), opts...)
	require.NoError(t, err)

	var waits []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return client, &waits
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		wantErr error
	}{
		{
			name:    "valid config",
			baseURL: "https://readwise.io/api/v2/",
			token:   "test-token",
		},
		{
			name:    "missing base URL",
			baseURL: "",
			token:   "test-token",
			wantErr: ErrMissingBaseURL,
		},
		{
			name:    "missing token",
			baseURL: "https://readwise.io/api/v2",
			token:   "  ",
			wantErr: ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.baseURL, tt.token, zerolog.Nop())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://readwise.io/api/v2", client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := New("http://localhost", "token", zerolog.Nop(), WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with page size", func(t *testing.T) {
		client, err := New("http://localhost", "token", zerolog.Nop(), WithPageSize(50))
		require.NoError(t, err)
		assert.Equal(t, 50, client.pageSize)
	})

	t.Run("with rate limit", func(t *testing.T) {
		client, err := New("http://localhost", "token", zerolog.Nop(), WithRateLimit(20, 0))
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		assert.Equal(t, 1, client.limiter.Burst())
	})

	t.Run("rate limit disabled", func(t *testing.T) {
		client, err := New("http://localhost", "token", zerolog.Nop(), WithRateLimit(0, 5))
		require.NoError(t, err)
		assert.Nil(t, client.limiter)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := New("http://localhost", "token", zerolog.Nop(), WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("timeout leaves custom http client untouched", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := New("http://localhost", "token", zerolog.Nop(), WithHTTPClient(custom), WithTimeout(2*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, custom.Timeout)
		assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
		assert.NotSame(t, custom, client.httpClient)
	})
}

func TestDo_SetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/highlights/", r.URL.Path)
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, "5", r.URL.Query().Get("book_id"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL+"/api/v2")
	resp, err := client.Get(context.Background(), "/highlights/", url.Values{"book_id": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestDo_RetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"review_id":1}`))
	}))
	defer server.Close()

	client, waits := newTestClient(t, server.URL)
	resp, err := client.Get(context.Background(), "/review/", nil)
	require.NoError(t, err)

	var body map[string]int
	require.NoError(t, resp.Decode("/review/", &body))
	assert.Equal(t, 1, body["review_id"])
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second}, *waits)
}

func TestDo_ResendsIdenticalBody(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		bodies = append(bodies, string(data))

		if len(bodies) < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, waits := newTestClient(t, server.URL)
	resp, err := client.Post(context.Background(), "/books/1/tags/", map[string]string{"name": "go"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, bodies, 3)
	for _, body := range bodies {
		assert.JSONEq(t, `{"name":"go"}`, body)
	}
	assert.Len(t, *waits, 2)
}

func TestDo_RateLimitCap(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, waits := newTestClient(t, server.URL, WithMaxRetries(2))
	_, err := client.Get(context.Background(), "/books/", nil)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 3, rateErr.Attempts)
	assert.Equal(t, 3*time.Second, rateErr.RetryAfter)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *waits, 2)
}

func TestDo_MissingRetryAfterUsesDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, waits := newTestClient(t, server.URL, WithDefaultRetryAfter(7*time.Second))
	_, err := client.Get(context.Background(), "/books/", nil)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestDo_CancelledDuringRateLimitWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := New(server.URL, "test-token", zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Get(ctx, "/books/", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.True(t, httpErr.IsNotFound())
				assert.Equal(t, `{"detail":"nope"}`, httpErr.Body)
				assert.Equal(t, http.MethodGet, httpErr.Method)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
				assert.False(t, errors.Is(err, ErrUnauthorized))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"detail":"nope"}`))
			}))
			defer server.Close()

			client, _ := newTestClient(t, server.URL)
			_, err := client.Get(context.Background(), "/books/1/", nil)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, int32(1), calls.Load(), "error statuses are not retried")
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{name: "seconds", value: "2", want: 2 * time.Second, wantOK: true},
		{name: "padded seconds", value: " 10 ", want: 10 * time.Second, wantOK: true},
		{name: "zero", value: "0", want: 0, wantOK: true},
		{name: "negative clamps to zero", value: "-4", want: 0, wantOK: true},
		{name: "http date", value: "Mon, 01 Jan 2024 12:00:30 GMT", want: 30 * time.Second, wantOK: true},
		{name: "past http date", value: "Mon, 01 Jan 2024 11:00:00 GMT", want: 0, wantOK: true},
		{name: "empty", value: "", wantOK: false},
		{name: "garbage", value: "soon", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRetryAfter(tt.value, now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	var target struct {
		ID int `json:"id"`
	}
	err := Decode("/books/", []byte(`{"id":"abc"}`), &target)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "/books/", decodeErr.Endpoint)
	assert.Equal(t, "id", decodeErr.Field)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestDecodeError_EmbeddedStruct(t *testing.T) {
	type Book struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	var target struct {
		Book
		Updated *string `json:"updated"`
	}
	err := Decode("/books/", []byte(`{"id":"abc","title":"x"}`), &target)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "id", decodeErr.Field)
}

func TestJSONPath(t *testing.T) {
	tests := map[string]string{
		"id":                            "id",
		"Highlight.id":                  "id",
		"Highlight.tags.name":           "tags.name",
		"Export.Inner.id":               "id",
		"highlights.id":                 "highlights.id",
		"highlights.ExportHighlight.id": "highlights.id",
		"Highlight":                     "Highlight",
		"":                              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, jsonPath(in), in)
	}
}

func TestParseTimestamp(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		value   *string
		want    *time.Time
		wantErr bool
	}{
		{name: "nil", value: nil},
		{name: "empty", value: str("")},
		{
			name:  "utc",
			value: str("2020-01-01T00:00:00Z"),
			want:  ptr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:  "fractional with offset",
			value: str("2022-12-27T11:33:09.123456+00:00"),
			want:  ptr(time.Date(2022, 12, 27, 11, 33, 9, 123456000, time.UTC)),
		},
		{
			name:  "no zone",
			value: str("2023-05-06T07:08:09"),
			want:  ptr(time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)),
		},
		{
			name:  "date only",
			value: str("2023-05-06"),
			want:  ptr(time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC)),
		},
		{name: "invalid", value: str("yesterday"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp("updated", tt.value)
			if tt.wantErr {
				var decodeErr *DecodeError
				require.ErrorAs(t, err, &decodeErr)
				assert.Equal(t, "updated", decodeErr.Field)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s want %s", got, tt.want)
		})
	}

	_, err := ParseRequiredTimestamp("created_at", nil)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "created_at", decodeErr.Field)
}

func ptr[T any](v T) *T {
	return &v
}
