package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nnlgsakib/DataFee-oracle/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOneWholeBody(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"price":5}`)
	f := NewFetcher(Config{}, nil)

	res, err := f.FetchOne(context.Background(), Endpoint{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, Result{URL: srv.URL, Summary: "price:5"}, res)
}

func TestFetchOneSelector(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"ethereum":{"usd":3000}}`)
	f := NewFetcher(Config{}, nil)

	res, err := f.FetchOne(context.Background(), Endpoint{URL: srv.URL, Selector: "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, "usd:3000", res.Summary)
	assert.False(t, res.Oversized)
}

func TestFetchOneSendsHeaders(t *testing.T) {
	var gotKey, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewFetcher(Config{UserAgent: "feeder-test"}, nil)
	_, err := f.FetchOne(context.Background(), Endpoint{URL: srv.URL, Headers: map[string]string{"X-Api-Key": "secret"}})
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "feeder-test", gotUA)
}

func TestFetchOneOversized(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"data":"`+strings.Repeat("x", 20)+`"}`)
	f := NewFetcher(Config{MaxDataSize: 10}, nil)

	res, err := f.FetchOne(context.Background(), Endpoint{URL: srv.URL})
	require.NoError(t, err)
	assert.True(t, res.Oversized)
	assert.Empty(t, res.Summary)
	assert.Equal(t, srv.URL, res.URL)
}

func TestFetchOneAtLimitIsNotOversized(t *testing.T) {
	// "a:123456" 恰好 8 个字符
	srv := jsonServer(t, http.StatusOK, `{"a":123456}`)
	f := NewFetcher(Config{MaxDataSize: 8}, nil)

	res, err := f.FetchOne(context.Background(), Endpoint{URL: srv.URL})
	require.NoError(t, err)
	assert.False(t, res.Oversized)
	assert.Equal(t, "a:123456", res.Summary)
}

func TestFetchOneFailureKinds(t *testing.T) {
	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		cfg  Config
		kind Kind
	}{
		{name: "status", url: jsonServer(t, http.StatusInternalServerError, `{}`).URL, kind: KindStatus},
		{name: "not found", url: jsonServer(t, http.StatusNotFound, `nope`).URL, kind: KindStatus},
		{name: "no response", url: closedURL, kind: KindNoResponse},
		{name: "request", url: "://missing-scheme", kind: KindRequest},
		{name: "decode", url: jsonServer(t, http.StatusOK, `<html></html>`).URL, kind: KindDecode},
		{name: "too large", url: jsonServer(t, http.StatusOK, `{"a":"0123456789"}`).URL, cfg: Config{MaxBodyBytes: 8}, kind: KindDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(tt.cfg, nil)
			_, err := f.FetchOne(context.Background(), Endpoint{URL: tt.url})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestFetchErrorDetails(t *testing.T) {
	srv := jsonServer(t, http.StatusServiceUnavailable, `{}`)
	_, err := NewFetcher(Config{}, nil).FetchOne(context.Background(), Endpoint{URL: srv.URL})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "Service Unavailable", fe.Status)
	assert.Contains(t, fe.Error(), "503")

	bad := jsonServer(t, http.StatusOK, `not json`)
	_, err = NewFetcher(Config{}, nil).FetchOne(context.Background(), Endpoint{URL: bad.URL})
	assert.ErrorIs(t, err, normalize.ErrInvalidJSON)

	big := jsonServer(t, http.StatusOK, `{"a":"0123456789"}`)
	_, err = NewFetcher(Config{MaxBodyBytes: 4}, nil).FetchOne(context.Background(), Endpoint{URL: big.URL})
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetchOneCountsUTF16Units(t *testing.T) {
	// "a:😀😀" 为 4 个 rune，但占 6 个 UTF-16 码元
	srv := jsonServer(t, http.StatusOK, `{"a":"😀😀"}`)

	res, err := NewFetcher(Config{MaxDataSize: 5}, nil).FetchOne(context.Background(), Endpoint{URL: srv.URL})
	require.NoError(t, err)
	assert.True(t, res.Oversized)

	res, err = NewFetcher(Config{MaxDataSize: 6}, nil).FetchOne(context.Background(), Endpoint{URL: srv.URL})
	require.NoError(t, err)
	assert.False(t, res.Oversized)
	assert.Equal(t, "a:😀😀", res.Summary)
}

func TestDataSize(t *testing.T) {
	assert.Equal(t, 0, DataSize(""))
	assert.Equal(t, 5, DataSize("price"))
	assert.Equal(t, 2, DataSize("价格"))
	assert.Equal(t, 2, DataSize("😀"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetchErrorKeepsServerReasonPhrase(t *testing.T) {
	tests := []struct {
		name   string
		status string
		code   int
		want   string
	}{
		{name: "custom", status: "503 Upstream Sleeping", code: 503, want: "Upstream Sleeping"},
		{name: "standard", status: "404 Not Found", code: 404, want: "Not Found"},
		{name: "missing", status: "429", code: 429, want: "Too Many Requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					Status:     tt.status,
					StatusCode: tt.code,
					Header:     make(http.Header),
					Body:       io.NopCloser(strings.NewReader(`{}`)),
					Request:    r,
				}, nil
			})}
			_, err := NewFetcher(Config{HTTPClient: client}, nil).FetchOne(context.Background(), Endpoint{URL: "http://prices.test/usd"})

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, KindStatus, fe.Kind)
			assert.Equal(t, tt.want, fe.Status)
		})
	}
}
