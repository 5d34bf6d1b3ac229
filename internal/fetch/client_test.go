package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint_Defaults(t *testing.T) {
	u, err := resolveEndpoint("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+DefaultPath, u.String())
}

func TestResolveEndpoint_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"bare host", "example.com", "items.json", "https://example.com/items.json"},
		{"leading slash", "http://example.com", "/items.json", "http://example.com/items.json"},
		{"base with prefix", "http://example.com/api", "items.json", "http://example.com/api/items.json"},
		{"drops query and fragment", "http://example.com/?x=1#frag", "/a.json", "http://example.com/a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := resolveEndpoint(tt.base, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestResolveEndpoint_MissingHost(t *testing.T) {
	_, err := resolveEndpoint("http://", "x.json")
	assert.Error(t, err)
}

func TestClient_FetchDecodesNullableNames(t *testing.T) {
	var gotAccept, gotUA, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "listId": 1, "name": "Earbuds"},
			{"id": 2, "listId": 1, "name": null},
			{"id": 3, "listId": 2, "name": ""},
			{"id": 4, "listId": 2}
		]`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "/hiring.json", WithUserAgent("fetchlist-test"))
	require.NoError(t, err)

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "/hiring.json", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "fetchlist-test", gotUA)

	require.NotNil(t, records[0].Name)
	assert.Equal(t, "Earbuds", *records[0].Name)
	assert.Equal(t, 1, records[0].ListID)
	assert.Nil(t, records[1].Name)
	require.NotNil(t, records[2].Name)
	assert.Equal(t, "", *records[2].Name)
	assert.Nil(t, records[3].Name)
}

func TestClient_FetchEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "")
	require.NoError(t, err)

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_FetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.json":
			_, _ = w.Write([]byte("{not-json"))
		case "/object.json":
			_, _ = w.Write([]byte(`{"id": 1}`))
		case "/trailing.json":
			_, _ = w.Write([]byte(`[{"id":1,"listId":1,"name":"a"}] <html>oops</html>`))
		case "/twice.json":
			_, _ = w.Write([]byte(`[] []`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	tests := []struct {
		path   string
		op     string
		status int
	}{
		{"/broken.json", "decode", 0},
		{"/object.json", "decode", 0},
		{"/trailing.json", "decode", 0},
		{"/twice.json", "decode", 0},
		{"/missing.json", "status", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, err := New(server.URL, tt.path)
			require.NoError(t, err)

			_, err = c.Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, IsNetworkError(err))

			var ne *NetworkError
			require.True(t, errors.As(err, &ne))
			assert.Equal(t, tt.op, ne.Op)
			assert.Equal(t, tt.status, ne.StatusCode)
		})
	}
}

func TestClient_FetchAllowsTrailingWhitespace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[{\"id\":1,\"listId\":2,\"name\":\"a\"}]\n\n"))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "")
	require.NoError(t, err)

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].ListID)
}

func TestClient_FetchNilClient(t *testing.T) {
	var c *Client
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestClient_FetchUsesCustomHTTPClient(t *testing.T) {
	boom := errors.New("dial refused")
	var seen string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.String()
		return nil, boom
	})}

	c, err := New("example.test", "/items.json", WithHTTPClient(hc))
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "https://example.test/items.json", seen)

	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "request", ne.Op)
}

func TestClient_FetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := New(url, "/hiring.json")
	require.NoError(t, err)

	_, err = c.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Contains(t, err.Error(), "request")
}

func TestClient_FetchHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
