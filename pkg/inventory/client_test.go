package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

func catalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var req map[string]string
		if assert.NoError(t, json.Unmarshal(raw, &req)) {
			assert.Equal(t, ImagesQuery, req["query"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchNames(t *testing.T) {
	server := catalogServer(t, http.StatusOK,
		`{"data":{"images":[{"name":"neon-city"},{"name":"late-night"},{"name":"neon-city"}]}}`)

	testLog := logger.NewTestLogger()
	client := New(config.InventoryConfig{Endpoint: server.URL, Timeout: 5 * time.Second}, testLog)

	inv, err := client.FetchNames(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inv.Len())
	assert.True(t, inv.Has("neon-city"))
	assert.True(t, inv.Has("late-night"))
	assert.False(t, inv.Has("mountains"))
	assert.True(t, testLog.HasMessage("Catalog loaded"))
}

func TestFetchNamesEmptyCatalog(t *testing.T) {
	server := catalogServer(t, http.StatusOK, `{"data":{"images":[]}}`)
	client := NewWithClient(server.URL, resty.New(), logger.NewTestLogger())

	inv, err := client.FetchNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len())
}

func TestFetchNamesFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
		code     int
	}{
		{
			name:     "graphql errors",
			status:   http.StatusOK,
			body:     `{"data":null,"errors":[{"message":"field images not found"},{"message":"bad"}]}`,
			contains: "field images not found; bad",
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{"data":`,
			contains: "decode catalog response",
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     `{}`,
			contains: "status 502",
			code:     http.StatusBadGateway,
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     `not here`,
			contains: "status 404",
			code:     http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := catalogServer(t, tt.status, tt.body)
			client := NewWithClient(server.URL, resty.New(), logger.NewTestLogger())

			_, err := client.FetchNames(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInventory))
			assert.Contains(t, err.Error(), tt.contains)

			if tt.code != 0 {
				var e *errors.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.code, e.Code)
			}
		})
	}
}

func TestFetchNamesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewWithClient(url, resty.New(), logger.NewTestLogger())
	_, err := client.FetchNames(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInventory))
}

func TestEmptyEndpointUsesSentinel(t *testing.T) {
	client := New(config.InventoryConfig{Timeout: time.Second}, logger.NewTestLogger())
	assert.Equal(t, models.Sentinel, client.Endpoint())

	_, err := client.FetchNames(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInventory))
}

func TestFetchNamesHonorsContext(t *testing.T) {
	server := catalogServer(t, http.StatusOK, `{"data":{"images":[]}}`)
	client := NewWithClient(server.URL, resty.New(), logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchNames(ctx)
	assert.Error(t, err)
}
