package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
)

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("latlng"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"12 MG Road, Bengaluru, Karnataka 560001, India"}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	formatted, err := client.ReverseGeocode(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road, Bengaluru, Karnataka 560001, India", formatted)
}

func TestReverseGeocodeZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	formatted, err := client.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, formatted)
}

func TestReverseGeocodeUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.ReverseGeocode(context.Background(), 1, 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestReverseGeocodeRejectsOutOfRange(t *testing.T) {
	client, err := NewClient("test-key")
	require.NoError(t, err)

	_, err = client.ReverseGeocode(context.Background(), 123, 45)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("   ")
	assert.Error(t, err)
}
