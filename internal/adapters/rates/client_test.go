package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agustinvidal/fintrack/internal/adapters/rates"
	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		assert.Equal(t, "ARS", r.URL.Query().Get("symbols"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"rates":{"ARS":1015.753}}`))
	}))
	defer server.Close()

	client := rates.NewClient(server.URL, "test-key", 5*time.Second)

	rate, err := client.FetchRate(context.Background(), "USD", "ARS")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1015.753")), "got %s", rate)
}

func TestClient_FetchRate_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "provider reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":false,"error":{"code":"invalid_access_key","info":"invalid key"}}`))
			},
		},
		{
			name: "requested symbol missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":true,"rates":{"EUR":0.85}}`))
			},
		},
		{
			name: "non-positive rate",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":true,"rates":{"ARS":0}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := rates.NewClient(server.URL, "test-key", 5*time.Second)

			_, err := client.FetchRate(context.Background(), "USD", "ARS")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
		})
	}
}

func TestClient_FetchRate_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := rates.NewClient(server.URL, "test-key", time.Second)

	_, err := client.FetchRate(context.Background(), "USD", "ARS")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}
