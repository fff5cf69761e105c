package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","date":"2026-08-31","rates":{"IDR":16234.12,"EUR":0.9234}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)

	rate, err := client.Rate(context.Background(), "USD", "IDR")
	require.NoError(t, err)
	assert.Equal(t, "16234.12", rate.String())
}

func TestClient_Rate_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)

	_, err := client.Rate(context.Background(), "USD", "IDR")
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestClient_Rate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)

	_, err := client.Rate(context.Background(), "USD", "IDR")
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestClient_Rate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 50*time.Millisecond)

	_, err := client.Rate(context.Background(), "USD", "IDR")
	assert.Error(t, err)
}
