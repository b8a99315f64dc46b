// internal/apiclient/client_test.go
package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-admin/internal/common/errors"
	"recruit-admin/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeTokens struct {
	authenticated bool
	token         string
	err           error
}

func (f *fakeTokens) IsAuthenticated() bool { return f.authenticated }

func (f *fakeTokens) AccessToken(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) Sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

func createTestClient(t *testing.T, baseURL string, sleeper *sleepRecorder) *Client {
	return New(&fakeTokens{authenticated: true, token: "token-1"}, Options{
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		WarmupDelay: 4000 * time.Millisecond,
		WarmupPaths: []string{"/health"},
		Sleep:       sleeper.Sleep,
	}, logger.NewTestLogger(t))
}

// ==========================
// Retry Policy Tests
// ==========================

func TestCall_TransientStatusRetriesOnce(t *testing.T) {
	var dataCalls, healthCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		healthCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		if dataCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"ok": true}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sleeper := &sleepRecorder{}
	client := createTestClient(t, srv.URL, sleeper)

	raw, err := client.call(context.Background(), "data", http.MethodGet, "/api/data", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": {"ok": true}}`, string(raw))

	// Exactly one warm-up probe sequence and one delay between the two
	// attempts.
	assert.Equal(t, int32(2), dataCalls.Load())
	assert.Equal(t, int32(1), healthCalls.Load())
	require.Len(t, sleeper.calls, 1)
	assert.Equal(t, 4000*time.Millisecond, sleeper.calls[0])
}

func TestCall_NonRetryableStatusFailsImmediately(t *testing.T) {
	var dataCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sleeper := &sleepRecorder{}
	client := createTestClient(t, srv.URL, sleeper)

	_, err := client.call(context.Background(), "data", http.MethodGet, "/api/data", nil)
	se := errors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, errors.ErrCodeAPI, se.Code)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Equal(t, "boom", se.Message)

	assert.Equal(t, int32(1), dataCalls.Load())
	assert.Empty(t, sleeper.calls)
}

func TestCall_SecondFailureSurfacesAPIError(t *testing.T) {
	var dataCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sleeper := &sleepRecorder{}
	client := createTestClient(t, srv.URL, sleeper)

	_, err := client.call(context.Background(), "data", http.MethodGet, "/api/data", nil)
	se := errors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, errors.ErrCodeAPI, se.Code)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)

	// Retry budget is exactly one extra attempt, never more.
	assert.Equal(t, int32(2), dataCalls.Load())
	assert.Len(t, sleeper.calls, 1)
}

func TestCall_EmptyResponses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/nothing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := createTestClient(t, srv.URL, &sleepRecorder{})

	raw, err := client.call(context.Background(), "nothing", http.MethodDelete, "/api/nothing", nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestCall_UnauthenticatedRedirects(t *testing.T) {
	redirected := false
	client := New(&fakeTokens{authenticated: false}, Options{
		BaseURL:         "http://localhost:0",
		RedirectToLogin: func() { redirected = true },
		Sleep:           func(time.Duration) {},
	}, logger.NewTestLogger(t))

	_, err := client.call(context.Background(), "data", http.MethodGet, "/api/data", nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuthentication))
	assert.True(t, redirected)
}

// ==========================
// Envelope Normalization Tests
// ==========================

func TestDecodeResult(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "enveloped shape", raw: `{"data": {"name": "x"}}`, expected: "x"},
		{name: "bare shape", raw: `{"name": "y"}`, expected: "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out payload
			require.NoError(t, decodeResult([]byte(tt.raw), &out))
			assert.Equal(t, tt.expected, out.Name)
		})
	}
}
