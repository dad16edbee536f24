package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/streed/litewrite/internal/errors"
)

func TestCompleteSendsPromptAndReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "device-1", r.Header.Get("x-device-id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "write notes", req.Contents[0].Parts[0].Text)

		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[\"a\"]"}]}}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", WithDeviceID(func(context.Context) string { return "device-1" }))
	text, err := c.Complete(context.Background(), "write notes")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, text)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"quota"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, interrors.ErrRateLimited)
			},
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, interrors.ErrEmptyCompletion)
			},
		},
		{
			name:   "server error with message",
			status: http.StatusInternalServerError,
			body:   `{"error":{"message":"boom"}}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusInternalServerError, se.Code)
				assert.Equal(t, "boom", se.Message)
			},
		},
		{
			name:   "unauthorized without body",
			status: http.StatusUnauthorized,
			body:   ``,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Contains(t, se.Message, "API key")
			},
		},
		{
			name:   "undecodable success",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "decode")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL, "k").Complete(context.Background(), "p")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestForwardPassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"contents":[]}`, string(body))
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad"}`)
	}))
	defer srv.Close()

	status, body, err := New(srv.URL, "k").Forward(context.Background(), []byte(`{"contents":[]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"bad"}`, string(body))
}

func TestUnconfigured(t *testing.T) {
	_, err := New("http://example.invalid", "").Complete(context.Background(), "p")
	assert.ErrorIs(t, err, interrors.ErrAIUnconfigured)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", WithTimeout(20*time.Millisecond)).Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "timed out")
}
