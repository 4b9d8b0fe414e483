package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Classify(t *testing.T) {
	t.Run("successful classification", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req predictRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "I am happy", req.Text)

			w.Header().Set("Content-Type", "application/json")
			err = json.NewEncoder(w).Encode(predictResponse{
				Text:       "I am happy",
				Emotion:    "joy",
				Confidence: 0.9,
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second)
		res, err := client.Classify(context.Background(), "I am happy")

		require.NoError(t, err)
		assert.Equal(t, "joy", res.Emotion)
		assert.Equal(t, 0.9, res.Confidence)
	})

	t.Run("server error maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New(server.URL, 5*time.Second)
		_, err := client.Classify(context.Background(), "text")

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("timeout maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := New(server.URL, 20*time.Millisecond)
		_, err := client.Classify(context.Background(), "text")

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("connection error maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		server.Close() // nothing listens anymore

		client := New(server.URL, time.Second)
		_, err := client.Classify(context.Background(), "text")

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("empty emotion in response maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text":"x","emotion":"","confidence":0.5}`))
		}))
		defer server.Close()

		client := New(server.URL, time.Second)
		_, err := client.Classify(context.Background(), "x")

		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
