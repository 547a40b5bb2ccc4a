package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Contents, 1) && assert.Len(t, req.Contents[0].Parts, 1) {
			assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("joins the text parts of the first candidate", func(t *testing.T) {
		server := newGeminiTestServer(t, http.StatusOK, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Hello"}, {"text": " world\n"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"totalTokenCount": 12}
		}`)
		defer server.Close()

		generator, err := NewGeminiGenerator(context.Background(), "gemini-key", server.URL, "gemini-2.0-flash", "", nil)
		require.NoError(t, err)

		out, err := generator.Generate(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "Hello world\n", out)
	})

	t.Run("no candidates", func(t *testing.T) {
		server := newGeminiTestServer(t, http.StatusOK, `{"candidates": []}`)
		defer server.Close()

		generator, err := NewGeminiGenerator(context.Background(), "gemini-key", server.URL, "gemini-2.0-flash", "", nil)
		require.NoError(t, err)

		_, err = generator.Generate(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, FailureMalformed, Classify(err))
	})

	t.Run("blocked candidate", func(t *testing.T) {
		server := newGeminiTestServer(t, http.StatusOK, `{"candidates": [{"finishReason": "SAFETY"}]}`)
		defer server.Close()

		generator, err := NewGeminiGenerator(context.Background(), "gemini-key", server.URL, "gemini-2.0-flash", "", nil)
		require.NoError(t, err)

		_, err = generator.Generate(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, FailureMalformed, Classify(err))
	})

	t.Run("server error", func(t *testing.T) {
		server := newGeminiTestServer(t, http.StatusInternalServerError,
			`{"error": {"code": 500, "message": "Internal error encountered.", "status": "INTERNAL"}}`)
		defer server.Close()

		generator, err := NewGeminiGenerator(context.Background(), "gemini-key", server.URL, "gemini-2.0-flash", "", nil)
		require.NoError(t, err)

		_, err = generator.Generate(context.Background(), "hello")
		require.Error(t, err)
		assert.NotEqual(t, FailureNone, Classify(err))
	})
}
