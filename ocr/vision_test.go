package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visionServer(t *testing.T, status int, body string, seen *annotateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images:annotate", r.URL.Path)
		assert.Equal(t, "vision-key", r.URL.Query().Get("key"))
		if seen != nil {
			raw, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NoError(t, json.Unmarshal(raw, seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVisionExtractText_Success(t *testing.T) {
	var seen annotateRequest
	srv := visionServer(t, http.StatusOK, `{
		"responses": [{
			"textAnnotations": [
				{"locale": "sa", "description": "  रामः वनं गच्छति\n"},
				{"description": "रामः"}
			]
		}]
	}`, &seen)

	client := NewVisionClient("vision-key", srv.URL, 5*time.Second)
	text, err := client.ExtractText(context.Background(), []byte("image-bytes"), "")

	require.NoError(t, err)
	assert.Equal(t, "रामः वनं गच्छति", text)

	require.Len(t, seen.Requests, 1)
	req := seen.Requests[0]
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("image-bytes")), req.Image.Content)
	assert.Equal(t, []visionFeature{{Type: "TEXT_DETECTION"}}, req.Features)
	assert.Equal(t, []string{"sa"}, req.ImageContext.LanguageHints)
}

func TestVisionExtractText_LanguageHint(t *testing.T) {
	var seen annotateRequest
	srv := visionServer(t, http.StatusOK, `{"responses": [{}]}`, &seen)

	client := NewVisionClient("vision-key", srv.URL, 5*time.Second)
	_, err := client.ExtractText(context.Background(), []byte("x"), "hi")

	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, seen.Requests[0].ImageContext.LanguageHints)
}

func TestVisionExtractText_NoAnnotations(t *testing.T) {
	for _, body := range []string{`{}`, `{"responses": []}`, `{"responses": [{}]}`, `{"responses": [{"textAnnotations": []}]}`} {
		srv := visionServer(t, http.StatusOK, body, nil)
		client := NewVisionClient("vision-key", srv.URL, 5*time.Second)

		text, err := client.ExtractText(context.Background(), []byte("x"), "sa")
		require.NoError(t, err, body)
		assert.Empty(t, text, body)
	}
}

func TestVisionExtractText_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{"top-level error", http.StatusForbidden, `{"error": {"code": 403, "message": "API key invalid"}}`},
		{"per-response error", http.StatusOK, `{"responses": [{"error": {"code": 3, "message": "Bad image data."}}]}`},
		{"plain failure", http.StatusInternalServerError, `oops`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := visionServer(t, tc.status, tc.body, nil)
			client := NewVisionClient("vision-key", srv.URL, 5*time.Second)

			_, err := client.ExtractText(context.Background(), []byte("x"), "sa")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestTesseractLanguage(t *testing.T) {
	assert.Equal(t, "san", TesseractLanguage("sa"))
	assert.Equal(t, "san", TesseractLanguage(""))
	assert.Equal(t, "eng", TesseractLanguage("EN"))
	assert.Equal(t, "deva", TesseractLanguage("deva"))
}
