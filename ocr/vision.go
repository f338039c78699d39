package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxVisionResponseBytes = 16 << 20

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type visionRequest struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type annotateRequest struct {
	Requests []visionRequest `json:"requests"`
}

type visionStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Locale      string `json:"locale,omitempty"`
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *visionStatus `json:"error,omitempty"`
	} `json:"responses"`
	Error *visionStatus `json:"error,omitempty"`
}

// firstText returns the description of the first text annotation of the
// first response element.
func (r *annotateResponse) firstText() string {
	if len(r.Responses) == 0 || len(r.Responses[0].TextAnnotations) == 0 {
		return ""
	}
	return r.Responses[0].TextAnnotations[0].Description
}

// VisionClient calls the images:annotate REST method of Google Cloud Vision
// with TEXT_DETECTION.
type VisionClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewVisionClient creates a Vision client. endpoint is the API base URL, e.g.
// https://vision.googleapis.com.
func NewVisionClient(apiKey, endpoint string, timeout time.Duration) *VisionClient {
	return &VisionClient{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *VisionClient) Name() string {
	return "vision"
}

func (c *VisionClient) ExtractText(ctx context.Context, image []byte, languageHint string) (string, error) {
	if languageHint == "" {
		languageHint = DefaultLanguageHint
	}

	body := annotateRequest{
		Requests: []visionRequest{
			{
				Image:        visionImage{Content: base64.StdEncoding.EncodeToString(image)},
				Features:     []visionFeature{{Type: "TEXT_DETECTION"}},
				ImageContext: visionImageContext{LanguageHints: []string{languageHint}},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ep := fmt.Sprintf("%s/v1/images:annotate?key=%s", c.endpoint, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && c.apiKey != "" {
			ue.URL = strings.ReplaceAll(ue.URL, url.QueryEscape(c.apiKey), "REDACTED")
		}
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxVisionResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var ar annotateResponse
	decodeErr := json.Unmarshal(bodyBytes, &ar)

	if ar.Error != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Code: ar.Error.Code, Message: ar.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to parse response: %w", decodeErr)
	}
	if len(ar.Responses) > 0 && ar.Responses[0].Error != nil {
		e := ar.Responses[0].Error
		return "", &APIError{StatusCode: resp.StatusCode, Code: e.Code, Message: e.Message}
	}

	return strings.TrimSpace(ar.firstText()), nil
}
