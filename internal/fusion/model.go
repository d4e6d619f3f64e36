package fusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/sketch-shapes-mcp/internal/detection"
)

// RequestIDHeader carries the id that ties a model call to its fused result.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes caps how much of a model response is read.
const maxResponseBytes = 1 << 20

// Prediction is the learned model's answer for one sketch.
type Prediction struct {
	Shape      detection.Shape `json:"shape"`
	Confidence float64         `json:"confidence"`
	Message    string          `json:"message,omitempty"`
	RequestID  string          `json:"request_id"`
}

// Predictor classifies a sketch with a learned model.
type Predictor interface {
	Predict(ctx context.Context, img image.Image) (*Prediction, error)
}

// ModelAdapter calls an external learned-model service over HTTP.
//
// The sketch is posted as a PNG in the multipart field "file". The service
// answers with JSON {"shape", "confidence", "message"}. GET <url>/health
// reports availability.
type ModelAdapter struct {
	url    string
	client *http.Client
}

// NewModelAdapter creates an adapter for the service at url. Each request is
// bounded by timeout in addition to the caller's context.
func NewModelAdapter(url string, timeout time.Duration) *ModelAdapter {
	return &ModelAdapter{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// URL returns the prediction endpoint.
func (m *ModelAdapter) URL() string {
	return m.url
}

// Predict sends img to the service and returns its prediction.
//
// Labels other than circle and triangle come back as unknown and the
// confidence is clamped to [0, 1].
func (m *ModelAdapter) Predict(ctx context.Context, img image.Image) (*Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "sketch.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode sketch: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Shape      string  `json:"shape"`
		Confidence float64 `json:"confidence"`
		Message    string  `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Prediction{
		Shape:      normalizeShape(result.Shape),
		Confidence: clamp01(result.Confidence),
		Message:    result.Message,
		RequestID:  requestID,
	}, nil
}

// CheckHealth reports whether the service answers its health endpoint.
func (m *ModelAdapter) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml service unhealthy: %d", resp.StatusCode)
	}

	return nil
}

func normalizeShape(s string) detection.Shape {
	switch detection.Shape(strings.ToLower(strings.TrimSpace(s))) {
	case detection.ShapeCircle:
		return detection.ShapeCircle
	case detection.ShapeTriangle:
		return detection.ShapeTriangle
	default:
		return detection.ShapeUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
