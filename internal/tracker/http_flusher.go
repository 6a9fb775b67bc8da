package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const trackPath = "/api/fitness/track"

// trackRequest is the body of the track endpoint.
type trackRequest struct {
	Steps        int       `json:"steps"`
	Distance     float64   `json:"distance"`
	Calories     float64   `json:"calories"`
	ActivityType string    `json:"activityType"`
	Timestamp    time.Time `json:"timestamp"`
}

// HTTPFlusher posts flushed sessions to the fitness API.
type HTTPFlusher struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewHTTPFlusher(serverURL, token string, httpClient *http.Client) *HTTPFlusher {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPFlusher{
		endpoint:   strings.TrimSuffix(serverURL, "/") + trackPath,
		token:      token,
		httpClient: httpClient,
	}
}

func (f *HTTPFlusher) Flush(ctx context.Context, payload FlushPayload) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.flusher.http")
	span.SetAttributes(
		attribute.String("flush.kind", string(payload.Kind)),
		attribute.Int("flush.steps", payload.Session.Steps),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	body, err := json.Marshal(trackRequest{
		Steps:        payload.Session.Steps,
		Distance:     payload.Session.DistanceMeters,
		Calories:     payload.Session.Calories,
		ActivityType: payload.Session.ActivityType.String(),
		Timestamp:    payload.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("marshal track request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create track request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post track request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("track request failed, status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
