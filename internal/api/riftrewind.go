package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"rift-rewind/internal/config"
	"rift-rewind/internal/constants"
	"rift-rewind/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var ErrMalformedResponse = errors.New("malformed response body")

// APIError is a non-2xx answer from the insights backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

type RiftClient struct {
	baseURL string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

func NewRiftClient(cfg *config.Config, logger zerolog.Logger) *RiftClient {
	// per-call deadlines are tighter; recap generation is the slowest call
	return NewRiftClientWith(cfg.APIBaseURL, &fasthttp.Client{
		MaxConnsPerHost:     16,
		ReadTimeout:         constants.RecapTimeout,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	}, logger)
}

func NewRiftClientWith(baseURL string, client *fasthttp.Client, logger zerolog.Logger) *RiftClient {
	return &RiftClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With().Str("component", "rift_client").Logger(),
	}
}

func (c *RiftClient) GetStats(ctx context.Context, id domain.PlayerIdentity) (*StatsPayload, error) {
	return doRequest[StatsPayload](ctx, c, fasthttp.MethodGet, "/get-stats", identityQuery(id), nil)
}

func (c *RiftClient) ProcessTimelines(ctx context.Context, id domain.PlayerIdentity) (*ProcessingReceipt, error) {
	return doRequest[ProcessingReceipt](ctx, c, fasthttp.MethodGet, "/process-timelines", identityQuery(id), nil)
}

func (c *RiftClient) GetTimelineStats(ctx context.Context, id domain.PlayerIdentity) (*TimelinePayload, error) {
	return doRequest[TimelinePayload](ctx, c, fasthttp.MethodGet, "/get-timeline-stats", identityQuery(id), nil)
}

// GenerateRecap is not part of the search pipeline; it is invoked on demand.
func (c *RiftClient) GenerateRecap(ctx context.Context, id domain.PlayerIdentity) (*RecapPayload, error) {
	body, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recap request: %w", err)
	}
	return doRequest[RecapPayload](ctx, c, fasthttp.MethodPost, "/generate-recap", nil, body)
}

func identityQuery(id domain.PlayerIdentity) url.Values {
	return url.Values{
		"gameName": {id.GameName},
		"tagLine":  {id.TagLine},
		"region":   {id.Region},
	}
}

func doRequest[T any](ctx context.Context, client *RiftClient, method, path string, query url.Values, body []byte) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := client.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	status := resp.StatusCode()
	client.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("backend request completed")

	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return nil, &APIError{Method: method, Path: path, StatusCode: status, Body: string(resp.Body())}
	}

	payload := bytes.TrimSpace(resp.Body())
	if len(payload) == 0 || payload[0] != '{' {
		return nil, fmt.Errorf("%s %s: %w: expected a JSON object", method, path, ErrMalformedResponse)
	}

	var result T
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return &result, nil
}
