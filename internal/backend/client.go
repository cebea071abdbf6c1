// Package backend is the HTTP client for the sentiment backend service.
// Every call returns a Result, never an error: transport failures, non-200
// statuses, and unparseable bodies all collapse into the same failure shape
// so call sites only check whether the call failed, not why.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Result is the uniform outcome of a backend call. Exactly one side holds:
// Err == "" means the call succeeded and Data is the parsed response object;
// otherwise Err describes the failure and RawBody carries the response body
// when one was received.
type Result struct {
	Data    map[string]any
	Err     string
	RawBody string

	raw string // raw JSON text of a successful body, for path lookups
}

func (r Result) OK() bool { return r.Err == "" }

// Get performs a tolerant path lookup on a successful payload, e.g.
// "sentiment_trend_10_day.bullish". On a failed result every lookup reports
// Exists() == false.
func (r Result) Get(path string) gjson.Result {
	return gjson.Get(r.raw, path)
}

func fail(msg string) Result { return Result{Err: msg} }

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string) Result {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, payload map[string]any) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return fail(fmt.Sprintf("encode request for %s: %v", path, err))
	}
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) Result {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fail(fmt.Sprintf("%s %s: %v", method, path, err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fail(fmt.Sprintf("backend request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Sprintf("%s %s: reading response: %v", method, path, err))
	}

	// A 200 with a non-JSON content type is as unusable as a non-200, so
	// both produce the same failure shape with the body kept for display.
	if resp.StatusCode != http.StatusOK || !jsonContentType(resp.Header.Get("Content-Type")) {
		return Result{
			Err:     fmt.Sprintf("%s %s -> %d %s", method, path, resp.StatusCode, http.StatusText(resp.StatusCode)),
			RawBody: string(raw),
		}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Result{
			Err:     fmt.Sprintf("%s %s: decoding response: %v", method, path, err),
			RawBody: string(raw),
		}
	}
	// Valid JSON that is not an object (e.g. "null") is as unusable as
	// malformed JSON.
	if data == nil {
		return Result{
			Err:     fmt.Sprintf("%s %s: decoding response: not a JSON object", method, path),
			RawBody: string(raw),
		}
	}
	return Result{Data: data, raw: string(raw)}
}

func jsonContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "json")
}
