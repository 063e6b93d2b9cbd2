package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

var timeNow = time.Now

const (
	shortTimeout = 10 * time.Second
	longTimeout  = 30 * time.Second
)

type httpResponse struct {
	status int
	header http.Header
	body   []byte
}

// send performs req with its own deadline and reads the whole body.
func send(ctx context.Context, client *http.Client, timeout time.Duration, build func(ctx context.Context) (*http.Request, error)) (*httpResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := build(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &httpResponse{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// graphError pulls error.message (and code/type) out of a Meta graph API body.
func graphError(body []byte) transfer.GraphErrorResponse {
	var e transfer.GraphErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error.Message == "" {
		e.Error.Message = "Unknown error"
	}
	return e
}

func configFailure(msg string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Message: msg, Failure: transfer.FailureConfig}
}

func upstreamFailure(msg string) *transfer.PlatformResult {
	return &transfer.PlatformResult{Message: msg, Failure: transfer.FailureUpstream}
}

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}
