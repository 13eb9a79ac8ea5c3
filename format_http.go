package emspace

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFormatRequest configures HTTPFormat.
type HTTPFormatRequest struct {
	URL    string
	Client *http.Client
	Writer io.Writer
	Config Config
}

// HTTPFormat fetches a Markdown document over HTTP(S) and formats it. The
// remote document is never modified; the result goes to Writer and Result.
func HTTPFormat(ctx context.Context, req HTTPFormatRequest) (Result, error) {
	if req.URL == "" {
		return Result{}, fmt.Errorf("format http: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("format http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return Result{}, fmt.Errorf("format http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("format http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("format http: status %s", resp.Status)
	}
	return FormatStream(FormatRequest{
		Reader: resp.Body,
		Writer: req.Writer,
		Config: req.Config,
	})
}
