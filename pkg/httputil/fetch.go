package httputil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

const maxImageBytes = 32 << 20 // refuse pathological downloads

// FetchImage downloads the raster at url and decodes it. Transient failures
// (network errors, 5xx, 429) are retried with backoff; anything else fails
// immediately.
func FetchImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return Retryable(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		default:
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}
