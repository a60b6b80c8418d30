// Package source resolves dataset locations to readers. The scraped
// attraction dataset may live in a local file, behind an HTTP endpoint, or
// arrive on standard input; callers pass any of the three and get back an
// io.ReadCloser with sane size caps and timeouts.
package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Size caps keeping a malformed or hostile source from exhausting memory;
// the full scraped dataset is a few megabytes.
const (
	MaxFileSizeBytes = 50 * 1024 * 1024
	MaxHTTPSizeBytes = 100 * 1024 * 1024
)

// HTTPRequestTimeout bounds a whole dataset download.
const HTTPRequestTimeout = 30 * time.Second

var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout: HTTPRequestTimeout / 6,
		}).Dial,
		TLSHandshakeTimeout:   HTTPRequestTimeout / 6,
		ResponseHeaderTimeout: HTTPRequestTimeout / 2,
		DisableKeepAlives:     true,
	},
}

// cappedReadCloser wraps an io.ReadCloser to enforce a byte limit.
type cappedReadCloser struct {
	io.ReadCloser
	remaining int64
	source    string
}

func (c *cappedReadCloser) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", c.source)
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.ReadCloser.Read(p)
	c.remaining -= int64(n)
	return n, err
}

// Open resolves a dataset source to a reader:
//   - "-" reads from standard input
//   - "http://" and "https://" sources are fetched over HTTP
//   - anything else is a local file path
//
// ctx bounds the HTTP fetch; local reads ignore it.
func Open(ctx context.Context, src string) (io.ReadCloser, error) {
	switch {
	case src == "-":
		return &cappedReadCloser{ReadCloser: os.Stdin, remaining: MaxFileSizeBytes, source: "stdin"}, nil
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return openURL(ctx, src)
	default:
		return openFile(src)
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "wisatarec/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("dataset fetch from %q failed: status %s", url, resp.Status)
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("dataset at %q is too large (%d bytes)", url, size)
		}
	}

	return &cappedReadCloser{ReadCloser: resp.Body, remaining: MaxHTTPSizeBytes, source: url}, nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access dataset file %q: %w", path, err)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("dataset file %q is too large (%d bytes)", path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %q: %w", path, err)
	}
	return f, nil
}
