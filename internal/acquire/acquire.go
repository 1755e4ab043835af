// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads located PDFs to disk.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/httputil"
)

// ChunkSize is the size of each sequential write to the destination.
const ChunkSize = 8192

// Downloader fetches URLs to local files.
type Downloader struct {
	client *http.Client
}

// NewDownloader returns a Downloader that issues requests through client.
// The client is expected to carry the User-Agent (see httputil.NewClient).
func NewDownloader(client *http.Client) *Downloader {
	return &Downloader{client: client}
}

// Download fetches url and writes the body to destPath, creating parent
// directories as needed. It returns the number of bytes written.
//
// Any non-2xx status is an error. The body is streamed to a temporary file
// next to destPath and renamed over it only once fully written, so an
// existing file is replaced silently on success and left untouched on
// failure. A failed download never leaves a truncated file behind.
func (d *Downloader) Download(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return 0, err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := copyChunks(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}

// copyChunks reads src in ChunkSize pieces and writes each one to dst in order.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var total int64
	for {
		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, err := dst.Write(buf[:nr])
			total += int64(nw)
			if err != nil {
				return total, err
			}
			if nw != nr {
				return total, io.ErrShortWrite
			}
		}
		if errors.Is(readErr, io.EOF) {
			return total, nil
		}
		if readErr != nil {
			return total, readErr
		}
	}
}
