// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/internal/httputil"
	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

const fakePDFContent = "%PDF-1.4 fake"

// newTestServer serves fake PDFs under /pdf/, a body that is cut short under
// /truncated/, and errors elsewhere.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/pdf/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		case r.URL.Path == "/large.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(bytes.Repeat([]byte("x"), 3*ChunkSize+17))
		case r.URL.Path == "/redirect.pdf":
			http.Redirect(w, r, "/pdf/target.pdf", http.StatusFound)
		case r.URL.Path == "/truncated.pdf":
			w.Header().Set("Content-Length", "100000")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("%PDF-1.4 partial"))
		case r.URL.Path == "/forbidden.pdf":
			http.Error(w, "nope", http.StatusForbidden)
		case r.URL.Path == "/agent.pdf":
			fmt.Fprint(w, r.UserAgent())
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestDownloader() *Downloader {
	return NewDownloader(httputil.NewClient(types.HTTPConfig{UserAgent: types.DefaultUserAgent}))
}

func TestDownloadWritesFile(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "nested", "dir", "A1.pdf")
	n, err := newTestDownloader().Download(context.Background(), ts.URL+"/pdf/A1.pdf", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(fakePDFContent)) {
		t.Errorf("bytes = %d, want %d", n, len(fakePDFContent))
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	if string(data) != fakePDFContent {
		t.Errorf("content = %q, want %q", data, fakePDFContent)
	}
}

func TestDownloadLargeBodyIsByteIdentical(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "large.pdf")
	n, err := newTestDownloader().Download(context.Background(), ts.URL+"/large.pdf", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	want := bytes.Repeat([]byte("x"), 3*ChunkSize+17)
	if n != int64(len(want)) {
		t.Errorf("bytes = %d, want %d", n, len(want))
	}
	data, _ := os.ReadFile(dest)
	if !bytes.Equal(data, want) {
		t.Errorf("content differs from served body (%d bytes vs %d)", len(data), len(want))
	}
}

func TestDownloadSendsUserAgent(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "agent.pdf")
	if _, err := newTestDownloader().Download(context.Background(), ts.URL+"/agent.pdf", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != types.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", data, types.DefaultUserAgent)
	}
}

func TestDownloadFollowsRedirect(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "r.pdf")
	if _, err := newTestDownloader().Download(context.Background(), ts.URL+"/redirect.pdf", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != fakePDFContent {
		t.Errorf("content = %q, want %q", data, fakePDFContent)
	}
}

func TestDownloadOverwritesExisting(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "A1.pdf")
	if err := os.WriteFile(dest, []byte("old content"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestDownloader().Download(context.Background(), ts.URL+"/pdf/A1.pdf", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != fakePDFContent {
		t.Errorf("content = %q, want overwritten %q", data, fakePDFContent)
	}
}

func TestDownloadNon2xxStatus(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "F.pdf")
	_, err := newTestDownloader().Download(context.Background(), ts.URL+"/forbidden.pdf", dest)
	if err == nil {
		t.Fatal("expected error for 403")
	}
	var se *httputil.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Errorf("error = %v, want StatusError 403", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("no file should be written for a failed status")
	}
}

func TestDownloadTruncatedBodyLeavesNoFile(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "T.pdf")
	_, err := newTestDownloader().Download(context.Background(), ts.URL+"/truncated.pdf", dest)
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("truncated download must not leave a file at the destination")
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestDownloadFailureKeepsPreviousFile(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "K.pdf")
	if err := os.WriteFile(dest, []byte("previous run"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestDownloader().Download(context.Background(), ts.URL+"/truncated.pdf", dest); err == nil {
		t.Fatal("expected error for truncated body")
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "previous run" {
		t.Errorf("content = %q, want previous file untouched", data)
	}
}

func TestDownloadTransportError(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL + "/pdf/A1.pdf"
	ts.Close()

	_, err := newTestDownloader().Download(context.Background(), url, filepath.Join(t.TempDir(), "A1.pdf"))
	if err == nil || !strings.Contains(err.Error(), "HTTP request") {
		t.Errorf("error = %v, want transport error", err)
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

func TestCopyChunks(t *testing.T) {
	src := bytes.Repeat([]byte("ab"), ChunkSize)
	var dst bytes.Buffer
	n, err := copyChunks(&dst, bytes.NewReader(src))
	if err != nil {
		t.Fatalf("copyChunks: %v", err)
	}
	if n != int64(len(src)) || !bytes.Equal(dst.Bytes(), src) {
		t.Errorf("copied %d bytes, want %d", n, len(src))
	}

	if _, err := copyChunks(shortWriter{}, bytes.NewReader(src)); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("err = %v, want io.ErrShortWrite", err)
	}
}

func TestPDFPath(t *testing.T) {
	folder := filepath.Join("out", "pdfs")
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{"plain", "202341012345", filepath.Join(folder, "202341012345.pdf"), false},
		{"trimmed", "  A1 ", filepath.Join(folder, "A1.pdf"), false},
		{"nested", "IN/PCT/2020/1", filepath.Join(folder, "IN", "PCT", "2020", "1.pdf"), false},
		{"empty", "   ", "", true},
		{"escapes", "../../etc/passwd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PDFPath(folder, tt.id)
			if tt.wantErr {
				if err == nil {
					t.Errorf("PDFPath(%q) = %q, want error", tt.id, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("PDFPath(%q): %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("PDFPath(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
