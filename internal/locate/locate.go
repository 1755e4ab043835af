// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds a PDF link for an identifier by driving a search
// engine through a browser session.
package locate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

var (
	// ErrNotFound means results rendered but none of the links pointed at a PDF.
	ErrNotFound = errors.New("PDF not found")

	// ErrResultsTimeout means the results container never became visible.
	ErrResultsTimeout = errors.New("search results did not render in time")
)

// Session is a browser session positioned on a search engine.
type Session interface {
	// Search navigates to the search page, submits query and waits until
	// the results are rendered. It returns ErrResultsTimeout (possibly
	// wrapped) when the wait expires.
	Search(ctx context.Context, query string) error

	// Page returns the current page URL and its rendered HTML.
	Page(ctx context.Context) (pageURL, html string, err error)

	// Close releases the browser.
	Close() error
}

// BuildQuery quotes the trimmed identifier and restricts results to PDFs.
func BuildQuery(identifier string) string {
	return fmt.Sprintf(`"%s" filetype:pdf`, strings.TrimSpace(identifier))
}

// Locate submits query through session and returns the first link on the
// results page whose path ends in ".pdf".
//
// It returns ErrNotFound when no link matches and ErrResultsTimeout when
// results never render. Any other failure is a browser automation error.
func Locate(ctx context.Context, session Session, query string) (string, error) {
	if err := session.Search(ctx, query); err != nil {
		if errors.Is(err, ErrResultsTimeout) {
			return "", err
		}
		return "", fmt.Errorf("searching %s: %w", query, err)
	}

	pageURL, html, err := session.Page(ctx)
	if err != nil {
		return "", fmt.Errorf("reading results page: %w", err)
	}

	link, err := FindPDFLink(pageURL, html)
	if err != nil {
		return "", err
	}
	if link == "" {
		return "", ErrNotFound
	}
	return link, nil
}

// FindPDFLink scans every <a href> of html in document order and returns
// the first one whose path ends in ".pdf" (case-sensitive). Relative links
// resolve against pageURL and search-engine redirect links (/url?q=...) are
// unwrapped. It returns "" when nothing matches.
func FindPDFLink(pageURL, html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing results page: %w", err)
	}

	base, _ := url.Parse(pageURL)

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u := resolve(base, strings.TrimSpace(href))
		if u == nil {
			return true
		}
		if strings.HasSuffix(u.Path, ".pdf") {
			found = u.String()
			return false
		}
		return true
	})
	return found, nil
}

// resolve parses href relative to base and unwraps redirect links.
func resolve(base *url.URL, href string) *url.URL {
	if href == "" {
		return nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	if u.Path == "/url" {
		q := u.Query()
		for _, key := range []string{"q", "url"} {
			if target := q.Get(key); target != "" {
				if t, err := url.Parse(target); err == nil && (t.Scheme == "http" || t.Scheme == "https") {
					return t
				}
			}
		}
	}
	return u
}

// Classify maps an error returned by Locate to an outcome kind.
func Classify(err error) types.OutcomeKind {
	switch {
	case err == nil:
		return types.OutcomeDownloaded
	case errors.Is(err, ErrNotFound):
		return types.OutcomeNotFound
	case errors.Is(err, ErrResultsTimeout):
		return types.OutcomeSearchTimeout
	default:
		return types.OutcomeSearchError
	}
}

// Reason returns the report text for a Locate error.
func Reason(err error) string {
	switch Classify(err) {
	case types.OutcomeDownloaded:
		return ""
	case types.OutcomeNotFound:
		return types.ReasonNotFound
	case types.OutcomeSearchTimeout:
		return "Search timed out: " + err.Error()
	default:
		return "Search failed: " + err.Error()
	}
}
