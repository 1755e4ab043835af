// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package locate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/Rakesh-Raushan3366/Automated-Download-Patent-Data/pkg/types"
)

// navigationTimeout bounds loading the search page and finding its input.
const navigationTimeout = 30 * time.Second

// ChromeSession is a Session backed by a Chrome instance driven over the
// DevTools protocol. It is not safe for concurrent use.
type ChromeSession struct {
	cfg         types.BrowserConfig
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewChromeSession starts a browser (or attaches to cfg.RemoteURL) and opens
// one tab. The browser lives until Close is called or ctx is cancelled.
func NewChromeSession(ctx context.Context, cfg types.BrowserConfig, userAgent string) (*ChromeSession, error) {
	cfg = cfg.WithDefaults()

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if cfg.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
		)
		if cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
		}
		if userAgent != "" {
			opts = append(opts, chromedp.UserAgent(userAgent))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	}

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &ChromeSession{
		cfg:         cfg,
		ctx:         tabCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}, nil
}

// Search loads the search page, types query into the input named
// cfg.InputName, presses Enter, and waits for cfg.ResultsSelector.
func (s *ChromeSession) Search(ctx context.Context, query string) error {
	input := fmt.Sprintf(`[name="%s"]`, s.cfg.InputName)
	err := s.run(ctx, navigationTimeout,
		chromedp.Navigate(s.cfg.SearchURL),
		chromedp.WaitVisible(input, chromedp.ByQuery),
		chromedp.SendKeys(input, query+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("submitting query: %w", err)
	}

	err = s.run(ctx, s.cfg.ResultsTimeout,
		chromedp.WaitVisible(s.cfg.ResultsSelector, chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %s not visible after %s", ErrResultsTimeout, s.cfg.ResultsSelector, s.cfg.ResultsTimeout)
	}
	if err != nil {
		return fmt.Errorf("waiting for results: %w", err)
	}
	return nil
}

// Page returns the current location and the rendered document.
func (s *ChromeSession) Page(ctx context.Context) (string, string, error) {
	var location, html string
	err := s.run(ctx, navigationTimeout,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", "", err
	}
	return location, html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *ChromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// run executes actions on the tab, bounded by timeout and aborted when the
// caller's ctx is cancelled.
func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}
