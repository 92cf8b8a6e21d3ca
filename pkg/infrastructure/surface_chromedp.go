package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-renderer/internal/compose"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

type ChromeOptions struct {
	ExecPath     string
	Timeout      time.Duration
	ReadyTimeout time.Duration
}

// ChromeSurface paints documents in a shared headless Chrome, one tab per
// capture.
type ChromeSurface struct {
	opts          ChromeOptions
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	log           zerolog.Logger
}

func NewChromeSurface(o ChromeOptions, log zerolog.Logger) *ChromeSurface {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = 5 * time.Second
	}

	// prepare exec allocator with optional chrome path
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	return &ChromeSurface{
		opts:          o,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		log:           log.With().Str("component", "chrome").Logger(),
	}
}

// Close shuts the browser down.
func (s *ChromeSurface) Close() {
	s.browserCancel()
	s.allocCancel()
}

func (s *ChromeSurface) Capture(ctx context.Context, req compose.CaptureRequest) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	runCtx, cancelRun := context.WithTimeout(tabCtx, s.opts.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(req.HTML), 0o644); err != nil {
		return nil, err
	}

	err = chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(req.ViewportWidth), 0, req.Scale, false).Do(ctx)
		}),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	if req.ReadySelector != "" {
		readyCtx, cancelReady := context.WithTimeout(runCtx, s.opts.ReadyTimeout)
		err := chromedp.Run(readyCtx, chromedp.WaitReady(req.ReadySelector, chromedp.ByQuery))
		cancelReady()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn().Dur("waited", s.opts.ReadyTimeout).Msg("page did not signal painted, capturing anyway")
		}
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx, chromedp.Nodes(req.Selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, s.fail(ctx, err)
	}
	if len(nodes) == 0 {
		return nil, compose.ErrRenderTargetMissing
	}

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.Screenshot(req.Selector, &buf, chromedp.ByQuery)); err != nil {
		return nil, s.fail(ctx, err)
	}
	s.log.Debug().Int("bytes", len(buf)).Str("selector", req.Selector).Msg("captured")
	return buf, nil
}

func (s *ChromeSurface) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &compose.CaptureError{Cause: fmt.Errorf("chrome: %w", err)}
}
