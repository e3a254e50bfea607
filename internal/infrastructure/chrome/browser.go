// Package chrome drives a Chromium browser over the DevTools protocol: it
// tracks tabs, installs the page bridge into every page and implements the
// page-level ports on top of chromedp.
package chrome

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/bnema/promptcast/internal/logging"
)

// Options selects how the browser is obtained.
type Options struct {
	// RemoteURL attaches to a running browser (ws:// or http:// DevTools
	// endpoint) instead of launching one.
	RemoteURL    string
	ExecPath     string
	UserDataDir  string
	Headless     bool
	WindowWidth  int
	WindowHeight int
}

// DefaultOptions launches a visible browser.
func DefaultOptions() Options {
	return Options{WindowWidth: 1440, WindowHeight: 900}
}

// Browser owns the allocator and the root chromedp context.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	remote      bool
}

// Launch starts or attaches to a browser and waits until the first target
// is connected.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	log := logging.FromContext(ctx)

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteURL != "" {
		log.Info().Str("url", opts.RemoteURL).Msg("attaching to running browser")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		log.Info().Bool("headless", opts.Headless).Str("profile", opts.UserDataDir).Msg("launching browser")
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, execOptions(opts)...)
	}

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Browser{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		remote:      opts.RemoteURL != "",
	}, nil
}

func execOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		out = append(out, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.UserDataDir != "" {
		out = append(out, chromedp.UserDataDir(opts.UserDataDir))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Headless {
		out = append(out, chromedp.Flag("headless", "new"))
	} else {
		out = append(out, chromedp.Flag("headless", false))
	}
	return out
}

// Context is the root chromedp context. Tab contexts derive from it.
func (b *Browser) Context() context.Context {
	return b.ctx
}

// Done is closed when the browser connection ends.
func (b *Browser) Done() <-chan struct{} {
	return b.ctx.Done()
}

// Remote reports whether the browser was attached rather than launched.
func (b *Browser) Remote() bool {
	return b.remote
}

// exec returns ctx bound to the browser-level executor, for Target domain
// commands that are not scoped to one page.
func (b *Browser) exec(ctx context.Context) context.Context {
	return cdp.WithExecutor(ctx, chromedp.FromContext(b.ctx).Browser)
}

// Close disconnects and, for a launched browser, terminates it.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}
