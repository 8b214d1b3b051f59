package chromedp_browser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/utils"
)

// idleWaitLimit caps the wait for the networkIdle lifecycle event, which some
// pages with long-polling never reach.
const idleWaitLimit = 30 * time.Second

// elementCaptureLimit bounds a single element screenshot.
const elementCaptureLimit = 15 * time.Second

// Options configures the headless browser.
type Options struct {
	ViewportWidth   int
	ViewportHeight  int
	Scale           float64
	SettleDelay     time.Duration
	PageLoadTimeout time.Duration // zero disables
	ChromePath      string
}

// ChromedpBrowser is a single headless Chrome shared by every document of a run.
type ChromedpBrowser struct {
	opts          Options
	logger        *zap.Logger
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewChromedpBrowser launches Chrome and returns once it is ready to open tabs.
func NewChromedpBrowser(ctx context.Context, opts Options, logger *zap.Logger) (*ChromedpBrowser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))

	// An empty Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromedpBrowser{
		opts:          opts,
		logger:        logger,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// Open loads target in a new tab. The document is ready for queries once
// the network is idle, fonts have loaded and the settle delay has passed.
func (b *ChromedpBrowser) Open(ctx context.Context, target entity.CaptureTarget) (repository.Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	stop := context.AfterFunc(ctx, tabCancel)

	runCtx, runCancel := tabCtx, context.CancelFunc(func() {})
	if b.opts.PageLoadTimeout > 0 {
		runCtx, runCancel = context.WithTimeout(tabCtx, b.opts.PageLoadTimeout)
	}

	p := &chromedpPage{
		ctx:   runCtx,
		path:  target.Path,
		scale: b.opts.Scale,
		close: func() {
			stop()
			runCancel()
			tabCancel()
		},
	}

	idle := newIdleWatcher()
	chromedp.ListenTarget(tabCtx, idle.handle)

	var fontsReady bool
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(b.opts.ViewportWidth), int64(b.opts.ViewportHeight), chromedp.EmulateScale(b.opts.Scale)),
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			c := chromedp.FromContext(ctx)
			idle.arm(cdp.FrameID(c.Target.TargetID))
			return nil
		}),
		chromedp.Navigate(utils.FileURL(target.Path)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if !idle.wait(ctx, idleWaitLimit) {
				b.logger.Debug("network idle not reported, continuing", zap.String("document", target.Path))
			}
			return ctx.Err()
		}),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, awaitPromise),
		chromedp.Sleep(b.opts.SettleDelay),
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrDocumentLoad, target.Path, err)
	}

	return p, nil
}

// Close shuts the browser down.
func (b *ChromedpBrowser) Close() error {
	err := chromedp.Cancel(b.browserCtx)
	b.browserCancel()
	b.allocCancel()
	return err
}

type chromedpPage struct {
	ctx       context.Context
	path      string
	scale     float64
	close     func()
	closeOnce sync.Once
}

const queryElementsJS = `(() => {
	const prefixes = %s;
	const seen = new Set();
	return Array.from(document.querySelectorAll('[id]'))
		.filter(el => prefixes.some(p => el.id.startsWith(p)))
		.filter(el => !seen.has(el.id) && seen.add(el.id))
		.map(el => {
			const r = el.getBoundingClientRect();
			return {id: el.id, width: r.width, height: r.height};
		});
})()`

func (p *chromedpPage) Elements(ctx context.Context, prefixes []string) ([]entity.CapturableElement, error) {
	encoded, err := json.Marshal(prefixes)
	if err != nil {
		return nil, err
	}

	var elements []entity.CapturableElement
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(fmt.Sprintf(queryElementsJS, encoded), &elements)); err != nil {
		return nil, fmt.Errorf("failed to query elements in %s: %w", p.path, err)
	}
	return elements, nil
}

const elementBoxJS = `(() => {
	const el = document.getElementById(%s);
	if (el === null) return {state: "missing"};
	const r = el.getBoundingClientRect();
	if (el.getClientRects().length === 0 || r.width === 0 || r.height === 0) return {state: "hidden"};
	return {state: "visible", x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
})()`

type elementBox struct {
	State  string  `json:"state"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p *chromedpPage) Capture(ctx context.Context, elementID string) ([]byte, error) {
	quoted, err := json.Marshal(elementID)
	if err != nil {
		return nil, err
	}

	captureCtx, cancel := context.WithTimeout(p.ctx, elementCaptureLimit)
	defer cancel()

	var box elementBox
	if err := chromedp.Run(captureCtx, chromedp.Evaluate(fmt.Sprintf(elementBoxJS, quoted), &box)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrCaptureFailed, elementID, err)
	}
	switch box.State {
	case "missing":
		return nil, fmt.Errorf("%w: %s", repository.ErrElementNotFound, elementID)
	case "hidden":
		return nil, fmt.Errorf("%w: %s: element is not rendered", repository.ErrCaptureFailed, elementID)
	}

	clip := deviceClip(box, p.scale)
	var buf []byte
	err = chromedp.Run(captureCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			WithClip(clip).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrCaptureFailed, elementID, err)
	}
	return buf, nil
}

// deviceClip snaps the box to device pixels so the image is exactly
// round(width*scale) x round(height*scale).
func deviceClip(box elementBox, scale float64) *page.Viewport {
	if scale <= 0 {
		scale = 1
	}
	snap := func(v float64) float64 { return math.Round(v*scale) / scale }
	return &page.Viewport{
		X:      snap(box.X),
		Y:      snap(box.Y),
		Width:  snap(box.Width),
		Height: snap(box.Height),
		Scale:  1,
	}
}

func (p *chromedpPage) Close() error {
	p.closeOnce.Do(p.close)
	return nil
}

func awaitPromise(params *runtime.EvaluateParams) *runtime.EvaluateParams {
	return params.WithAwaitPromise(true)
}

// idleWatcher turns the main frame's networkIdle lifecycle event into a wait.
type idleWatcher struct {
	mu        sync.Mutex
	mainFrame cdp.FrameID
	sawInit   bool
	done      chan struct{}
	fired     bool
}

func newIdleWatcher() *idleWatcher {
	return &idleWatcher{done: make(chan struct{})}
}

func (w *idleWatcher) arm(frame cdp.FrameID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mainFrame = frame
}

func (w *idleWatcher) handle(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mainFrame == "" || e.FrameID != w.mainFrame || w.fired {
		return
	}
	switch e.Name {
	case "init":
		w.sawInit = true
	case "networkIdle":
		// events from before our navigation started carry no preceding init
		if w.sawInit {
			w.fired = true
			close(w.done)
		}
	}
}

func (w *idleWatcher) wait(ctx context.Context, limit time.Duration) bool {
	timer := time.NewTimer(limit)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	}
}
