package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/correlator"
)

const (
	captureUserAgent = "Website Analyzer Bot 1.0"
	viewportWidth    = 1920
	viewportHeight   = 1080

	// DefaultNavigationTimeout bounds the page load; on expiry the run fails
	// gracefully and keeps partial data
	DefaultNavigationTimeout = 30 * time.Second
)

// ChromeCapturer captures page runs with a headless Chrome via chromedp
type ChromeCapturer struct {
	navTimeout time.Duration
}

// NewChromeCapturer creates a capturer with the default navigation timeout
func NewChromeCapturer() *ChromeCapturer {
	return &ChromeCapturer{navTimeout: DefaultNavigationTimeout}
}

// probeResult mirrors the JSON object returned by the in-page probe script
type probeResult struct {
	HTML      string   `json:"html"`
	Scripts   []string `json:"scripts"`
	Globals   []string `json:"globals"`
	Generator string   `json:"generator"`
}

// Capture navigates to targetURL, streams network and console traffic into
// the sink, and returns page artifacts. A failed navigation returns whatever
// was gathered before the failure together with the error.
func (c *ChromeCapturer) Capture(ctx context.Context, targetURL string, depth Depth, sink EventSink) (Artifacts, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(captureUserAgent),
		chromedp.WindowSize(viewportWidth, viewportHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Request methods by id so responses can report the originating method,
	// and the main document status for page info
	var (
		mu        sync.Mutex
		methods   = make(map[network.RequestID]string)
		docStatus int
	)

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			mu.Lock()
			methods[e.RequestID] = e.Request.Method
			mu.Unlock()

			sink.OnRequest(correlator.RequestInfo{
				URL:          e.Request.URL,
				Method:       e.Request.Method,
				Headers:      flattenHeaders(e.Request.Headers),
				ResourceType: string(e.Type),
			})

		case *network.EventResponseReceived:
			mu.Lock()
			method := methods[e.RequestID]
			if e.Type == network.ResourceTypeDocument && docStatus == 0 {
				docStatus = int(e.Response.Status)
			}
			mu.Unlock()

			sink.OnResponse(correlator.ResponseInfo{
				URL:         e.Response.URL,
				Method:      method,
				Status:      int(e.Response.Status),
				ContentType: e.Response.MimeType,
				Size:        contentLength(e.Response.Headers),
			})

		case *cdpruntime.EventConsoleAPICalled:
			sink.OnConsoleMessage(correlator.ConsoleMessage{
				Level: string(e.Type),
				Text:  consoleText(e.Args),
			})
		}
	})

	artifacts := Artifacts{
		Page: PageInfo{
			URL:      targetURL,
			LoadTime: time.Now().UTC().Format(time.RFC3339),
		},
	}

	// Navigation is the only step with its own deadline
	navCtx, cancelNav := context.WithTimeout(browserCtx, c.navTimeout)
	defer cancelNav()

	var title, location string
	err := chromedp.Run(navCtx,
		network.Enable(),
		chromedp.Navigate(targetURL),
		chromedp.Title(&title),
		chromedp.Location(&location),
	)
	if err != nil {
		return artifacts, fmt.Errorf("navigation failed: %w", err)
	}

	mu.Lock()
	artifacts.Page.Title = title
	artifacts.Page.URL = location
	artifacts.Page.Status = docStatus
	mu.Unlock()

	// Wait for dynamic content based on depth
	if err := chromedp.Run(browserCtx, chromedp.Sleep(depth.WaitBudget())); err != nil {
		return artifacts, fmt.Errorf("dynamic content wait failed: %w", err)
	}

	var probe probeResult
	if err := chromedp.Run(browserCtx, chromedp.Evaluate(techProbeJS, &probe)); err != nil {
		log.Printf("[CAPTURE]: Page probe failed for %s: %v", targetURL, err)
	} else {
		artifacts.HTML = probe.HTML
		artifacts.ScriptSources = probe.Scripts
		artifacts.Globals = probe.Globals
		artifacts.Generator = probe.Generator
	}

	// Deep analysis interacts with the page and waits for the fallout
	if depth == DepthDeep {
		var clicked string
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(interactJS, &clicked)); err != nil {
			log.Printf("[CAPTURE]: Page interaction failed for %s: %v", targetURL, err)
		}
		if err := chromedp.Run(browserCtx, chromedp.Sleep(deepInteractionWait)); err != nil {
			return artifacts, fmt.Errorf("interaction wait failed: %w", err)
		}
	}

	return artifacts, nil
}

// flattenHeaders converts cdproto headers into plain strings
func flattenHeaders(headers network.Headers) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// contentLength parses the content-length response header, 0 when absent or
// malformed
func contentLength(headers network.Headers) int64 {
	for _, key := range []string{"content-length", "Content-Length"} {
		if v, ok := headers[key]; ok {
			if n, err := strconv.ParseInt(fmt.Sprint(v), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// consoleText joins console call arguments into one line
func consoleText(args []*cdpruntime.RemoteObject) string {
	text := ""
	for _, arg := range args {
		if arg == nil {
			continue
		}

		part := ""
		if len(arg.Value) > 0 {
			var v any
			if err := json.Unmarshal(arg.Value, &v); err == nil {
				part = fmt.Sprint(v)
			} else {
				part = string(arg.Value)
			}
		} else if arg.Description != "" {
			part = arg.Description
		}

		if part == "" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += part
	}
	return text
}

// techProbeJS gathers the page artifacts classification runs on: script
// sources, well-known framework globals, the generator meta tag, and the
// rendered HTML
const techProbeJS = `(() => {
	const scripts = Array.from(document.scripts).map(s => s.src).filter(Boolean);

	const globals = [];
	if (typeof window.React !== 'undefined') globals.push('React');
	if (typeof window.Vue !== 'undefined') globals.push('Vue.js');
	if (typeof window.angular !== 'undefined') globals.push('Angular');
	if (typeof window.jQuery !== 'undefined' || typeof window.$ !== 'undefined') globals.push('jQuery');
	if (typeof window.bootstrap !== 'undefined') globals.push('Bootstrap');
	if (window.dataLayer) globals.push('Google Analytics');
	if (window.gtag) globals.push('Google Analytics 4');
	if (window.fbq) globals.push('Facebook Pixel');

	const generator = document.querySelector('meta[name="generator"]');

	return {
		html: document.documentElement ? document.documentElement.outerHTML : '',
		scripts: scripts,
		globals: globals,
		generator: generator ? generator.content : ''
	};
})()`

// interactJS clicks the first common interactive element found, returning the
// selector that matched
const interactJS = `(() => {
	const selectors = [
		'button[data-testid]',
		'button[class*="btn"]',
		'a[href*="api"]',
		'[role="button"]'
	];
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el) {
			try { el.click(); return sel; } catch (e) {}
		}
	}
	return '';
})()`
