package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Chrome drives a real browser session over the devtools protocol. It
// implements Page; all calls run against the single tab opened at
// construction.
type Chrome struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

type ChromeOptions struct {
	Headless bool
	// ExecPath overrides chrome binary discovery when set.
	ExecPath string
}

func NewChrome(ctx context.Context, opts ChromeOptions) (*Chrome, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.UserAgent(UserAgent),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// start the browser eagerly so a missing binary fails the session
	// here instead of on the first navigation
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser session: %w", err)
	}

	return &Chrome{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func (c *Chrome) Close() {
	c.browserCancel()
	c.allocCancel()
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(c.browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(c.browserCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

type taggedElement struct {
	Ref   string            `json:"ref"`
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs"`
}

// matched elements get tagged with a synthetic ref attribute so later act
// calls can address them with a stable selector
const tagElementsScript = `(() => {
	window.__qsRef = window.__qsRef || 0;
	const out = [];
	for (const el of document.querySelectorAll(%q)) {
		if (!el.hasAttribute("data-qs-ref")) {
			el.setAttribute("data-qs-ref", String(++window.__qsRef));
		}
		const attrs = {};
		for (const a of el.attributes) {
			attrs[a.name] = a.value;
		}
		out.push({
			ref: el.getAttribute("data-qs-ref"),
			text: el.innerText || "",
			attrs: attrs,
		});
	}
	return out;
})()`

func (c *Chrome) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var tagged []taggedElement
	err := chromedp.Run(c.browserCtx, chromedp.Evaluate(
		fmt.Sprintf(tagElementsScript, selector),
		&tagged,
	))
	if err != nil {
		return nil, err
	}

	elements := make([]Element, len(tagged))
	for i, t := range tagged {
		elements[i] = Element{
			Selector: fmt.Sprintf(`[data-qs-ref=%q]`, t.Ref),
			Text:     t.Text,
			attrs:    t.Attrs,
		}
	}
	return elements, nil
}

func (c *Chrome) FindOne(ctx context.Context, scope Element, selector string) (Element, error) {
	if !scope.IsZero() {
		selector = scope.Selector + " " + selector
	}
	elements, err := c.FindAll(ctx, selector)
	if err != nil {
		return Element{}, err
	}
	if len(elements) == 0 {
		return Element{}, ErrNotFound
	}
	return elements[0], nil
}

func (c *Chrome) Evaluate(ctx context.Context, script string, out any) error {
	if out == nil {
		var discard any
		out = &discard
	}
	return chromedp.Run(c.browserCtx, chromedp.Evaluate(script, out))
}

const setCheckedScript = `(() => {
	const el = document.querySelector(%q);
	if (!el) {
		return false;
	}
	el.scrollIntoView({ behavior: "smooth", block: "center" });
	el.checked = true;
	el.click();
	el.dispatchEvent(new Event("change", { bubbles: true }));
	return true;
})()`

func (c *Chrome) SetCheckedAndNotify(ctx context.Context, el Element) error {
	var found bool
	err := chromedp.Run(c.browserCtx, chromedp.Evaluate(
		fmt.Sprintf(setCheckedScript, el.Selector),
		&found,
	))
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (c *Chrome) Click(ctx context.Context, el Element) error {
	return chromedp.Run(c.browserCtx,
		chromedp.Click(el.Selector, chromedp.ByQuery),
	)
}

func (c *Chrome) Wait(ctx context.Context, d time.Duration) error {
	return chromedp.Run(c.browserCtx, chromedp.Sleep(d))
}

func (c *Chrome) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	err := chromedp.Run(c.browserCtx, chromedp.FullScreenshot(&buf, 90))
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
