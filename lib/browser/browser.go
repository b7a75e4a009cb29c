package browser

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("no element matches the selector")
	ErrReadOnlyPage = errors.New("page does not support interaction")
)

// same user agent the stock chrome build reports, some quiz hosts serve a
// degraded page to unknown agents
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Element is a handle to a DOM element located by a Page. A handle is only
// valid on the page that produced it.
type Element struct {
	// Selector uniquely addresses the element on its page.
	Selector string
	Text     string
	attrs    map[string]string
}

func (e Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e Element) AttrOr(name, fallback string) string {
	if v, ok := e.attrs[name]; ok {
		return v
	}
	return fallback
}

func (e Element) IsZero() bool {
	return e.Selector == "" && e.Text == "" && e.attrs == nil
}

// Page is the narrow query/act surface the solver needs from a browser.
// Implementations are not safe for concurrent use, the solver serializes
// all page interaction.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// HTML returns the full rendered markup of the current document.
	HTML(ctx context.Context) (string, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// FindOne scopes the search to a previously found element, a zero
	// scope searches the whole document. Returns ErrNotFound when nothing
	// matches.
	FindOne(ctx context.Context, scope Element, selector string) (Element, error)
	// Evaluate runs a script on the page and unmarshals its result into
	// out, which may be nil when the result is irrelevant.
	Evaluate(ctx context.Context, script string, out any) error
	// SetCheckedAndNotify marks a checkable input as selected and
	// dispatches a bubbling change event so the host page's own handlers
	// register the selection.
	SetCheckedAndNotify(ctx context.Context, el Element) error
	Click(ctx context.Context, el Element) error
	Wait(ctx context.Context, d time.Duration) error
	Screenshot(ctx context.Context, path string) error
}
