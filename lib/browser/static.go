package browser

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"quizsolver/lib/htmlutil"
	"quizsolver/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// Static is a read-only Page over a one-shot HTTP fetch of the quiz url.
// It supports extraction and dry runs but none of the act methods, those
// return ErrReadOnlyPage. Useful when no chrome binary is available or
// when answers should not actually be applied.
type Static struct {
	http *resty.Client
	doc  *goquery.Document
	raw  []byte
}

func NewStatic() *Static {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.SetHeader("user-agent", UserAgent)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "browser/static")

	return &Static{http: client}
}

func (p *Static) Navigate(ctx context.Context, url string) error {
	res, err := p.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		return fmt.Errorf("fetch quiz page: status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}

	p.raw = res.Body()
	p.doc = doc
	return nil
}

func (p *Static) HTML(ctx context.Context) (string, error) {
	if p.doc == nil {
		return "", fmt.Errorf("no page loaded")
	}
	return string(p.raw), nil
}

func (p *Static) FindAll(ctx context.Context, selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}

	var elements []Element
	for _, n := range p.doc.Find(selector).Nodes {
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
		elements = append(elements, Element{
			Selector: nodePath(n),
			Text:     htmlutil.CleanText(htmlutil.GetText(n)),
			attrs:    attrs,
		})
	}
	return elements, nil
}

// nodePath builds a selector that addresses n uniquely, as a chain of
// :nth-child steps from the document root. Element handles keep working
// after the matching query is forgotten, and scoped lookups compose.
func nodePath(n *html.Node) string {
	var steps []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		position := 1
		for sibling := cur.PrevSibling; sibling != nil; sibling = sibling.PrevSibling {
			if sibling.Type == html.ElementNode {
				position++
			}
		}
		steps = append(steps, fmt.Sprintf("%s:nth-child(%d)", cur.Data, position))
	}
	slices.Reverse(steps)
	return strings.Join(steps, " > ")
}

func (p *Static) FindOne(ctx context.Context, scope Element, selector string) (Element, error) {
	if !scope.IsZero() {
		selector = scope.Selector + " " + selector
	}
	elements, err := p.FindAll(ctx, selector)
	if err != nil {
		return Element{}, err
	}
	if len(elements) == 0 {
		return Element{}, ErrNotFound
	}
	return elements[0], nil
}

func (p *Static) Evaluate(ctx context.Context, script string, out any) error {
	return ErrReadOnlyPage
}

func (p *Static) SetCheckedAndNotify(ctx context.Context, el Element) error {
	return ErrReadOnlyPage
}

func (p *Static) Click(ctx context.Context, el Element) error {
	return ErrReadOnlyPage
}

func (p *Static) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Static) Screenshot(ctx context.Context, path string) error {
	return ErrReadOnlyPage
}
