package solver

import (
	"context"
	"testing"
	"time"

	"quizsolver/lib/browser"

	"github.com/stretchr/testify/require"
)

// fakePage records act calls and serves canned elements per selector.
type fakePage struct {
	html     string
	elements map[string][]browser.Element
	checked  []string
	clicked  []string
	waits    int
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }
func (p *fakePage) HTML(ctx context.Context) (string, error)       { return p.html, nil }

func (p *fakePage) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return p.elements[selector], nil
}

func (p *fakePage) FindOne(ctx context.Context, scope browser.Element, selector string) (browser.Element, error) {
	els := p.elements[selector]
	if len(els) == 0 {
		return browser.Element{}, browser.ErrNotFound
	}
	return els[0], nil
}

func (p *fakePage) Evaluate(ctx context.Context, script string, out any) error { return nil }

func (p *fakePage) SetCheckedAndNotify(ctx context.Context, el browser.Element) error {
	p.checked = append(p.checked, el.Selector)
	return nil
}

func (p *fakePage) Click(ctx context.Context, el browser.Element) error {
	p.clicked = append(p.clicked, el.Selector)
	return nil
}

func (p *fakePage) Wait(ctx context.Context, d time.Duration) error {
	p.waits++
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context, path string) error { return nil }

func TestApplySkipsMissingOptions(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{
		`input[data-wpvq-answer="301"]`: {{Selector: "#opt-301"}},
		`input[data-wpvq-answer="402"]`: {{Selector: "#opt-402"}},
	}}

	decisions := []Decision{
		{QuestionID: "q1", SelectedOptionID: "301", Confidence: 0.9},
		{QuestionID: "q2", SelectedOptionID: "999", Confidence: 0.8}, // not on the page
		{QuestionID: "q3", SelectedOptionID: "402", Confidence: 0.7},
	}

	applier := Applier{Page: page, Pace: time.Millisecond}
	applier.Apply(context.Background(), decisions)

	// the missing option is skipped, the rest still land
	require.Equal(t, []string{"#opt-301", "#opt-402"}, page.checked)
}

func TestSubmitKnownSelector(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{
		".wpvq-submit": {{Selector: ".wpvq-submit"}},
	}}

	applier := Applier{Page: page}
	require.True(t, applier.Submit(context.Background()))
	require.Equal(t, []string{".wpvq-submit"}, page.clicked)
}

func TestSubmitMatchesButtonLabel(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{
		"button": {
			{Selector: "#share", Text: "Share this quiz"},
			{Selector: "#finish", Text: " Finish! "},
		},
	}}

	applier := Applier{Page: page}
	require.True(t, applier.Submit(context.Background()))
	require.Equal(t, []string{"#finish"}, page.clicked)
}

func TestSubmitNothingFound(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{
		"button": {{Selector: "#next", Text: "Next question"}},
	}}

	applier := Applier{Page: page}
	require.False(t, applier.Submit(context.Background()))
	require.Empty(t, page.clicked)
}

func TestMatchesSubmitLabel(t *testing.T) {
	require.True(t, matchesSubmitLabel("Submit"))
	require.True(t, matchesSubmitLabel("Submit Quiz"))
	require.True(t, matchesSubmitLabel("COMPLETE"))
	require.False(t, matchesSubmitLabel(""))
	require.False(t, matchesSubmitLabel("Back"))
}
