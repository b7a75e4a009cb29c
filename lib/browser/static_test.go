package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const staticFixture = `<html><body>
<div class="wpvq-question" data-questionid="101">
	<h3 class="wpvq-question-label">Which planet is closest to the sun?</h3>
	<div class="wpvq-answer" data-wpvq-answer="1"><label>Mercury</label></div>
	<div class="wpvq-answer" data-wpvq-answer="2"><label>Venus</label></div>
</div>
<button>Submit</button>
</body></html>`

func TestStaticPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(staticFixture))
	}))
	defer server.Close()

	ctx := context.Background()
	page := NewStatic()
	require.NoError(t, page.Navigate(ctx, server.URL))

	html, err := page.HTML(ctx)
	require.NoError(t, err)
	require.Contains(t, html, "wpvq-question")

	answers, err := page.FindAll(ctx, ".wpvq-answer")
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.Equal(t, "Mercury", answers[0].Text)
	require.Equal(t, "1", answers[0].AttrOr("data-wpvq-answer", ""))

	_, err = page.FindOne(ctx, Element{}, ".missing")
	require.ErrorIs(t, err, ErrNotFound)

	// handles address their element, not the query that found them
	require.NotEqual(t, answers[0].Selector, answers[1].Selector)
	second, err := page.FindOne(ctx, Element{}, answers[1].Selector)
	require.NoError(t, err)
	require.Equal(t, "Venus", second.Text)

	questions, err := page.FindAll(ctx, ".wpvq-question")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	label, err := page.FindOne(ctx, questions[0], ".wpvq-answer label")
	require.NoError(t, err)
	require.Equal(t, "Mercury", label.Text)

	err = page.SetCheckedAndNotify(ctx, answers[0])
	require.ErrorIs(t, err, ErrReadOnlyPage)
	err = page.Click(ctx, answers[0])
	require.ErrorIs(t, err, ErrReadOnlyPage)
}

func TestStaticPageBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	page := NewStatic()
	err := page.Navigate(context.Background(), server.URL)
	require.Error(t, err)
}
