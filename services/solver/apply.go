package solver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quizsolver/lib/browser"
	"quizsolver/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/mazen160/go-random"
)

// DefaultApplyPace is the base delay between two selections, roughly what
// a human clicking through the quiz would take.
const DefaultApplyPace = time.Second

// Applier replays decisions onto the live page. One decision failing to
// apply never stops the rest.
type Applier struct {
	Page browser.Page
	Pace time.Duration
}

// Apply marks each decision's option as selected, in sequence order, with
// a jittered human-like pause between selections.
func (a Applier) Apply(ctx context.Context, decisions []Decision) {
	ctx, span := tracer.Start(ctx, "applier:Apply")
	defer span.End()

	for i, d := range decisions {
		selector := fmt.Sprintf(`input[%s=%q]`, answerIdAttr, d.SelectedOptionID)

		el, err := a.Page.FindOne(ctx, browser.Element{}, selector)
		if err != nil {
			slog.WarnContext(ctx, "selected option not found on page",
				"question", d.QuestionID, "option", d.SelectedOptionID, "err", err)
			continue
		}
		err = a.Page.SetCheckedAndNotify(ctx, el)
		if err != nil {
			slog.WarnContext(ctx, "failed to select option",
				"question", d.QuestionID, "option", d.SelectedOptionID, "err", err)
			continue
		}

		slog.InfoContext(ctx, "applied answer",
			"question", d.QuestionID, "option", d.SelectedOptionID)

		if i < len(decisions)-1 {
			a.Page.Wait(ctx, a.Pace+applyJitter())
		}
	}
}

func applyJitter() time.Duration {
	ms, err := random.IntRange(0, 500)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

var submitSelectors = []string{
	".wpvq-submit",
	"#wpvq-submit",
	`input[type="submit"]`,
}

var submitLabels = []string{"submit", "finish", "complete"}

// label similarity floor for the fuzzy submit-button match, tuned loose
// enough for "Submit!" style decorations
const submitLabelSimilarity = 0.92

// Submit clicks the quiz's submit control when one can be found. Quizzes
// without one auto-submit, so not finding a control is a normal outcome,
// not an error.
func (a Applier) Submit(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "applier:Submit")
	defer span.End()

	for _, selector := range submitSelectors {
		el, err := a.Page.FindOne(ctx, browser.Element{}, selector)
		if err != nil {
			continue
		}
		if err := a.Page.Click(ctx, el); err != nil {
			slog.WarnContext(ctx, "failed to click submit control",
				"selector", selector, "err", err)
			continue
		}
		slog.InfoContext(ctx, "submitted quiz", "selector", selector)
		return true
	}

	// no well-known selector matched, fall back to matching visible
	// button labels
	buttons, err := a.Page.FindAll(ctx, "button")
	if err != nil {
		slog.WarnContext(ctx, "failed to enumerate buttons", "err", err)
		return false
	}
	for _, b := range buttons {
		if !matchesSubmitLabel(b.Text) {
			continue
		}
		if err := a.Page.Click(ctx, b); err != nil {
			slog.WarnContext(ctx, "failed to click submit button",
				"label", b.Text, "err", err)
			continue
		}
		slog.InfoContext(ctx, "submitted quiz", "label", b.Text)
		return true
	}

	return false
}

func matchesSubmitLabel(label string) bool {
	normalized := textutil.NormalizeLabel(label)
	if normalized == "" {
		return false
	}
	if textutil.MatchLabel(label, submitLabels) {
		return true
	}
	for _, candidate := range submitLabels {
		if matchr.JaroWinkler(normalized, candidate, false) >= submitLabelSimilarity {
			return true
		}
	}
	return false
}
