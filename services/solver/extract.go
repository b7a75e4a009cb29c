package solver

import (
	"context"
	"log/slog"
	"strings"

	"quizsolver/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/solver")

// WP Viral Quiz markup. The plugin renders one container per question
// with the backend ids stashed in data attributes.
const (
	questionSelector      = ".wpvq-question"
	questionIdAttr        = "data-questionid"
	questionLabelSelector = ".wpvq-question-label"
	questionImageSelector = ".wpvq-question-img"
	answerSelector        = ".wpvq-answer"
	answerIdAttr          = "data-wpvq-answer"
)

// ExtractQuestions pulls structured questions out of the rendered quiz
// markup. Malformed containers contribute nothing and are skipped
// silently: a question is only emitted when it has an id, non-empty label
// text and at least one option carrying both an id and a label. Document
// encounter order is preserved, it becomes the processing order
// downstream.
func ExtractQuestions(ctx context.Context, pageHtml string) ([]Question, error) {
	ctx, span := tracer.Start(ctx, "ExtractQuestions")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHtml))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var questions []Question
	doc.Find(questionSelector).Each(func(_ int, container *goquery.Selection) {
		id := container.AttrOr(questionIdAttr, "")
		if id == "" {
			return
		}

		text := htmlutil.CleanText(container.Find(questionLabelSelector).Text())
		imageRef := container.Find(questionImageSelector).AttrOr("src", "")

		var options []Option
		container.Find(answerSelector).Each(func(_ int, answer *goquery.Selection) {
			optionId := answer.AttrOr(answerIdAttr, "")
			optionText := strings.TrimSpace(answer.Find("label").Text())
			if optionId == "" || optionText == "" {
				return
			}
			options = append(options, Option{ID: optionId, Text: optionText})
		})

		if text == "" || len(options) == 0 {
			slog.DebugContext(ctx, "skipping malformed question container",
				"id", id, "has_text", text != "", "options", len(options))
			return
		}

		questions = append(questions, Question{
			ID:       id,
			Text:     text,
			ImageRef: imageRef,
			Options:  options,
		})
	})

	span.SetAttributes(attribute.Int("questions", len(questions)))
	slog.InfoContext(ctx, "extracted questions", "count", len(questions))

	return questions, nil
}
