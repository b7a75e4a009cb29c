package solver

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"quizsolver/lib/browser"
	"quizsolver/lib/openrouter"
	"quizsolver/lib/textutil"
	solverdb "quizsolver/services/solver/db"

	"github.com/PuerkitoBio/purell"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Options struct {
	QuizURL string
	// Delay paces consecutive model calls, DefaultAskDelay when zero.
	Delay time.Duration
	// Pace is the base delay between applying two answers,
	// DefaultApplyPace when zero.
	Pace time.Duration
	// DryRun stops after answering: nothing is applied or submitted.
	DryRun bool
	// ResultsPath, when set, is where the run's JSON record is written.
	ResultsPath string
}

// Service wires the whole pipeline together: navigate, extract, answer,
// apply, submit, persist. Per-question failures are absorbed along the
// way; only session-level failures (navigation, browser session) make Run
// return an error.
type Service struct {
	page  browser.Page
	llm   *openrouter.Client
	store *solverdb.Store
	opts  Options
}

func NewService(page browser.Page, llm *openrouter.Client, store *solverdb.Store, opts Options) Service {
	if opts.Delay <= 0 {
		opts.Delay = DefaultAskDelay
	}
	if opts.Pace <= 0 {
		opts.Pace = DefaultApplyPace
	}
	return Service{page: page, llm: llm, store: store, opts: opts}
}

func (s Service) Run(ctx context.Context) (RunResult, error) {
	ctx, span := tracer.Start(ctx, "service:Run")
	defer span.End()

	startedAt := time.Now()
	quizURL := normalizeQuizURL(s.opts.QuizURL)
	span.SetAttributes(attribute.String("quiz_url", quizURL))

	slog.InfoContext(ctx, "starting quiz run", "url", quizURL, "dry_run", s.opts.DryRun)

	err := s.page.Navigate(ctx, quizURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach quiz page")
		s.screenshotBestEffort(ctx, "error_screenshot.png")
		return RunResult{}, fmt.Errorf("navigate to quiz: %w", err)
	}

	s.acceptCookies(ctx)
	s.waitForQuizContainer(ctx)

	pageHtml, err := s.page.HTML(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read page markup")
		s.screenshotBestEffort(ctx, "error_screenshot.png")
		return RunResult{}, fmt.Errorf("read quiz page: %w", err)
	}

	questions, err := ExtractQuestions(ctx, pageHtml)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse quiz page")
		return RunResult{}, fmt.Errorf("extract questions: %w", err)
	}

	sequencer := NewSequencer(s.llm.Ask, s.opts.Delay)
	decisions := sequencer.Answer(ctx, questions)
	slog.InfoContext(ctx, "answering finished",
		"questions", len(questions), "answered", len(decisions))

	if !s.opts.DryRun {
		applier := Applier{Page: s.page, Pace: s.opts.Pace}
		applier.Apply(ctx, decisions)

		if applier.Submit(ctx) {
			s.page.Wait(ctx, time.Second*3)
			s.screenshotBestEffort(ctx, "quiz_completed.png")
		} else {
			slog.InfoContext(ctx, "no submit control found, quiz may auto-submit")
			s.screenshotBestEffort(ctx, "quiz_final_state.png")
		}
	}

	result := RunResult{
		RunID:      uuid.NewString(),
		QuizURL:    quizURL,
		Questions:  questions,
		Decisions:  decisions,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}

	if s.opts.ResultsPath != "" {
		err := WriteResults(s.opts.ResultsPath, result)
		if err != nil {
			slog.WarnContext(ctx, "failed to write results file",
				"path", s.opts.ResultsPath, "err", err)
		}
	}
	if s.store != nil {
		err := s.store.RecordRun(ctx, solverdb.Run{
			ID:         result.RunID,
			QuizURL:    result.QuizURL,
			Questions:  len(result.Questions),
			Answered:   len(result.Decisions),
			StartedAt:  result.StartedAt,
			FinishedAt: result.FinishedAt,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record run history", "err", err)
		}
	}

	return result, nil
}

// quiz urls arrive from config or the command line, normalize them so the
// persisted record and the run-history keys stay stable across trailing
// slashes and fragment noise
func normalizeQuizURL(raw string) string {
	link, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return purell.NormalizeURL(link, purell.FlagsSafe|purell.FlagRemoveFragment|purell.FlagSortQuery)
}

var cookieConsentLabels = []string{"iaccept", "accept"}

// cookie banners block the quiz markup on most hosts, dismiss them
// best-effort and move on either way
func (s Service) acceptCookies(ctx context.Context) {
	buttons, err := s.page.FindAll(ctx, "button")
	if err != nil {
		slog.DebugContext(ctx, "cookie consent probe failed", "err", err)
		return
	}
	for _, b := range buttons {
		if !textutil.MatchLabel(b.Text, cookieConsentLabels) {
			continue
		}
		if err := s.page.Click(ctx, b); err != nil {
			slog.DebugContext(ctx, "failed to dismiss cookie banner", "err", err)
			return
		}
		slog.InfoContext(ctx, "accepted cookie banner", "label", b.Text)
		s.page.Wait(ctx, time.Second*2)
		return
	}
}

// the quiz container id is generated per post, locate it dynamically
// instead of hardcoding one
const findQuizContainerScript = `(() => {
	const byId = document.querySelectorAll('[id*="wpvq-quiz"]');
	if (byId.length > 0) {
		return byId[0].id;
	}
	const byClass = document.querySelectorAll('.wpvq');
	if (byClass.length > 0) {
		return byClass[0].id || 'wpvq-found';
	}
	return '';
})()`

func (s Service) waitForQuizContainer(ctx context.Context) {
	var containerId string
	err := s.page.Evaluate(ctx, findQuizContainerScript, &containerId)
	if err != nil || containerId == "" {
		slog.WarnContext(ctx, "quiz container not located, proceeding anyway", "err", err)
		return
	}
	slog.InfoContext(ctx, "found quiz container", "id", containerId)
	s.page.Wait(ctx, time.Second*2)
}

func (s Service) screenshotBestEffort(ctx context.Context, path string) {
	err := s.page.Screenshot(ctx, path)
	if err != nil {
		slog.DebugContext(ctx, "screenshot failed", "path", path, "err", err)
		return
	}
	slog.InfoContext(ctx, "saved screenshot", "path", path)
}
