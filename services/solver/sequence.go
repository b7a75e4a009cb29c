package solver

import (
	"context"
	"log/slog"
	"time"

	"quizsolver/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
)

// AskFunc sends one prompt to the model and returns its raw reply.
type AskFunc func(ctx context.Context, prompt string) (string, error)

// DefaultAskDelay matches the free-tier limit of 8 requests per minute.
const DefaultAskDelay = 8 * time.Second

// Sequencer drives prompt building, model calls and reply parsing across
// all questions, pacing consecutive calls with a fixed delay to stay
// under the provider's published rate limit. All work is serialized by
// design.
type Sequencer struct {
	Ask AskFunc
	// Delay is waited before every call except the first.
	Delay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewSequencer(ask AskFunc, delay time.Duration) Sequencer {
	return Sequencer{Ask: ask, Delay: delay, sleep: sleepContext}
}

// Answer processes questions strictly in extraction order and returns the
// decisions that succeeded. A failed model call or an unparseable reply
// skips that question and moves on, it never aborts the loop. The
// returned slice may be shorter than the input.
func (s Sequencer) Answer(ctx context.Context, questions []Question) []Decision {
	ctx, span := tracer.Start(ctx, "sequencer:Answer")
	defer span.End()

	sleep := s.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var decisions []Decision
	for i, q := range questions {
		if i > 0 && s.Delay > 0 {
			slog.DebugContext(ctx, "pacing before next model call", "delay", s.Delay)
			if err := sleep(ctx, s.Delay); err != nil {
				slog.WarnContext(ctx, "run cancelled while pacing", "err", err)
				break
			}
		}

		raw, err := s.Ask(ctx, BuildPrompt(q))
		if err != nil {
			slog.WarnContext(ctx, "model call failed, question unanswered",
				"question", q.ID, "err", err)
			continue
		}

		outcome := ParseResponse(raw, q)
		if !outcome.Answered {
			slog.WarnContext(ctx, "unparseable model reply, question unanswered",
				"question", q.ID, "reply", textutil.Truncate(raw, 100))
			continue
		}

		d := outcome.Decision
		slog.InfoContext(ctx, "question answered",
			"question", q.ID,
			"option", d.SelectedOptionID,
			"confidence", d.Confidence)
		decisions = append(decisions, d)
	}

	span.SetAttributes(
		attribute.Int("questions", len(questions)),
		attribute.Int("answered", len(decisions)),
	)
	return decisions
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
