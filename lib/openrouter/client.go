package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizsolver/lib/telemetry"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("openrouter")

const DefaultBaseUrl = "https://openrouter.ai/api/v1"

// StatusError carries a non-2xx chat completion response. The solver
// treats it as "no answer for this question", never as a fatal error.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("openrouter: status %d: %s", e.Code, e.Body)
}

type Client struct {
	http        *resty.Client
	model       string
	maxTokens   int
	temperature float64
	cache       answerCache
}

type ClientOptions struct {
	BaseUrl string
	ApiKey  string
	Model   string
	// MaxTokens defaults to 150, enough for LETTER|CONFIDENCE|REASONING
	// plus slack.
	MaxTokens int
	// Temperature defaults to 0.1, quiz answers should be deterministic.
	Temperature float64
	// Cache enables reply caching when set, repeated questions then skip
	// the paid call entirely.
	Cache *badger.DB
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 150
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.1
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(time.Second * 30)
	client.SetHeader("Authorization", "Bearer "+opts.ApiKey)
	client.SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(client, "openrouter/http")

	return &Client{
		http:        client,
		model:       opts.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		cache:       answerCache{db: opts.Cache, model: opts.Model},
	}
}

func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask sends a single user-role message and returns the first completion
// choice's text, trimmed. No conversation history is kept, every call is
// independent.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Ask")
	defer span.End()
	span.SetAttributes(attribute.String("model", c.model))

	if reply, err := c.cache.get(ctx, prompt); err == nil {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return reply, nil
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", err
	}
	if !res.IsSuccess() {
		err := StatusError{Code: res.StatusCode(), Body: res.String()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-2xx status")
		return "", err
	}

	var parsed chatResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse response body")
		return "", err
	}
	if len(parsed.Choices) == 0 {
		err := fmt.Errorf("openrouter: response carried no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)

	err = c.cache.set(ctx, prompt, reply)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cache reply")
	}

	return reply, nil
}
