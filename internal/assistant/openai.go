package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	defaultModel       = goopenai.GPT3Dot5Turbo
	defaultTemperature = 0.7
	systemPrompt       = "You are a helpful travel planner."
)

// ErrEmptyResponse is returned when the API answers without any choice.
var ErrEmptyResponse = errors.New("language model returned no choices")

// Generator turns a prompt into free-form text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type options struct {
	token       string
	model       string
	baseURL     string
	temperature float32
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// Option configures an OpenAI generator.
type Option func(*options)

// WithToken sets the API key.
func WithToken(token string) Option { return func(o *options) { o.token = token } }

// WithModel sets the chat model. Empty keeps the default.
func WithModel(model string) Option { return func(o *options) { o.model = model } }

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option { return func(o *options) { o.baseURL = u } }

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option { return func(o *options) { o.temperature = t } }

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithLimiter paces requests. Each Generate waits for one token.
func WithLimiter(l *rate.Limiter) Option { return func(o *options) { o.limiter = l } }

// OpenAI is a Generator backed by the chat completions API.
type OpenAI struct {
	client      *goopenai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI returns an OpenAI generator. The API key is required.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	o := &options{
		model:       defaultModel,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.token == "" {
		return nil, errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable")
	}
	if o.model == "" {
		o.model = defaultModel
	}

	config := goopenai.DefaultConfig(o.token)
	if o.baseURL != "" {
		config.BaseURL = strings.TrimRight(o.baseURL, "/")
	}
	if o.httpClient != nil {
		config.HTTPClient = o.httpClient
	}

	return &OpenAI{
		client:      goopenai.NewClientWithConfig(config),
		model:       o.model,
		temperature: o.temperature,
		limiter:     o.limiter,
	}, nil
}

// Generate sends prompt with the travel planner system message and returns
// the first choice's content.
func (g *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
