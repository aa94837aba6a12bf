package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/config"
	"github.com/rolepilot/pkg/models"
)

const (
	// Temperature leans deterministic; prompt assembly carries the variation.
	Temperature = 0.3

	// DefaultMaxTokens is the output budget when the exchange sets none.
	DefaultMaxTokens = 4096

	// DefaultTimeout bounds a single exchange. The vendor SDKs impose none
	// of their own, and an interactive tool must never hang indefinitely.
	DefaultTimeout = 30 * time.Second
)

// Client executes exactly one request/response exchange per call. No
// retries, no backoff, no caching, no logging: failures are classified and
// returned for the caller to surface.
type Client struct {
	cat     *catalog.Catalog
	cfg     *config.Config
	timeout time.Duration

	// newModel builds the vendor client; swapped out in tests.
	newModel func(ctx context.Context, p models.Provider, apiKey, vendorModel string) (llms.Model, error)
}

// NewClient creates a transport over the given catalog and configuration.
func NewClient(cat *catalog.Catalog, cfg *config.Config) *Client {
	return &Client{
		cat:      cat,
		cfg:      cfg,
		timeout:  DefaultTimeout,
		newModel: newVendorModel,
	}
}

// Callable reports whether the provider can be reached over a direct API.
// Cursor models are only usable inside the Cursor editor itself; callers
// fall back to a callable model before issuing a request.
func Callable(p models.Provider) bool {
	switch p {
	case models.ProviderOpenAI, models.ProviderAnthropic, models.ProviderGoogle, models.ProviderLocal:
		return true
	}
	return false
}

// Complete sends the exchange and returns the generated text with usage, or
// a classified error: *models.TransportError for network-level failures,
// *models.VendorError for non-success vendor responses.
func (c *Client) Complete(ctx context.Context, ex models.Exchange) (models.ChatResult, error) {
	mdl, ok := c.cat.ByID(ex.ModelID)
	if !ok {
		return models.ChatResult{}, fmt.Errorf("%w: %s", models.ErrUnknownModel, ex.ModelID)
	}
	if !Callable(mdl.Provider) {
		return models.ChatResult{}, &models.VendorError{
			Provider: mdl.Provider,
			Message:  "provider has no direct API endpoint",
		}
	}

	apiKey := c.cfg.APIKey(mdl.Provider)
	if mdl.Provider.RequiresAPIKey() && apiKey == "" {
		return models.ChatResult{}, fmt.Errorf("%w: %s", models.ErrMissingCredential, mdl.Provider)
	}

	vendorModel := c.cat.VendorName(ex.ModelID)

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	llm, err := c.newModel(ctx, mdl.Provider, apiKey, vendorModel)
	if err != nil {
		return models.ChatResult{}, &models.TransportError{Err: err}
	}

	maxTokens := ex.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	content := make([]llms.MessageContent, 0, len(ex.Messages))
	for _, msg := range ex.Messages {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	resp, err := llm.GenerateContent(ctx, content,
		llms.WithModel(vendorModel),
		llms.WithTemperature(Temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return models.ChatResult{}, classifyError(mdl.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return models.ChatResult{}, &models.VendorError{Provider: mdl.Provider, Message: "empty response"}
	}

	choice := resp.Choices[0]
	return models.ChatResult{
		Text:  choice.Content,
		Model: vendorModel,
		Usage: usageFromInfo(choice.GenerationInfo),
	}, nil
}

func chatMessageType(role models.ChatRole) schema.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	}
	return schema.ChatMessageTypeHuman
}

// classifyError separates failures to reach the endpoint from failures the
// endpoint reported.
func classifyError(p models.Provider, err error) error {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &models.TransportError{Err: err}
	}
	return &models.VendorError{Provider: p, Message: err.Error()}
}

// usageFromInfo extracts token counts from the vendor-specific generation
// info map; nil when the vendor reported none.
func usageFromInfo(info map[string]any) *models.Usage {
	if info == nil {
		return nil
	}
	prompt := intFromInfo(info, "PromptTokens")
	completion := intFromInfo(info, "CompletionTokens")
	total := intFromInfo(info, "TotalTokens")
	if prompt == 0 && completion == 0 && total == 0 {
		return nil
	}
	if total == 0 {
		total = prompt + completion
	}
	return &models.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
	}
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// newVendorModel builds the langchaingo client for a provider.
func newVendorModel(ctx context.Context, p models.Provider, apiKey, vendorModel string) (llms.Model, error) {
	switch p {
	case models.ProviderOpenAI:
		return openai.New(
			openai.WithToken(apiKey),
			openai.WithModel(vendorModel),
		)
	case models.ProviderAnthropic:
		return anthropic.New(
			anthropic.WithToken(apiKey),
			anthropic.WithModel(vendorModel),
		)
	case models.ProviderGoogle:
		return googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
		)
	case models.ProviderLocal:
		return ollama.New(
			ollama.WithServerURL("http://localhost:11434"),
			ollama.WithModel(vendorModel),
		)
	}
	return nil, fmt.Errorf("unsupported provider: %s", p)
}
