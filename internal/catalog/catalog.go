package catalog

import (
	"github.com/rolepilot/pkg/models"
)

// DefaultModels is the built-in model catalog. Declaration order is the
// stable tie-break for recommendations and the fallback order for "first
// enabled model".
var DefaultModels = []models.Model{
	{
		ID:                "gpt-4-turbo",
		Name:              "gpt-4-turbo-preview",
		DisplayName:       "GPT-4 Turbo",
		Provider:          models.ProviderOpenAI,
		Description:       "Most capable model, best for complex tasks",
		Capabilities:      []string{"coding", "reasoning", "analysis"},
		ContextWindow:     128000,
		Pricing:           &models.Pricing{Input: 10, Output: 30},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "gpt-4",
		Name:              "gpt-4",
		DisplayName:       "GPT-4",
		Provider:          models.ProviderOpenAI,
		Description:       "Reliable and powerful for most tasks",
		Capabilities:      []string{"coding", "reasoning", "analysis"},
		ContextWindow:     8192,
		Pricing:           &models.Pricing{Input: 30, Output: 60},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "gpt-3.5-turbo",
		Name:              "gpt-3.5-turbo",
		DisplayName:       "GPT-3.5 Turbo",
		Provider:          models.ProviderOpenAI,
		Description:       "Fast and cost-effective",
		Capabilities:      []string{"coding", "general"},
		ContextWindow:     16385,
		Pricing:           &models.Pricing{Input: 0.5, Output: 1.5},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "claude-3-opus",
		Name:              "claude-3-opus-20240229",
		DisplayName:       "Claude 3 Opus",
		Provider:          models.ProviderAnthropic,
		Description:       "Most intelligent, best for complex analysis",
		Capabilities:      []string{"coding", "reasoning", "analysis", "long-context"},
		ContextWindow:     200000,
		Pricing:           &models.Pricing{Input: 15, Output: 75},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "claude-3-sonnet",
		Name:              "claude-3-sonnet-20240229",
		DisplayName:       "Claude 3 Sonnet",
		Provider:          models.ProviderAnthropic,
		Description:       "Balanced performance and cost",
		Capabilities:      []string{"coding", "reasoning", "analysis"},
		ContextWindow:     200000,
		Pricing:           &models.Pricing{Input: 3, Output: 15},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "claude-3-haiku",
		Name:              "claude-3-haiku-20240307",
		DisplayName:       "Claude 3 Haiku",
		Provider:          models.ProviderAnthropic,
		Description:       "Fast and affordable",
		Capabilities:      []string{"coding", "general"},
		ContextWindow:     200000,
		Pricing:           &models.Pricing{Input: 0.25, Output: 1.25},
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "gemini-pro",
		Name:              "gemini-pro",
		DisplayName:       "Gemini Pro",
		Provider:          models.ProviderGoogle,
		Description:       "Google's advanced AI model",
		Capabilities:      []string{"coding", "reasoning", "multimodal"},
		ContextWindow:     32768,
		Pricing:           &models.Pricing{Input: 0.5, Output: 1.5},
		MaxTokens:         2048,
		SupportsStreaming: true,
		SupportsFunctions: true,
	},
	{
		ID:                "cursor-default",
		Name:              "cursor-default",
		DisplayName:       "Cursor Default",
		Provider:          models.ProviderCursor,
		Description:       "Cursor's native AI model",
		Capabilities:      []string{"coding", "ide-integration"},
		ContextWindow:     100000,
		MaxTokens:         4096,
		SupportsStreaming: true,
		SupportsFunctions: false,
	},
}

// Catalog provides model lookup over an ordered model list.
type Catalog struct {
	ordered []models.Model
	byID    map[string]*models.Model
}

// NewCatalog builds a catalog over the given models, preserving order.
func NewCatalog(list []models.Model) *Catalog {
	c := &Catalog{
		ordered: make([]models.Model, len(list)),
		byID:    make(map[string]*models.Model, len(list)),
	}
	copy(c.ordered, list)
	for i := range c.ordered {
		c.byID[c.ordered[i].ID] = &c.ordered[i]
	}
	return c
}

// NewDefaultCatalog builds a catalog over the built-in model table.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultModels)
}

// ByID looks a model up by its friendly id.
func (c *Catalog) ByID(id string) (*models.Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// List returns all models in declaration order.
func (c *Catalog) List() []models.Model {
	out := make([]models.Model, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByProvider returns the models of one provider in declaration order.
func (c *Catalog) ByProvider(p models.Provider) []models.Model {
	var out []models.Model
	for _, m := range c.ordered {
		if m.Provider == p {
			out = append(out, m)
		}
	}
	return out
}

// VendorName maps a friendly model id to the vendor-specific model string
// used on the wire. Unknown ids pass through unchanged so experimental model
// names can still be sent.
func (c *Catalog) VendorName(id string) string {
	if m, ok := c.byID[id]; ok {
		return m.Name
	}
	return id
}
