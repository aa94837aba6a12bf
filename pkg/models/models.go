package models

// Core data types shared across the RolePilot engine.

// Provider identifies a chat-completion vendor.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderCursor    Provider = "cursor"
	ProviderLocal     Provider = "local"
)

// RequiresAPIKey reports whether the provider needs a credential to be
// considered configured. Cursor and local models run without a key.
func (p Provider) RequiresAPIKey() bool {
	return p != ProviderCursor && p != ProviderLocal
}

// Persona is an immutable bias profile applied to AI requests.
type Persona struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Icon         string   `json:"icon"`
	Description  string   `json:"description"`
	FocusAreas   []string `json:"focus_areas"`
	FilePatterns []string `json:"file_patterns"`
	PromptBias   string   `json:"prompt_bias"`
}

// Pricing is cost per one million tokens.
type Pricing struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Model describes one selectable AI model.
type Model struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"` // vendor-specific model string
	DisplayName       string   `json:"display_name"`
	Provider          Provider `json:"provider"`
	Description       string   `json:"description"`
	Capabilities      []string `json:"capabilities"`
	ContextWindow     int      `json:"context_window"`
	Pricing           *Pricing `json:"pricing,omitempty"`
	MaxTokens         int      `json:"max_tokens"`
	SupportsStreaming bool     `json:"supports_streaming"`
	SupportsFunctions bool     `json:"supports_functions"`
}

// HasCapability reports whether the model declares the given task tag.
func (m *Model) HasCapability(tag string) bool {
	for _, c := range m.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// ChatRole tags a message in an exchange.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one role-tagged message.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Exchange is a fully assembled request: the ordered message list plus the
// token budget and target model. Produced by the prompt assembler, consumed
// by the chat transport. Never persisted.
type Exchange struct {
	ModelID   string        `json:"model_id"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// Usage reports token consumption for one exchange.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the outcome of one transport call.
type ChatResult struct {
	Text  string `json:"text"`
	Model string `json:"model"` // model echoed by the vendor
	Usage *Usage `json:"usage,omitempty"`
}
