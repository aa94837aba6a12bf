package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rolepilot/pkg/models"
)

// FallbackOpenAIKey is the built-in credential used only when the user has
// not set providers.openai.api_key. It exists so the tool can work out of the
// box; leave it empty in source control.
const FallbackOpenAIKey = ""

// GeneralConfig holds the top-level behavior switches.
type GeneralConfig struct {
	DefaultPersona          string `koanf:"default_persona"`
	DefaultModel            string `koanf:"default_model"`
	AutoPromptEnhancement   bool   `koanf:"auto_prompt_enhancement"`
	PersonaAutoSwitch       bool   `koanf:"persona_auto_switch"`
	SuggestionMode          string `koanf:"suggestion_mode"`
	SuggestionReasoningHint bool   `koanf:"suggestion_reasoning_hint"`
	StatePath               string `koanf:"state_path"`
	SessionLog              bool   `koanf:"session_log"`
	SessionLogDir           string `koanf:"session_log_dir"`
}

// ProviderConfig is the per-vendor block.
type ProviderConfig struct {
	APIKey       string `koanf:"api_key"`
	Enabled      bool   `koanf:"enabled"`
	DefaultModel string `koanf:"default_model"`
}

// InlineConfig tunes inline suggestions.
type InlineConfig struct {
	Enabled         bool   `koanf:"enabled"`
	MaxTokens       int    `koanf:"max_tokens"`
	MinPrefixLength int    `koanf:"min_prefix_length"`
	UseFastModel    bool   `koanf:"use_fast_model"`
	FastModel       string `koanf:"fast_model"`
}

// ServerConfig configures the local HTTP facade.
type ServerConfig struct {
	Listen string `koanf:"listen"`
}

// Config is the fully-populated application configuration. Every default is
// declared once, in the confmap layer of LoadConfig.
type Config struct {
	General   GeneralConfig             `koanf:"general"`
	Providers map[string]ProviderConfig `koanf:"providers"`
	Inline    InlineConfig              `koanf:"inline"`
	Server    ServerConfig              `koanf:"server"`
}

// LoadConfig loads configuration with layered precedence: built-in defaults,
// then a TOML file, then ROLEPILOT_* environment variables.
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"general.default_persona":           "backend",
		"general.default_model":             "gpt-4-turbo",
		"general.auto_prompt_enhancement":   true,
		"general.persona_auto_switch":       false,
		"general.suggestion_mode":           "safe",
		"general.suggestion_reasoning_hint": false,
		"general.state_path":                "",
		"general.session_log":               false,
		"general.session_log_dir":           "",

		"providers.openai.enabled":          false,
		"providers.openai.default_model":    "gpt-4-turbo",
		"providers.anthropic.enabled":       false,
		"providers.anthropic.default_model": "claude-3-sonnet",
		"providers.google.enabled":          false,
		"providers.google.default_model":    "gemini-pro",
		"providers.cursor.enabled":          true,
		"providers.cursor.default_model":    "cursor-default",
		"providers.local.enabled":           false,
		"providers.local.default_model":     "llama3",

		"inline.enabled":           true,
		"inline.max_tokens":        64,
		"inline.min_prefix_length": 1,
		"inline.use_fast_model":    true,
		"inline.fast_model":        "gpt-3.5-turbo",

		"server.listen": "127.0.0.1:8787",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try default locations; rpdata first for containerized setups.
		defaultPaths := []string{"./rpdata/rolepilot.toml", "./rolepilot.toml", "$HOME/.rolepilot.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("ROLEPILOT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "ROLEPILOT_")), "_", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// The built-in OpenAI key takes effect only when the user set none, and
	// implicitly enables the provider so the tool works out of the box.
	if oc, ok := config.Providers[string(models.ProviderOpenAI)]; ok {
		if strings.TrimSpace(oc.APIKey) == "" && strings.TrimSpace(FallbackOpenAIKey) != "" {
			oc.APIKey = strings.TrimSpace(FallbackOpenAIKey)
			oc.Enabled = true
			config.Providers[string(models.ProviderOpenAI)] = oc
		}
	}

	return &config, nil
}

// Provider returns the configuration block for a provider; the zero value
// (disabled, no key) when the block is absent.
func (c *Config) Provider(p models.Provider) ProviderConfig {
	return c.Providers[string(p)]
}

// APIKey returns the trimmed credential for a provider, empty when none.
func (c *Config) APIKey(p models.Provider) string {
	return strings.TrimSpace(c.Provider(p).APIKey)
}

// Mode returns the configured suggestion mode, falling back to safe for
// unknown values.
func (c *Config) Mode() models.SuggestionMode {
	switch models.SuggestionMode(c.General.SuggestionMode) {
	case models.ModeSafe, models.ModeMinimal, models.ModeVerbose:
		return models.SuggestionMode(c.General.SuggestionMode)
	}
	return models.ModeSafe
}

// Validate checks that the configuration is internally coherent.
func Validate(config *Config) error {
	if config.General.DefaultPersona == "" {
		return fmt.Errorf("default persona is required")
	}
	if config.General.DefaultModel == "" {
		return fmt.Errorf("default model is required")
	}
	switch models.SuggestionMode(config.General.SuggestionMode) {
	case models.ModeSafe, models.ModeMinimal, models.ModeVerbose:
	default:
		return fmt.Errorf("invalid suggestion mode: %q", config.General.SuggestionMode)
	}
	return nil
}

// InitConfig writes a starter configuration file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# RolePilot Configuration

[general]
default_persona = "backend"
default_model = "gpt-4-turbo"
suggestion_mode = "safe"
persona_auto_switch = false

[providers.openai]
api_key = "your-openai-api-key"
enabled = true
default_model = "gpt-4-turbo"

[providers.anthropic]
enabled = false
default_model = "claude-3-sonnet"

[server]
listen = "127.0.0.1:8787"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}
