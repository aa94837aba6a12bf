package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolepilot/pkg/models"
)

// chdir switches the working directory for the test, restoring it on
// cleanup. Stand-in for testing.T.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // keep stray rolepilot.toml files out of the search path

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "backend", cfg.General.DefaultPersona)
	assert.Equal(t, "gpt-4-turbo", cfg.General.DefaultModel)
	assert.Equal(t, "safe", cfg.General.SuggestionMode)
	assert.True(t, cfg.General.AutoPromptEnhancement)
	assert.False(t, cfg.General.PersonaAutoSwitch)

	assert.True(t, cfg.Inline.Enabled)
	assert.Equal(t, 64, cfg.Inline.MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Inline.FastModel)

	// Cursor needs no key and ships enabled; keyed providers ship disabled.
	assert.True(t, cfg.Provider(models.ProviderCursor).Enabled)
	assert.False(t, cfg.Provider(models.ProviderOpenAI).Enabled)

	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Listen)
}

func TestLoadConfig_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolepilot.toml")
	content := `
[general]
default_persona = "react"
suggestion_mode = "minimal"

[providers.anthropic]
api_key = "sk-ant-test"
enabled = true

[inline]
max_tokens = 32
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "react", cfg.General.DefaultPersona)
	assert.Equal(t, "minimal", cfg.General.SuggestionMode)
	assert.Equal(t, models.ModeMinimal, cfg.Mode())
	assert.Equal(t, 32, cfg.Inline.MaxTokens)

	assert.True(t, cfg.Provider(models.ProviderAnthropic).Enabled)
	assert.Equal(t, "sk-ant-test", cfg.APIKey(models.ProviderAnthropic))

	// Untouched keys keep their defaults.
	assert.Equal(t, "gpt-4-turbo", cfg.General.DefaultModel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROLEPILOT_SERVER_LISTEN", "127.0.0.1:9999")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Listen)
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestConfig_ModeFallsBackToSafe(t *testing.T) {
	cfg := &Config{General: GeneralConfig{SuggestionMode: "reckless"}}
	assert.Equal(t, models.ModeSafe, cfg.Mode())
}

func TestConfig_APIKeyTrimsWhitespace(t *testing.T) {
	cfg := &Config{Providers: map[string]ProviderConfig{
		"openai": {APIKey: "  sk-test  "},
	}}
	assert.Equal(t, "sk-test", cfg.APIKey(models.ProviderOpenAI))
	assert.Empty(t, cfg.APIKey(models.ProviderGoogle))
}

func TestValidate(t *testing.T) {
	valid := &Config{General: GeneralConfig{
		DefaultPersona: "backend",
		DefaultModel:   "gpt-4-turbo",
		SuggestionMode: "safe",
	}}
	assert.NoError(t, Validate(valid))

	noPersona := &Config{General: GeneralConfig{DefaultModel: "gpt-4", SuggestionMode: "safe"}}
	assert.Error(t, Validate(noPersona))

	badMode := &Config{General: GeneralConfig{
		DefaultPersona: "backend",
		DefaultModel:   "gpt-4",
		SuggestionMode: "reckless",
	}}
	assert.Error(t, Validate(badMode))
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolepilot.toml")

	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	// Refuses to clobber an existing file.
	assert.Error(t, InitConfig(path))
}
