package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolepilot/internal/assist"
	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/config"
	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/internal/selection"
	"github.com/rolepilot/internal/state"
	"github.com/rolepilot/pkg/models"
)

type stubClient struct {
	res models.ChatResult
	err error
}

func (s *stubClient) Complete(ctx context.Context, ex models.Exchange) (models.ChatResult, error) {
	return s.res, s.err
}

func newTestServer(t *testing.T, client assist.ChatClient) *Server {
	t.Helper()
	cfg := &config.Config{
		General: config.GeneralConfig{
			DefaultPersona: "Backend Developer",
			DefaultModel:   "gpt-4-turbo",
			SuggestionMode: "safe",
		},
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "sk-test", Enabled: true, DefaultModel: "gpt-4-turbo"},
		},
		Inline: config.InlineConfig{Enabled: true, MaxTokens: 64},
	}
	cat := catalog.NewDefaultCatalog()
	personas := roles.NewDefaultCatalog()
	store, err := state.NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	sel, err := selection.NewManager(cat, cfg, store)
	require.NoError(t, err)
	engine := assist.NewEngine(cfg, cat, personas, sel, client)
	return NewServer("127.0.0.1:0", engine, sel, personas, cat)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echoContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestAssist_Explain(t *testing.T) {
	s := newTestServer(t, &stubClient{res: models.ChatResult{
		Text:  "The variable is undefined.",
		Usage: &models.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}})

	rec := doRequest(t, s, http.MethodPost, "/api/v1/assist/explain",
		`{"code": "echo $x;", "language_id": "php", "diagnostic": "undefined variable"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res assist.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, models.TaskExplain, res.Kind)
	assert.Equal(t, "The variable is undefined.", res.Content)
	assert.Equal(t, "Backend Developer", res.Persona)
	assert.Equal(t, "gpt-4-turbo", res.Model)
	assert.NotEmpty(t, res.RequestID)
}

func TestAssist_UnknownTask(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodPost, "/api/v1/assist/refactor", `{"code": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssist_MissingCredential(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	// Strip the key after construction to trigger the pre-flight check.
	s.engine = func() *assist.Engine {
		cfg := &config.Config{
			General: config.GeneralConfig{
				DefaultPersona: "Backend Developer",
				DefaultModel:   "gpt-4-turbo",
				SuggestionMode: "safe",
			},
			Providers: map[string]config.ProviderConfig{
				"openai": {Enabled: true, DefaultModel: "gpt-4-turbo"},
			},
		}
		cat := catalog.NewDefaultCatalog()
		store, err := state.NewStore(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, err)
		sel, err := selection.NewManager(cat, cfg, store)
		require.NoError(t, err)
		return assist.NewEngine(cfg, cat, roles.NewDefaultCatalog(), sel, &stubClient{})
	}()

	rec := doRequest(t, s, http.MethodPost, "/api/v1/assist/fix", `{"code": "x", "diagnostic": "d"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestAssist_TransportFailure(t *testing.T) {
	s := newTestServer(t, &stubClient{err: &models.VendorError{Provider: models.ProviderOpenAI, Message: "quota"}})
	rec := doRequest(t, s, http.MethodPost, "/api/v1/assist/explain", `{"code": "x", "diagnostic": "d"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSelection_GetDefaults(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/selection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"persona":"Backend Developer","model":"gpt-4-turbo"}`, rec.Body.String())
}

func TestSelection_Put(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodPut, "/api/v1/selection",
		`{"persona":"React Developer","model":"gpt-3.5-turbo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"persona":"React Developer","model":"gpt-3.5-turbo"}`, rec.Body.String())

	// The change is visible on a subsequent read.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/selection", "")
	assert.JSONEq(t, `{"persona":"React Developer","model":"gpt-3.5-turbo"}`, rec.Body.String())
}

func TestSelection_PutRejectsUnconfiguredProvider(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodPut, "/api/v1/selection", `{"model":"claude-3-opus"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Selection is untouched after the rejection.
	rec = doRequest(t, s, http.MethodGet, "/api/v1/selection", "")
	assert.JSONEq(t, `{"persona":"Backend Developer","model":"gpt-4-turbo"}`, rec.Body.String())
}

func TestSelection_PutRejectsUnknownModel(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodPut, "/api/v1/selection", `{"model":"gpt-9"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPersonas_List(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/personas", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var personas []models.Persona
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &personas))
	require.Len(t, personas, 8)
	assert.Equal(t, "Backend Developer", personas[0].Name)
}

func TestModels_ListWithEnabledFlag(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 8)

	byID := map[string]bool{}
	for _, m := range out {
		byID[m.ID] = m.Enabled
	}
	assert.True(t, byID["gpt-4-turbo"])
	assert.False(t, byID["claude-3-opus"], "anthropic is not configured")
}

func TestModels_Recommended(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	rec := doRequest(t, s, http.MethodGet, "/api/v1/models/recommended?task=long-context", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var mdl models.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mdl))
	assert.Equal(t, "gpt-4-turbo", mdl.ID, "best enabled long-context model")
}

func TestModels_RecommendedNoneEnabled(t *testing.T) {
	s := newTestServer(t, &stubClient{})
	s.sel = func() *selection.Manager {
		cfg := &config.Config{General: config.GeneralConfig{
			DefaultPersona: "Backend Developer",
			DefaultModel:   "gpt-4-turbo",
		}}
		store, err := state.NewStore(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, err)
		sel, err := selection.NewManager(catalog.NewDefaultCatalog(), cfg, store)
		require.NoError(t, err)
		return sel
	}()

	rec := doRequest(t, s, http.MethodGet, "/api/v1/models/recommended?task=coding", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
