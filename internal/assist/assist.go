// Package assist orchestrates one AI assistance task end to end: persona and
// model resolution, pre-flight credential checks, prompt assembly, the
// transport call, and response sanitization.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/config"
	"github.com/rolepilot/internal/logging"
	"github.com/rolepilot/internal/projectstyle"
	"github.com/rolepilot/internal/prompt"
	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/internal/sanitize"
	"github.com/rolepilot/internal/selection"
	"github.com/rolepilot/internal/transport"
	"github.com/rolepilot/pkg/models"
)

// inlineInterval throttles inline suggestions so rapid typing cannot flood
// the vendor API.
const inlineInterval = 500 * time.Millisecond

// ChatClient is the transport surface the engine needs; satisfied by
// *transport.Client and by mocks in tests.
type ChatClient interface {
	Complete(ctx context.Context, ex models.Exchange) (models.ChatResult, error)
}

// Request carries the editor-side inputs for one task. Fields irrelevant to
// the task kind are ignored.
type Request struct {
	Kind       models.TaskKind `json:"kind"`
	LanguageID string          `json:"language_id"`
	FileName   string          `json:"file_name"`

	Code          string `json:"code"`
	ContextBefore string `json:"context_before"`
	ContextAfter  string `json:"context_after"`
	Diagnostic    string `json:"diagnostic"`
	Instruction   string `json:"instruction"`

	// ProjectDir, when set, is scanned for style conventions to fold into
	// the prompt.
	ProjectDir string `json:"project_dir"`

	// Automatic marks an editor-triggered (not user-invoked) inline request;
	// those are subject to the minimum prefix length gate.
	Automatic bool `json:"automatic"`
}

// Result is the outcome of one completed task. Empty means the model
// produced no usable content; that is a valid outcome, not an error.
type Result struct {
	RequestID string          `json:"request_id"`
	Kind      models.TaskKind `json:"kind"`
	Persona   string          `json:"persona"`
	Model     string          `json:"model"`
	Content   string          `json:"content"`
	Empty     bool            `json:"empty"`

	Usage    *models.Usage `json:"usage,omitempty"`
	Cost     float64       `json:"cost,omitempty"`
	CostKnow bool          `json:"cost_known"`

	Enhancements []prompt.Enhancement `json:"enhancements,omitempty"`
}

// Engine wires the catalogs, selection state, assembler, and transport into
// per-task orchestrations.
type Engine struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	personas *roles.Catalog
	sel      *selection.Manager
	asm      *prompt.Assembler
	enh      *prompt.Enhancer
	client   ChatClient

	inlineLimiter *rate.Limiter
}

func NewEngine(cfg *config.Config, cat *catalog.Catalog, personas *roles.Catalog, sel *selection.Manager, client ChatClient) *Engine {
	return &Engine{
		cfg:           cfg,
		cat:           cat,
		personas:      personas,
		sel:           sel,
		asm:           prompt.NewAssembler(personas),
		enh:           prompt.NewEnhancer(personas),
		client:        client,
		inlineLimiter: rate.NewLimiter(rate.Every(inlineInterval), 1),
	}
}

// Do runs one task. Validation failures (unknown model, disabled provider,
// missing credential) surface as errors before any network I/O; transport
// and vendor failures surface as their classified error types. Inline tasks
// degrade softly instead: gating and transport failures yield an empty
// result so the editor just shows nothing.
func (e *Engine) Do(ctx context.Context, req Request) (Result, error) {
	id := uuid.NewString()
	res := Result{RequestID: id, Kind: req.Kind}

	if req.Kind == models.TaskInlineSuggest {
		if skip, reason := e.inlineGate(req); skip {
			log.Debug().Str("request_id", id).Str("reason", reason).Msg("Inline suggestion skipped")
			res.Empty = true
			return res, nil
		}
	}

	e.autoSwitchPersona(req)
	res.Persona = e.sel.CurrentPersona()
	res.Model = e.resolveModel(req.Kind)

	mdl, ok := e.cat.ByID(res.Model)
	if !ok {
		return res, fmt.Errorf("%w: %s", models.ErrUnknownModel, res.Model)
	}
	if mdl.Provider.RequiresAPIKey() && e.cfg.APIKey(mdl.Provider) == "" {
		if req.Kind == models.TaskInlineSuggest {
			log.Debug().Str("request_id", id).Msg("Inline suggestion skipped: no API key")
			res.Empty = true
			return res, nil
		}
		return res, fmt.Errorf("%w: %s", models.ErrMissingCredential, mdl.Provider)
	}

	task := e.buildTask(req, res.Persona, res.Model)
	if req.Kind == models.TaskGenerate && e.cfg.General.AutoPromptEnhancement {
		enhanced := e.enh.Enhance(req.Instruction, res.Persona, prompt.EnhanceContext{
			FileName:   req.FileName,
			LanguageID: req.LanguageID,
		})
		task.Instruction = enhanced.Enhanced
		res.Enhancements = enhanced.Enhancements
	}

	ex, err := e.asm.Assemble(task)
	if err != nil {
		return res, err
	}

	slog := logging.GetCurrentLogger()
	if len(ex.Messages) == 2 {
		slog.LogExchange(id, res.Model, ex.Messages[0].Content, ex.Messages[1].Content)
	}

	if err := ctx.Err(); err != nil {
		return e.discard(res, err)
	}
	chat, err := e.client.Complete(ctx, ex)
	if err != nil {
		slog.LogError(string(req.Kind), err)
		if req.Kind == models.TaskInlineSuggest {
			log.Debug().Str("request_id", id).Err(err).Msg("Inline suggestion failed")
			res.Empty = true
			return res, nil
		}
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return e.discard(res, err)
	}

	slog.LogResponse(id, chat.Text)

	snippetLines := countLines(req.Code)
	res.Content = sanitize.Clean(chat.Text, sanitize.MaxLinesFor(req.Kind, snippetLines))
	res.Empty = res.Content == ""
	res.Usage = chat.Usage
	if chat.Usage != nil {
		res.Cost, res.CostKnow = e.sel.CalculateCost(res.Model, chat.Usage.PromptTokens, chat.Usage.CompletionTokens)
	}

	evt := log.Info().
		Str("request_id", id).
		Str("kind", string(req.Kind)).
		Str("persona", res.Persona).
		Str("model", res.Model).
		Bool("empty", res.Empty)
	if res.Usage != nil {
		evt = evt.Int("total_tokens", res.Usage.TotalTokens)
	}
	if res.CostKnow {
		evt = evt.Float64("cost_usd", res.Cost)
	}
	evt.Msg("Task completed")

	return res, nil
}

// discard handles a request superseded mid-flight. Inline requests vanish
// quietly; everything else reports the cancellation.
func (e *Engine) discard(res Result, err error) (Result, error) {
	if res.Kind == models.TaskInlineSuggest {
		res.Empty = true
		res.Content = ""
		return res, nil
	}
	return res, &models.TransportError{Err: err}
}

// inlineGate applies the inline-only checks: feature flag, minimum prefix
// length on automatic triggers, and the typing rate limit.
func (e *Engine) inlineGate(req Request) (bool, string) {
	if !e.cfg.Inline.Enabled {
		return true, "disabled"
	}
	if req.Automatic {
		prefix := req.Code
		if i := strings.LastIndexByte(prefix, '\n'); i >= 0 {
			prefix = prefix[i+1:]
		}
		if len(strings.TrimSpace(prefix)) < e.cfg.Inline.MinPrefixLength {
			return true, "prefix too short"
		}
	}
	if !e.inlineLimiter.Allow() {
		return true, "rate limited"
	}
	return false, ""
}

// autoSwitchPersona changes the active persona to the one matching the file
// when the feature is enabled. Detection misses keep the current persona.
func (e *Engine) autoSwitchPersona(req Request) {
	if !e.cfg.General.PersonaAutoSwitch || req.FileName == "" {
		return
	}
	name, ok := e.personas.AutoDetect(req.FileName, req.LanguageID)
	if !ok || name == e.sel.CurrentPersona() {
		return
	}
	if err := e.sel.SetPersona(name); err != nil {
		log.Warn().Err(err).Str("persona", name).Msg("Failed to auto-switch persona")
		return
	}
	log.Debug().Str("persona", name).Str("file", req.FileName).Msg("Persona auto-switched")
}

// resolveModel picks the model a task will actually use. Non-callable
// selections (cursor models have no direct endpoint) fall back to the OpenAI
// provider default, and inline tasks swap to the configured fast model.
func (e *Engine) resolveModel(kind models.TaskKind) string {
	id := e.sel.CurrentModel()
	if mdl, ok := e.cat.ByID(id); !ok || !transport.Callable(mdl.Provider) {
		fallback := e.cfg.Provider(models.ProviderOpenAI).DefaultModel
		if fallback == "" {
			fallback = "gpt-4-turbo"
		}
		id = fallback
	}
	if kind == models.TaskInlineSuggest && e.cfg.Inline.UseFastModel && e.cfg.Inline.FastModel != "" {
		id = e.cfg.Inline.FastModel
	}
	return id
}

// buildTask maps the request onto the assembler's task shape.
func (e *Engine) buildTask(req Request, persona, modelID string) models.Task {
	t := models.Task{
		Kind:          req.Kind,
		Persona:       persona,
		ModelID:       modelID,
		LanguageID:    req.LanguageID,
		FileName:      req.FileName,
		Code:          req.Code,
		ContextBefore: req.ContextBefore,
		ContextAfter:  req.ContextAfter,
		Diagnostic:    req.Diagnostic,
		Instruction:   req.Instruction,
		Mode:          e.cfg.Mode(),
		ReasoningHint: e.cfg.General.SuggestionReasoningHint,
	}
	if req.ProjectDir != "" && (req.Kind.ProducesCode() || req.Kind == models.TaskUnitTest) {
		t.ProjectStyle = projectstyle.Describe(req.ProjectDir)
	}
	if req.Kind == models.TaskSecurityReview {
		t.ScanHints = prompt.QuickScan(req.Code)
	}
	if req.Kind == models.TaskInlineSuggest && e.cfg.Inline.MaxTokens > 0 {
		t.MaxTokens = e.cfg.Inline.MaxTokens
	}
	return t
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
