package prompt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/pkg/models"
)

func newTestAssembler() *Assembler {
	return NewAssembler(roles.NewDefaultCatalog())
}

func baseTask(kind models.TaskKind) models.Task {
	return models.Task{
		Kind:       kind,
		Persona:    "Laravel Developer",
		ModelID:    "gpt-4-turbo",
		LanguageID: "php",
		Code:       "echo $x;",
		Mode:       models.ModeSafe,
	}
}

func TestAssemble_MessageShape(t *testing.T) {
	a := newTestAssembler()

	ex, err := a.Assemble(baseTask(models.TaskExplain))
	require.NoError(t, err)

	require.Len(t, ex.Messages, 2)
	assert.Equal(t, models.RoleSystem, ex.Messages[0].Role)
	assert.Equal(t, models.RoleUser, ex.Messages[1].Role)
	assert.Equal(t, "gpt-4-turbo", ex.ModelID)
	assert.Equal(t, 1024, ex.MaxTokens)
}

func TestAssemble_UnknownKindFails(t *testing.T) {
	a := newTestAssembler()

	_, err := a.Assemble(models.Task{Kind: models.TaskKind("refactor")})
	assert.Error(t, err)
}

func TestAssemble_Deterministic(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskFix)
	task.Diagnostic = "expected }"
	task.ContextBefore = "function f() {"
	task.ContextAfter = "}"
	task.ProjectStyle = "Prettier: tabWidth 4"

	first, err := a.Assemble(task)
	require.NoError(t, err)
	second, err := a.Assemble(task)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestAssemble_SystemPromptSectionOrder(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskGenerate)
	task.Instruction = "write a validator"
	task.ProjectStyle = "Project style (follow exactly; never fight this):\n- Prettier: quotes single"

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	system := ex.Messages[0].Content

	persona, ok := roles.NewDefaultCatalog().FindByName("Laravel Developer")
	require.True(t, ok)

	positions := []int{
		strings.Index(system, IdentityPrefix),
		strings.Index(system, persona.PromptBias),
		strings.Index(system, AntiHallucination),
		strings.Index(system, "Output only the requested code"),
		strings.Index(system, SecurityBlock),
		strings.Index(system, task.ProjectStyle),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "section %d missing from system prompt", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "section %d out of order", i)
		}
	}
}

func TestAssemble_PersonaBiasInjectedVerbatim(t *testing.T) {
	a := newTestAssembler()
	persona, ok := roles.NewDefaultCatalog().FindByName("React Developer")
	require.True(t, ok)

	task := baseTask(models.TaskGenerate)
	task.Persona = "React Developer"
	task.Instruction = "build a hook"

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, persona.PromptBias)
	assert.Contains(t, ex.Messages[0].Content, strings.Join(persona.FocusAreas, ", "))
}

func TestAssemble_UnknownPersonaFallsBackToGenericBias(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskInlineSuggest)
	task.Persona = "Rust Developer"

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, GenericBias)
	assert.Contains(t, ex.Messages[0].Content, "Rust Developer")
}

func TestAssemble_SecurityBlockOnlyForCodeProducingKinds(t *testing.T) {
	a := newTestAssembler()

	withBlock := []models.TaskKind{models.TaskInlineSuggest, models.TaskFix, models.TaskGenerate}
	for _, kind := range withBlock {
		task := baseTask(kind)
		task.Instruction = "x"
		ex, err := a.Assemble(task)
		require.NoError(t, err)
		assert.Contains(t, ex.Messages[0].Content, SecurityBlock, "kind %s", kind)
	}

	without := []models.TaskKind{models.TaskExplain, models.TaskUnitTest, models.TaskEdgeCase}
	for _, kind := range without {
		ex, err := a.Assemble(baseTask(kind))
		require.NoError(t, err)
		assert.NotContains(t, ex.Messages[0].Content, SecurityBlock, "kind %s", kind)
	}
}

func TestAssemble_SuggestionModes(t *testing.T) {
	a := newTestAssembler()

	task := baseTask(models.TaskInlineSuggest)
	task.Mode = models.ModeMinimal
	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, ModeMinimalInstructions)
	assert.NotContains(t, ex.Messages[0].Content, ModeSafeInstructions)

	task.Mode = models.ModeVerbose
	ex, err = a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, ModeVerboseInstructions)

	// Unknown mode degrades to safe.
	task.Mode = models.SuggestionMode("yolo")
	ex, err = a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, ModeSafeInstructions)

	// Non-suggestion kinds carry no mode instructions at all.
	ex, err = a.Assemble(baseTask(models.TaskExplain))
	require.NoError(t, err)
	assert.NotContains(t, ex.Messages[0].Content, "Suggestion mode:")
}

func TestAssemble_ReasoningHintScope(t *testing.T) {
	a := newTestAssembler()

	task := baseTask(models.TaskInlineSuggest)
	task.ReasoningHint = true
	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[0].Content, ReasoningHintInstruction)

	task = baseTask(models.TaskFix)
	task.ReasoningHint = true
	ex, err = a.Assemble(task)
	require.NoError(t, err)
	assert.NotContains(t, ex.Messages[0].Content, ReasoningHintInstruction)
}

func TestAssemble_ReviewerKindsOverridePersona(t *testing.T) {
	a := newTestAssembler()
	persona, _ := roles.NewDefaultCatalog().FindByName("Laravel Developer")

	task := baseTask(models.TaskSecurityReview)
	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Equal(t, SecurityReviewerSystem, ex.Messages[0].Content)
	assert.NotContains(t, ex.Messages[0].Content, persona.PromptBias)

	task = baseTask(models.TaskRiskFlag)
	ex, err = a.Assemble(task)
	require.NoError(t, err)
	assert.Equal(t, RiskReviewerSystem, ex.Messages[0].Content)
}

func TestAssemble_SecurityReviewCarriesScanHints(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskSecurityReview)
	task.ScanHints = []string{"Possible hardcoded secret: API key, password, or token in plain text. Use env vars or config."}

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Contains(t, ex.Messages[1].Content, "Quick-scan hints (check these):")
	assert.Contains(t, ex.Messages[1].Content, task.ScanHints[0])

	task.ScanHints = nil
	ex, err = a.Assemble(task)
	require.NoError(t, err)
	assert.NotContains(t, ex.Messages[1].Content, "Quick-scan hints")
}

func TestAssemble_FixUserContainsAllContextSections(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskFix)
	task.Diagnostic = "expected }"
	task.ContextBefore = "function f() {"
	task.ContextAfter = "// end"

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	user := ex.Messages[1].Content
	assert.Contains(t, user, "Issue: expected }")
	assert.Contains(t, user, "function f() {")
	assert.Contains(t, user, "[SNIPPET TO FIX]")
	assert.Contains(t, user, "echo $x;")
	assert.Contains(t, user, "// end")
}

func TestAssemble_MaxTokenDefaultsAndOverride(t *testing.T) {
	a := newTestAssembler()

	defaults := map[models.TaskKind]int{
		models.TaskInlineSuggest:  64,
		models.TaskFix:            1024,
		models.TaskExplain:        1024,
		models.TaskGenerate:       4096,
		models.TaskUnitTest:       4096,
		models.TaskEdgeCase:       4096,
		models.TaskSecurityReview: 1024,
		models.TaskRiskFlag:       1024,
	}
	for kind, want := range defaults {
		task := baseTask(kind)
		task.Instruction = "x"
		ex, err := a.Assemble(task)
		require.NoError(t, err)
		assert.Equal(t, want, ex.MaxTokens, "kind %s", kind)
	}

	task := baseTask(models.TaskInlineSuggest)
	task.MaxTokens = 128
	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Equal(t, 128, ex.MaxTokens)
}

func TestAssemble_GenerateUsesInstructionVerbatim(t *testing.T) {
	a := newTestAssembler()
	task := baseTask(models.TaskGenerate)
	task.Instruction = "Create a UserRepository with a findActive method"

	ex, err := a.Assemble(task)
	require.NoError(t, err)
	assert.Equal(t, task.Instruction, ex.Messages[1].Content)
}
