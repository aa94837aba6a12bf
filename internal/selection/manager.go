package selection

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/config"
	"github.com/rolepilot/internal/state"
	"github.com/rolepilot/pkg/models"
)

// Manager holds the session's current persona and model. One instance per
// process, created at startup and passed explicitly to every consumer.
//
// Persona assignment is deliberately permissive: SetPersona persists any
// name, because auto-detection and future catalog entries rely on it. Model
// assignment is validated against the catalog and provider configuration.
type Manager struct {
	cat   *catalog.Catalog
	cfg   *config.Config
	store *state.Store

	mu          sync.RWMutex
	personaName string
	modelID     string

	onChange func(personaName, modelID string)
}

// NewManager loads persisted selection state, falling back to configured
// defaults for absent keys.
func NewManager(cat *catalog.Catalog, cfg *config.Config, store *state.Store) (*Manager, error) {
	sel, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load selection state: %w", err)
	}

	m := &Manager{
		cat:         cat,
		cfg:         cfg,
		store:       store,
		personaName: sel.PersonaName,
		modelID:     sel.ModelID,
	}
	if m.personaName == "" {
		m.personaName = cfg.General.DefaultPersona
	}
	if m.modelID == "" {
		m.modelID = cfg.General.DefaultModel
	}
	return m, nil
}

// OnChange registers a single listener notified after every successful
// selection change (the display-surface hook).
func (m *Manager) OnChange(fn func(personaName, modelID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// CurrentPersona returns the current persona name. Never empty.
func (m *Manager) CurrentPersona() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.personaName
}

// CurrentModel returns the current model id. Never empty.
func (m *Manager) CurrentModel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modelID
}

// SetPersona unconditionally accepts and persists any persona name.
func (m *Manager) SetPersona(name string) error {
	m.mu.Lock()
	m.personaName = name
	modelID := m.modelID
	fn := m.onChange
	m.mu.Unlock()

	if err := m.store.Save(state.Selection{PersonaName: name, ModelID: modelID}); err != nil {
		return err
	}
	log.Debug().Str("persona", name).Msg("Persona selection changed")
	if fn != nil {
		fn(name, modelID)
	}
	return nil
}

// SetModel validates the id against the catalog and the provider
// configuration before persisting. On validation failure the current model
// is left untouched.
func (m *Manager) SetModel(id string) error {
	if err := m.ValidateModel(id); err != nil {
		return err
	}

	m.mu.Lock()
	m.modelID = id
	personaName := m.personaName
	fn := m.onChange
	m.mu.Unlock()

	if err := m.store.Save(state.Selection{PersonaName: personaName, ModelID: id}); err != nil {
		return err
	}
	log.Debug().Str("model", id).Msg("Model selection changed")
	if fn != nil {
		fn(personaName, id)
	}
	return nil
}

// ValidateModel is the pure check behind SetModel: unknown id or a disabled
// provider fails without mutating anything. Run it before any paid call.
func (m *Manager) ValidateModel(id string) error {
	mdl, ok := m.cat.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownModel, id)
	}
	if !m.cfg.Provider(mdl.Provider).Enabled {
		return fmt.Errorf("%w: %s", models.ErrProviderNotConfigured, mdl.Provider)
	}
	return nil
}

// IsProviderConfigured reports whether a provider is enabled and, for
// providers that need one, carries a non-empty API key.
func (m *Manager) IsProviderConfigured(p models.Provider) bool {
	pc := m.cfg.Provider(p)
	if !pc.Enabled {
		return false
	}
	if p.RequiresAPIKey() && m.cfg.APIKey(p) == "" {
		return false
	}
	return true
}

// EnabledModels returns the catalog models whose provider is enabled, in
// declaration order.
func (m *Manager) EnabledModels() []models.Model {
	var out []models.Model
	for _, mdl := range m.cat.List() {
		if m.cfg.Provider(mdl.Provider).Enabled {
			out = append(out, mdl)
		}
	}
	return out
}

// CalculateCost returns the dollar cost of a call, or false when the model
// is unknown or has no pricing table.
func (m *Manager) CalculateCost(modelID string, inputTokens, outputTokens int) (float64, bool) {
	mdl, ok := m.cat.ByID(modelID)
	if !ok || mdl.Pricing == nil {
		return 0, false
	}
	inputCost := (float64(inputTokens) / 1_000_000) * mdl.Pricing.Input
	outputCost := (float64(outputTokens) / 1_000_000) * mdl.Pricing.Output
	return inputCost + outputCost, true
}

// RecommendedModel picks the enabled model best suited for the task tag:
// largest context window among models declaring the capability, declaration
// order breaking ties. With no capable model it falls back to the first
// enabled model; false when nothing is enabled.
func (m *Manager) RecommendedModel(taskTag string) (*models.Model, bool) {
	enabled := m.EnabledModels()
	if len(enabled) == 0 {
		return nil, false
	}

	var best *models.Model
	for i := range enabled {
		if !enabled[i].HasCapability(taskTag) {
			continue
		}
		if best == nil || enabled[i].ContextWindow > best.ContextWindow {
			best = &enabled[i]
		}
	}
	if best == nil {
		return &enabled[0], true
	}
	return best, true
}
