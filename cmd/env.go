package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/rolepilot/internal/assist"
	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/config"
	"github.com/rolepilot/internal/logging"
	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/internal/selection"
	"github.com/rolepilot/internal/state"
	"github.com/rolepilot/internal/transport"
)

// env is the wired application stack shared by every command.
type env struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	personas *roles.Catalog
	sel      *selection.Manager
	engine   *assist.Engine
}

// loadEnv loads configuration and constructs the full stack. Every command
// goes through here so wiring happens in exactly one place.
func loadEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cat := catalog.NewDefaultCatalog()
	personas := roles.NewDefaultCatalog()

	statePath := cfg.General.StatePath
	if statePath == "" {
		statePath, err = state.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state path: %w", err)
		}
	}
	store, err := state.NewStore(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	sel, err := selection.NewManager(cat, cfg, store)
	if err != nil {
		return nil, err
	}
	// Config files name personas by short code; the manager tracks full names.
	if p, ok := personas.FindByCode(sel.CurrentPersona()); ok {
		if err := sel.SetPersona(p.Name); err != nil {
			return nil, err
		}
	}

	if cfg.General.SessionLog {
		if _, err := logging.StartSessionLogging(cfg.General.SessionLogDir, uuid.NewString()); err != nil {
			return nil, fmt.Errorf("failed to start session log: %w", err)
		}
	}

	client := transport.NewClient(cat, cfg)
	engine := assist.NewEngine(cfg, cat, personas, sel, client)

	return &env{
		cfg:      cfg,
		cat:      cat,
		personas: personas,
		sel:      sel,
		engine:   engine,
	}, nil
}
