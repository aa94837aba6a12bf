package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ModelCommand returns the model command
func ModelCommand() *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "Inspect and switch the active AI model",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog models and their status",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "enabled",
						Usage: "Only show models whose provider is enabled",
					},
				},
				Action: runModelList,
			},
			{
				Name:      "use",
				Usage:     "Set the active model",
				ArgsUsage: "MODEL_ID",
				Action:    runModelUse,
			},
			{
				Name:  "recommend",
				Usage: "Show the recommended model for a task capability",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "task",
						Aliases:  []string{"t"},
						Usage:    "Capability tag (chat, code, analysis, ...)",
						Required: true,
					},
				},
				Action: runModelRecommend,
			},
		},
	}
}

func runModelList(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	enabledOnly := c.Bool("enabled")
	enabled := map[string]bool{}
	for _, m := range e.sel.EnabledModels() {
		enabled[m.ID] = true
	}

	current := e.sel.CurrentModel()
	for _, m := range e.cat.List() {
		if enabledOnly && !enabled[m.ID] {
			continue
		}
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		status := "disabled"
		if enabled[m.ID] {
			status = "enabled"
		}
		fmt.Printf("%s %-16s %-24s %-10s %s\n", marker, m.ID, m.DisplayName, m.Provider, status)
	}
	return nil
}

func runModelUse(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: model id")
	}
	id := c.Args().Get(0)

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	if err := e.sel.SetModel(id); err != nil {
		return err
	}
	fmt.Printf("Active model: %s\n", id)
	return nil
}

func runModelRecommend(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	mdl, ok := e.sel.RecommendedModel(c.String("task"))
	if !ok {
		return fmt.Errorf("no enabled models; configure a provider first")
	}
	fmt.Printf("%s (%s, %d-token context)\n", mdl.ID, mdl.Provider, mdl.ContextWindow)
	return nil
}
