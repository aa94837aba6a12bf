package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// PersonaCommand returns the persona command
func PersonaCommand() *cli.Command {
	return &cli.Command{
		Name:  "persona",
		Usage: "Inspect and switch the active developer persona",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List available personas",
				Action: runPersonaList,
			},
			{
				Name:      "use",
				Usage:     "Set the active persona",
				ArgsUsage: "NAME",
				Action:    runPersonaUse,
			},
			{
				Name:      "detect",
				Usage:     "Show the persona that would be picked for a file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Language id used when no file pattern matches",
					},
				},
				Action: runPersonaDetect,
			},
		},
	}
}

func runPersonaList(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	current := e.sel.CurrentPersona()
	for _, p := range e.personas.List() {
		marker := " "
		if p.Name == current {
			marker = "*"
		}
		fmt.Printf("%s %s %-24s %s\n", marker, p.Icon, p.Name, p.Description)
	}
	return nil
}

func runPersonaUse(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: persona name")
	}
	name := c.Args().Get(0)

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	// Short codes resolve to their persona; anything else is accepted as-is.
	if p, ok := e.personas.FindByCode(name); ok {
		name = p.Name
	}
	if err := e.sel.SetPersona(name); err != nil {
		return err
	}
	fmt.Printf("Active persona: %s\n", name)
	return nil
}

func runPersonaDetect(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: file name")
	}
	fileName := c.Args().Get(0)

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	name, ok := e.personas.AutoDetect(fileName, c.String("language"))
	if !ok {
		fmt.Println("No persona matched; current selection stays.")
		return nil
	}
	fmt.Printf("Detected persona: %s\n", name)
	return nil
}
