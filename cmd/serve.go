package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rolepilot/internal/api"
)

// ServeCommand returns the CLI command for starting the local HTTP facade
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local HTTP facade for editor plugins",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"L"},
				Usage:   "Listen address for the HTTP facade",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}

			listen := c.String("listen")
			if listen == "" {
				listen = e.cfg.Server.Listen
			}
			fmt.Printf("Starting RolePilot facade on %s...\n", listen)

			server := api.NewServer(listen, e.engine, e.sel, e.personas, e.cat)
			return server.Start()
		},
	}
}
