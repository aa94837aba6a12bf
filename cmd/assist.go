package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rolepilot/internal/assist"
	"github.com/rolepilot/pkg/models"
)

// AssistCommand returns the assist command, the CLI entry to every task kind.
func AssistCommand() *cli.Command {
	return &cli.Command{
		Name:      "assist",
		Usage:     "Run an AI assistance task over a piece of code",
		ArgsUsage: "TASK",
		Description: "TASK is one of: " + taskKindList() + ".\n" +
			"Code is read from --code-file, or from stdin when the flag is absent.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "code-file",
				Aliases: []string{"f"},
				Usage:   "Read the code snippet from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language id of the snippet (php, typescript, ...)",
			},
			&cli.StringFlag{
				Name:  "diagnostic",
				Usage: "Compiler or linter message to fix/explain",
			},
			&cli.StringFlag{
				Name:    "instruction",
				Aliases: []string{"i"},
				Usage:   "Free-form instruction for the generate task",
			},
			&cli.StringFlag{
				Name:  "project-dir",
				Usage: "Project root scanned for style conventions",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall timeout for the task",
				Value: 2 * time.Minute,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print model, persona, and cost after the result",
			},
		},
		Action: runAssist,
	}
}

func runAssist(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("missing required argument: TASK (one of %s)", taskKindList())
	}
	kind, err := models.ParseTaskKind(c.Args().Get(0))
	if err != nil {
		return err
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	code, fileName, err := readCode(c)
	if err != nil {
		return err
	}
	if kind == models.TaskGenerate && c.String("instruction") == "" {
		return fmt.Errorf("the generate task requires --instruction")
	}

	req := assist.Request{
		Kind:        kind,
		LanguageID:  c.String("language"),
		FileName:    fileName,
		Code:        code,
		Diagnostic:  c.String("diagnostic"),
		Instruction: c.String("instruction"),
		ProjectDir:  c.String("project-dir"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	res, err := e.engine.Do(ctx, req)
	if err != nil {
		return err
	}

	if res.Empty {
		fmt.Fprintln(os.Stderr, "No usable content in the model response.")
	} else {
		fmt.Println(res.Content)
	}

	if c.Bool("verbose") {
		fmt.Fprintf(os.Stderr, "persona: %s  model: %s\n", res.Persona, res.Model)
		if res.Usage != nil {
			fmt.Fprintf(os.Stderr, "tokens: %d prompt / %d completion\n",
				res.Usage.PromptTokens, res.Usage.CompletionTokens)
		}
		if res.CostKnow {
			fmt.Fprintf(os.Stderr, "cost: $%.6f\n", res.Cost)
		}
	}
	return nil
}

// readCode pulls the snippet from the flag-named file, falling back to stdin.
func readCode(c *cli.Context) (code, fileName string, err error) {
	if path := c.String("code-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("failed to read code file: %w", err)
		}
		return string(data), path, nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		// Interactive terminal with no piped input: nothing to read.
		return "", "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "", nil
}

func taskKindList() string {
	kinds := make([]string, 0, len(models.AllTaskKinds))
	for _, k := range models.AllTaskKinds {
		kinds = append(kinds, string(k))
	}
	return strings.Join(kinds, ", ")
}
