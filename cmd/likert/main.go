package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"golikert/adapters/httpapi"
	"golikert/adapters/planfile"
	"golikert/app"
	"golikert/domain/plan"
	"golikert/internal"
	"golikert/internal/config"
)

func main() {
	// Best effort; environment variables win over .env
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cliApp := &cli.App{
		Name:  "likert",
		Usage: "configuration-driven Likert survey analysis pipeline",
		Commands: []*cli.Command{
			newRunCommand(logger),
			newValidateCommand(),
			newServeCommand(logger),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCommand(logger *internal.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the full analysis pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "plan", Usage: "path to the analysis plan YAML"},
			&cli.StringFlag{Name: "data", Usage: "path to the survey CSV or XLSX file"},
			&cli.StringFlag{Name: "out", Usage: "output directory"},
			&cli.StringFlag{Name: "persona", Usage: "narrative persona (campaign or minfin)"},
			&cli.BoolFlag{Name: "all-personas", Usage: "write artifacts for every persona concurrently"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := app.RunOptions{
				PlanPath:    stringOr(c.String("plan"), cfg.Paths.PlanFile),
				DataPath:    stringOr(c.String("data"), cfg.Paths.DataFile),
				OutputDir:   stringOr(c.String("out"), cfg.Paths.OutputDir),
				CodeVersion: cfg.Run.CodeVersion,
			}

			if c.Bool("all-personas") {
				opts.Personas = []plan.Persona{plan.PersonaCampaign, plan.PersonaMinfin}
			} else {
				persona := plan.Persona(stringOr(c.String("persona"), string(cfg.Run.Persona)))
				if persona != plan.PersonaCampaign && persona != plan.PersonaMinfin {
					return fmt.Errorf("unknown persona: %s", persona)
				}
				opts.Personas = []plan.Persona{persona}
			}

			pipeline := app.NewPipeline(logger)
			summary, err := pipeline.Run(c.Context, opts)
			if err != nil {
				return err
			}

			fmt.Printf("Done: %d respondents after QA, %d confirmatory results, %d persona output set(s)\n",
				summary.Load.NAfterAttention, len(summary.Confirmatory), len(summary.Manifests))
			return nil
		},
	}
}

func newValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate the analysis plan and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "plan", Usage: "path to the analysis plan YAML"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			p, err := planfile.Load(stringOr(c.String("plan"), cfg.Paths.PlanFile))
			if err != nil {
				return err
			}

			fmt.Printf("✓ Config valid: %d items in universe\n", len(p.ItemsUniverse))
			return nil
		},
	}
}

func newServeCommand(logger *internal.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the validation API and run artifacts over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port"},
			&cli.StringFlag{Name: "out", Usage: "output directory to serve"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			server := httpapi.NewServer(logger, stringOr(c.String("out"), cfg.Paths.OutputDir))
			return server.Start(stringOr(c.String("port"), cfg.Server.Port))
		},
	}
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
