package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/anonpost/cmd"
)

const (
	version = "0.1.0"
)

func main() {
	// Pick up a local .env before anything reads the environment.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "anonpost",
		Usage:   "Anonymous posting bot for Telegram groups with comments, replies and reactions",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   "anonpost.toml",
			},
		},
		Commands: []*cli.Command{
			cmd.RunCommand(),
			cmd.ConfigCommand(),
			cmd.EnvCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
