package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cellquest/config"
	"cellquest/state"
)

// writeOutput puts data into the file named by the first command argument,
// or on standard output when there is none.
func writeOutput(env *state.LocalEnv, cmd *cli.Command, what string, data []byte) error {
	args := cmd.Args().Slice()
	if len(args) > 1 {
		env.Log.Warn("Extra destinations ignored", zap.String("output", what), zap.Strings("ignored", args[1:]))
	}
	if len(args) == 0 {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write %s: %w", what, err)
		}
		return nil
	}
	env.Log.Info("Writing "+what, zap.String("file", args[0]))
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("unable to write %s to '%s': %w", what, args[0], err)
	}
	return nil
}

// outputConfiguration prints either the embedded defaults or what was
// actually loaded, secrets hidden.
func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	what, produce := "active configuration", func() ([]byte, error) { return config.Dump(env.Cfg) }
	if cmd.Bool("default") {
		what, produce = "default configuration", config.Prepare
	}
	data, err := produce()
	if err != nil {
		return fmt.Errorf("unable to get %s: %w", what, err)
	}
	return writeOutput(env, cmd, what, data)
}
