package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cellquest/assets"
	"cellquest/config"
	"cellquest/content"
	"cellquest/state"
	"cellquest/tui"
)

func runPlay(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if !config.IsInteractive() {
		return errors.New("slideshow needs a terminal, use check command for unattended runs")
	}

	start := env.Book.Start()
	if name := cmd.String("start"); len(name) > 0 {
		id, err := content.ParseChapterID(name)
		if err != nil {
			return fmt.Errorf("unable to start: %w", err)
		}
		start = id
	}

	resolver, err := prepareResolver(env, cmd.String("root"))
	if err != nil {
		return err
	}
	defer releaseLoader(env, resolver.Loader())

	return tui.Run(ctx, env, resolver, start)
}

// prepareResolver creates resolver for configured loader, root overrides
// configured image directory when not empty.
func prepareResolver(env *state.LocalEnv, root string) (*assets.Resolver, error) {
	if len(root) > 0 {
		env.Log.Debug("Image directory overwritten", zap.String("was", env.Cfg.Assets.Root), zap.String("now", root))
		env.Cfg.Assets.Root = root
	}
	loader, err := assets.NewLoader(&env.Cfg.Assets, env.Log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare image loader: %w", err)
	}
	return assets.NewResolver(&env.Cfg.Assets, loader, env.Log,
		assets.WithSVGBox(env.Cfg.Presentation.ImageWidth, env.Cfg.Presentation.ImageHeight)), nil
}

// releaseLoader closes loaders holding resources (zip bundle).
func releaseLoader(env *state.LocalEnv, l assets.Loader) {
	c, ok := l.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		env.Log.Warn("Unable to release image loader", zap.Error(err))
	}
}
