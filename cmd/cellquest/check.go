package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cellquest/assets"
	"cellquest/config"
	"cellquest/content"
	"cellquest/state"
)

// runCheck resolves every image used by the book the same way slideshow does
// and fails when any of them cannot be shown.
func runCheck(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	resolver, err := prepareResolver(env, cmd.String("root"))
	if err != nil {
		return err
	}
	defer releaseLoader(env, resolver.Loader())

	users := make(map[content.ImageKey][]string)
	for _, ch := range env.Book.Chapters() {
		if ch.HasImage() {
			users[ch.Image] = append(users[ch.Image], ch.ID.String())
		}
	}

	var errs error
	for _, key := range env.Book.ImageKeys() {
		chapters := strings.Join(users[key], ",")
		log := env.Log.With(zap.String("key", string(key)), zap.String("chapters", chapters))

		asset, err := resolver.Resolve(ctx, key)
		if err == nil {
			b := asset.Image.Bounds()
			log.Info("Image found", zap.String("path", asset.Path), zap.String("format", asset.Format), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
			env.Rpt.AddCheck(config.CheckEntry{
				Chapter: chapters,
				Outcome: config.CheckOK,
				Paths:   []string{asset.Path},
				Details: []string{fmt.Sprintf("%s %dx%d", asset.Format, b.Dx(), b.Dy())},
			})
			continue
		}
		if ctx.Err() != nil {
			return fmt.Errorf("check interrupted: %w", ctx.Err())
		}

		entry := config.CheckEntry{Chapter: chapters, Outcome: config.CheckFailed, Details: []string{err.Error()}}
		var nf *assets.NotFoundError
		if errors.As(err, &nf) {
			log.Warn("Image missing", zap.Strings("tried", nf.Attempts), zap.Strings("present", nf.Present))
			entry.Outcome, entry.Paths, entry.Details = config.CheckMissing, nf.Attempts, nil
			for _, e := range multierr.Errors(nf.Err) {
				entry.Details = append(entry.Details, e.Error())
			}
		} else {
			log.Warn("Image not configured", zap.Error(err))
		}
		env.Rpt.AddCheck(entry)
		errs = multierr.Append(errs, fmt.Errorf("chapter %s: %w", chapters, err))
	}

	if errs != nil {
		return fmt.Errorf("%d chapter image(s) cannot be shown: %w", len(multierr.Errors(errs)), errs)
	}
	env.Log.Info("All chapter images are in place")
	return nil
}
