package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/config"
	"github.com/chazu/strata/pkg/inspect"
	"github.com/chazu/strata/pkg/loader"
)

func runInspect(cmd *cobra.Command, o *rootOptions) error {
	if o.input == "" {
		return usageErrorf(`required flag "input" not set`)
	}
	cfg, err := o.settings(cmd)
	if err != nil {
		return err
	}
	log := o.logger(cfg)
	defer log.Sync() //nolint:errcheck

	l, err := loader.Load(o.input, loader.WithTolerance(cfg.Tolerance), loader.WithLogger(log))
	if err != nil {
		return err
	}
	opts, err := inspectOptions(cfg, log)
	if err != nil {
		return err
	}
	res, err := inspect.Inspect(l.Target(), opts...)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", o.input, err)
	}
	log.Info("inspection done",
		zap.String("file", o.input),
		zap.String("kind", string(l.Kind())),
		zap.Int("issues", res.NbIssues()))
	return outputResult(o.stdout, res, o.outputFmt)
}

func inspectOptions(cfg config.Config, log *zap.Logger) ([]inspect.Option, error) {
	opts, err := cfg.InspectOptions()
	if err != nil {
		return nil, usageError{err}
	}
	return append(opts, inspect.WithLogger(log)), nil
}
