package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/inspect"
	"github.com/chazu/strata/pkg/loader"
)

func intersectCmd(o *rootOptions) *cobra.Command {
	var surfacePath, curvePath string

	cmd := &cobra.Command{
		Use:   "intersect",
		Short: "Find intersections between a surface and a curve",
		Long: `Report every triangle of a surface that intersects an edge of a curve.
Both files must hold meshes of the same dimension.

Examples:
  # Intersect a 2D plate with a cut line
  strata intersect --surface plate.geojson --curve cut.dxf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if surfacePath == "" || curvePath == "" {
				return usageErrorf(`required flags "surface" and "curve" not set`)
			}
			cfg, err := o.settings(cmd)
			if err != nil {
				return err
			}
			log := o.logger(cfg)
			defer log.Sync() //nolint:errcheck

			s, err := loader.Load(surfacePath, loader.WithTolerance(cfg.Tolerance), loader.WithLogger(log))
			if err != nil {
				return err
			}
			if s.Surface == nil {
				return fmt.Errorf("%s holds a %s, want a surface", surfacePath, s.Kind())
			}
			c, err := loader.Load(curvePath, loader.WithTolerance(cfg.Tolerance), loader.WithLogger(log))
			if err != nil {
				return err
			}
			if c.Curve == nil {
				return fmt.Errorf("%s holds a %s, want a curve", curvePath, c.Kind())
			}

			opts, err := inspectOptions(cfg, log)
			if err != nil {
				return err
			}
			res, err := inspect.SurfaceCurveIntersections(s.Surface, c.Curve, opts...)
			if err != nil {
				return err
			}
			log.Info("intersections found", zap.Int("pairs", res.NbIssues()))
			return outputResult(o.stdout, res, o.outputFmt)
		},
	}

	cmd.Flags().StringVar(&surfacePath, "surface", "", "Triangulated surface file (required)")
	cmd.Flags().StringVar(&curvePath, "curve", "", "Edged curve file (required)")

	return cmd
}
