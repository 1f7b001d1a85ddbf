package main

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/inspect"
	"github.com/chazu/strata/pkg/kernel/sdfx"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/tessellate"
)

// sampleShapes builds the sample solids from one size.
var sampleShapes = map[string]func(size float64) tessellate.Shape{
	"box": func(s float64) tessellate.Shape {
		return tessellate.Box(s, s, s)
	},
	"cylinder": func(s float64) tessellate.Shape {
		return tessellate.Cylinder(s, s/2)
	},
	"sphere": func(s float64) tessellate.Shape {
		return tessellate.Sphere(s / 2)
	},
	"union": func(s float64) tessellate.Shape {
		return tessellate.Union(tessellate.Box(s, s, s), tessellate.Translate(tessellate.Sphere(s/2), s/2, 0, 0))
	},
	"difference": func(s float64) tessellate.Shape {
		return tessellate.Difference(tessellate.Box(s, s, s), tessellate.Cylinder(2*s, s/4))
	},
}

func shapeNames() []string {
	names := lo.Keys(sampleShapes)
	slices.Sort(names)
	return names
}

func sampleCmd(o *rootOptions) *cobra.Command {
	var (
		shape string
		size  float64
		cells int
		weld  bool
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Tessellate a sample solid and inspect its surface",
		Long: `Generate a solid with the SDF kernel, tessellate it with marching cubes and
inspect the resulting triangulated surface.

A raw marching cubes soup repeats every shared vertex, so it reports colocated
points. With --weld the coincident vertices are merged first.

Examples:
  # Inspect the raw soup of a box
  strata sample --shape box

  # Weld a finer union before inspecting it
  strata sample --shape union --cells 64 --weld`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := sampleShapes[shape]
			if !ok {
				return usageErrorf("unknown shape %q, want one of %v", shape, shapeNames())
			}
			if size <= 0 {
				return usageErrorf("size must be positive, got %g", size)
			}
			cfg, err := o.settings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cells") {
				cfg.Sample.Cells = cells
			}
			if cfg.Sample.Cells < 4 {
				return usageErrorf("cells must be at least 4, got %d", cfg.Sample.Cells)
			}
			log := o.logger(cfg)
			defer log.Sync() //nolint:errcheck

			soup, err := tessellate.Tessellate(build(size), sdfx.New(), cfg.Sample.Cells)
			if err != nil {
				return err
			}
			var surface *mesh.Surface
			if weld {
				surface, err = tessellate.Weld(soup, cfg.Tolerance)
			} else {
				surface, err = tessellate.Surface(soup)
			}
			if err != nil {
				return err
			}
			log.Info("sample tessellated",
				zap.String("shape", shape),
				zap.Int("cells", cfg.Sample.Cells),
				zap.Bool("weld", weld),
				zap.Int("triangles", surface.NbPolygons()),
				zap.Int("vertices", surface.NbVertices()))

			opts, err := inspectOptions(cfg, log)
			if err != nil {
				return err
			}
			return outputResult(o.stdout, inspect.NewSurfaceInspector(surface, opts...).Inspect(), o.outputFmt)
		},
	}

	cmd.Flags().StringVar(&shape, "shape", "box", fmt.Sprintf("Sample solid, one of %v", shapeNames()))
	cmd.Flags().Float64Var(&size, "size", 10, "Size of the solid")
	cmd.Flags().IntVar(&cells, "cells", 0, "Marching cubes cells along the longest side (default from config)")
	cmd.Flags().BoolVar(&weld, "weld", false, "Merge coincident vertices before inspecting")

	return cmd
}
