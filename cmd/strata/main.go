// strata inspects meshes and models for consistency problems.
//
// Installation:
//
//	go build -o strata ./cmd/strata
//	mv strata /usr/local/bin/
//
// Usage:
//
//	strata --input model.yaml
//	strata --input part.3mf --skip manifold -o json
//	strata sample --shape union --cells 32 --weld
//	strata intersect --surface plate.geojson --curve cut.dxf
//	strata version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/strata/pkg/config"
	"github.com/chazu/strata/pkg/loader"
)

var version = "dev"

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	stdout io.Writer
	stderr io.Writer

	input      string
	configPath string
	skip       []string
	tolerance  float64
	workers    int
	outputFmt  string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	// A nil slice makes cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOptions{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "strata",
		Short: "Inspect meshes and models for consistency problems",
		Long: `strata checks point sets, curves, surfaces, solids and
boundary-representation models for geometric and topological defects.

Supported inputs: ` + fmt.Sprint(loader.Extensions()) + `

Examples:
  # Inspect a model and print the report
  strata --input model.yaml

  # Skip the manifold checks and print a JSON summary
  strata --input part.3mf --skip manifold -o json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unexpected argument %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, o)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	rootCmd.Flags().StringVarP(&o.input, "input", "i", "", "Mesh or model file to inspect (required)")

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Settings file (default "+config.DefaultFile+" when present)")
	pf.StringSliceVar(&o.skip, "skip", nil, "Criteria to skip, e.g. adjacency,manifold")
	pf.Float64Var(&o.tolerance, "tolerance", 0, "Distance under which points are colocated")
	pf.IntVar(&o.workers, "workers", 0, "Intersection search workers (0: one per CPU)")
	pf.StringVarP(&o.outputFmt, "output", "o", "text", "Output format: text, yaml, json")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Log debug output to stderr")

	// Add subcommands
	rootCmd.AddCommand(sampleCmd(o))
	rootCmd.AddCommand(intersectCmd(o))
	rootCmd.AddCommand(versionCmd(o))

	return rootCmd
}

// settings loads the config file and applies the flags set on cmd.
func (o *rootOptions) settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, usageError{err}
	}
	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		cfg.Tolerance = o.tolerance
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("skip") {
		cfg.Skip = o.skip
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, usageError{err}
	}
	switch o.outputFmt {
	case "text", "yaml", "json":
	default:
		return cfg, usageErrorf("unknown output format %q, want text, yaml or json", o.outputFmt)
	}
	return cfg, nil
}

// logger writes JSON lines to stderr, or console lines with --verbose.
func (o *rootOptions) logger(cfg config.Config) *zap.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = zapcore.InfoLevel
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if o.verbose {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(o.stderr), level))
}

// usageError marks errors caused by the command line rather than the input.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// exitCode maps an error to 1 for failed loads and inspections, 2 for
// usage errors and unsupported files.
func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue), errors.Is(err, loader.ErrUnsupportedFormat):
		return 2
	}
	return 1
}
