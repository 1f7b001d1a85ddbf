package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/strata/pkg/inspect"
)

const (
	pointSetYAML = "kind: point_set\nvertices: [[0, 0], [0, 0], [1, 0]]\n"
	squareYAML   = "kind: surface\nvertices: [[0, 0], [1, 0], [1, 1], [0, 1]]\npolygons: [[0, 1, 2], [0, 2, 3]]\n"
	cutYAML      = "kind: edged_curve\nvertices: [[-1, 0.25], [2, 0.25], [3, 3]]\n"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func summary(t *testing.T, stdout string) inspect.Summary {
	t.Helper()
	var s inspect.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &s), stdout)
	return s
}

func section(s inspect.Summary, name string) (inspect.SectionSummary, bool) {
	for _, sec := range s.Sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return inspect.SectionSummary{}, false
}

// --- command wiring ---

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	require.NotNil(t, cmd)

	assert.Equal(t, "strata", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	inputFlag := cmd.Flags().Lookup("input")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "i", inputFlag.Shorthand)

	for _, name := range []string{"config", "skip", "tolerance", "workers", "output", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "o", cmd.PersistentFlags().Lookup("output").Shorthand)
}

func TestSubcommands(t *testing.T) {
	o := &rootOptions{}

	sample := sampleCmd(o)
	assert.Equal(t, "sample", sample.Use)
	for _, name := range []string{"shape", "size", "cells", "weld"} {
		assert.NotNil(t, sample.Flags().Lookup(name), name)
	}

	intersect := intersectCmd(o)
	assert.Equal(t, "intersect", intersect.Use)
	assert.NotNil(t, intersect.Flags().Lookup("surface"))
	assert.NotNil(t, intersect.Flags().Lookup("curve"))

	assert.Equal(t, "version", versionCmd(o).Use)
}

// --- inspection ---

func TestInspectText(t *testing.T) {
	code, stdout, stderr := execute(t, "--input", writeFile(t, "points.yaml", pointSetYAML))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "PointSet inspection: 1 issue(s)\n")
	assert.Contains(t, stdout, "Vertices with indices 0 1 are colocated at position [0 0].")
	assert.Contains(t, stderr, `"msg":"file loaded"`)
}

func TestInspectStructuredOutput(t *testing.T) {
	path := writeFile(t, "points.yaml", pointSetYAML)

	code, stdout, stderr := execute(t, "-i", path, "-o", "json")
	require.Equal(t, 0, code, stderr)
	s := summary(t, stdout)
	assert.Equal(t, "PointSet inspection", s.Kind)
	assert.Equal(t, 1, s.Issues)

	code, stdout, stderr = execute(t, "-i", path, "-o", "yaml")
	require.Equal(t, 0, code, stderr)
	var y inspect.Summary
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &y))
	assert.Equal(t, s, y)
}

func TestInspectSkip(t *testing.T) {
	path := writeFile(t, "points.yaml", pointSetYAML)

	code, stdout, stderr := execute(t, "-i", path, "--skip", "colocation", "-o", "json")
	require.Equal(t, 0, code, stderr)
	assert.Zero(t, summary(t, stdout).Issues)

	cfg := writeFile(t, "strata.yaml", "skip: [colocation]\n")
	code, stdout, stderr = execute(t, "-i", path, "--config", cfg, "-o", "json")
	require.Equal(t, 0, code, stderr)
	assert.Zero(t, summary(t, stdout).Issues)
}

func TestInspectTolerance(t *testing.T) {
	path := writeFile(t, "points.yaml", "kind: point_set\nvertices: [[0, 0], [0.01, 0]]\n")

	code, stdout, stderr := execute(t, "-i", path, "-o", "json")
	require.Equal(t, 0, code, stderr)
	assert.Zero(t, summary(t, stdout).Issues)

	code, stdout, stderr = execute(t, "-i", path, "--tolerance", "0.1", "-o", "json")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 1, summary(t, stdout).Issues)
}

func TestExitCodes(t *testing.T) {
	points := writeFile(t, "points.yaml", pointSetYAML)
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no input", nil, 2, `required flag "input" not set`},
		{"unsupported", []string{"-i", writeFile(t, "part.stl", "solid x")}, 2, "unsupported format"},
		{"missing file", []string{"-i", filepath.Join(t.TempDir(), "missing.yaml")}, 1, "no such file"},
		{"bad document", []string{"-i", writeFile(t, "bad.yaml", "kind: cloud\nvertices: [[0, 0]]\n")}, 1, `unknown kind "cloud"`},
		{"unknown flag", []string{"--colour"}, 2, "unknown flag"},
		{"extra argument", []string{"model.yaml"}, 2, `unexpected argument "model.yaml"`},
		{"bad output", []string{"-i", points, "-o", "xml"}, 2, `unknown output format "xml"`},
		{"bad tolerance", []string{"-i", points, "--tolerance", "-1"}, 2, "tolerance must be positive"},
		{"bad criterion", []string{"-i", points, "--skip", "flatness"}, 2, `unknown criterion "flatness"`},
		{"missing config", []string{"-i", points, "--config", filepath.Join(t.TempDir(), "none.yaml")}, 2, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.code, code, stderr)
			assert.Contains(t, stderr, "Error: ")
			assert.Contains(t, stderr, tt.want)
		})
	}
}

// --- subcommands ---

func TestSample(t *testing.T) {
	code, stdout, stderr := execute(t, "sample", "--shape", "box", "--cells", "8", "-o", "json")
	require.Equal(t, 0, code, stderr)
	raw := summary(t, stdout)
	assert.Equal(t, "Surface inspection", raw.Kind)
	colocated, ok := section(raw, "colocated_points_groups")
	require.True(t, ok, stdout)
	assert.Positive(t, colocated.Count, "a raw soup repeats shared vertices")

	code, stdout, stderr = execute(t, "sample", "--shape", "box", "--cells", "8", "--weld", "-o", "json")
	require.Equal(t, 0, code, stderr)
	colocated, ok = section(summary(t, stdout), "colocated_points_groups")
	require.True(t, ok, stdout)
	assert.Zero(t, colocated.Count)
	assert.Contains(t, stderr, `"msg":"sample tessellated"`)
}

func TestSampleUsage(t *testing.T) {
	code, _, stderr := execute(t, "sample", "--shape", "torus")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown shape "torus"`)

	code, _, stderr = execute(t, "sample", "--cells", "2")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "cells must be at least 4")

	code, _, _ = execute(t, "sample", "--size", "0")
	assert.Equal(t, 2, code)
}

func TestIntersect(t *testing.T) {
	surface := writeFile(t, "square.yaml", squareYAML)
	curve := writeFile(t, "cut.yaml", cutYAML)

	code, stdout, stderr := execute(t, "intersect", "--surface", surface, "--curve", curve)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Triangle 0 and edge 0 intersect each other.")
	assert.Contains(t, stdout, "Triangle 1 and edge 0 intersect each other.")

	code, _, stderr = execute(t, "intersect", "--surface", curve, "--curve", surface)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "want a surface")

	code, _, _ = execute(t, "intersect", "--surface", surface)
	assert.Equal(t, 2, code)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "strata dev\n", stdout)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(usageErrorf("bad")))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
}
