package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chazu/strata/pkg/inspect"
)

// outputResult outputs the result in the specified format.
func outputResult(w io.Writer, res inspect.Result, format string) error {
	switch format {
	case "json":
		return outputJSON(w, res.Summary())
	case "yaml":
		return outputYAML(w, res.Summary())
	default:
		return outputText(w, res)
	}
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func outputText(w io.Writer, res inspect.Result) error {
	_, err := fmt.Fprintf(w, "%s: %d issue(s)\n%s", res.InspectionKind(), res.NbIssues(), res.Render())
	return err
}
