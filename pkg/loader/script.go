package loader

import (
	"errors"
	"os"

	"github.com/chazu/strata/pkg/engine"
)

func readScript(path string, o options) (Loaded, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	m, evalErrs, err := engine.NewEngine(engine.WithLogger(o.logger)).Evaluate(string(src))
	if err != nil {
		return Loaded{}, err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return Loaded{}, errors.Join(errs...)
	}
	return fromModel(m)
}
