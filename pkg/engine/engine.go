// Package engine evaluates strata model scripts. It wraps zygomys in a
// sandboxed environment and produces a model.Model from user source code.
//
// A script declares one model and its components:
//
//	(section "plate")
//	(def a (vertex 0 0))
//	(def b (vertex 1 0))
//	(line "l0" a b)
//	(corner "c0" a)
//	(boundary "c0" "l0")
//	(weld 1e-6)
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/model"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report evaluated models.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTimeout replaces EvalTimeout. Non-positive durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a model script with a background context.
func (e *Engine) Evaluate(source string) (*model.Model, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext runs a model script and returns the model it declares.
//
// Return semantics:
//   - On success: returns model + nil errors + nil error
//   - On parse/eval failure: returns nil model + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic, superseded):
//     returns nil + nil + error
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*model.Model, []EvalError, error) {
	gen := e.begin()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		m, evalErrs, err := e.evaluate(source)
		done <- outcome{model: m, evalErrs: evalErrs, err: err}
	}()

	return e.await(ctx, done, gen)
}

func (e *Engine) evaluate(source string) (*model.Model, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: errNoModel.Error()}}, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	s := &script{}
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	m, err := s.finish()
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	e.logger.Debug("script evaluated",
		zap.String("model", m.Name()),
		zap.Int("dimension", m.Dimension()),
		zap.Int("components", m.NbComponents()),
		zap.Int("unique_vertices", m.NbUniqueVertices()))
	return m, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
