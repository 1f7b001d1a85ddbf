package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const squareScript = `
;; unit square section
(section "square")
(def a (vertex 0 0))
(def b (vertex 1 0))
(def c (vertex 1 1))
(def d (vertex 0 1))
(surface "s0" :vertices (list a b c d) :polygons (list (list 0 1 2) (list 0 2 3)))
(line "l0" a b)
(line "l1" b c)
(line "l2" c d)
(line "l3" d a)
(boundary "l0" "s0")
(boundary "l1" "s0")
(boundary "l2" "s0")
(boundary "l3" "s0")
`

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	m, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil model")
	}
	if len(evalErrs) != 1 || !strings.Contains(evalErrs[0].Message, "declares no model") {
		t.Fatalf("expected a missing model error, got %v", evalErrs)
	}
}

func TestEvaluateWithoutDeclaration(t *testing.T) {
	eng := NewEngine()

	m, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil model")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
}

func TestEvaluateSection(t *testing.T) {
	eng := NewEngine()

	m, evalErrs, err := eng.Evaluate(squareScript)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if m.Name() != "square" || m.Dimension() != 2 {
		t.Errorf("got model %q of dimension %d", m.Name(), m.Dimension())
	}
	if n := m.NbComponents(); n != 5 {
		t.Errorf("expected 5 components, got %d", n)
	}
	// Welded at the default tolerance: the 4 square corners.
	if n := m.NbUniqueVertices(); n != 4 {
		t.Errorf("expected 4 unique vertices, got %d", n)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	m, evalErrs, err := eng.Evaluate("(section \"x\"\n(vertex 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil model on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	m, evalErrs, err := eng.Evaluate("(section \"x\")\n(corner \"c\" undefined-vertex)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil model on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if s2 := e2.Error(); strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()

	var first []string
	for i := 0; i < 3; i++ {
		m, evalErrs, err := eng.Evaluate(squareScript)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		var ids []string
		for _, l := range m.Lines() {
			ids = append(ids, l.ID.String())
		}
		if first == nil {
			first = ids
			continue
		}
		if strings.Join(ids, ",") != strings.Join(first, ",") {
			t.Errorf("iteration %d: ids changed: %v != %v", i, ids, first)
		}
	}
}

func TestAwaitTimeout(t *testing.T) {
	// zygomys cannot easily be made to spin, so await a channel that never
	// sends.
	eng := NewEngine(WithTimeout(50 * time.Millisecond))
	gen := eng.begin()

	ctx, cancel := context.WithTimeout(context.Background(), eng.timeout)
	defer cancel()
	_, _, err := eng.await(ctx, make(chan outcome), gen)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
}

func TestEvaluateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine()
	gen := eng.begin()
	_, _, err := eng.await(ctx, make(chan outcome), gen)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got: %v", err)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine()
	stale := eng.begin()
	eng.begin()

	done := make(chan outcome, 1)
	done <- outcome{}
	_, _, err := eng.await(context.Background(), done, stale)
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestWithTimeout(t *testing.T) {
	if got := NewEngine().timeout; got != EvalTimeout {
		t.Errorf("default timeout = %s, want %s", got, EvalTimeout)
	}
	if got := NewEngine(WithTimeout(time.Second)).timeout; got != time.Second {
		t.Errorf("timeout = %s, want 1s", got)
	}
	if got := NewEngine(WithTimeout(-1), WithLogger(nil)); got.timeout != EvalTimeout || got.logger == nil {
		t.Errorf("invalid options were applied: %+v", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad vertex",
			wantLine: 3,
			wantMsg:  "bad vertex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
