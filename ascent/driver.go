// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascent

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/curioloop/ascent/vec"
)

// LogLevel controls the frequency of driver output.
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line after the run
	LogLast LogLevel = 0
	// LogEval print f and |g| every `level` steps for any (0 < level < 99)
	LogEval LogLevel = 1
	// LogTrace print every step
	LogTrace LogLevel = 99
)

// Logger handles logging output for the driver.
// Note the writer must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	_, _ = fmt.Fprintf(l.Msg, format, a...)
}

// Evaluation is a function type for evaluating the objective function and gradient.
type Evaluation func(x []float64, g []float64) (f float64)

// Termination caps the evaluation loop for optimizers that never
// converge on their own.
type Termination struct {
	// The run stops when the number of Step calls exceeds limit.
	MaxSteps int
}

// Problem binds an objective to the evaluation loop driving an Optimizer.
type Problem struct {
	N    int         // The problem dimension
	Eval Evaluation  // Objective function and gradient
	Stop Termination // Stop condition
}

// New validates the problem and creates a run driver.
func (p *Problem) New(logger *Logger) (*Driver, error) {
	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stderr
	}

	switch {
	case p.N <= 0:
		return nil, errors.New("problem dimension must greater than 0")
	case p.Eval == nil:
		return nil, errors.New("evaluation target is required")
	case p.Stop.MaxSteps <= 0:
		return nil, errors.New("max steps must greater than 0")
	}

	return &Driver{n: p.N, eval: p.Eval, stop: p.Stop, logger: *logger}, nil
}

// Driver owns the evaluate-step loop around one Optimizer.
type Driver struct {
	n      int
	eval   Evaluation
	stop   Termination
	logger Logger
}

// Result contains the final result of the optimization run.
type Result struct {
	OK       bool      // Whether the optimizer converged.
	F        float64   // Final objective value.
	X        vec.Dense // Final weights.
	G        vec.Dense // Final gradient.
	NumSteps int       // Number of Step calls performed.
	NumEval  int       // Number of objective evaluations performed.
}

// Run drives opt from the initial guess x0 until it converges or the step
// cap is hit. The weights are copied from x0, the margin passed to every
// step is zero, and a final evaluation makes Result self-consistent.
func (d *Driver) Run(opt Optimizer, x0 []float64) *Result {
	if len(x0) != d.n {
		panic("ascent: initial x dimension not match problem")
	}

	x := vec.Dense(x0).Clone()
	g := vec.New(d.n)

	steps, evals := 0, 0
	for steps < d.stop.MaxSteps && !opt.Converged() {
		f := d.eval(x, g)
		evals++
		opt.Step(x, g, f, 0)
		steps++
		if lv := d.logger.Level; lv >= LogEval && (lv >= LogTrace || steps%int(lv) == 0) {
			d.logger.log("step %4d  f = %.8g  |g| = %.4g\n", steps, f, g.Norm())
		}
	}

	f := d.eval(x, g)
	evals++
	if d.logger.enable(LogLast) {
		d.logger.log("done  steps = %d  eval = %d  f = %.8g  converged = %v\n",
			steps, evals, f, opt.Converged())
	}

	return &Result{
		OK: opt.Converged(),
		F:  f, X: x, G: g,
		NumSteps: steps, NumEval: evals,
	}
}
