package specfile

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression over the fields of a scan.
//
// The expression sees these variables:
//
//	number     int                   declared scan number
//	index      int                   occurrence index of number
//	command    string                scan command
//	date       string                #D payload
//	points     int                   well-formed data rows
//	columns    int                   data columns
//	labels     []string              column labels
//	counters   []string              labels of the counter columns
//	motors     map[string]float64    motor positions by label
//	data       map[string][]float64  column values by label
//	counting   float64               #T or #M value
//	mode       string                "none", "seconds" or "monitor"
//	malformed  int                   rejected data rows
//	truncated  bool                  scan cut short by end of input
//
// For example:
//
//	points > 10 && motors["Two Theta"] > 0.5
//	command startsWith "ascan" && max(data["Detector"]) > 1000
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles source. An empty source matches every scan.
func NewFilter(source string) (*Filter, error) {
	f := &Filter{source: source}

	if source == "" {
		return f, nil
	}

	program, err := expr.Compile(source,
		expr.Env(filterEnv(&Scan{DeclaredColumns: -1})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrFilterCompile.Wrap(err).
			With(slog.String("source", source))
	}

	f.program = program

	return f, nil
}

// String returns the source of f.
func (f *Filter) String() string { return f.source }

// Match reports whether s satisfies f. A nil Filter matches every scan.
func (f *Filter) Match(s *Scan) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	out, err := vm.Run(f.program, filterEnv(s))
	if err != nil {
		return false, ErrFilterEvaluate.Wrap(err).With(
			slog.String("source", f.source),
			slog.Int("scan", s.Number),
			slog.Int("index", s.Index),
		)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Apply returns the scans of r that satisfy f. It stops at the first
// evaluation error.
func (f *Filter) Apply(r *Registry) (*Registry, error) {
	var err error

	out := r.Select(func(s *Scan) bool {
		if err != nil {
			return false
		}

		var ok bool

		ok, err = f.Match(s)

		return ok
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func filterEnv(s *Scan) map[string]any {
	motors := make(map[string]float64, s.Motors.Len())
	for label, v := range s.Motors.All() {
		motors[label] = v
	}

	data := make(map[string][]float64, s.Columns())
	for label, v := range s.Data.All() {
		if _, dup := data[label]; !dup {
			data[label] = v
		}
	}

	return map[string]any{
		"number":    s.Number,
		"index":     s.Index,
		"command":   s.Command,
		"date":      s.Date,
		"points":    s.Points,
		"columns":   s.Columns(),
		"labels":    nonNil(s.Labels),
		"counters":  nonNil(s.Counters().Labels()),
		"motors":    motors,
		"data":      data,
		"counting":  s.Counting.Value,
		"mode":      s.Counting.Mode.String(),
		"malformed": len(s.Malformed),
		"truncated": s.Truncated,
	}
}
