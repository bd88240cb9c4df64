package rules

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/cel-go/cel"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultProgramCacheSize bounds the number of compiled programs kept
	// per engine. The built-in catalogs need a few hundred.
	DefaultProgramCacheSize = 1024

	// costLimit prevents runaway expressions in user-supplied catalogs.
	costLimit = 1000000
)

// Schema maps a variable name to its kind: bool, int, string, number
// (float64 or null) or tristate (bool or null).
type Schema map[string]string

// Engine compiles condition expressions against a typed CEL environment and
// evaluates them against a fact map.
//
// Engine is safe for concurrent use. Compiled programs are cached by
// expression source, so identical conditions shared between rules or
// catalogs compile once.
type Engine struct {
	env      *cel.Env
	programs *lru.Cache[string, cel.Program]
	compiles atomic.Int64
}

// Condition is a compiled expression bound to its program. It holds no
// reference to the engine's cache, so evaluating it takes no lock. The zero
// Condition always matches.
type Condition struct {
	prog cel.Program
}

// Match evaluates the condition against facts. Evaluation errors and
// non-boolean results are not matched.
func (c Condition) Match(facts map[string]any) bool {
	if c.prog == nil {
		return true
	}
	out, _, err := c.prog.Eval(facts)
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched
}

// NewEngine creates an engine whose environment declares every name in the
// schema.
func NewEngine(schema Schema) (*Engine, error) {
	return NewEngineWithCacheSize(schema, DefaultProgramCacheSize)
}

// NewEngineWithCacheSize is NewEngine with an explicit program cache bound.
func NewEngineWithCacheSize(schema Schema, cacheSize int) (*Engine, error) {
	env, err := NewEnvFromSchema(schema)
	if err != nil {
		return nil, err
	}
	return NewEngineWithEnv(env, cacheSize)
}

// NewEngineWithEnv creates an engine over a caller-built CEL environment.
func NewEngineWithEnv(env *cel.Env, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultProgramCacheSize
	}
	programs, err := lru.New[string, cel.Program](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create program cache: %w", err)
	}
	return &Engine{env: env, programs: programs}, nil
}

// NewEnvFromSchema creates a CEL environment with one typed variable per
// schema entry.
func NewEnvFromSchema(schema Schema) (*cel.Env, error) {
	if len(schema) == 0 {
		return nil, errors.New("schema cannot be empty")
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]cel.EnvOption, 0, len(names))
	for _, name := range names {
		t, err := celType(schema[name])
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, t))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Nullable kinds are declared dyn so a null value type-checks and fails at
// evaluation time instead, which reads as "not matched".
func celType(kind string) (*cel.Type, error) {
	switch kind {
	case "bool":
		return cel.BoolType, nil
	case "int":
		return cel.IntType, nil
	case "string":
		return cel.StringType, nil
	case "number", "tristate":
		return cel.DynType, nil
	}
	return nil, fmt.Errorf("unsupported kind %q (must be one of: bool, int, string, number, tristate)", kind)
}

// Compile compiles an expression to a program, returning the cached
// program when the same source was compiled before.
func (en *Engine) Compile(expression string) (cel.Program, error) {
	if prog, ok := en.programs.Get(expression); ok {
		return prog, nil
	}

	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must evaluate to bool, got %s", out)
	}

	prog, err := en.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	en.compiles.Add(1)
	en.programs.Add(expression, prog)
	return prog, nil
}

// Prepare compiles expression into a Condition the caller keeps. An empty
// expression yields the zero Condition.
func (en *Engine) Prepare(expression string) (Condition, error) {
	if expression == "" {
		return Condition{}, nil
	}
	prog, err := en.Compile(expression)
	if err != nil {
		return Condition{}, err
	}
	return Condition{prog: prog}, nil
}

// CompileCatalog compiles every expression in the catalog and reports the
// first failure with its location.
func (en *Engine) CompileCatalog(c *Catalog) error {
	for _, expr := range c.Expressions() {
		if _, err := en.Compile(expr.Source); err != nil {
			return fmt.Errorf("%s: %w", expr.Path, err)
		}
	}
	return nil
}

// Evaluate evaluates a single expression against the provided facts.
// Evaluation errors and non-boolean results are reported as not matched;
// an unset fact therefore never satisfies a condition.
func (en *Engine) Evaluate(expression string, facts map[string]any) *EvaluationResult {
	prog, err := en.Compile(expression)
	if err != nil {
		return &EvaluationResult{Expression: expression, Error: err}
	}

	out, _, err := prog.Eval(facts)
	if err != nil {
		return &EvaluationResult{Expression: expression, Error: err}
	}

	matched := false
	if boolVal, ok := out.Value().(bool); ok {
		matched = boolVal
	}
	return &EvaluationResult{Expression: expression, Matched: matched}
}

// Match is Evaluate reduced to its verdict. An empty expression matches.
func (en *Engine) Match(expression string, facts map[string]any) bool {
	if expression == "" {
		return true
	}
	return en.Evaluate(expression, facts).Matched
}

// CachedPrograms reports how many compiled programs are cached.
func (en *Engine) CachedPrograms() int {
	return en.programs.Len()
}

// Compiles reports how many expressions the engine has compiled, cache
// misses only.
func (en *Engine) Compiles() int64 {
	return en.compiles.Load()
}
