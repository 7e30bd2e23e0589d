package equation

import (
	"log/slog"
	"math"
	"sync"

	"github.com/ralvess/emblemgo/internal/model"
)

// Table is a read-only set of named equations plus a parse cache. One table
// is shared by every calculator call; the cache mutex makes concurrent
// encounters over the same data safe.
type Table struct {
	exprs map[string]string

	mu    sync.RWMutex
	cache map[string]node
}

// NewTable builds a table from name -> expression. The map is copied.
func NewTable(exprs map[string]string) *Table {
	t := &Table{
		exprs: make(map[string]string, len(exprs)),
		cache: make(map[string]node),
	}
	for k, v := range exprs {
		t.exprs[k] = v
	}
	return t
}

// Has reports whether the table defines the named equation.
func (t *Table) Has(name string) bool {
	_, ok := t.exprs[name]
	return ok
}

// expr returns the raw expression for a named equation.
func (t *Table) expr(name string) (string, bool) {
	s, ok := t.exprs[name]
	return s, ok
}

// compiled returns the cached AST for an expression, parsing on first use.
func (t *Table) compiled(expr string) (node, error) {
	t.mu.RLock()
	n, ok := t.cache[expr]
	t.mu.RUnlock()
	if ok {
		return n, nil
	}
	n, err := parse(expr)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.cache[expr] = n
	t.mu.Unlock()
	return n, nil
}

// Evaluate resolves a named equation (or, if the name is not defined, a raw
// expression) against the unit's stats. bindings supplies extra tokens such
// as WEIGHT that are not unit stats. Results are floored to an integer.
//
// Evaluate never fails: any parse or evaluation error degrades to 0 with a
// warning, matching the engine-wide rule that malformed data is an
// authoring problem, not a runtime one.
func (t *Table) Evaluate(nameOrExpr string, unit *model.Unit, bindings map[string]int) int {
	expr := nameOrExpr
	inProgress := make(map[string]bool)
	if s, ok := t.exprs[nameOrExpr]; ok {
		expr = s
		inProgress[nameOrExpr] = true
	}

	n, err := t.compiled(expr)
	if err != nil {
		slog.Warn("equation parse failed", "equation", nameOrExpr, "error", err)
		return 0
	}

	e := &env{table: t, unit: unit, bindings: bindings, inProgress: inProgress}
	v, err := e.eval(n)
	if err != nil {
		slog.Warn("equation evaluation failed", "equation", nameOrExpr, "error", err)
		return 0
	}
	f, err := asNumber(v)
	if err != nil {
		slog.Warn("equation did not yield a number", "equation", nameOrExpr, "error", err)
		return 0
	}
	return int(math.Floor(f))
}
