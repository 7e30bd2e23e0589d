package equation

import (
	"fmt"
	"math"

	"github.com/ralvess/emblemgo/internal/model"
)

// Runtime values are float64, string, bool, or a tag set.
type value any

type tagSet map[string]struct{}

// env carries one evaluation's state. inProgress guards recursive named
// equation references: an equation that resolves to itself evaluates to an
// unknown identifier instead of recursing forever.
type env struct {
	table      *Table
	unit       *model.Unit
	bindings   map[string]int
	inProgress map[string]bool
}

func (e *env) eval(n node) (value, error) {
	switch t := n.(type) {
	case numLit:
		return float64(t), nil

	case strLit:
		return string(t), nil

	case ident:
		return e.resolveIdent(string(t))

	case attr:
		return e.resolveAttr(t)

	case unary:
		return e.evalUnary(t)

	case binary:
		return e.evalBinary(t)

	case ternary:
		cond, err := e.eval(t.cond)
		if err != nil {
			return nil, err
		}
		if isTrue(cond) {
			return e.eval(t.then)
		}
		return e.eval(t.els)

	case call:
		return e.evalCall(t)

	default:
		return nil, fmt.Errorf("unknown node %T", n)
	}
}

func (e *env) resolveIdent(name string) (value, error) {
	switch name {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	if e.bindings != nil {
		if v, ok := e.bindings[name]; ok {
			return float64(v), nil
		}
	}
	if e.unit != nil {
		if _, ok := e.unit.Stats()[name]; ok {
			return float64(e.unit.Stat(name)), nil
		}
	}
	// Named equation reference. Re-entering an equation already on the
	// evaluation stack is an authoring error; treat it as unknown so a
	// self-referential equation cannot hang.
	if e.table != nil && !e.inProgress[name] {
		if expr, ok := e.table.expr(name); ok {
			sub, err := e.table.compiled(expr)
			if err != nil {
				return nil, fmt.Errorf("equation %s: %w", name, err)
			}
			e.inProgress[name] = true
			defer delete(e.inProgress, name)
			return e.eval(sub)
		}
	}
	return nil, fmt.Errorf("unknown identifier %q", name)
}

func (e *env) resolveAttr(a attr) (value, error) {
	if a.base != "unit" {
		return nil, fmt.Errorf("unknown attribute base %q", a.base)
	}
	if e.unit == nil {
		return nil, fmt.Errorf("no unit bound for unit.%s", a.name)
	}
	switch a.name {
	case "tags":
		return tagSet(e.unit.Tags()), nil
	case "klass":
		return e.unit.Klass(), nil
	case "team":
		return e.unit.Team(), nil
	case "name":
		return e.unit.Name(), nil
	case "level":
		return float64(e.unit.Level()), nil
	default:
		return nil, fmt.Errorf("unknown attribute unit.%s", a.name)
	}
}

func (e *env) evalUnary(u unary) (value, error) {
	x, err := e.eval(u.x)
	if err != nil {
		return nil, err
	}
	switch u.op {
	case "-":
		f, err := asNumber(x)
		if err != nil {
			return nil, err
		}
		return -f, nil
	case "not":
		return !isTrue(x), nil
	}
	return nil, fmt.Errorf("unknown unary %q", u.op)
}

func (e *env) evalBinary(b binary) (value, error) {
	// Short-circuit boolean operators.
	switch b.op {
	case "and":
		l, err := e.eval(b.l)
		if err != nil {
			return nil, err
		}
		if !isTrue(l) {
			return false, nil
		}
		r, err := e.eval(b.r)
		if err != nil {
			return nil, err
		}
		return isTrue(r), nil
	case "or":
		l, err := e.eval(b.l)
		if err != nil {
			return nil, err
		}
		if isTrue(l) {
			return true, nil
		}
		r, err := e.eval(b.r)
		if err != nil {
			return nil, err
		}
		return isTrue(r), nil
	}

	l, err := e.eval(b.l)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(b.r)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case "in":
		s, ok := l.(string)
		if !ok {
			return nil, fmt.Errorf("left side of 'in' must be a string")
		}
		set, ok := r.(tagSet)
		if !ok {
			return nil, fmt.Errorf("right side of 'in' must be unit.tags")
		}
		_, member := set[s]
		return member, nil

	case "==", "!=":
		eq, err := equalValues(l, r)
		if err != nil {
			return nil, err
		}
		if b.op == "!=" {
			return !eq, nil
		}
		return eq, nil

	case "<", "<=", ">", ">=":
		lf, err := asNumber(l)
		if err != nil {
			return nil, err
		}
		rf, err := asNumber(r)
		if err != nil {
			return nil, err
		}
		switch b.op {
		case "<":
			return lf < rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		default:
			return lf >= rf, nil
		}
	}

	lf, err := asNumber(l)
	if err != nil {
		return nil, err
	}
	rf, err := asNumber(r)
	if err != nil {
		return nil, err
	}
	switch b.op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	case "//":
		if rf == 0 {
			return nil, fmt.Errorf("floor division by zero")
		}
		return math.Floor(lf / rf), nil
	case "%":
		if rf == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		return math.Mod(lf, rf), nil
	}
	return nil, fmt.Errorf("unknown operator %q", b.op)
}

func (e *env) evalCall(c call) (value, error) {
	args := make([]float64, 0, len(c.args))
	for _, a := range c.args {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		f, err := asNumber(v)
		if err != nil {
			return nil, fmt.Errorf("%s(): %w", c.name, err)
		}
		args = append(args, f)
	}

	argc := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s() takes %d arguments, got %d", c.name, n, len(args))
		}
		return nil
	}

	switch c.name {
	case "min":
		if len(args) < 2 {
			return nil, fmt.Errorf("min() takes at least 2 arguments")
		}
		m := args[0]
		for _, f := range args[1:] {
			m = math.Min(m, f)
		}
		return m, nil
	case "max":
		if len(args) < 2 {
			return nil, fmt.Errorf("max() takes at least 2 arguments")
		}
		m := args[0]
		for _, f := range args[1:] {
			m = math.Max(m, f)
		}
		return m, nil
	case "abs":
		if err := argc(1); err != nil {
			return nil, err
		}
		return math.Abs(args[0]), nil
	case "int":
		if err := argc(1); err != nil {
			return nil, err
		}
		return math.Trunc(args[0]), nil
	case "float":
		if err := argc(1); err != nil {
			return nil, err
		}
		return args[0], nil
	case "clamp":
		if err := argc(3); err != nil {
			return nil, err
		}
		v, lo, hi := args[0], args[1], args[2]
		if v < lo {
			return lo, nil
		}
		if v > hi {
			return hi, nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown function %q", c.name)
}

func isTrue(v value) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case tagSet:
		return len(t) > 0
	default:
		return false
	}
}

func asNumber(v value) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func equalValues(l, r value) (bool, error) {
	switch lt := l.(type) {
	case string:
		rt, ok := r.(string)
		if !ok {
			return false, nil
		}
		return lt == rt, nil
	case bool:
		return isTrue(l) == isTrue(r), nil
	default:
		lf, err := asNumber(l)
		if err != nil {
			return false, err
		}
		rf, err := asNumber(r)
		if err != nil {
			return false, err
		}
		return lf == rf, nil
	}
}
