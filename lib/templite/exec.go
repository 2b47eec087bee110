package templite

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// scope is the chain of bindings visible while rendering. The outermost
// frame holds the merged context; each loop adds one frame for its
// variable. Frames belong to a single Render call.
type scope struct {
	parent *scope
	vars   Context

	name  string
	value interface{}
}

func (s *scope) lookup(name string) (interface{}, bool) {
	for f := s; f != nil; f = f.parent {
		if f.vars != nil {
			v, ok := f.vars[name]
			return v, ok
		}
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

func (s *scope) eval(e *expr) (interface{}, error) {
	v, ok := s.lookup(e.root)
	if !ok {
		return nil, &LookupError{Expr: e.text, Name: e.root}
	}
	for _, prop := range e.path {
		var err error
		v, err = resolve(v, prop)
		if err == errNoProperty {
			return nil, &LookupError{Expr: e.text, Name: prop}
		} else if err != nil {
			return nil, &ExecError{Expr: e.text, Err: err}
		}
	}
	return v, nil
}

// Render renders the template against ctx merged over the base context
// given to Compile. Values in ctx win.
func (t *Template) Render(ctx Context) (string, error) {
	vars := make(Context, len(t.base)+len(ctx))
	for k, v := range t.base {
		vars[k] = v
	}
	for k, v := range ctx {
		vars[k] = v
	}

	for _, name := range t.variables {
		if _, ok := vars[name]; !ok {
			return "", &LookupError{Expr: name, Name: name}
		}
	}

	b := &strings.Builder{}
	s := &scope{vars: vars}
	if err := execAll(b, s, t.root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Execute renders the template and writes the result to w. Nothing is
// written if rendering fails.
func (t *Template) Execute(w io.Writer, ctx Context) error {
	out, err := t.Render(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func execAll(b *strings.Builder, s *scope, nodes []node) error {
	for _, n := range nodes {
		if err := n.exec(b, s); err != nil {
			return err
		}
	}
	return nil
}

func (n literalNode) exec(b *strings.Builder, s *scope) error {
	b.WriteString(string(n))
	return nil
}

func (n *emitNode) exec(b *strings.Builder, s *scope) error {
	v, err := s.eval(n.expr)
	if err != nil {
		return err
	}
	fmt.Fprint(b, v)
	return nil
}

func (n *ifNode) exec(b *strings.Builder, s *scope) error {
	v, err := s.eval(n.cond)
	if err != nil {
		return err
	}
	if !Truth(v) {
		return nil
	}
	return execAll(b, s, n.body)
}

func (n *forNode) exec(b *strings.Builder, s *scope) error {
	v, err := s.eval(n.src)
	if err != nil {
		return err
	}
	frame := &scope{parent: s, name: n.name}
	err = each(v, func(elem interface{}) error {
		frame.value = elem
		return execAll(b, frame, n.body)
	})
	if err == errNotIterable {
		return &ExecError{Expr: n.src.text, Err: err}
	}
	return err
}

// Truth reports whether v counts as true in an if action. nil, false,
// numeric zero, empty strings and empty collections, and nil pointers,
// interfaces and functions are false; anything else is true.
func Truth(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return !rv.IsNil()
	}
	return true
}

var errNotIterable = errors.New("value is not iterable")

// each calls fn for every element of v in order. Maps yield their keys in
// sorted order; strings yield one string per rune.
func each(v interface{}, fn func(interface{}) error) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return errNotIterable
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := fn(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case reflect.String:
		for _, r := range rv.String() {
			if err := fn(string(r)); err != nil {
				return err
			}
		}
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		for _, k := range keys {
			if err := fn(k.Interface()); err != nil {
				return err
			}
		}
	default:
		return errNotIterable
	}
	return nil
}

func keyLess(a, b reflect.Value) bool {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.String:
			return a.String() < b.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		}
	}
	return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
}
