package templite

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// A Resolver supplies its own properties to dotted expressions. It is
// consulted before any reflection-based lookup.
type Resolver interface {
	Resolve(name string) (value interface{}, ok bool)
}

var (
	errNoProperty    = errors.New("no such property")
	errNeedsArgument = errors.New("requires arguments")
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
)

// resolve performs a single dotted step: attribute, then item, then a call
// if what was found is a function.
func resolve(v interface{}, name string) (interface{}, error) {
	out, ok := attribute(v, name)
	if !ok {
		out, ok = item(v, name)
	}
	if !ok {
		return nil, errNoProperty
	}
	return invoke(out)
}

func attribute(v interface{}, name string) (interface{}, bool) {
	rv := reflect.ValueOf(v)
	// a nil pointer has methods but nothing to call them on
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil, false
	}
	if r, ok := v.(Resolver); ok {
		if out, ok := r.Resolve(name); ok {
			return out, true
		}
	}

	names := goNames(name)
	for _, n := range names {
		if m := rv.MethodByName(n); m.IsValid() {
			return m.Interface(), true
		}
	}

	rv = indirect(rv)
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.IsExported() && f.Tag.Get("templite") == name {
			return rv.Field(i).Interface(), true
		}
	}
	for _, n := range names {
		f, ok := rt.FieldByName(n)
		if !ok || !f.IsExported() {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			continue
		}
		return fv.Interface(), true
	}
	return nil, false
}

func item(v interface{}, name string) (interface{}, bool) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		key := reflect.ValueOf(name)
		switch {
		case kt.Kind() == reflect.String:
			key = key.Convert(kt)
		case kt.Kind() != reflect.Interface:
			return nil, false
		}
		out := rv.MapIndex(key)
		if !out.IsValid() {
			return nil, false
		}
		return out.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.String:
		runes := []rune(rv.String())
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= len(runes) {
			return nil, false
		}
		return string(runes[i]), true
	}
	return nil, false
}

// invoke calls v if it is a function and returns either its one result or
// its result and error. Values that are not functions are returned
// unchanged.
func invoke(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return v, nil
	}
	ft := rv.Type()
	if ft.NumIn() > 1 || (ft.NumIn() == 1 && !ft.IsVariadic()) {
		return nil, errNeedsArgument
	}

	out := rv.Call(nil)
	if len(out) == 0 {
		return nil, nil
	}
	if len(out) == 2 && ft.Out(1) == errorType {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// goNames returns the identifiers a property name may be spelled as in Go:
// the name itself and its CamelCase form (body_markup yields BodyMarkup).
func goNames(name string) []string {
	var camel strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part != "" {
			camel.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	if c := camel.String(); c != "" && c != name {
		return []string{name, c}
	}
	return []string{name}
}
