package veil

import (
	"context"
	"fmt"
	"reflect"
)

// Walker applies the obfuscator to every marked field reachable from a value.
// A Walker holds no per-call state and is safe for concurrent use.
type Walker struct {
	obf *Obfuscator
}

// NewWalker creates a walker backed by obf.
func NewWalker(obf *Obfuscator) *Walker {
	return &Walker{obf: obf}
}

// Transform walks v and runs every marked field through Obfuscator.Apply.
//
// Pointers, maps and slices are modified in place and returned as-is. Values
// that cannot be modified in place (a struct passed by value) are copied, and
// the transformed copy is returned.
func (w *Walker) Transform(v any) (any, error) {
	out, _, err := w.transform(context.Background(), v)
	return out, err
}

// TransformContext is Transform with a context for emitted signals.
func (w *Walker) TransformContext(ctx context.Context, v any) (any, error) {
	out, _, err := w.transform(ctx, v)
	return out, err
}

// TransformValue is a typed convenience around Walker.TransformContext.
func TransformValue[T any](ctx context.Context, w *Walker, v T) (T, error) {
	out, err := w.TransformContext(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	if out == nil {
		var zero T
		return zero, nil
	}
	return out.(T), nil
}

// transform walks v and reports how many fields were rewritten.
func (w *Walker) transform(ctx context.Context, v any) (any, int, error) {
	if v == nil {
		return nil, 0, nil
	}

	st := &walk{
		ctx:     ctx,
		apply:   w.obf.Apply,
		visited: make(map[visitKey]bool),
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if err := st.value(rv, ""); err != nil {
			return v, st.applied, err
		}
		return v, st.applied, nil
	}

	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)
	if err := st.value(cp, ""); err != nil {
		return v, st.applied, err
	}
	return cp.Interface(), st.applied, nil
}

// visitKey identifies a reference visited during one walk.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// walk is the state of a single traversal.
type walk struct {
	ctx     context.Context
	apply   ApplyFunc
	visited map[visitKey]bool
	pinned  []reflect.Value
	applied int
}

// seen marks a reference as visited and reports whether it already was.
func (st *walk) seen(rv reflect.Value) bool {
	key := visitKey{ptr: rv.Pointer(), typ: rv.Type()}
	if st.visited[key] {
		return true
	}
	st.visited[key] = true
	// Copies made during the walk must outlive it so their addresses are
	// not reused by later copies.
	st.pinned = append(st.pinned, rv)
	return false
}

func (st *walk) value(rv reflect.Value, path string) error {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() || st.seen(rv) {
			return nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return st.structValue(rv.Elem(), path)
		}
		if vr, ok := asVeiler(rv); ok {
			return st.veil(vr, rv.Elem().Type(), path)
		}
		return st.value(rv.Elem(), path)

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		elem := rv.Elem()
		if !needsCopy(elem.Kind()) {
			return st.value(elem, path)
		}
		if !rv.CanSet() {
			return nil
		}
		cp := reflect.New(elem.Type()).Elem()
		cp.Set(elem)
		if err := st.value(cp, path); err != nil {
			return err
		}
		rv.Set(cp)
		return nil

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := st.value(rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := st.value(rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if rv.IsNil() || st.seen(rv) {
			return nil
		}
		copyBack := needsCopy(rv.Type().Elem().Kind())
		iter := rv.MapRange()
		for iter.Next() {
			k, v := iter.Key(), iter.Value()
			elemPath := fmt.Sprintf("%s[%v]", path, k.Interface())
			if !copyBack {
				if err := st.value(v, elemPath); err != nil {
					return err
				}
				continue
			}
			cp := reflect.New(v.Type()).Elem()
			cp.Set(v)
			if err := st.value(cp, elemPath); err != nil {
				return err
			}
			rv.SetMapIndex(k, cp)
		}
		return nil

	case reflect.Struct:
		// A struct held in place (a field or an element) shares its
		// identity with any pointer to it.
		if rv.CanAddr() && st.seen(rv.Addr()) {
			return nil
		}
		return st.structValue(rv, path)
	}

	// Scalars are opaque.
	return nil
}

// structValue walks a struct that has already been recorded as visited.
func (st *walk) structValue(rv reflect.Value, path string) error {
	if rv.CanAddr() {
		if vr, ok := asVeiler(rv.Addr()); ok {
			return st.veil(vr, rv.Type(), path)
		}
	} else if vr, ok := asVeiler(rv); ok {
		return st.veil(vr, rv.Type(), path)
	}
	return st.composite(rv, path)
}

// composite applies a struct type's plan. Structs that are not composites
// are opaque and their tags are never resolved.
func (st *walk) composite(rv reflect.Value, path string) error {
	if !isComposite(rv.Type()) {
		return nil
	}
	plan, err := planFor(rv.Type())
	if err != nil {
		return err
	}
	if path == "" {
		path = plan.typeName
	}

	for _, leaf := range plan.leaves {
		if err := st.leaf(rv, plan, leaf, path); err != nil {
			return err
		}
	}

	for _, nest := range plan.nested {
		field, err := rv.FieldByIndexErr(nest.index)
		if err != nil {
			continue
		}
		if err := st.value(field, path+"."+nest.name); err != nil {
			return err
		}
	}

	return nil
}

// leaf rewrites a single marked field.
func (st *walk) leaf(rv reflect.Value, plan *typePlan, leaf leafPlan, path string) error {
	name := path + "." + leaf.name

	switch leaf.kind {
	case leafInaccessible:
		emitFieldSkipped(st.ctx, plan.typeName, leaf.name, leaf.domain.Name, "unexported field")
		return nil
	case leafUnsupported:
		emitFieldSkipped(st.ctx, plan.typeName, leaf.name, leaf.domain.Name, "field is not text")
		return nil
	}

	field, err := rv.FieldByIndexErr(leaf.index)
	if err != nil {
		return nil
	}

	if leaf.kind == leafStringPtr {
		if field.IsNil() {
			return nil
		}
		field = field.Elem()
	}

	if !field.CanSet() {
		emitFieldSkipped(st.ctx, plan.typeName, leaf.name, leaf.domain.Name, "field is not settable")
		return nil
	}

	before := field.String()
	after, err := st.apply(before, leaf.domain)
	if err != nil {
		return newTransformError(name, leaf.domain, err)
	}
	if after != before {
		field.SetString(after)
		st.applied++
		emitFieldApplied(st.ctx, plan.typeName, leaf.name, leaf.domain.Name)
	}
	return nil
}

// veil hands a value to its own Veil implementation.
func (st *walk) veil(vr Veiler, rt reflect.Type, path string) error {
	if path == "" {
		path = rt.Name()
	}
	counted := func(value string, d Domain) (string, error) {
		out, err := st.apply(value, d)
		if err != nil {
			return "", newTransformError(path, d, err)
		}
		if out != value {
			st.applied++
		}
		return out, nil
	}
	return vr.Veil(counted)
}

func asVeiler(rv reflect.Value) (Veiler, bool) {
	if !rv.CanInterface() {
		return nil, false
	}
	vr, ok := rv.Interface().(Veiler)
	return vr, ok
}

// needsCopy reports whether values of kind k must be copied to be modified.
func needsCopy(k reflect.Kind) bool {
	switch k {
	case reflect.Struct, reflect.Array, reflect.Interface:
		return true
	}
	return false
}
