package veil

import (
	"go/token"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// TagName is the struct tag that marks a field for transformation.
// Its value is the name of the field's domain: `hashid:"student"`.
const TagName = "hashid"

func init() {
	sentinel.Tag(TagName)
}

var compositeType = reflect.TypeFor[Composite]()

// leafKind describes how a marked field can be read and written.
type leafKind int

const (
	leafString       leafKind = iota // string (or a named string type)
	leafStringPtr                    // *string
	leafUnsupported                  // marked but not text
	leafInaccessible                 // marked but unexported
)

// leafPlan describes a marked field.
type leafPlan struct {
	index  []int  // reflect.Value.FieldByIndex access path
	name   string // field name for errors and signals
	domain Domain
	kind   leafKind
}

// nestPlan describes an unmarked field whose value may hold composites.
type nestPlan struct {
	index []int
	name  string
}

// typePlan is the resolved transformation metadata for one struct type.
type typePlan struct {
	typeName  string
	composite bool
	leaves    []leafPlan
	nested    []nestPlan
}

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// Register resolves and caches the plan for T so tag errors surface at
// startup instead of on the first request. T must be a struct or a pointer
// to a struct.
func Register[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		sentinel.Scan[T]()
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return &ConfigError{Err: ErrInvalidTag, Reason: "cannot register non-struct type " + rt.String()}
	}
	_, err := planFor(rt)
	return err
}

// planFor returns the cached plan for a struct type, building it on first use.
func planFor(rt reflect.Type) (*typePlan, error) {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if p, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return p, nil
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if p, ok := plans[rt]; ok {
		return p, nil
	}

	p, err := buildPlan(rt)
	if err != nil {
		return nil, err
	}
	plans[rt] = p
	return p, nil
}

// resetPlans clears the plan cache. Used by tests.
func resetPlans() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}

// buildPlan scans a struct type's fields for markers.
func buildPlan(rt reflect.Type) (*typePlan, error) {
	p := &typePlan{
		typeName:  rt.Name(),
		composite: isComposite(rt),
	}

	for _, f := range fieldsOf(p, rt) {
		if !f.marked {
			if !f.exported {
				continue
			}
			switch f.typ.Kind() {
			case reflect.Struct, reflect.Pointer, reflect.Slice, reflect.Array,
				reflect.Map, reflect.Interface:
				p.nested = append(p.nested, nestPlan{index: f.index, name: f.name})
			}
			continue
		}

		d, err := resolveTag(f.domain, f.name)
		if err != nil {
			return nil, err
		}
		kind := leafInaccessible
		if f.exported {
			kind = leafKindOf(f.typ)
		}
		p.leaves = append(p.leaves, leafPlan{
			index:  f.index,
			name:   f.name,
			domain: d,
			kind:   kind,
		})
	}

	return p, nil
}

// planField is one struct field as seen by the planner.
type planField struct {
	name     string
	index    []int
	typ      reflect.Type
	domain   string
	marked   bool
	exported bool
}

// fieldsOf lists the direct fields of rt. Exported fields come from sentinel
// metadata when the type has been scanned; sentinel does not report
// unexported fields, so those are always read from the type.
func fieldsOf(p *typePlan, rt reflect.Type) []planField {
	fields := make([]planField, 0, rt.NumField())
	meta, scanned := lookupMetadata(rt)
	if scanned {
		p.typeName = meta.TypeName
		for _, fm := range meta.Fields {
			if !token.IsExported(fm.Name) {
				continue
			}
			domain, marked := fm.Tags[TagName]
			if !marked {
				// sentinel omits empty tag values
				domain, marked = rt.FieldByIndex(fm.Index).Tag.Lookup(TagName)
			}
			fields = append(fields, planField{
				name:     fm.Name,
				index:    append([]int{}, fm.Index...),
				typ:      fm.ReflectType,
				domain:   domain,
				marked:   marked,
				exported: true,
			})
		}
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if scanned && sf.IsExported() {
			continue
		}
		domain, marked := sf.Tag.Lookup(TagName)
		fields = append(fields, planField{
			name:     sf.Name,
			index:    sf.Index,
			typ:      sf.Type,
			domain:   domain,
			marked:   marked,
			exported: sf.IsExported(),
		})
	}
	return fields
}

// lookupMetadata returns sentinel's metadata for rt. sentinel caches by bare
// type name, so the package path must match as well.
func lookupMetadata(rt reflect.Type) (sentinel.Metadata, bool) {
	if rt.Name() == "" {
		return sentinel.Metadata{}, false
	}
	meta, ok := sentinel.Lookup(rt.Name())
	if !ok || meta.PackageName != rt.PkgPath() || len(meta.Fields) == 0 {
		return sentinel.Metadata{}, false
	}
	return meta, true
}

// isComposite reports whether rt or *rt implements Composite.
func isComposite(rt reflect.Type) bool {
	return rt.Implements(compositeType) || reflect.PointerTo(rt).Implements(compositeType)
}

func resolveTag(val, field string) (Domain, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return Domain{}, &ConfigError{Err: ErrInvalidTag, Field: field, Reason: "empty domain"}
	}
	d, err := ResolveDomain(val)
	if err != nil {
		return Domain{}, &ConfigError{Err: ErrUnknownDomain, Field: field, Domain: val}
	}
	return d, nil
}

func leafKindOf(rt reflect.Type) leafKind {
	switch {
	case rt.Kind() == reflect.String:
		return leafString
	case rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.String:
		return leafStringPtr
	default:
		return leafUnsupported
	}
}
