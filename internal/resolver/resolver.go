// Package resolver classifies raw catalog type descriptors into api types.
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/errilaz/grimo/internal/ir"
	"github.com/errilaz/grimo/internal/logger"
)

// ErrUnresolvedType is matched by every UnresolvedError.
var ErrUnresolvedType = errors.New("grimo: unresolved type")

// maxDepth bounds alias unwrapping on a malformed, cyclic catalog.
const maxDepth = 32

// Alias is the part of a domain the resolver needs.
type Alias struct {
	BaseType string
	NotNull  bool
}

// Lookups are the named types known to the schema, keyed by database name.
// Enums and Composites map to the api name used in references.
type Lookups struct {
	Enums      map[string]string
	Composites map[string]string
	Domains    map[string]Alias
}

// Options tune classification beyond the fixed sets.
type Options struct {
	// Overrides maps a raw type or UDT name to a replacement type name.
	Overrides map[string]string
	// Strings and Numbers extend the string and number sets.
	Strings []string
	Numbers []string
}

// Resolution is the outcome of resolving one attribute.
type Resolution struct {
	Type     ir.ApiType
	Nullable bool
}

type memoKey struct {
	rawType string
	rawUdt  string
}

type memoValue struct {
	typ     ir.ApiType
	notNull bool
}

// Resolver resolves raw type pairs against fixed lookups. Results are
// memoized by (rawType, rawUdt); Resolve is safe for concurrent use.
type Resolver struct {
	lookups Lookups
	strs    map[string]struct{}
	nums    map[string]struct{}
	opts    Options

	mu   sync.Mutex
	memo map[memoKey]memoValue
}

// New creates a resolver. The lookups must be complete: a name missing from
// them resolves as unresolved.
func New(lookups Lookups, opts Options) *Resolver {
	return &Resolver{
		lookups: lookups,
		strs:    set(opts.Strings...),
		nums:    set(opts.Numbers...),
		opts:    opts,
		memo:    make(map[memoKey]memoValue),
	}
}

// Resolve classifies a raw type pair. It never fails; a pair matching no rule
// yields an unresolved type and a warning.
func (r *Resolver) Resolve(rawType, rawUdt string) ir.ApiType {
	typ, _ := r.resolveMemo(rawType, rawUdt)
	return typ
}

// ResolveAttribute applies the nullability policy and resolves the type.
// A UDT name with a not-null suffix forces non-nullable, as does a NOT NULL
// domain anywhere in the alias chain. The suffix is stripped before lookup
// unless the full name is itself a known type.
func (r *Resolver) ResolveAttribute(rawType, rawUdt string, nullable bool) Resolution {
	strippedType, strippedUdt, forced := stripNotNull(rawType, rawUdt)
	if forced && !r.known(rawUdt) {
		rawType, rawUdt = strippedType, strippedUdt
	}
	typ, notNull := r.resolveMemo(rawType, rawUdt)
	return Resolution{
		Type:     typ,
		Nullable: nullable && !forced && !notNull,
	}
}

func (r *Resolver) resolveMemo(rawType, rawUdt string) (ir.ApiType, bool) {
	key := memoKey{rawType, rawUdt}
	r.mu.Lock()
	if v, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return v.typ, v.notNull
	}
	r.mu.Unlock()

	typ, notNull := r.resolve(rawType, rawUdt, 0)
	if !typ.IsResolved() {
		logger.Get().Warn("Unresolved type", "type", rawType, "udt", rawUdt, "result", typ.String())
	}

	r.mu.Lock()
	r.memo[key] = memoValue{typ, notNull}
	r.mu.Unlock()
	return typ, notNull
}

func (r *Resolver) resolve(rawType, rawUdt string, depth int) (ir.ApiType, bool) {
	if depth > maxDepth {
		return ir.Unresolved(fallbackName(rawType, rawUdt)), false
	}

	if name, ok := r.override(rawType, rawUdt); ok {
		return ir.Override(name), false
	}

	if typ, ok := r.primitive(rawType, rawUdt); ok {
		return typ, false
	}

	if elem, ok := arrayElement(rawType, rawUdt); ok {
		inner, _ := r.resolve(TypeUserDefined, elem, depth+1)
		return ir.ArrayOf(inner), false
	}

	if rawUdt != "" && (rawType == TypeUserDefined || rawType == rawUdt) {
		if apiName, ok := r.lookups.Enums[rawUdt]; ok {
			return ir.EnumRef(apiName), false
		}
		if apiName, ok := r.lookups.Composites[rawUdt]; ok {
			return ir.InterfaceRef(apiName), false
		}
		if alias, ok := r.lookups.Domains[rawUdt]; ok {
			typ, notNull := r.resolve(alias.BaseType, alias.BaseType, depth+1)
			return typ, notNull || alias.NotNull
		}
	}

	return ir.Unresolved(fallbackName(rawType, rawUdt)), false
}

// known reports whether name is an override or a named type of the schema.
func (r *Resolver) known(name string) bool {
	if _, ok := r.opts.Overrides[name]; ok {
		return true
	}
	if _, ok := r.lookups.Enums[name]; ok {
		return true
	}
	if _, ok := r.lookups.Composites[name]; ok {
		return true
	}
	_, ok := r.lookups.Domains[name]
	return ok
}

func (r *Resolver) override(rawType, rawUdt string) (string, bool) {
	if name, ok := r.opts.Overrides[rawType]; ok {
		return name, true
	}
	if rawUdt != "" {
		if name, ok := r.opts.Overrides[rawUdt]; ok {
			return name, true
		}
	}
	return "", false
}

func (r *Resolver) primitive(rawType, rawUdt string) (ir.ApiType, bool) {
	switch {
	case in(booleanTypes, rawType, rawUdt):
		return ir.Boolean(), true
	case in(numberTypes, rawType, rawUdt), in(r.nums, rawType, rawUdt):
		return ir.Number(), true
	case in(bigintTypes, rawType, rawUdt):
		return ir.Bigint(), true
	case in(stringTypes, rawType, rawUdt), in(r.strs, rawType, rawUdt):
		return ir.String(), true
	case in(dateTypes, rawType, rawUdt):
		return ir.Date(), true
	case in(jsonTypes, rawType, rawUdt):
		return ir.JSON(), true
	}
	return ir.ApiType{}, false
}

func in(s map[string]struct{}, rawType, rawUdt string) bool {
	if _, ok := s[rawType]; ok {
		return true
	}
	if rawUdt == "" {
		return false
	}
	_, ok := s[rawUdt]
	return ok
}

// arrayElement returns the element UDT of an array descriptor. Columns report
// arrays as ("ARRAY", "_elem"); domain bases name them "_elem" directly.
func arrayElement(rawType, rawUdt string) (string, bool) {
	if !strings.HasPrefix(rawUdt, "_") || len(rawUdt) < 2 {
		return "", false
	}
	if rawType == TypeArray || rawType == rawUdt {
		return rawUdt[1:], true
	}
	return "", false
}

func stripNotNull(rawType, rawUdt string) (string, string, bool) {
	for _, suffix := range notNullSuffixes {
		if len(rawUdt) > len(suffix) && strings.HasSuffix(rawUdt, suffix) {
			base := strings.TrimSuffix(rawUdt, suffix)
			if rawType == rawUdt {
				rawType = base
			}
			return rawType, base, true
		}
	}
	return rawType, rawUdt, false
}

func fallbackName(rawType, rawUdt string) string {
	if rawUdt != "" {
		return rawUdt
	}
	return rawType
}

// UnresolvedError identifies the attribute whose type could not be resolved.
type UnresolvedError struct {
	EntityKind string
	Entity     string
	Attribute  string
	RawType    string
	RawUdt     string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("grimo: cannot resolve type %q (udt %q) of %s %q attribute %q",
		e.RawType, e.RawUdt, e.EntityKind, e.Entity, e.Attribute)
}

// Is reports whether target is ErrUnresolvedType.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolvedType
}
