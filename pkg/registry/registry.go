// Package registry binds runtime objects to generated names and deferred
// expressions.
//
// Objects are never keyed by their own identity. Each one is stored in an
// arena slot at construction time and is thereafter referred to by its
// [Handle]. Names, deferred expressions and the auto-named set are per trace
// session and are dropped by [Registry.Reset]; arena slots and extern
// bindings outlive sessions.
//
// A Registry is not safe for concurrent use. It belongs to the goroutine
// that owns the toolkit event loop.
package registry

import (
	"fmt"

	"github.com/go-drift/tracegen/pkg/errors"
)

// Handle is a stable reference to an arena slot. The zero Handle is invalid.
type Handle uint32

// Constant handles. They are never named and always render as literals.
const (
	Invalid Handle = iota
	Nothing
	True
	False

	firstDynamic
)

// IsConstant reports whether h is one of the fixed constant handles.
func (h Handle) IsConstant() bool {
	return h >= Nothing && h < firstDynamic
}

func (h Handle) String() string {
	switch h {
	case Invalid:
		return "Handle(invalid)"
	case Nothing, True, False:
		return literals[h]
	default:
		return fmt.Sprintf("Handle(%d)", uint32(h))
	}
}

var literals = map[Handle]string{
	Nothing: "nil",
	True:    "true",
	False:   "false",
}

// DefaultMaxAttempts bounds the suffix search in Register.
const DefaultMaxAttempts = 1 << 16

// Entry is a deferred expression cached for a handle.
type Entry struct {
	// Expr is opaque to the registry; the trace layer stores its own
	// expression tree here.
	Expr any
	// Hint is the proposed name used if the entry is ever promoted.
	Hint string
	// Resolved is set once the entry has been materialized by name.
	Resolved bool
}

type slot struct {
	obj      any
	released bool
}

// Registry is the identity registry.
type Registry struct {
	// MaxAttempts bounds the number of candidate names tried by Register.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int

	arena []slot

	externs map[Handle]string

	names map[Handle]string
	taken map[string]Handle
	exprs map[Handle]*Entry
	auto  map[Handle]bool
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{
		arena:   make([]slot, firstDynamic),
		externs: make(map[Handle]string),
	}
	r.arena[Nothing] = slot{obj: nil}
	r.arena[True] = slot{obj: true}
	r.arena[False] = slot{obj: false}
	r.Reset()
	return r
}

// Reset clears the per-session tables. Arena slots and extern bindings are
// kept; extern names stay reserved.
func (r *Registry) Reset() {
	r.names = make(map[Handle]string)
	r.taken = make(map[string]Handle)
	r.exprs = make(map[Handle]*Entry)
	r.auto = make(map[Handle]bool)
	for _, kw := range reserved {
		r.taken[kw] = Invalid
	}
	for h, name := range r.externs {
		r.names[h] = name
		r.taken[name] = h
	}
}

// reserved words of the generated language.
var reserved = []string{"nil", "true", "false"}

// Alloc stores obj in a new arena slot and returns its handle. Handles are
// never reused.
func (r *Registry) Alloc(obj any) Handle {
	r.arena = append(r.arena, slot{obj: obj})
	return Handle(len(r.arena) - 1)
}

// Object returns the object stored for h.
func (r *Registry) Object(h Handle) (any, error) {
	if h == Invalid || int(h) >= len(r.arena) || r.arena[h].released {
		return nil, errors.Errorf("registry.Object", errors.KindUnresolved, "%v: %w", h, errors.ErrUnresolvedReference)
	}
	return r.arena[h].obj, nil
}

// Valid reports whether h refers to a live arena slot.
func (r *Registry) Valid(h Handle) bool {
	return h != Invalid && int(h) < len(r.arena) && !r.arena[h].released
}

// Release drops the object stored for h. Later Object and Register calls
// for h fail; a name or expression already recorded this session is kept
// until Reset so that pending code still renders.
func (r *Registry) Release(h Handle) {
	if h.IsConstant() || !r.Valid(h) {
		return
	}
	r.arena[h] = slot{released: true}
}

// Bind names h permanently as an extern, e.g. the root window. Extern names
// survive Reset and are never suffixed. Binding a name already used by a
// different handle is an error.
func (r *Registry) Bind(h Handle, name string) error {
	if !r.Valid(h) || h.IsConstant() {
		return errors.Errorf("registry.Bind", errors.KindUnresolved, "%v: %w", h, errors.ErrUnresolvedReference)
	}
	if other, ok := r.taken[name]; ok && other != h {
		return errors.Errorf("registry.Bind", errors.KindNameSpace, "name %q already in use", name)
	}
	r.externs[h] = name
	r.names[h] = name
	r.taken[name] = h
	return nil
}

// Extern returns the extern name bound to h.
func (r *Registry) Extern(h Handle) (string, bool) {
	name, ok := r.externs[h]
	return name, ok
}

// Externs returns all extern names.
func (r *Registry) Externs() []string {
	names := make([]string, 0, len(r.externs))
	for _, name := range r.externs {
		names = append(names, name)
	}
	return names
}

// Register assigns a session name to h, deriving a free name from proposed
// with NextName on collision. A handle is named at most once per session;
// later calls return the existing name.
func (r *Registry) Register(h Handle, proposed string) (string, error) {
	if h.IsConstant() {
		return literals[h], nil
	}
	if !r.Valid(h) {
		return "", errors.Errorf("registry.Register", errors.KindUnresolved, "%v: %w", h, errors.ErrUnresolvedReference)
	}
	if name, ok := r.names[h]; ok {
		return name, nil
	}
	name := proposed
	if name == "" {
		name = NextName("")
	}
	limit := r.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}
	for attempt := 0; ; attempt++ {
		if _, used := r.taken[name]; !used {
			break
		}
		if attempt >= limit {
			return "", errors.Errorf("registry.Register", errors.KindNameSpace,
				"no free name for %q after %d attempts: %w", proposed, limit, errors.ErrNameSpaceExhausted)
		}
		name = NextName(name)
	}
	r.names[h] = name
	r.taken[name] = h
	if e, ok := r.exprs[h]; ok {
		e.Resolved = true
	}
	return name, nil
}

// Lookup returns the spelling of h: the literal for constants, otherwise the
// session name. ok is false when h must still be materialized by the caller.
func (r *Registry) Lookup(h Handle) (string, bool) {
	if lit, ok := literals[h]; ok {
		return lit, true
	}
	name, ok := r.names[h]
	return name, ok
}

// Named reports whether the name is in use this session.
func (r *Registry) Named(name string) bool {
	_, ok := r.taken[name]
	return ok
}

// Defer caches an unresolved expression for h.
func (r *Registry) Defer(h Handle, expr any, hint string) {
	r.exprs[h] = &Entry{Expr: expr, Hint: hint}
}

// Expression returns the cached entry for h.
func (r *Registry) Expression(h Handle) (*Entry, bool) {
	e, ok := r.exprs[h]
	return e, ok
}

// MarkAuto records that h must be promoted to a named variable.
func (r *Registry) MarkAuto(h Handle) {
	r.auto[h] = true
}

// IsAuto reports whether h is in the auto-named set.
func (r *Registry) IsAuto(h Handle) bool {
	return r.auto[h]
}
