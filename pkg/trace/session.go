// Package trace records the operations performed on a live toolkit and
// replays them as flat source text.
//
// A [Session] is the single entry point for constructing and mutating
// toolkit objects. Every object it constructs is stored in a
// [registry.Registry] and referred to by handle. While tracing is enabled,
// constructions are cached as deferred expressions and mutations are
// recorded as statements; [Session.Code] then spells the program.
//
// A construction is declared as "name = Class(...)" when its object has been
// named, either through an explicit hint or by promotion. Objects are
// promoted when used as the receiver of a call, as the target or value of an
// attribute or item assignment, or when referenced a second time. An object
// referenced exactly once and never promoted is inlined at its use; an
// object never referenced becomes a bare expression statement.
//
// The generated program is strictly linear. A loop that constructs widgets
// unrolls into repeated statements.
//
// A Session is not safe for concurrent use; see package dispatch for calling
// into it from other goroutines.
package trace

import (
	"slices"
	"strings"

	"github.com/go-drift/tracegen/pkg/capability"
	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Extern names bound by every session.
const (
	RootName    = "root"
	ToolkitName = "tk"
)

// Session owns the toolkit, the capability shim, the identity registry and
// the statement buffer of one trace.
type Session struct {
	tk      toolkit.Toolkit
	shim    *capability.Shim
	table   *capability.Table
	reg     *registry.Registry
	names   map[string]string
	enabled bool
	pending string

	root     registry.Handle
	kit      registry.Handle
	stmts    []*statement
	uses     map[registry.Handle]int
	commands map[string]bool
}

// Option configures a Session.
type Option func(*Session)

// WithTable sets the capability table used for construction. The default
// is capability.Default().
func WithTable(t *capability.Table) Option {
	return func(s *Session) { s.table = t }
}

// WithNames overrides name hints: a hint found in names is replaced by the
// mapped name before registration.
func WithNames(names map[string]string) Option {
	return func(s *Session) {
		for k, v := range names {
			s.names[k] = v
		}
	}
}

// Disabled starts the session with tracing off.
func Disabled() Option {
	return func(s *Session) { s.enabled = false }
}

// NewSession returns a session over tk with tracing enabled. The toolkit's
// root window and the toolkit itself are bound as the externs "root" and
// "tk".
func NewSession(tk toolkit.Toolkit, opts ...Option) *Session {
	s := &Session{
		tk:       tk,
		reg:      registry.New(),
		names:    make(map[string]string),
		enabled:  true,
		uses:     make(map[registry.Handle]int),
		commands: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shim = capability.NewShim(liveToolkit{Toolkit: tk, s: s}, s.table)
	// A fresh registry has no names that could collide.
	s.root, _ = s.Extern(RootName, tk.Root())
	s.kit, _ = s.Extern(ToolkitName, tk)
	return s
}

// liveToolkit converts handles in construction options to their objects, so
// that the shim rewrites options in recorded terms.
type liveToolkit struct {
	toolkit.Toolkit
	s *Session
}

func (l liveToolkit) New(class string, parent toolkit.Object, opts toolkit.Options) (toolkit.Object, error) {
	live, err := l.s.liveOptions(opts)
	if err != nil {
		return nil, err
	}
	return l.Toolkit.New(class, parent, live)
}

// Toolkit returns the live toolkit.
func (s *Session) Toolkit() toolkit.Toolkit {
	return s.tk
}

// Shim returns the capability shim used for construction.
func (s *Session) Shim() *capability.Shim {
	return s.shim
}

// Registry returns the session's identity registry.
func (s *Session) Registry() *registry.Registry {
	return s.reg
}

// Root returns the handle of the toolkit's root window.
func (s *Session) Root() registry.Handle {
	return s.root
}

// ToolkitHandle returns the handle bound to the toolkit itself.
func (s *Session) ToolkitHandle() registry.Handle {
	return s.kit
}

// Enable turns tracing on.
func (s *Session) Enable() { s.enabled = true }

// Disable turns tracing off. Operations still reach the toolkit.
func (s *Session) Disable() { s.enabled = false }

// Enabled reports whether tracing is on.
func (s *Session) Enabled() bool { return s.enabled }

// Extern binds obj under a fixed name that generated code may use without
// declaring it. Extern names survive Code and Clear.
func (s *Session) Extern(name string, obj any) (registry.Handle, error) {
	h := s.reg.Alloc(obj)
	if err := s.reg.Bind(h, name); err != nil {
		s.reg.Release(h)
		return registry.Invalid, err
	}
	return h, nil
}

// Externs returns the names generated code expects to be bound: the
// session's externs plus every command referenced since the last Code or
// Clear, sorted.
func (s *Session) Externs() []string {
	names := s.reg.Externs()
	for name := range s.commands {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Object returns the live object for h.
func (s *Session) Object(h registry.Handle) (toolkit.Object, error) {
	return s.reg.Object(h)
}

// Lookup returns the spelling of h in the current session, if it has one.
func (s *Session) Lookup(h registry.Handle) (string, bool) {
	return s.reg.Lookup(h)
}

// New constructs class under parent. A parent of registry.Invalid means no
// parent. The construction is traced as a deferred expression that is named
// only if the object is promoted later.
func (s *Session) New(class string, parent registry.Handle, opts toolkit.Options) (registry.Handle, error) {
	return s.construct("", class, parent, opts)
}

// NewNamed is New for widget construction entry points: the object is named
// immediately after hint, or after the name the session's name table maps
// hint to.
func (s *Session) NewNamed(hint, class string, parent registry.Handle, opts toolkit.Options) (registry.Handle, error) {
	return s.construct(hint, class, parent, opts)
}

// Hint makes the next construction use name as its name hint, replacing
// the hint of the construction entry point.
func (s *Session) Hint(name string) {
	s.pending = name
}

func (s *Session) construct(hint, class string, parent registry.Handle, opts toolkit.Options) (registry.Handle, error) {
	if s.pending != "" {
		hint, s.pending = s.pending, ""
	}
	var parentObj toolkit.Object
	if parent != registry.Invalid {
		obj, err := s.reg.Object(parent)
		if err != nil {
			return registry.Invalid, err
		}
		parentObj = obj
	}
	obj, used, err := s.shim.New(class, parentObj, opts)
	if err != nil {
		return registry.Invalid, err
	}
	h := s.reg.Alloc(obj)
	if !s.enabled {
		return h, nil
	}

	var args []any
	if parent != registry.Invalid {
		args = []any{parent}
	}
	expr, err := s.call(class, args, used)
	if err != nil {
		return h, err
	}
	auto := hint
	if auto == "" {
		auto = registry.Identifier(class)
	}
	s.reg.Defer(h, expr, s.nameFor(auto))
	s.stmts = append(s.stmts, &statement{kind: stmtConstruct, handle: h, expr: expr})
	if hint != "" {
		if _, err := s.reg.Register(h, s.nameFor(hint)); err != nil {
			return h, err
		}
	}
	return h, nil
}

// nameFor maps hint through the name table. Either way the result is
// spelled as an identifier.
func (s *Session) nameFor(hint string) string {
	if name, ok := s.names[hint]; ok {
		hint = name
	}
	return registry.Identifier(hint)
}

// reference counts one use of h as an argument. h stays inline only while
// its construction is the last recorded statement, so spelling it at the use
// site keeps construction order. A second use, or a use after anything else
// was recorded, promotes it.
func (s *Session) reference(h registry.Handle) error {
	if _, ok := s.reg.Lookup(h); ok {
		s.uses[h]++
		return nil
	}
	if _, ok := s.reg.Expression(h); !ok {
		return errors.Errorf("trace.reference", errors.KindUnresolved, "%v: %w", h, errors.ErrUnresolvedReference)
	}
	s.uses[h]++
	if s.uses[h] > 1 || !s.lastConstructed(h) {
		return s.promote(h)
	}
	return nil
}

// lastConstructed reports whether the most recent statement constructs h.
func (s *Session) lastConstructed(h registry.Handle) bool {
	if len(s.stmts) == 0 {
		return false
	}
	last := s.stmts[len(s.stmts)-1]
	return last.kind == stmtConstruct && last.handle == h
}

// promote names h if it is not named yet.
func (s *Session) promote(h registry.Handle) error {
	if _, ok := s.reg.Lookup(h); ok {
		return nil
	}
	e, ok := s.reg.Expression(h)
	if !ok {
		return errors.Errorf("trace.promote", errors.KindUnresolved, "%v: %w", h, errors.ErrUnresolvedReference)
	}
	if _, err := s.reg.Register(h, e.Hint); err != nil {
		return err
	}
	s.reg.MarkAuto(h)
	return nil
}

// SetAttr sets an attribute on h and records "x.name = value".
func (s *Session) SetAttr(h registry.Handle, name string, value any) error {
	obj, err := s.reg.Object(h)
	if err != nil {
		return err
	}
	v, err := s.live(value)
	if err != nil {
		return err
	}
	if a, ok := obj.(toolkit.Attributes); ok {
		err = a.SetAttr(name, v)
	} else {
		err = s.tk.SetAttr(obj, name, v)
	}
	if err != nil || !s.enabled {
		return err
	}
	target, val, err := s.assignment(h, value)
	if err != nil {
		return err
	}
	s.stmts = append(s.stmts, &statement{kind: stmtSetAttr, handle: target, name: name, value: val})
	return nil
}

// Attr reads an attribute of h. Reads are not recorded.
func (s *Session) Attr(h registry.Handle, name string) (any, error) {
	obj, err := s.reg.Object(h)
	if err != nil {
		return nil, err
	}
	if a, ok := obj.(toolkit.Attributes); ok {
		return a.Attr(name)
	}
	return s.tk.Attr(obj, name)
}

// SetItem sets configuration key of h and records `x["key"] = value`.
func (s *Session) SetItem(h registry.Handle, key string, value any) error {
	obj, err := s.reg.Object(h)
	if err != nil {
		return err
	}
	v, err := s.live(value)
	if err != nil {
		return err
	}
	if err := s.tk.SetItem(obj, key, v); err != nil || !s.enabled {
		return err
	}
	target, val, err := s.assignment(h, value)
	if err != nil {
		return err
	}
	s.stmts = append(s.stmts, &statement{kind: stmtSetItem, handle: target, name: key, value: val})
	return nil
}

// Item reads configuration key of h. Reads are not recorded.
func (s *Session) Item(h registry.Handle, key string) (any, error) {
	obj, err := s.reg.Object(h)
	if err != nil {
		return nil, err
	}
	return s.tk.Item(obj, key)
}

// assignment resolves both sides of an attribute or item assignment,
// promoting each if it is still unnamed.
func (s *Session) assignment(h registry.Handle, value any) (registry.Handle, operand, error) {
	if err := s.promote(h); err != nil {
		return h, nil, err
	}
	if vh, ok := value.(registry.Handle); ok && !vh.IsConstant() {
		if err := s.promote(vh); err != nil {
			return h, nil, err
		}
	}
	val, err := s.operand(value)
	return h, val, err
}

// Call invokes method on h and records "x.method(args, k=v)". The result is
// returned as the toolkit produced it.
func (s *Session) Call(h registry.Handle, method string, args []any, kw toolkit.Options) (any, error) {
	obj, err := s.reg.Object(h)
	if err != nil {
		return nil, err
	}
	liveArgs, err := s.liveArgs(args)
	if err != nil {
		return nil, err
	}
	liveKw, err := s.liveOptions(kw)
	if err != nil {
		return nil, err
	}
	result, err := s.tk.Invoke(obj, method, liveArgs, liveKw)
	if err != nil || !s.enabled {
		return result, err
	}
	if err := s.promote(h); err != nil {
		return result, err
	}
	expr, err := s.call(method, args, kw)
	if err != nil {
		return result, err
	}
	s.stmts = append(s.stmts, &statement{kind: stmtCall, handle: h, expr: expr})
	return result, nil
}

// Connect binds signal of sender to slot of receiver and records
// `tk.connect(sender, "signal", receiver, "slot")`.
func (s *Session) Connect(sender registry.Handle, signal string, receiver registry.Handle, slot string) error {
	from, err := s.reg.Object(sender)
	if err != nil {
		return err
	}
	to, err := s.reg.Object(receiver)
	if err != nil {
		return err
	}
	if err := s.tk.Connect(from, signal, to, slot); err != nil || !s.enabled {
		return err
	}
	expr, err := s.call("connect", []any{sender, signal, receiver, slot}, nil)
	if err != nil {
		return err
	}
	s.stmts = append(s.stmts, &statement{kind: stmtCall, handle: s.kit, expr: expr})
	return nil
}

// Comment records a comment line.
func (s *Session) Comment(text string) {
	if !s.enabled {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		s.stmts = append(s.stmts, &statement{kind: stmtComment, name: line})
	}
}

// Release forgets the live object of h, e.g. after it was destroyed.
func (s *Session) Release(h registry.Handle) {
	s.reg.Release(h)
}

// Code returns the statements recorded since the last Code or Clear, joined
// by newlines, and ends the trace session. A second call without
// intervening operations returns "".
func (s *Session) Code() string {
	r := renderer{s: s}
	lines := make([]string, 0, len(s.stmts))
	for _, st := range s.stmts {
		if line := r.statement(st); line != "" {
			lines = append(lines, line)
		}
	}
	s.Clear()
	return strings.Join(lines, "\n")
}

// Clear discards the recorded statements and every session name. Objects
// constructed before Clear cannot be referenced by later statements.
func (s *Session) Clear() {
	s.stmts = nil
	s.pending = ""
	s.uses = make(map[registry.Handle]int)
	s.commands = make(map[string]bool)
	s.reg.Reset()
}
