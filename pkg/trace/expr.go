package trace

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// operand is one resolved argument of a recorded statement.
type operand interface {
	isOperand()
}

// ref refers to a registered object. It renders as the object's name, or as
// its construction expression when the object is inlined.
type ref registry.Handle

// literal is an already spelled constant.
type literal string

// list is a sequence-valued argument.
type list []operand

func (ref) isOperand()     {}
func (literal) isOperand() {}
func (list) isOperand()    {}

type keyword struct {
	name  string
	value operand
}

// call is a callee applied to positional and keyword arguments. Deferred
// constructions are calls whose callee is a class name.
type call struct {
	callee string
	args   []operand
	kw     []keyword
}

type stmtKind int

const (
	stmtConstruct stmtKind = iota
	stmtCall
	stmtSetAttr
	stmtSetItem
	stmtComment
)

type statement struct {
	kind   stmtKind
	handle registry.Handle
	// name is the method, attribute or item key, or the comment text.
	name  string
	expr  *call
	value operand
}

// spell converts a Go value to its literal spelling. Handles and commands
// are left to the caller.
func spell(v any) (literal, bool) {
	if v == nil {
		return "nil", true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return literal(strconv.FormatBool(rv.Bool())), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return literal(strconv.FormatInt(rv.Int(), 10)), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return literal(strconv.FormatUint(rv.Uint(), 10)), true
	case reflect.Float32, reflect.Float64:
		return literal(formatFloat(rv.Float())), true
	case reflect.String:
		return literal(strconv.Quote(rv.String())), true
	}
	return "", false
}

// formatFloat keeps a decimal point so that the value reads back as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func isSequence(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return reflect.Value{}, false
}

// operand resolves v for recording. Every handle reached counts as a use.
func (s *Session) operand(v any) (operand, error) {
	switch x := v.(type) {
	case registry.Handle:
		if err := s.reference(x); err != nil {
			return nil, err
		}
		return ref(x), nil
	case *toolkit.Command:
		if x == nil {
			return literal("nil"), nil
		}
		s.commands[x.Name] = true
		return literal(x.Name), nil
	case toolkit.Options:
		return nil, errors.Errorf("trace.operand", errors.KindUnknown, "options are not a value")
	}
	if lit, ok := spell(v); ok {
		return lit, nil
	}
	if rv, ok := isSequence(v); ok {
		out := make(list, rv.Len())
		for i := range out {
			o, err := s.operand(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = o
		}
		return out, nil
	}
	return nil, errors.Errorf("trace.operand", errors.KindUnknown, "cannot spell a value of type %T", v)
}

// live converts v to what the toolkit expects: handles become their
// objects, sequences become []any.
func (s *Session) live(v any) (any, error) {
	switch x := v.(type) {
	case registry.Handle:
		return s.reg.Object(x)
	}
	if rv, ok := isSequence(v); ok {
		out := make([]any, rv.Len())
		for i := range out {
			e, err := s.live(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	return v, nil
}

func (s *Session) liveArgs(args []any) ([]any, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		v, err := s.live(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Session) liveOptions(opts toolkit.Options) (toolkit.Options, error) {
	if opts == nil {
		return nil, nil
	}
	out := make(toolkit.Options, len(opts))
	for i, o := range opts {
		v, err := s.live(o.Value)
		if err != nil {
			return nil, err
		}
		out[i] = toolkit.Option{Name: o.Name, Value: v}
	}
	return out, nil
}

func (s *Session) call(callee string, args []any, kw toolkit.Options) (*call, error) {
	c := &call{callee: callee}
	for _, a := range args {
		o, err := s.operand(a)
		if err != nil {
			return nil, err
		}
		c.args = append(c.args, o)
	}
	for _, opt := range kw {
		o, err := s.operand(opt.Value)
		if err != nil {
			return nil, err
		}
		c.kw = append(c.kw, keyword{name: opt.Name, value: o})
	}
	return c, nil
}

// renderer spells recorded statements once every naming decision is final.
type renderer struct {
	s *Session
}

func (r renderer) operand(o operand) string {
	switch x := o.(type) {
	case ref:
		h := registry.Handle(x)
		if name, ok := r.s.reg.Lookup(h); ok {
			return name
		}
		if e, ok := r.s.reg.Expression(h); ok {
			return r.call(e.Expr.(*call))
		}
		return "nil"
	case literal:
		return string(x)
	case list:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = r.operand(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "nil"
}

func (r renderer) call(c *call) string {
	var sb strings.Builder
	sb.WriteString(c.callee)
	sb.WriteByte('(')
	for i, a := range c.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.operand(a))
	}
	for i, kw := range c.kw {
		if i > 0 || len(c.args) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kw.name)
		sb.WriteByte('=')
		sb.WriteString(r.operand(kw.value))
	}
	sb.WriteByte(')')
	return sb.String()
}

// statement returns the source line for st, or "" when st produces none
// because its object is inlined at its single use.
func (r renderer) statement(st *statement) string {
	switch st.kind {
	case stmtConstruct:
		expr := r.call(st.expr)
		if name, ok := r.s.reg.Lookup(st.handle); ok {
			return name + " = " + expr
		}
		if r.s.uses[st.handle] == 0 {
			return expr
		}
		return ""
	case stmtCall:
		recv := r.operand(ref(st.handle))
		return recv + "." + r.call(st.expr)
	case stmtSetAttr:
		return r.operand(ref(st.handle)) + "." + st.name + " = " + r.operand(st.value)
	case stmtSetItem:
		return r.operand(ref(st.handle)) + "[" + strconv.Quote(st.name) + "] = " + r.operand(st.value)
	case stmtComment:
		return "// " + st.name
	}
	return ""
}
