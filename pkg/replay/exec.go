package replay

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// kitRef stands for the toolkit itself when it is used as a receiver.
type kitRef struct{}

// Env is the set of names bound while executing a program.
type Env map[string]any

// Interp executes parsed programs against a toolkit. Bindings persist
// across Exec calls, so programs emitted by consecutive trace sessions can
// be run in order.
type Interp struct {
	tk  toolkit.Toolkit
	env Env
}

// NewInterp returns an interpreter with root and tk bound, plus bindings.
// Commands referenced by generated code are bound as *toolkit.Command and
// owner namespaces as toolkit.Attributes.
func NewInterp(tk toolkit.Toolkit, bindings Env) *Interp {
	env := Env{trace.RootName: tk.Root(), trace.ToolkitName: kitRef{}}
	for name, v := range bindings {
		env[name] = v
	}
	return &Interp{tk: tk, env: env}
}

// Lookup returns the value bound to name.
func (in *Interp) Lookup(name string) (any, bool) {
	v, ok := in.env[name]
	return v, ok
}

// Exec runs every statement of prog in order. It stops at the first
// failing statement.
func (in *Interp) Exec(prog *Program) error {
	for _, st := range prog.Stmts {
		if err := in.stmt(st); err != nil {
			return errors.Errorf("replay.Exec", errors.KindReplay, "line %d: %w", st.Line(), err)
		}
	}
	return nil
}

// Run parses src and executes it against tk with the given bindings.
func Run(tk toolkit.Toolkit, src string, bindings Env) (*Interp, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	in := NewInterp(tk, bindings)
	return in, in.Exec(prog)
}

func (in *Interp) stmt(st Stmt) error {
	switch st := st.(type) {
	case *CommentStmt:
		return nil
	case *ExprStmt:
		_, err := in.eval(st.X)
		return err
	case *AssignStmt:
		v, err := in.eval(st.X)
		if err != nil {
			return err
		}
		in.env[st.Name] = v
		return nil
	case *AttrStmt:
		target, err := in.eval(st.Target)
		if err != nil {
			return err
		}
		v, err := in.eval(st.X)
		if err != nil {
			return err
		}
		if a, ok := target.(toolkit.Attributes); ok {
			return a.SetAttr(st.Name, v)
		}
		return in.tk.SetAttr(target, st.Name, v)
	case *ItemStmt:
		target, err := in.eval(st.Target)
		if err != nil {
			return err
		}
		key, err := in.key(st.Key)
		if err != nil {
			return err
		}
		v, err := in.eval(st.X)
		if err != nil {
			return err
		}
		return in.tk.SetItem(target, key, v)
	}
	return errors.Errorf("replay.stmt", errors.KindReplay, "unknown statement %T", st)
}

func (in *Interp) key(x Expr) (string, error) {
	v, err := in.eval(x)
	if err != nil {
		return "", err
	}
	key, ok := v.(string)
	if !ok {
		return "", errors.Errorf("replay.key", errors.KindReplay, "item key must be a string, got %T", v)
	}
	return key, nil
}

func (in *Interp) eval(x Expr) (any, error) {
	switch x := x.(type) {
	case *Literal:
		return x.Value, nil
	case *Ident:
		v, ok := in.env[x.Name]
		if !ok {
			return nil, errors.Errorf("replay.eval", errors.KindUnresolved, "undefined name %q: %w", x.Name, errors.ErrUnresolvedReference)
		}
		return v, nil
	case *List:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			v, err := in.eval(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *Selector:
		v, err := in.eval(x.X)
		if err != nil {
			return nil, err
		}
		if a, ok := v.(toolkit.Attributes); ok {
			return a.Attr(x.Name)
		}
		return in.tk.Attr(v, x.Name)
	case *Index:
		v, err := in.eval(x.X)
		if err != nil {
			return nil, err
		}
		key, err := in.key(x.Key)
		if err != nil {
			return nil, err
		}
		return in.tk.Item(v, key)
	case *Call:
		return in.call(x)
	}
	return nil, errors.Errorf("replay.eval", errors.KindReplay, "unknown expression %T", x)
}

func (in *Interp) call(c *Call) (any, error) {
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	var kw toolkit.Options
	for _, k := range c.Kw {
		v, err := in.eval(k.Value)
		if err != nil {
			return nil, err
		}
		kw = append(kw, toolkit.Option{Name: k.Name, Value: v})
	}

	switch fn := c.Func.(type) {
	case *Ident:
		if v, ok := in.env[fn.Name]; ok {
			cmd, ok := v.(*toolkit.Command)
			if !ok {
				return nil, errors.Errorf("replay.call", errors.KindReplay, "%s is not callable", fn.Name)
			}
			cmd.Run(args...)
			return nil, nil
		}
		if !isClassName(fn.Name) {
			return nil, errors.Errorf("replay.call", errors.KindUnresolved, "undefined function %q: %w", fn.Name, errors.ErrUnresolvedReference)
		}
		return in.construct(fn.Name, args, kw)
	case *Selector:
		recv, err := in.eval(fn.X)
		if err != nil {
			return nil, err
		}
		if _, ok := recv.(kitRef); ok {
			return in.kitCall(fn.Name, args, kw)
		}
		return in.tk.Invoke(recv, fn.Name, args, kw)
	}
	return nil, errors.Errorf("replay.call", errors.KindReplay, "cannot call %T", c.Func)
}

func (in *Interp) construct(class string, args []any, kw toolkit.Options) (any, error) {
	var parent toolkit.Object
	switch len(args) {
	case 0:
	case 1:
		parent = args[0]
	default:
		return nil, errors.Errorf("replay.construct", errors.KindReplay, "%s takes at most one positional argument, got %d", class, len(args))
	}
	return in.tk.New(class, parent, kw)
}

func (in *Interp) kitCall(method string, args []any, kw toolkit.Options) (any, error) {
	if method != "connect" || len(args) != 4 || len(kw) != 0 {
		return nil, errors.Errorf("replay.call", errors.KindReplay, "unsupported toolkit call %s with %d arguments", method, len(args))
	}
	signal, ok1 := args[1].(string)
	slot, ok2 := args[3].(string)
	if !ok1 || !ok2 {
		return nil, errors.Errorf("replay.call", errors.KindReplay, "connect: signal and slot must be strings")
	}
	return nil, in.tk.Connect(args[0], signal, args[2], slot)
}

func isClassName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
