package toolkit

import (
	"fmt"
	"math"
)

// Option is one keyword argument.
type Option struct {
	Name  string
	Value any
}

// Options is an ordered keyword argument list. Order is preserved so that
// emitted code is deterministic.
type Options []Option

// Opts builds Options from alternating name/value pairs. It panics on an odd
// count or a non-string name, which is a programming error.
func Opts(pairs ...any) Options {
	if len(pairs)%2 != 0 {
		panic("toolkit.Opts: odd number of arguments")
	}
	opts := make(Options, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("toolkit.Opts: option name must be a string, got %T", pairs[i]))
		}
		opts = append(opts, Option{Name: name, Value: pairs[i+1]})
	}
	return opts
}

// Get returns the value of the named option.
func (o Options) Get(name string) (any, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return nil, false
}

// Has reports whether the named option is present.
func (o Options) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// With returns a copy of o with name set to value, replacing an existing
// entry in place or appending a new one.
func (o Options) With(name string, value any) Options {
	out := o.Clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Option{Name: name, Value: value})
}

// Replace returns a copy of o where the option old is replaced, at the same
// position, by repl. Any other entry already named repl.Name is removed.
func (o Options) Replace(old string, repl Option) Options {
	out := make(Options, 0, len(o))
	for _, opt := range o {
		switch opt.Name {
		case old:
			out = append(out, repl)
		case repl.Name:
		default:
			out = append(out, opt)
		}
	}
	return out
}

// Without returns a copy of o without the named option.
func (o Options) Without(name string) Options {
	out := make(Options, 0, len(o))
	for _, opt := range o {
		if opt.Name != name {
			out = append(out, opt)
		}
	}
	return out
}

// Merge returns a copy of o with every option of other applied by With.
func (o Options) Merge(other Options) Options {
	out := o.Clone()
	for _, opt := range other {
		out = out.With(opt.Name, opt.Value)
	}
	return out
}

// Names returns the distinct option names in order.
func (o Options) Names() []string {
	seen := make(map[string]bool, len(o))
	var names []string
	for _, opt := range o {
		if !seen[opt.Name] {
			seen[opt.Name] = true
			names = append(names, opt.Name)
		}
	}
	return names
}

// Clone returns a shallow copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	copy(out, o)
	return out
}

// AsInt converts integral numeric values to int. Values outside the int
// range are rejected.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if int64(int(n)) != n {
			return 0, false
		}
		return int(n), true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return uintToInt(uint64(n))
	case uint64:
		return uintToInt(n)
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	}
	return 0, false
}

func uintToInt(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// floatToInt rejects NaN, infinities and fractions.
func floatToInt(n float64) (int, bool) {
	if n != math.Trunc(n) || n < math.MinInt || n >= -math.MinInt {
		return 0, false
	}
	return int(n), true
}

// AsFloat converts numeric values to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := AsInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
