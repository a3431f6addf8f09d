package capability

import (
	stderrors "errors"
	"log"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// ExhaustedError is returned when construction keeps failing on unsupported
// options and no further rescue is possible. Its message is the backend's
// last error, verbatim.
type ExhaustedError struct {
	Backend  toolkit.Info
	Class    string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return e.Err.Error()
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is makes ExhaustedError match errors.ErrCapabilityMismatch.
func (e *ExhaustedError) Is(target error) bool {
	return target == errors.ErrCapabilityMismatch
}

// Shim wraps widget construction with capability rescue.
type Shim struct {
	tk    toolkit.Toolkit
	table *Table

	// Verbose logs every option rewrite.
	Verbose bool
}

// NewShim returns a shim for tk using table. A nil table means Default().
func NewShim(tk toolkit.Toolkit, table *Table) *Shim {
	if table == nil {
		table = Default()
	}
	return &Shim{tk: tk, table: table}
}

// Table returns the shim's capability table.
func (s *Shim) Table() *Table {
	return s.table
}

// Prepare rewrites options the table already knows class does not support
// on the current backend. Options without a rescue rule are left for the
// backend to reject.
func (s *Shim) Prepare(class string, opts toolkit.Options) toolkit.Options {
	info := s.tk.Info()
	b, ok := s.table.Lookup(info.Name)
	if !ok {
		return opts
	}
	out := opts
	for _, opt := range opts {
		if b.Supports(class, opt.Name) {
			continue
		}
		rule, ok := b.Rule(opt.Name, info.Version)
		if !ok {
			continue
		}
		out = s.rewrite(out, class, opt, rule)
	}
	return out
}

// New constructs class under parent, rescuing unsupported options. It
// returns the object together with the options that were finally accepted.
//
// Only *toolkit.UnsupportedOptionError failures are retried, one option per
// attempt, at most once per option and never more often than there are
// distinct options. Any other failure is returned unmodified.
func (s *Shim) New(class string, parent toolkit.Object, opts toolkit.Options) (toolkit.Object, toolkit.Options, error) {
	info := s.tk.Info()
	opts = s.Prepare(class, opts)
	limit := len(opts.Names())
	rewritten := make(map[string]bool, limit)

	for attempt := 0; ; attempt++ {
		obj, err := s.tk.New(class, parent, opts)
		if err == nil {
			return obj, opts, nil
		}
		var unsupported *toolkit.UnsupportedOptionError
		if !stderrors.As(err, &unsupported) {
			return nil, nil, err
		}
		exhausted := &ExhaustedError{Backend: info, Class: class, Attempts: attempt + 1, Err: err}
		if attempt >= limit || rewritten[unsupported.Option] {
			return nil, nil, exhausted
		}
		value, ok := opts.Get(unsupported.Option)
		if !ok {
			return nil, nil, exhausted
		}
		rule, ok := s.rule(info, unsupported.Option)
		if !ok {
			return nil, nil, exhausted
		}
		rewritten[unsupported.Option] = true
		opts = s.rewrite(opts, class, toolkit.Option{Name: unsupported.Option, Value: value}, rule)
	}
}

func (s *Shim) rule(info toolkit.Info, option string) (*Rule, bool) {
	b, ok := s.table.Lookup(info.Name)
	if !ok {
		return nil, false
	}
	return b.Rule(option, info.Version)
}

func (s *Shim) rewrite(opts toolkit.Options, class string, opt toolkit.Option, rule *Rule) toolkit.Options {
	repl, keep := rule.Apply(opt.Value)
	if !keep {
		if s.Verbose {
			log.Printf("capability: %s: dropping option %q", class, opt.Name)
		}
		return opts.Without(opt.Name)
	}
	if s.Verbose {
		log.Printf("capability: %s: option %q -> %q", class, opt.Name, repl.Name)
	}
	return opts.Replace(opt.Name, repl)
}
