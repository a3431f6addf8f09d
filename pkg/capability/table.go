// Package capability lets one widget description run against backends that
// disagree on supported construction options.
//
// A [Table] lists, per backend, the options each widget class supports and a
// rescue rule per option. The [Shim] consults the table before construction
// and, when a backend still rejects an option with a
// *toolkit.UnsupportedOptionError, rewrites that one option and retries.
package capability

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Action is what a rescue rule does with an unsupported option.
type Action string

const (
	// Drop removes the option.
	Drop Action = "drop"
	// Rename keeps the value under another option name.
	Rename Action = "rename"
	// Replace substitutes both name (optional) and value.
	Replace Action = "replace"
)

// RescueFunc computes the substitute for an option value. keep=false drops
// the option.
type RescueFunc func(value any) (repl toolkit.Option, keep bool)

// Rule rewrites one unsupported option.
type Rule struct {
	Option string `yaml:"option"`
	Action Action `yaml:"action"`
	To     string `yaml:"to,omitempty"`
	Value  any    `yaml:"value,omitempty"`
	// MinVersion and MaxVersion gate the rule to backend versions in
	// [MinVersion, MaxVersion). Either may be empty.
	MinVersion string `yaml:"min_version,omitempty"`
	MaxVersion string `yaml:"max_version,omitempty"`

	// Func overrides Action when set. It cannot be loaded from YAML.
	Func RescueFunc `yaml:"-"`
}

// AppliesTo reports whether the rule's version gate admits version.
func (r *Rule) AppliesTo(version string) bool {
	if r.MinVersion == "" && r.MaxVersion == "" {
		return true
	}
	if !semver.IsValid(version) {
		return false
	}
	if r.MinVersion != "" && semver.Compare(version, r.MinVersion) < 0 {
		return false
	}
	if r.MaxVersion != "" && semver.Compare(version, r.MaxVersion) >= 0 {
		return false
	}
	return true
}

// Apply rewrites value. keep=false means the option is dropped.
func (r *Rule) Apply(value any) (toolkit.Option, bool) {
	if r.Func != nil {
		return r.Func(value)
	}
	switch r.Action {
	case Rename:
		return toolkit.Option{Name: r.To, Value: value}, true
	case Replace:
		name := r.To
		if name == "" {
			name = r.Option
		}
		return toolkit.Option{Name: name, Value: r.Value}, true
	default:
		return toolkit.Option{}, false
	}
}

func (r *Rule) validate() error {
	if r.Option == "" {
		return fmt.Errorf("rescue rule without option")
	}
	if r.Func != nil {
		return nil
	}
	switch r.Action {
	case Drop:
	case Rename:
		if r.To == "" {
			return fmt.Errorf("rename rule for %q needs \"to\"", r.Option)
		}
	case Replace:
	default:
		return fmt.Errorf("rule for %q: unknown action %q", r.Option, r.Action)
	}
	for _, v := range []string{r.MinVersion, r.MaxVersion} {
		if v != "" && !semver.IsValid(v) {
			return fmt.Errorf("rule for %q: invalid version %q", r.Option, v)
		}
	}
	return nil
}

// Backend describes one backend's capabilities.
type Backend struct {
	// Supported maps a widget class (or "*" for every class) to the options
	// it accepts. A class absent from the map accepts everything.
	Supported map[string][]string `yaml:"supported,omitempty"`
	// Rescue holds at most one applicable rule per option; the first rule
	// whose version gate matches wins.
	Rescue []Rule `yaml:"rescue,omitempty"`
}

// Supports reports whether class accepts option according to the table.
func (b *Backend) Supports(class, option string) bool {
	if b == nil || b.Supported == nil {
		return true
	}
	list, ok := b.Supported[class]
	if !ok {
		list, ok = b.Supported["*"]
	}
	if !ok {
		return true
	}
	return slices.Contains(list, option)
}

// Rule returns the first rescue rule for option that applies to version.
func (b *Backend) Rule(option, version string) (*Rule, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Rescue {
		r := &b.Rescue[i]
		if r.Option == option && r.AppliesTo(version) {
			return r, true
		}
	}
	return nil, false
}

// Table maps backend names to capabilities.
type Table struct {
	Backends map[string]*Backend `yaml:"backends"`
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{Backends: make(map[string]*Backend)}
}

// Backend returns the entry for name, creating it if needed.
func (t *Table) Backend(name string) *Backend {
	if t.Backends == nil {
		t.Backends = make(map[string]*Backend)
	}
	b, ok := t.Backends[name]
	if !ok {
		b = &Backend{}
		t.Backends[name] = b
	}
	return b
}

// Lookup returns the entry for name without creating it.
func (t *Table) Lookup(name string) (*Backend, bool) {
	if t == nil {
		return nil, false
	}
	b, ok := t.Backends[name]
	return b, ok
}

// AddRule appends a rescue rule for backend.
func (t *Table) AddRule(backend string, r Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	b := t.Backend(backend)
	b.Rescue = append(b.Rescue, r)
	return nil
}

// DropOption is shorthand for a rule that removes option on backend.
func (t *Table) DropOption(backend, option string) {
	t.Backend(backend).Rescue = append(t.Backend(backend).Rescue, Rule{Option: option, Action: Drop})
}

// BackendNames returns the backend names in sorted order.
func (t *Table) BackendNames() []string {
	names := make([]string, 0, len(t.Backends))
	for name := range t.Backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load parses a YAML capability table.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	t := NewTable()
	if err := dec.Decode(t); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse capability table: %w", err)
	}
	for name, b := range t.Backends {
		if b == nil {
			t.Backends[name] = &Backend{}
			continue
		}
		for i := range b.Rescue {
			if err := b.Rescue[i].validate(); err != nil {
				return nil, fmt.Errorf("backend %s: %w", name, err)
			}
		}
	}
	return t, nil
}

// LoadFile parses the YAML capability table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capability table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Marshal renders t as YAML. Func rules are omitted by the encoder.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
