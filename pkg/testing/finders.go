package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

// Finder locates live widgets in the headless tree.
type Finder interface {
	// Evaluate returns all matching widgets under root (depth-first
	// pre-order, root included).
	Evaluate(root *headless.Widget) []*headless.Widget
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	widgets []*headless.Widget
	finder  Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *headless.Widget {
	if len(r.widgets) == 0 {
		panic(fmt.Sprintf("Finder found no widgets: %s", r.description()))
	}
	return r.widgets[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *headless.Widget {
	if len(r.widgets) == 0 {
		return nil
	}
	return r.widgets[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *headless.Widget {
	if index < 0 || index >= len(r.widgets) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.widgets), r.description()))
	}
	return r.widgets[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*headless.Widget {
	return r.widgets
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.widgets)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.widgets) > 0
}

// Paths returns the widget paths of all matches.
func (r FinderResult) Paths() []string {
	paths := make([]string, len(r.widgets))
	for i, w := range r.widgets {
		paths[i] = w.Path
	}
	return paths
}

// --- Concrete finders ---

type predicateFinder struct {
	fn   func(*headless.Widget) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *headless.Widget) []*headless.Widget {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByClass matches widgets of the given toolkit class, e.g. "Button".
func ByClass(class string) Finder {
	return &predicateFinder{
		fn:   func(w *headless.Widget) bool { return w.Class == class },
		desc: fmt.Sprintf("ByClass(%s)", class),
	}
}

// ByPath matches the widget with the given path.
func ByPath(path string) Finder {
	return &predicateFinder{
		fn:   func(w *headless.Widget) bool { return w.Path == path },
		desc: fmt.Sprintf("ByPath(%s)", path),
	}
}

// ByOption matches widgets whose construction or configured option name
// equals value.
func ByOption(name string, value any) Finder {
	return &predicateFinder{
		fn: func(w *headless.Widget) bool {
			v, ok := w.Option(name)
			return ok && optionEqual(v, value)
		},
		desc: fmt.Sprintf("ByOption(%s=%v)", name, value),
	}
}

// ByText matches widgets whose text option is exactly text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn: func(w *headless.Widget) bool {
			v, ok := w.Option("text")
			return ok && v == text
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches widgets whose text option contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(w *headless.Widget) bool {
			v, ok := w.Option("text")
			s, isString := v.(string)
			return ok && isString && strings.Contains(s, substring)
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByPredicate returns a finder that matches widgets satisfying fn.
func ByPredicate(fn func(*headless.Widget) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

func optionEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// descendantFinder finds widgets matching 'matching' inside the subtrees
// of widgets matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *headless.Widget) []*headless.Widget {
	var results []*headless.Widget
	seen := make(map[*headless.Widget]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches widgets satisfying 'matching'
// that are descendants of widgets matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// live widgets that satisfy the predicate. Variables and destroyed widgets
// are skipped.
func collectMatches(root *headless.Widget, predicate func(*headless.Widget) bool) []*headless.Widget {
	var results []*headless.Widget
	walkTree(root, func(w *headless.Widget) {
		if predicate(w) {
			results = append(results, w)
		}
	})
	return results
}

func walkTree(w *headless.Widget, visit func(*headless.Widget)) {
	if w == nil || w.Destroyed || isVariable(w) {
		return
	}
	visit(w)
	for _, c := range w.Children {
		walkTree(c, visit)
	}
}

func isVariable(w *headless.Widget) bool {
	return strings.HasSuffix(w.Class, "Var")
}
