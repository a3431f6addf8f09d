package headless

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Dump renders the live widget tree under w, one widget per line, with
// options, packing, contents and connections. Variables are not listed as
// children; they appear inline where an option refers to them. Two trees
// built by the same operations dump identically.
func (t *Toolkit) Dump(w *Widget) string {
	var sb strings.Builder
	t.dump(&sb, w, 0)
	return sb.String()
}

// DumpRoot dumps the whole tree.
func (t *Toolkit) DumpRoot() string {
	return t.Dump(t.root)
}

func (t *Toolkit) dump(sb *strings.Builder, w *Widget, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(w.Path)
	sb.WriteByte(' ')
	sb.WriteString(w.Class)
	for _, opt := range w.Options {
		fmt.Fprintf(sb, " %s=%s", opt.Name, formatValue(opt.Value))
	}
	if w.packed {
		fmt.Fprintf(sb, " [pack %s]", formatValue(w.Pack.Options()))
	}
	if len(w.Attrs) > 0 {
		keys := make([]string, 0, len(w.Attrs))
		for k := range w.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(sb, " .%s=%s", k, formatValue(w.Attrs[k]))
		}
	}
	if len(w.Content) > 0 {
		fmt.Fprintf(sb, " content=%s", formatValue(w.Content))
	}
	for _, e := range w.Entries {
		fmt.Fprintf(sb, " entry(%s)", formatValue(e))
	}
	for _, p := range w.Panes {
		fmt.Fprintf(sb, " pane=%s", p.Path)
	}
	if w.View != [2]float64{} {
		fmt.Fprintf(sb, " view=%v", w.View)
	}
	if w.Class == "Scrollbar" && w.Value != nil {
		fmt.Fprintf(sb, " set=%s", formatValue(w.Value))
	}
	for _, c := range t.Connections(w) {
		fmt.Fprintf(sb, " connect(%s)", c)
	}
	sb.WriteByte('\n')
	for _, c := range w.Children {
		if c.isVar() {
			continue
		}
		t.dump(sb, c, depth+1)
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case *Widget:
		if x.isVar() {
			return fmt.Sprintf("%s(%s)", x.Class, formatValue(x.Value))
		}
		return x.Path
	case *toolkit.Command:
		return x.String()
	case toolkit.Options:
		parts := make([]string, len(x))
		for i, o := range x {
			parts[i] = o.Name + "=" + formatValue(o.Value)
		}
		return strings.Join(parts, " ")
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}
