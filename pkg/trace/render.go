package trace

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Program is generated code together with what it needs to run.
type Program struct {
	Name    string
	Backend toolkit.Info
	Externs []string
	Code    string
}

const programTemplate = `// {{ .Name }}: generated by tracegen{{ with .Backend.Name }} for the {{ . }} backend{{ end }}.
{{- if .Externs }}
// externs: {{ join ", " .Externs }}
{{- end }}
{{ .Code | trim }}
`

var program = template.Must(template.New("program").Funcs(sprig.TxtFuncMap()).Parse(programTemplate))

// Program ends the trace session and returns its code with the externs it
// refers to.
func (s *Session) Program(name string) Program {
	externs := s.Externs()
	return Program{
		Name:    name,
		Backend: s.tk.Info(),
		Externs: externs,
		Code:    s.Code(),
	}
}

// Render spells p as a standalone program: a comment header naming the
// externs followed by the code.
func Render(p Program) (string, error) {
	var buf bytes.Buffer
	if err := program.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("could not render program %q: %w", p.Name, err)
	}
	return buf.String(), nil
}
