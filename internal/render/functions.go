package render

import (
	"strings"
	"text/template"
)

// CustomFuncMap returns the custom template functions available in templates.
func CustomFuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"toLower":   strings.ToLower,
		"toUpper":   strings.ToUpper,
		"trimSpace": strings.TrimSpace,
		"join":      strings.Join,
		"indent": func(spaces int, s string) string {
			pad := strings.Repeat(" ", spaces)
			lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
			for i, line := range lines {
				if line != "" {
					lines[i] = pad + line
				}
			}
			return strings.Join(lines, "\n")
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"toYAML": func(v any) string {
			out, err := EncodeYAML(v)
			if err != nil {
				return err.Error()
			}
			return string(out)
		},
	}
}
