package templates

import (
	"html/template"
	"strings"
)

// ParseTemplates parses HTML templates from the embedded filesystem.
// It takes a variadic list of template file names and returns a parsed template
// or an error if parsing fails.
func ParseTemplates(files ...string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		// css marks a value already checked to be a plain color literal.
		"css": func(s string) template.CSS {
			if strings.HasPrefix(s, "#") && len(s) <= 9 {
				return template.CSS(s)
			}
			return ""
		},
	}

	return template.New("").Funcs(funcMap).ParseFS(FS, files...)
}
