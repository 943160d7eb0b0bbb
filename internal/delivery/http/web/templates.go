// Package web serves the server-rendered form pages.
package web

import (
	"embed"
	"html/template"

	"advanced-form/internal/form"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// fieldView feeds the "field" partial.
type fieldView struct {
	Binding form.FieldBinding
	Label   string
	Type    string
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("pages").Funcs(template.FuncMap{
		"field": func(b form.FieldBinding, label, typ string) fieldView {
			return fieldView{Binding: b, Label: label, Type: typ}
		},
	}).ParseFS(templateFS, "templates/*.tmpl"))
}
