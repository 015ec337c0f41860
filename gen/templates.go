package gen

import (
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

var (
	styleFunctionTmpl = template.Must(template.New("style-function").Funcs(sprig.FuncMap()).Parse(
		`pub fn {{ .Name }}() -> Style {
    Style::new(
        r#"
{{ .Body | indent 8 }}
        "#,
    )
    .expect("Failed to create {{ .Name }} styles")
}
`))

	componentFileTmpl = template.Must(template.New("component-file").Funcs(sprig.FuncMap()).Parse(
		`//! {{ .Name | replace "_" " " | title }} styles

use stylist::Style;

{{ range $i, $fn := .Functions }}{{ if $i }}
{{ end }}{{ $fn }}{{ end }}`))

	modFileTmpl = template.Must(template.New("mod-file").Funcs(sprig.FuncMap()).Parse(
		`//! {{ .Doc }}

{{ range .Components }}pub mod {{ . }};
{{ end }}
// Re-export all component styles
{{ range .Components }}pub use {{ . }}::*;
{{ end }}`))
)

type styleFunctionData struct {
	Name string
	Body string
}

type componentFileData struct {
	Name      string
	Functions []string
}

type modFileData struct {
	Doc        string
	Components []string
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
