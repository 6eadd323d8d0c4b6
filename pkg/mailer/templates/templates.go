package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData carries the fields the embedded templates render.
type EmailData struct {
	Name      string
	Email     string
	AppName   string
	VerifyURL string
}

var parsed = htmpl.Must(htmpl.ParseFS(FS, "*.tmpl"))

// Render executes the named template ("verify_email", "welcome") against data.
func Render(name string, data EmailData) (string, error) {
	if data.AppName == "" {
		data.AppName = "CourseHub"
	}
	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
