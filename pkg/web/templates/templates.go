package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

//go:embed *.html.tmpl
var FS embed.FS

// ---- Page names ----

const (
	ListPage   = "list"
	DetailPage = "detail"
	SearchPage = "search"
	ErrorPage  = "error"
)

const layoutFile = "layout.html.tmpl"

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		if rv.IsZero() {
			return fallback
		}
		return value
	}
}

// initials returns the first letter of each name, used when a user has no picture.
func initials(first, last string) string {
	var b strings.Builder
	for _, s := range []string{first, last} {
		if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s)); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// formatDate renders a birth date; the zero time means unknown.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format("January 2, 2006")
}

var funcMap = htmpl.FuncMap{
	"now":        func() time.Time { return time.Now().UTC() },
	"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
	"formatDate": formatDate,
	"upper":      strings.ToUpper,
	"default":    defaultFn,
	"initials":   initials,
}

var (
	parseOnce sync.Once
	pages     map[string]*htmpl.Template
	parseErr  error
)

// parseAll parses every page together with the shared layout.
func parseAll() {
	pages = make(map[string]*htmpl.Template)
	for _, name := range []string{ListPage, DetailPage, SearchPage, ErrorPage} {
		filename := name + ".html.tmpl"
		tpl, err := htmpl.New(layoutFile).Funcs(funcMap).ParseFS(FS, layoutFile, filename)
		if err != nil {
			parseErr = fmt.Errorf("parse html %q: %w", filename, err)
			return
		}
		pages[name] = tpl
	}
}

// Render executes the named page into w. Output is buffered so a failed
// execution never leaves a half-written page.
func Render(w io.Writer, name string, data any) error {
	parseOnce.Do(parseAll)
	if parseErr != nil {
		return parseErr
	}
	tpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("exec %q: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderHTML renders the named page to a string.
func RenderHTML(name string, data any) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, name, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
