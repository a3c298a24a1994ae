package board

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/board.html"))

// StaticFiles serves the stylesheet and script of the board page.
var StaticFiles, _ = fs.Sub(staticFS, "static")

// Page is the data the board template renders.
type Page struct {
	State
	CSRFField   template.HTML
	HideAfterMS int64
}

// NewPage prepares st for rendering at now. A visible message carries the
// milliseconds left before it hides so the browser can hide it in place.
func NewPage(st State, csrfField template.HTML, now time.Time) Page {
	p := Page{State: st, CSRFField: csrfField}
	if st.Message.Visible {
		if left := st.Message.ExpiresAt.Sub(now); left > 0 {
			p.HideAfterMS = left.Milliseconds()
		} else {
			p.State.Message.Visible = false
		}
	}
	return p
}

// Render writes the board page.
func Render(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}

// RenderFallback writes a bare page carrying text, for when Render itself failed.
func RenderFallback(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w,
		"<!DOCTYPE html><html><head><title>Activities</title></head><body><p>%s</p></body></html>",
		EscapeHTML(text))
	return err
}
