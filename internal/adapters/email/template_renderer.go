package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	texttemplate "text/template"

	"devevent/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Template names understood by the renderer.
const (
	TemplateBookingConfirmation = "booking_confirmation"
)

// templateRenderer implements domain.EmailTemplateRenderer on the embedded
// templates folder. Templates are parsed once and cached by file name.
type templateRenderer struct {
	mu    sync.Mutex
	html  map[string]*template.Template
	plain map[string]*texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer that loads templates from the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html:  make(map[string]*template.Template),
		plain: make(map[string]*texttemplate.Template),
	}
}

// Render executes the named template (e.g. "booking_confirmation") with data
// and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.renderFile(templateName+"_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderFile(templateName+".html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(templateName+".txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func (r *templateRenderer) renderFile(name string, data any, html bool) (string, error) {
	t, err := r.lookup(name, html)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *templateRenderer) lookup(name string, html bool) (executor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if html {
		if t, ok := r.html[name]; ok {
			return t, nil
		}
	} else if t, ok := r.plain[name]; ok {
		return t, nil
	}

	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, err
	}
	if html {
		t, err := template.New(name).Parse(string(raw))
		if err != nil {
			return nil, err
		}
		r.html[name] = t
		return t, nil
	}
	t, err := texttemplate.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, err
	}
	r.plain[name] = t
	return t, nil
}
