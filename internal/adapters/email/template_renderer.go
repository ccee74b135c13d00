package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*
var templateFS embed.FS

// NoticeData is the input to the notice templates.
type NoticeData struct {
	Title  string
	Text   string
	Body   template.HTML
	SentAt string
}

// TemplateRenderer renders the embedded email templates.
type TemplateRenderer struct {
	md goldmark.Markdown
}

// NewTemplateRenderer returns a renderer over the embedded templates folder.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		md: goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
	}
}

// RenderNotice builds subject, html and text bodies for a notice. The subject
// is the notice's first line; the HTML body is the notice rendered as
// Markdown.
func (r *TemplateRenderer) RenderNotice(text, sentAt string) (subject, htmlBody, textBody string, err error) {
	var md bytes.Buffer
	if err := r.md.Convert([]byte(text), &md); err != nil {
		return "", "", "", fmt.Errorf("render markdown: %w", err)
	}
	data := NoticeData{
		Title:  firstLine(text),
		Text:   text,
		Body:   template.HTML(md.String()),
		SentAt: sentAt,
	}
	return r.Render("notice", data)
}

// Render executes the named template (e.g. "notice") with data and returns subject, html, and text bodies.
func (r *TemplateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
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

func (r *TemplateRenderer) renderFile(name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line)
}
