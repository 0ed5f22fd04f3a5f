package widget

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"arcronym/internal/model"

	"github.com/yuin/goldmark"
	"mvdan.cc/xurls/v2"
)

const pageTemplate = `<div id="resources">
{{- range .Items}}
	<div class="resource{{if $.Selection.IsSelected .ID}} selected{{end}}" id="{{.ID}}"><div>{{.Icon.SVG}} {{.Title}}</div></div>
{{- end}}
</div>
<div id="content">{{with .Current}}{{template "contents" .}}{{end}}</div>`

const contentsTemplate = `<div class="header"><h1>{{.Title}}</h1></div><div class="body">{{.Contents}}</div>`

const fileTemplate = `{{if eq .Kind "image"}}<img src="{{.URL}}" alt="{{.Name}}">
{{else if eq .Kind "audio"}}<audio controls src="{{.URL}}"></audio>
{{else if eq .Kind "video"}}<video controls src="{{.URL}}"></video>
{{end}}<a href="{{.URL}}" download="{{.Name}}">{{.Name}}</a>`

const linkTemplate = `<a href="{{.}}" rel="noopener noreferrer" target="_blank">{{.}}</a>`

// Renderer turns resources into widget markup.
type Renderer struct {
	markdown goldmark.Markdown
	urls     *regexp.Regexp
	urlFor   func(hash string) string

	page *template.Template
	file *template.Template
	link *template.Template
}

// NewRenderer returns a renderer linking uploaded files through urlFor.
func NewRenderer(urlFor func(hash string) string) *Renderer {
	page := template.Must(template.New("page").Parse(pageTemplate))
	template.Must(page.New("contents").Parse(contentsTemplate))
	return &Renderer{
		markdown: goldmark.New(),
		urls:     xurls.Strict(),
		urlFor:   urlFor,
		page:     page,
		file:     template.Must(template.New("file").Parse(fileTemplate)),
		link:     template.Must(template.New("link").Parse(linkTemplate)),
	}
}

// Contents renders the detail pane body of a resource.
func (r *Renderer) Contents(res model.Resource) (template.HTML, error) {
	var buf bytes.Buffer
	switch info := model.ResourceInfoFor(res.Type); info.ID {
	case "markdown":
		// goldmark drops raw HTML unless configured otherwise
		if err := r.markdown.Convert([]byte(res.Content), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown of resource %s: %w", res.ID, err)
		}
	case "plain":
		return r.linkify(res.Content), nil
	case "link":
		if err := r.link.Execute(&buf, strings.TrimSpace(res.Content)); err != nil {
			return "", fmt.Errorf("rendering link of resource %s: %w", res.ID, err)
		}
	default:
		data := struct{ Kind, Name, URL string }{info.ID, res.Name, r.urlFor(res.Content)}
		if err := r.file.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("rendering file of resource %s: %w", res.ID, err)
		}
	}
	return template.HTML(buf.String()), nil
}

// linkify escapes text and turns the URLs in it into anchors.
func (r *Renderer) linkify(text string) template.HTML {
	var b strings.Builder
	last := 0
	for _, loc := range r.urls.FindAllStringIndex(text, -1) {
		b.WriteString(template.HTMLEscapeString(text[last:loc[0]]))
		u := template.HTMLEscapeString(text[loc[0]:loc[1]])
		fmt.Fprintf(&b, `<a href="%s" rel="noopener noreferrer">%s</a>`, u, u)
		last = loc[1]
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}

// Render writes the list and the detail pane of its selected item.
func (r *Renderer) Render(w io.Writer, l *List) error {
	var current *Item
	if id, ok := l.selection.Selected(); ok {
		current = l.Item(id)
	}
	return r.page.Execute(w, struct {
		Items     []*Item
		Selection *SelectionController
		Current   *Item
	}{l.items, l.selection, current})
}

// RenderContents writes the detail pane of a single item.
func (r *Renderer) RenderContents(w io.Writer, it *Item) error {
	return r.page.ExecuteTemplate(w, "contents", it)
}
