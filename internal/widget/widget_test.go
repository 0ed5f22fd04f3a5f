package widget

import (
	"strings"
	"testing"

	"arcronym/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *Renderer {
	return NewRenderer(func(hash string) string { return "https://blobs.test/" + hash })
}

func TestSelectionControllerSingleSelection(t *testing.T) {
	c := NewSelectionController()
	_, ok := c.Selected()
	assert.False(t, ok)

	c.Select("a")
	c.Select("b")
	assert.False(t, c.IsSelected("a"))
	assert.True(t, c.IsSelected("b"))

	c.Clear()
	assert.False(t, c.IsSelected("b"))
	assert.False(t, c.IsSelected(""))
}

func TestSelectionSharedBetweenLists(t *testing.T) {
	sel := NewSelectionController()
	first, second := NewList(sel), NewList(sel)
	a, err := first.AddDocument("A", "")
	require.NoError(t, err)
	b, err := second.AddDocument("B", "")
	require.NoError(t, err)

	first.Select(a.ID)
	second.Select(b.ID)

	assert.False(t, sel.IsSelected(a.ID))
	assert.True(t, sel.IsSelected(b.ID))
}

func TestAddDocument(t *testing.T) {
	l := NewList(NewSelectionController())

	_, err := l.AddDocument("", "body")
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, l.Items())

	a, err := l.AddDocument("Notes", "<b>bold</b>")
	require.NoError(t, err)
	b, err := l.AddDocument("More", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, strings.HasPrefix(a.ID, "resource-"))
	assert.Equal(t, IconDocument, a.Icon)
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", string(a.Contents))
	assert.Equal(t, "", string(b.Contents))
}

func TestSelectUnknownClears(t *testing.T) {
	l := NewList(NewSelectionController())
	a, _ := l.AddDocument("A", "")
	l.Select(a.ID)
	l.Select("resource-missing")

	_, ok := l.Selection().Selected()
	assert.False(t, ok)
}

func TestContentsByType(t *testing.T) {
	r := testRenderer()

	md, err := r.Contents(model.Resource{ID: "1", Type: model.TypeMarkdown, Content: "# Title\n\n<script>x</script>"})
	require.NoError(t, err)
	assert.Contains(t, string(md), "<h1>Title</h1>")
	assert.NotContains(t, string(md), "<script>")

	plain, err := r.Contents(model.Resource{ID: "2", Type: model.TypePlainText, Content: "see https://example.com/a?b=1&c=2 <now>"})
	require.NoError(t, err)
	assert.Equal(t,
		`see <a href="https://example.com/a?b=1&amp;c=2" rel="noopener noreferrer">https://example.com/a?b=1&amp;c=2</a> &lt;now&gt;`,
		string(plain))

	link, err := r.Contents(model.Resource{ID: "3", Type: model.TypeLink, Content: " https://example.com "})
	require.NoError(t, err)
	assert.Contains(t, string(link), `href="https://example.com"`)

	unsafe, err := r.Contents(model.Resource{ID: "4", Type: model.TypeLink, Content: "javascript:alert(1)"})
	require.NoError(t, err)
	assert.NotContains(t, string(unsafe), `href="javascript:`)

	img, err := r.Contents(model.Resource{ID: "5", Name: "cat.png", Type: "image/png", Content: "abc123"})
	require.NoError(t, err)
	assert.Contains(t, string(img), `<img src="https://blobs.test/abc123"`)
	assert.Contains(t, string(img), `download="cat.png"`)
}

func TestAddResourceIcons(t *testing.T) {
	r := testRenderer()
	l := NewList(NewSelectionController())

	video, err := l.AddResource(model.Resource{ID: "v1", Name: "Lecture", Type: "video/mp4", Content: "h"}, r)
	require.NoError(t, err)
	doc, err := l.AddResource(model.Resource{ID: "d1", Name: "Notes", Type: model.TypePlainText}, r)
	require.NoError(t, err)

	assert.Equal(t, IconVideo, video.Icon)
	assert.Equal(t, IconDocument, doc.Icon)
	assert.Equal(t, "resource-v1", video.ID)

	_, err = l.AddResource(model.Resource{ID: "x", Type: model.TypePlainText}, r)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestRenderMarksSelected(t *testing.T) {
	r := testRenderer()
	l := NewList(NewSelectionController())
	a, _ := l.AddDocument("Alpha", "first")
	b, _ := l.AddDocument("Beta", "second")
	l.Select(b.ID)

	var out strings.Builder
	require.NoError(t, r.Render(&out, l))
	html := out.String()

	assert.Contains(t, html, `class="resource selected" id="`+b.ID+`"`)
	assert.Contains(t, html, `class="resource" id="`+a.ID+`"`)
	assert.Equal(t, 1, strings.Count(html, "selected"))
	assert.Contains(t, html, `<div class="header"><h1>Beta</h1></div><div class="body">second</div>`)
}

func TestRenderContents(t *testing.T) {
	var out strings.Builder
	err := testRenderer().RenderContents(&out, &Item{Title: "<T>", Contents: "<p>ok</p>"})
	require.NoError(t, err)
	assert.Equal(t, `<div class="header"><h1>&lt;T&gt;</h1></div><div class="body"><p>ok</p></div>`, out.String())
}
