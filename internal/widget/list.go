// Package widget renders the resource list of a course page and its detail pane.
package widget

import (
	"errors"
	"html/template"
	"strconv"
	"sync/atomic"

	"arcronym/internal/model"
)

var ErrTitleRequired = errors.New("resource title is required")

// Item ids must be unique across every list of a page.
var itemSeq atomic.Uint64

// Item is an entry of the resource list. Contents is the rendered body of the detail pane.
type Item struct {
	ID       string
	Icon     Icon
	Title    string
	Contents template.HTML
}

// List is an ordered resource list sharing one selection controller with the rest of the page.
type List struct {
	selection *SelectionController
	items     []*Item
}

func NewList(selection *SelectionController) *List {
	return &List{selection: selection}
}

func (l *List) Items() []*Item {
	return l.items
}

func (l *List) Selection() *SelectionController {
	return l.selection
}

// Item returns the item with the given id, or nil.
func (l *List) Item(id string) *Item {
	for _, it := range l.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// AddDocument appends a document with plain text contents.
func (l *List) AddDocument(title, contents string) (*Item, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	it := &Item{
		ID:       "resource-" + strconv.FormatUint(itemSeq.Add(1), 10),
		Icon:     IconDocument,
		Title:    title,
		Contents: template.HTML(template.HTMLEscapeString(contents)),
	}
	l.items = append(l.items, it)
	return it, nil
}

// AddResource appends a stored resource. Its item id is derived from the resource id so a page
// can select it from a link.
func (l *List) AddResource(res model.Resource, r *Renderer) (*Item, error) {
	if res.Name == "" {
		return nil, ErrTitleRequired
	}
	contents, err := r.Contents(res)
	if err != nil {
		return nil, err
	}
	it := &Item{
		ID:       ResourceItemID(res.ID),
		Icon:     iconFor(res.Type),
		Title:    res.Name,
		Contents: contents,
	}
	l.items = append(l.items, it)
	return it, nil
}

// Select selects the item with the given id. Unknown ids clear the selection.
func (l *List) Select(id string) {
	if l.Item(id) == nil {
		l.selection.Clear()
		return
	}
	l.selection.Select(id)
}

// ResourceItemID is the list item id of a stored resource.
func ResourceItemID(resourceID string) string {
	return "resource-" + resourceID
}

func iconFor(contentType string) Icon {
	if model.ResourceInfoFor(contentType).ID == "video" {
		return IconVideo
	}
	return IconDocument
}
