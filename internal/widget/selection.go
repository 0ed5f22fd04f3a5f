package widget

import "sync"

// SelectionController owns the selected marker of the resource widget. At most one item is
// selected; selecting an item deselects every other one.
type SelectionController struct {
	mu       sync.Mutex
	selected string
}

func NewSelectionController() *SelectionController {
	return &SelectionController{}
}

// Select makes id the only selected item.
func (c *SelectionController) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
}

// Clear deselects everything.
func (c *SelectionController) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// Selected returns the selected item, and false when nothing is selected.
func (c *SelectionController) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

func (c *SelectionController) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return id != "" && c.selected == id
}
