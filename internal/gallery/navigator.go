// Package gallery holds the photo list and the lightbox navigator.
package gallery

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-thoinoi/internal/config"
)

var (
	ErrEmptyGallery = errors.New(config.ErrEmptyGallery)
	ErrIndexRange   = errors.New(config.ErrIndexRange)
)

// Item is one photo. Items are created at load time and never mutated.
type Item struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Likes   int    `json:"likes"`

	// CaptionKey, when set, is translated with the baby's name in place of Caption.
	CaptionKey string `json:"-"`
}

// View is what the lightbox shows.
type View struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Visible bool   `json:"visible"`
	Counter string `json:"counter"`
	Item    Item   `json:"item"`
}

// Navigator keeps a current index into a fixed, non-empty list and whether
// the lightbox is showing. It is not safe for concurrent use.
type Navigator struct {
	items   []Item
	index   int
	visible bool
}

// NewNavigator creates a hidden navigator positioned on the first item.
func NewNavigator(items []Item) (*Navigator, error) {
	if len(items) == 0 {
		return nil, ErrEmptyGallery
	}
	return &Navigator{items: items}, nil
}

// Next advances by one, wrapping from the last item to the first.
func (n *Navigator) Next() {
	n.index = (n.index + 1) % len(n.items)
}

// Prev steps back by one, wrapping from the first item to the last.
func (n *Navigator) Prev() {
	n.index = (n.index - 1 + len(n.items)) % len(n.items)
}

// Open jumps to item i and shows the lightbox. An out-of-range index leaves
// the navigator untouched.
func (n *Navigator) Open(i int) error {
	if i < 0 || i >= len(n.items) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexRange, i, len(n.items))
	}
	n.index = i
	n.visible = true
	return nil
}

// Close hides the lightbox and keeps the index.
func (n *Navigator) Close() {
	n.visible = false
}

// Index is the position of the current photo.
func (n *Navigator) Index() int { return n.index }

// Visible reports whether the lightbox is open.
func (n *Navigator) Visible() bool { return n.visible }

// Len is the number of photos.
func (n *Navigator) Len() int { return len(n.items) }

// Current returns the photo at Index.
func (n *Navigator) Current() Item { return n.items[n.index] }

// Items returns the underlying list. Callers must not modify it.
func (n *Navigator) Items() []Item { return n.items }

// Position renders the lightbox counter, e.g. "2 / 4".
func (n *Navigator) Position() string {
	return fmt.Sprintf("%d / %d", n.index+1, len(n.items))
}

// View snapshots the lightbox state.
func (n *Navigator) View() View {
	return View{
		Index:   n.index,
		Total:   len(n.items),
		Visible: n.visible,
		Counter: n.Position(),
		Item:    n.Current(),
	}
}
