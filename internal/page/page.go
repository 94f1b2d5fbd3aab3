// Package page holds the HTML document whose id-addressed elements the
// climate widget writes into.
//
// The document is parsed once with goquery and then shared between the
// widget, which overwrites slot text, and the HTTP server, which renders the
// current state. All access goes through the Page lock.
package page

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

//go:embed templates/home.html
var homeHTML []byte

// ErrSlotNotFound is returned when no element carries the requested id.
var ErrSlotNotFound = errors.New("slot not found")

type Page struct {
	mu  sync.RWMutex
	doc *goquery.Document
}

// Slot is a non-owning reference to one element of a Page.
type Slot struct {
	page *Page
	id   string
	sel  *goquery.Selection
}

// SlotText pairs a slot with the text it should display.
type SlotText struct {
	Slot *Slot
	Text string
}

// Load parses an HTML document.
func Load(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// LoadDefault parses the embedded dashboard page.
func LoadDefault() (*Page, error) {
	return Load(bytes.NewReader(homeHTML))
}

// Slot looks up the element with the given id. The first match wins.
func (p *Page) Slot(id string) (*Slot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sel := p.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, id)
	}
	return &Slot{page: p, id: id, sel: sel}, nil
}

// SetTexts replaces the text of every given slot under a single write lock,
// so readers never observe a partial update.
func (p *Page) SetTexts(updates ...SlotText) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range updates {
		if u.Slot.page != p {
			continue
		}
		u.Slot.sel.SetText(u.Text)
	}
}

// Render writes the current document as HTML.
func (p *Page) Render(w io.Writer) error {
	p.mu.RLock()
	html, err := p.doc.Html()
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	_, err = io.WriteString(w, html)
	return err
}

func (s *Slot) ID() string {
	return s.id
}

// SetText replaces the slot's text content.
func (s *Slot) SetText(text string) {
	s.page.SetTexts(SlotText{Slot: s, Text: text})
}

// Text returns the slot's current text content.
func (s *Slot) Text() string {
	s.page.mu.RLock()
	defer s.page.mu.RUnlock()
	return s.sel.Text()
}
