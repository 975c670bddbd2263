package app

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/ui"
)

const inputViewName = "input"

type inputResult struct {
	text string
	ok   bool
}

// inputRequest is one pending text entry.
type inputRequest struct {
	title  string
	buffer string
	done   chan inputResult
}

// inputModal collects a line of text (file names, destinations) in a
// centered modal. Like modalPrompter it blocks the flow goroutine while
// the UI loop drives the modal.
type inputModal struct {
	gui        *gocui.Gui
	frameColor gocui.Attribute

	mu     sync.Mutex
	active *inputRequest
}

func newInputModal(frameColor gocui.Attribute) *inputModal {
	return &inputModal{frameColor: frameColor}
}

// Ask shows the modal seeded with suggested and waits for the entry. ok is
// false when the user backs out. Must not be called from the UI loop.
func (m *inputModal) Ask(title, suggested string) (string, bool) {
	req := &inputRequest{title: title, buffer: suggested, done: make(chan inputResult, 1)}

	m.mu.Lock()
	m.active = req
	m.mu.Unlock()

	m.gui.Update(func(g *gocui.Gui) error { return nil })

	res := <-req.done
	return res.text, res.ok
}

func (m *inputModal) visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != nil
}

func (m *inputModal) resolve(g *gocui.Gui, res inputResult) error {
	m.mu.Lock()
	req := m.active
	m.active = nil
	m.mu.Unlock()

	if req == nil {
		return nil
	}
	g.DeleteView(inputViewName)
	req.done <- res
	return nil
}

// Layout shows the modal when an entry is pending.
func (m *inputModal) Layout(g *gocui.Gui) error {
	m.mu.Lock()
	req := m.active
	m.mu.Unlock()

	if req == nil {
		return nil
	}

	maxX, maxY := g.Size()
	x0, y0, x1, y1 := ui.ModalDimensions(maxX, maxY, 56, 2)

	v, err := g.SetView(inputViewName, x0, y0, x1, y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}

	ui.ConfigureInputView(v, req.title, req.buffer, m.frameColor)
	v.Editor = gocui.EditorFunc(m.edit)

	if _, err := g.SetCurrentView(inputViewName); err != nil {
		return err
	}
	return nil
}

// edit handles key input for the modal.
func (m *inputModal) edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	m.mu.Lock()
	req := m.active
	m.mu.Unlock()
	if req == nil {
		return false
	}

	switch {
	case key == gocui.KeyEnter:
		m.resolve(m.gui, inputResult{text: req.buffer, ok: req.buffer != ""})
	case key == gocui.KeyEsc:
		m.resolve(m.gui, inputResult{})
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		if len(req.buffer) > 0 {
			req.buffer = req.buffer[:len(req.buffer)-1]
		}
		ui.ConfigureInputView(v, req.title, req.buffer, m.frameColor)
	case ch != 0 && mod == gocui.ModNone:
		req.buffer += string(ch)
		ui.ConfigureInputView(v, req.title, req.buffer, m.frameColor)
	case key == gocui.KeySpace:
		req.buffer += " "
		ui.ConfigureInputView(v, req.title, req.buffer, m.frameColor)
	default:
		return false
	}
	return true
}
