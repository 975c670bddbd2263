package app

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/prompt"
	"github.com/abdullathedruid/emux/internal/ui"
)

const promptViewName = "prompt"

// promptRequest is one pending confirmation.
type promptRequest struct {
	kind   prompt.Kind
	detail string
	done   chan prompt.Decision
}

// modalPrompter satisfies prompt.Prompter by showing a gocui modal. Prompt
// blocks the calling flow goroutine until a key handler resolves the
// request on the UI loop; only one request is ever pending because flows
// are serialized by the app's busy flag.
type modalPrompter struct {
	gui        *gocui.Gui
	frameColor gocui.Attribute

	mu     sync.Mutex
	active *promptRequest
}

func newModalPrompter(frameColor gocui.Attribute) *modalPrompter {
	return &modalPrompter{frameColor: frameColor}
}

// Prompt shows the modal and waits for a decision. It must not be called
// from the UI loop.
func (p *modalPrompter) Prompt(kind prompt.Kind, detail string) prompt.Decision {
	req := &promptRequest{kind: kind, detail: detail, done: make(chan prompt.Decision, 1)}

	p.mu.Lock()
	p.active = req
	p.mu.Unlock()

	// Wake the UI loop so Layout picks up the modal.
	p.gui.Update(func(g *gocui.Gui) error { return nil })

	return <-req.done
}

// resolve completes the pending request. Called from key handlers on the
// UI loop; a stray key with no pending request is ignored.
func (p *modalPrompter) resolve(g *gocui.Gui, d prompt.Decision) error {
	p.mu.Lock()
	req := p.active
	p.active = nil
	p.mu.Unlock()

	if req == nil {
		return nil
	}
	g.DeleteView(promptViewName)
	req.done <- d
	return nil
}

// visible reports whether a request is pending.
func (p *modalPrompter) visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// Layout shows the modal when a request is pending.
func (p *modalPrompter) Layout(g *gocui.Gui) error {
	p.mu.Lock()
	req := p.active
	p.mu.Unlock()

	if req == nil {
		return nil
	}

	maxX, maxY := g.Size()
	x0, y0, x1, y1 := ui.ModalDimensions(maxX, maxY, 56, 6)

	v, err := g.SetView(promptViewName, x0, y0, x1, y1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}

	ui.ConfigurePromptView(v, promptTitle(req.kind), promptMessage(req), promptChoices(req.kind), p.frameColor)

	if _, err := g.SetCurrentView(promptViewName); err != nil {
		return err
	}
	return nil
}

// Keybindings installs the modal's decision keys.
func (p *modalPrompter) Keybindings(g *gocui.Gui) error {
	bind := func(key any, d prompt.Decision, kinds ...prompt.Kind) error {
		return g.SetKeybinding(promptViewName, key, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
			p.mu.Lock()
			req := p.active
			p.mu.Unlock()
			if req == nil {
				return nil
			}
			for _, k := range kinds {
				if req.kind == k {
					return p.resolve(g, d)
				}
			}
			return nil
		})
	}

	if err := bind('s', prompt.DecisionSave, prompt.UnsavedChanges); err != nil {
		return err
	}
	if err := bind('d', prompt.DecisionDiscard, prompt.UnsavedChanges); err != nil {
		return err
	}
	if err := bind('o', prompt.DecisionOverwrite, prompt.Overwrite); err != nil {
		return err
	}
	if err := bind('m', prompt.DecisionMerge, prompt.MergeDirectories); err != nil {
		return err
	}
	return g.SetKeybinding(promptViewName, gocui.KeyEsc, gocui.ModNone, func(g *gocui.Gui, v *gocui.View) error {
		return p.resolve(g, prompt.DecisionCancel)
	})
}

func promptTitle(k prompt.Kind) string {
	switch k {
	case prompt.UnsavedChanges:
		return "Unsaved Changes"
	case prompt.Overwrite:
		return "Overwrite File"
	case prompt.MergeDirectories:
		return "Merge Directories"
	default:
		return "Confirm"
	}
}

func promptMessage(req *promptRequest) string {
	switch req.kind {
	case prompt.UnsavedChanges:
		return "Save changes to " + req.detail + "?"
	case prompt.Overwrite:
		return req.detail + " already exists. Overwrite it?"
	case prompt.MergeDirectories:
		return req.detail + " already exists. Merge the directories?"
	default:
		return req.detail
	}
}

func promptChoices(k prompt.Kind) string {
	switch k {
	case prompt.UnsavedChanges:
		return "s: save  d: discard  esc: cancel"
	case prompt.Overwrite:
		return "o: overwrite  esc: cancel"
	case prompt.MergeDirectories:
		return "m: merge  esc: cancel"
	default:
		return "esc: cancel"
	}
}
