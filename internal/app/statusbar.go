package app

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"github.com/abdullathedruid/emux/internal/config"
	"github.com/abdullathedruid/emux/internal/editor"
	"github.com/abdullathedruid/emux/internal/fileio"
	"github.com/abdullathedruid/emux/internal/ui"
	"github.com/abdullathedruid/emux/internal/version"
)

const statusViewName = "status"

// setStatusError records an error for the status bar. The assignment runs
// on the UI loop because flows call this from their own goroutine.
func (a *App) setStatusError(err error) {
	if a.post == nil {
		a.statusErr = err
		return
	}
	a.post(func() {
		a.statusErr = err
	})
}

// layoutStatusBar positions and fills the bottom status bar.
func (a *App) layoutStatusBar(g *gocui.Gui, l ui.Layout) error {
	v, err := g.SetView(statusViewName, l.X0, l.Y0, l.X1, l.Y1+1, 0)
	if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	v.Frame = false
	v.BgColor = config.ColorAttribute(a.config.Theme.Colors.StatusBarBg)
	v.FgColor = config.ColorAttribute(a.config.Theme.Colors.StatusBarFg)
	v.Clear()

	if a.statusErr != nil {
		fmt.Fprint(v, ui.ColorYellow+ui.Truncate(a.statusErr.Error(), l.Width())+ui.ColorReset)
		return nil
	}

	line, col := 1, 1
	fileType := fileio.PlainText
	if p := a.reg.Pane(a.reg.ActivePane()); p != nil {
		if s := p.CurrentSlot(); s != nil {
			buf := s.Buffer()
			line, col = editor.LineCol(buf.Text(), a.cursorFor(buf))
			fileType = fileio.DetectType(s.Path())
		}
	}
	fmt.Fprint(v, ui.RenderStatusBar(line, col, fileType, "UTF-8", version.Short(), l.Width()))
	return nil
}
