package ui

// StatusBarHeight is the height reserved for the status bar at the bottom.
const StatusBarHeight = 2

// SidebarWidth is the width of the file tree sidebar in characters.
const SidebarWidth = 28

// Layout represents the position and size of a view in screen coordinates.
type Layout struct {
	X0, Y0, X1, Y1 int
}

// Width returns the interior width (excluding borders).
func (l Layout) Width() int {
	w := l.X1 - l.X0 - 1
	if w < 1 {
		return 1
	}
	return w
}

// Height returns the interior height (excluding borders).
func (l Layout) Height() int {
	h := l.Y1 - l.Y0 - 1
	if h < 1 {
		return 1
	}
	return h
}

// Screen holds the layouts for one frame: the optional sidebar, one layout
// per editor pane, and the status bar.
type Screen struct {
	Sidebar *Layout
	Panes   []Layout
	Status  Layout
}

// CalculateScreen lays out the whole frame. Pane layouts follow the order
// of the pane list:
//
//	1 pane:  [    1    ]
//	2 panes: [  1  ][  2  ]
//	3 panes: [  1  ][  2  ]
//	         [      3      ]
//	4 panes: [  1  ][  2  ]
//	         [  3  ][  4  ]
//
// For 5+ panes the top row has ceil(n/2) panes and the bottom floor(n/2).
func CalculateScreen(paneCount, maxX, maxY int, showSidebar bool) Screen {
	var s Screen
	s.Status = Layout{0, maxY - StatusBarHeight, maxX - 1, maxY - 1}

	x0 := 0
	if showSidebar {
		w := SidebarWidth
		if w > maxX/3 {
			w = maxX / 3
		}
		if w < 10 {
			w = 10
		}
		s.Sidebar = &Layout{0, 0, w - 1, maxY - StatusBarHeight - 1}
		x0 = w
	}
	s.Panes = paneLayouts(paneCount, x0, maxX, maxY-StatusBarHeight)
	return s
}

func paneLayouts(count, x0, maxX, maxY int) []Layout {
	if count == 0 {
		return nil
	}
	layouts := make([]Layout, count)
	width := maxX - x0

	switch count {
	case 1:
		layouts[0] = Layout{x0, 0, maxX - 1, maxY - 1}
	case 2:
		halfX := x0 + width/2
		layouts[0] = Layout{x0, 0, halfX - 1, maxY - 1}
		layouts[1] = Layout{halfX, 0, maxX - 1, maxY - 1}
	case 3:
		halfX := x0 + width/2
		halfY := maxY / 2
		layouts[0] = Layout{x0, 0, halfX - 1, halfY - 1}
		layouts[1] = Layout{halfX, 0, maxX - 1, halfY - 1}
		layouts[2] = Layout{x0, halfY, maxX - 1, maxY - 1}
	case 4:
		halfX := x0 + width/2
		halfY := maxY / 2
		layouts[0] = Layout{x0, 0, halfX - 1, halfY - 1}
		layouts[1] = Layout{halfX, 0, maxX - 1, halfY - 1}
		layouts[2] = Layout{x0, halfY, halfX - 1, maxY - 1}
		layouts[3] = Layout{halfX, halfY, maxX - 1, maxY - 1}
	default:
		topCount := (count + 1) / 2
		bottomCount := count - topCount
		halfY := maxY / 2

		for i := range topCount {
			cx0 := x0 + (width*i)/topCount
			cx1 := x0 + (width*(i+1))/topCount
			layouts[i] = Layout{cx0, 0, cx1 - 1, halfY - 1}
		}
		for i := range bottomCount {
			cx0 := x0 + (width*i)/bottomCount
			cx1 := x0 + (width*(i+1))/bottomCount
			layouts[topCount+i] = Layout{cx0, halfY, cx1 - 1, maxY - 1}
		}
	}
	return layouts
}
