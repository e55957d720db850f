package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
	"github.com/matzehuels/cfgview/pkg/session"
)

const (
	frameInterval = 33 * time.Millisecond
	nudgeStep     = 25.0 // layout units moved per arrow key while dragging
	panelWidth    = 44
	chromeHeight  = 4 // title, status, tooltip and help lines
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(panelWidth - 2)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// frameMsg drives the layout clock from bubbletea's ticker.
type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// ViewerModel is the bubbletea model of the interactive viewer. Each frame advances
// the session's clock by the wall time since the previous frame. The cursor walks
// the visible nodes; arrow keys drag the node under the cursor.
type ViewerModel struct {
	sess *session.Session

	Width, Height int
	Cursor        int // index into the visible node ids
	Dragging      bool
	Paused        bool
	Status        string

	last time.Time
}

// NewViewerModel creates a viewer over a loaded session.
func NewViewerModel(sess *session.Session) ViewerModel {
	m := ViewerModel{sess: sess, Width: 100, Height: 32}
	m.hoverCursor()
	return m
}

func (m ViewerModel) Init() tea.Cmd {
	return nextFrame()
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		t := time.Time(msg)
		if !m.last.IsZero() && !m.Paused {
			m.sess.Advance(t.Sub(m.last))
		}
		m.last = t
		return m, nextFrame()
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.key(msg.String())
	}
	return m, nil
}

func (m ViewerModel) key(k string) (tea.Model, tea.Cmd) {
	m.Status = ""
	switch k {
	case "q", "ctrl+c":
		m.release()
		return m, tea.Quit
	case "tab", "n":
		m.release()
		m.moveCursor(1)
	case "shift+tab", "N":
		m.release()
		m.moveCursor(-1)
	case "enter":
		if id, ok := m.cursorID(); ok {
			if _, err := m.sess.Click(id); err != nil {
				m.Status = errors.UserMessage(err)
			}
		}
	case "esc":
		m.sess.Deselect()
	case "d":
		m.Dragging = false
		show := m.sess.ToggleDetails()
		m.clampCursor()
		m.hoverCursor()
		m.Status = "details hidden"
		if show {
			m.Status = "details shown"
		}
	case "up", "k":
		m.nudge(0, -nudgeStep)
	case "down", "j":
		m.nudge(0, nudgeStep)
	case "left", "h":
		m.nudge(-nudgeStep, 0)
	case "right", "l":
		m.nudge(nudgeStep, 0)
	case " ":
		m.release()
	case "p":
		m.Paused = !m.Paused
	}
	return m, nil
}

// visible returns the ids of the visible nodes in frame order.
func (m *ViewerModel) visible() []int {
	if v := m.sess.View(); v != nil {
		return v.NodeIDs()
	}
	return nil
}

func (m *ViewerModel) cursorID() (int, bool) {
	ids := m.visible()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[m.Cursor], true
}

func (m *ViewerModel) moveCursor(delta int) {
	n := len(m.visible())
	if n == 0 {
		return
	}
	m.Cursor = ((m.Cursor+delta)%n + n) % n
	m.hoverCursor()
}

func (m *ViewerModel) clampCursor() {
	if n := len(m.visible()); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
}

func (m *ViewerModel) hoverCursor() {
	if id, ok := m.cursorID(); ok {
		_, _ = m.sess.Hover(id)
	}
}

// nudge drags the cursor node by (dx, dy), starting a drag on the first move.
func (m *ViewerModel) nudge(dx, dy float64) {
	id, ok := m.cursorID()
	if !ok {
		return
	}
	p, _ := m.sess.Frame().Position(id)
	p = layout.Point{X: p.X + dx, Y: p.Y + dy}
	var err error
	if m.Dragging {
		err = m.sess.Drag(id, p)
	} else {
		err = m.sess.DragStart(id, p)
		m.Dragging = err == nil
	}
	if err != nil {
		m.Status = errors.UserMessage(err)
	}
}

func (m *ViewerModel) release() {
	if !m.Dragging {
		return
	}
	if id, ok := m.cursorID(); ok {
		_ = m.sess.DragEnd(id)
	}
	m.Dragging = false
}

func (m ViewerModel) View() string {
	g := m.sess.Graph()
	if g == nil {
		return "no graph loaded\n"
	}
	snap := m.sess.Frame()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(render.Title(g.Name())))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  tick %d  alpha %.3f", snap.Tick, snap.Alpha)))
	switch {
	case m.Paused:
		b.WriteString(StyleWarning.Render("  paused"))
	case snap.Settled:
		b.WriteString(StyleSuccess.Render("  settled"))
	}
	if m.Dragging {
		b.WriteString(StyleHighlight.Render("  dragging"))
	}
	b.WriteString("\n")

	cursor, marked := -1, -1
	if id, ok := m.cursorID(); ok {
		cursor = id
	}
	if id, ok := m.sess.Marked(); ok {
		marked = id
	}
	w, h := m.Width, max(m.Height-chromeHeight, 3)
	sel := m.sess.Selected()
	if sel != nil {
		w -= panelWidth
	}
	frame := drawFrame(snap, m.sess.Attributes(), max(w, 10), h, cursor, marked)
	if sel != nil {
		frame = lipgloss.JoinHorizontal(lipgloss.Top, frame, panelStyle.Render(strings.TrimRight(formatView(sel, false), "\n")))
	}
	b.WriteString(frame)
	b.WriteString("\n")

	if tip := m.sess.Hovered(); tip != nil {
		b.WriteString(StyleDim.Render(strings.ReplaceAll(tip.String(), "\n", " · ")))
	}
	if m.Status != "" {
		b.WriteString("  " + StyleWarning.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next · enter select · esc clear · arrows drag · space release · d details · p pause · q quit"))
	return b.String()
}
