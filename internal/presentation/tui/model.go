package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oolestudio/tamashi/pkg/domain"
)

// Controller is the part of a tutorial host the overlay drives.
type Controller interface {
	Advance()
	Dismiss()
	Reset()
	View() domain.View
}

type viewMsg domain.View

type viewsClosedMsg struct{}

// Model is the bubbletea overlay. It renders every view received on the
// views channel and turns key presses into store commands.
type Model struct {
	ctrl   Controller
	views  <-chan domain.View
	render Renderer

	view     domain.View
	width    int
	shown    bool // a visible view has been received
	quitting bool
}

// NewModel creates the overlay model.
func NewModel(ctrl Controller, views <-chan domain.View, render Renderer) Model {
	return Model{
		ctrl:   ctrl,
		views:  views,
		render: render,
		view:   ctrl.View(),
	}
}

func waitForView(views <-chan domain.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg(v)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForView(m.views)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = domain.View(msg)
		if m.view.Visible && m.view.Step != nil {
			m.shown = true
		} else if m.shown {
			// Finished or dismissed.
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForView(m.views)

	case viewsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter", " ", "space", "n":
			m.ctrl.Advance()
		case "r":
			m.ctrl.Reset()
		case "esc", "q":
			if m.view.Step != nil && !m.view.Step.Dismissible {
				return m, nil
			}
			m.ctrl.Dismiss()
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.view.Visible || m.view.Step == nil {
		return hintStyle.Render("(the guide is resting)") + "\n"
	}
	return RenderBubble(*m.view.Step, m.width, m.render) + "\n"
}

// Run starts the overlay on the terminal.
func Run(ctrl Controller, views <-chan domain.View, render Renderer, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewModel(ctrl, views, render), opts...).Run()
	return err
}
